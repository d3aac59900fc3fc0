package domain

import (
	"math"
	"time"
)

// ComputeConfidence scores how well observed density and gaps support the
// session's duration. The ratio is computed before the gap penalty.
func ComputeConfidence(session TaskSession, interval time.Duration) float64 {
	duration := session.Duration().Seconds()
	expected := 0.0
	if interval > 0 {
		expected = duration / interval.Seconds()
	}
	ratio := math.Min(1.0, float64(session.ScreenshotCount)/math.Max(1, expected))

	gapRatio := 0.0
	if duration > 0 {
		gapRatio = session.TotalGap().Seconds() / duration
	}
	penalty := math.Max(0, 1-gapRatio*2)

	return clamp01(ratio * penalty)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
