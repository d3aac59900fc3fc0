package domain

import "time"

// Observation is one annotated screenshot as seen by the segmenter.
type Observation struct {
	Timestamp   time.Time
	WindowTitle string
	Category    string
	OCRText     string
}
