package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	SourceManual     = "manual"
	SourceImport     = "import"
	SourceScreenshot = "screenshot"

	DefaultCategory = "Other"
)

// Observation is one stored activity sample.
type Observation struct {
	ID             string
	CapturedAt     time.Time
	ScreenshotPath string
	WindowTitle    string
	Category       string
	OCRText        string
	Source         string
}

// Normalize trims text fields and defaults an empty category.
func (o Observation) Normalize() Observation {
	o.WindowTitle = strings.TrimSpace(o.WindowTitle)
	o.Category = strings.TrimSpace(o.Category)
	if o.Category == "" {
		o.Category = DefaultCategory
	}
	if o.Source == "" {
		o.Source = SourceManual
	}
	return o
}

func (o Observation) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if o.CapturedAt.IsZero() {
		return fmt.Errorf("captured_at is required")
	}
	return nil
}

type AnnotationRequest struct {
	ScreenshotPath string
	CapturedAt     time.Time
	Annotator      string
}

// Annotation is what an external annotator derives from one screenshot.
type Annotation struct {
	WindowTitle string
	Category    string
	OCRText     string
	Model       string
}
