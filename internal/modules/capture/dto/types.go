package dto

import "time"

type RecordInput struct {
	CapturedAt     time.Time
	WindowTitle    string
	Category       string
	OCRText        string
	ScreenshotPath string
}

type IngestInput struct {
	Path       string
	CapturedAt time.Time
	Annotator  string
}

type ListInput struct {
	From time.Time
	To   time.Time
}

type ObservationOutput struct {
	ID             string    `json:"id"`
	CapturedAt     time.Time `json:"timestamp"`
	ScreenshotPath string    `json:"screenshot_path,omitempty"`
	WindowTitle    string    `json:"window_title"`
	Category       string    `json:"category"`
	OCRText        string    `json:"ocr_text,omitempty"`
	Source         string    `json:"source"`
}

type ImportOutput struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
