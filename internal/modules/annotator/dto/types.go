package dto

import "time"

type AnnotatorInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Enabled      bool     `json:"enabled"`
	Binary       string   `json:"binary"`
	Capabilities []string `json:"capabilities"`
}

type DoctorResult struct {
	Name            string `json:"name"`
	ChecksumValid   bool   `json:"checksum_valid"`
	BinaryReachable bool   `json:"binary_reachable"`
	LifecycleOK     bool   `json:"lifecycle_ok"`
	Model           string `json:"model,omitempty"`
	Error           string `json:"error,omitempty"`
}

type AnnotateInput struct {
	// Annotator selects a plugin by name; empty picks the first enabled annotate plugin.
	Annotator      string
	ScreenshotPath string
	CapturedAt     time.Time
	Hints          map[string]string
}

type AnnotationOutput struct {
	Annotator   string
	WindowTitle string
	Category    string
	OCRText     string
	Model       string
}
