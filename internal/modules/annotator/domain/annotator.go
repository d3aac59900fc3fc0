package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

type Capability string

const (
	CapabilityAnnotate Capability = "annotate"
	CapabilityOCR      Capability = "ocr"
)

var (
	ErrAnnotatorDisabled = errors.New("annotator is disabled")
	ErrChecksumMismatch  = errors.New("annotator checksum mismatch")
	ErrCapabilityMissing = errors.New("annotator capability missing")
	ErrAnnotatorTimeout  = errors.New("annotator timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest registers one annotator plugin binary.
type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Binary       string       `json:"binary"`
	SHA256       string       `json:"sha256"`
	Enabled      bool         `json:"enabled"`
	Capabilities []Capability `json:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("annotator name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("annotator version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("annotator binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("annotator sha256 must be lowercase 64-char hex")
	}
	if len(m.Capabilities) == 0 {
		return fmt.Errorf("annotator capabilities are required")
	}
	seen := map[Capability]struct{}{}
	for _, capability := range m.Capabilities {
		if err := capability.Validate(); err != nil {
			return err
		}
		if _, ok := seen[capability]; ok {
			return fmt.Errorf("duplicate capability: %s", capability)
		}
		seen[capability] = struct{}{}
	}
	return nil
}

func (c Capability) Validate() error {
	switch c {
	case CapabilityAnnotate, CapabilityOCR:
		return nil
	default:
		return fmt.Errorf("unknown capability: %s", c)
	}
}

func (m Manifest) HasCapability(capability Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

type Metadata struct {
	Name         string
	Version      string
	Model        string
	Capabilities []Capability
}

type AnnotateRequest struct {
	ScreenshotPath string
	CapturedAt     time.Time
	Hints          map[string]string
}

func (r AnnotateRequest) Validate() error {
	if r.ScreenshotPath == "" {
		return fmt.Errorf("screenshot path is required")
	}
	return nil
}

type Annotation struct {
	WindowTitle string
	Category    string
	OCRText     string
	Model       string
}
