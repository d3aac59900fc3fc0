package service

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	apperrors "tasktrail/internal/platform/errors"
)

const maxLineBytes = 4 << 20

type jsonlRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	WindowTitle    string    `json:"window_title"`
	Category       string    `json:"category"`
	OCRText        string    `json:"ocr_text"`
	ScreenshotPath string    `json:"screenshot_path"`
}

func decodeJSONL(r io.Reader) ([]jsonlRecord, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		records []jsonlRecord
		skipped int
		line    int
	)
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			skipped++
			continue
		}
		var rec jsonlRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, 0, fmt.Errorf("%w: line %d: %v", apperrors.ErrInvalidInput, line, err)
		}
		if rec.Timestamp.IsZero() {
			return nil, 0, fmt.Errorf("%w: line %d: timestamp is required", apperrors.ErrInvalidInput, line)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read jsonl: %w", err)
	}
	return records, skipped, nil
}
