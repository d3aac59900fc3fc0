package in

import (
	"fmt"
	"strings"
	"time"

	"tasktrail/internal/modules/tracker/dto"
	"tasktrail/internal/platform/clock"
	apperrors "tasktrail/internal/platform/errors"
)

const DayLayout = "2006-01-02"

// ParseWindow resolves a --day or --from/--to pair into a window. With no
// bounds at all it returns the local day containing now.
func ParseWindow(day, from, to string, now time.Time) (dto.WindowInput, error) {
	day, from, to = strings.TrimSpace(day), strings.TrimSpace(from), strings.TrimSpace(to)
	if day != "" && (from != "" || to != "") {
		return dto.WindowInput{}, fmt.Errorf("%w: day cannot be combined with from/to", apperrors.ErrInvalidInput)
	}
	if from == "" && to == "" {
		start, err := ParseDay(day, now)
		if err != nil {
			return dto.WindowInput{}, err
		}
		start, end := clock.DayBounds(start)
		return dto.WindowInput{From: start, To: end}, nil
	}
	if from == "" || to == "" {
		return dto.WindowInput{}, fmt.Errorf("%w: both from and to are required", apperrors.ErrInvalidInput)
	}
	start, err := ParseInstant(from, now.Location())
	if err != nil {
		return dto.WindowInput{}, err
	}
	end, err := ParseInstant(to, now.Location())
	if err != nil {
		return dto.WindowInput{}, err
	}
	return dto.WindowInput{From: start, To: end}, nil
}

// ParseDay parses YYYY-MM-DD in now's location; empty means today.
func ParseDay(day string, now time.Time) (time.Time, error) {
	day = strings.TrimSpace(day)
	if day == "" {
		return now, nil
	}
	t, err := time.ParseInLocation(DayLayout, day, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day must be YYYY-MM-DD: %q", apperrors.ErrInvalidInput, day)
	}
	return t, nil
}

// ParseInstant accepts RFC3339 or a zone-less local timestamp in loc.
func ParseInstant(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04", DayLayout} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized time %q", apperrors.ErrInvalidInput, raw)
}
