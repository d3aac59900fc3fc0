package domain_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"tasktrail/internal/modules/tracker/domain"
)

func TestExtractTaskName(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("a", 75)
	cases := []struct{ in, want string }{
		{"", "Unknown"},
		{"   ", "Unknown"},
		{"Pull requests - Google Chrome", "Pull requests"},
		{"segmenter.go - Visual Studio Code", "segmenter.go"},
		{"#eng - Slack", "#eng"},
		{"Spreadsheet", "Spreadsheet"},
		{"Docs - Google Chrome", "Docs"},
		{"Release notes — Mozilla Firefox", "Release notes"},
		{long, strings.Repeat("a", 57) + "..."},
		{"Chrome - Google Chrome - Notion", "Chrome - Google Chrome"},
	}
	for _, tc := range cases {
		if got := domain.ExtractTaskName(tc.in); got != tc.want {
			t.Fatalf("ExtractTaskName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractTaskNameTruncatesByRune(t *testing.T) {
	t.Parallel()
	title := strings.Repeat("é", 80)
	got := domain.ExtractTaskName(title)
	if utf8.RuneCountInString(got) != 60 || !utf8.ValidString(got) {
		t.Fatalf("expected 60 valid runes, got %d (%q)", utf8.RuneCountInString(got), got)
	}
}
