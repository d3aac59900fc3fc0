package markdown_test

import (
	"strings"
	"testing"

	"tasktrail/internal/platform/markdown"
)

type header struct {
	Day      string `yaml:"day"`
	Sessions int    `yaml:"sessions"`
}

func TestRenderNoteRoundTrip(t *testing.T) {
	t.Parallel()
	rendered, err := markdown.RenderNote(header{Day: "2026-03-02", Sessions: 3}, "# Activity\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(rendered, "---\nday: \"2026-03-02\"\nsessions: 3\n---\n\n# Activity\n") {
		t.Fatalf("unexpected rendering:\n%s", rendered)
	}
	note, err := markdown.ParseNote(rendered)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if note.Body != "# Activity\n" {
		t.Fatalf("unexpected body %q", note.Body)
	}
	var got header
	if err := note.Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Day != "2026-03-02" || got.Sessions != 3 {
		t.Fatalf("unexpected header: %+v", got)
	}
}

func TestParseNoteWithoutHeader(t *testing.T) {
	t.Parallel()
	note, err := markdown.ParseNote("plain text\r\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if note.Header != "" || note.Body != "plain text\n" {
		t.Fatalf("unexpected note: %+v", note)
	}
	var got header
	if err := note.Decode(&got); err != nil {
		t.Fatalf("decode empty header: %v", err)
	}
}

func TestParseNoteRejectsUnterminatedHeader(t *testing.T) {
	t.Parallel()
	if _, err := markdown.ParseNote("---\nday: 2026-03-02\n# Activity\n"); err == nil {
		t.Fatalf("expected unterminated header error")
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	note, err := markdown.ParseNote("---\nday: \"2026-03-02\"\nmood: good\n---\nbody\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var got header
	if err := note.Decode(&got); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

var block = markdown.Block{Start: "<!-- gen:start -->", End: "<!-- gen:end -->"}

func TestBlockReplaceAppendsThenReplaces(t *testing.T) {
	t.Parallel()
	body := block.Replace("# Title\n\nmy notes\n", "v1")
	want := "# Title\n\nmy notes\n\n<!-- gen:start -->\nv1\n<!-- gen:end -->\n"
	if body != want {
		t.Fatalf("unexpected append:\n%q", body)
	}
	body = block.Replace(body+"\nlater notes\n", "v2\n")
	if !strings.Contains(body, "my notes") || !strings.Contains(body, "later notes") {
		t.Fatalf("user text lost:\n%s", body)
	}
	inner, ok := block.Extract(body)
	if !ok || inner != "v2" {
		t.Fatalf("expected v2 block, got %q (%v)", inner, ok)
	}
}

func TestBlockReplaceEmptyBody(t *testing.T) {
	t.Parallel()
	if got := block.Replace("", "x"); got != "<!-- gen:start -->\nx\n<!-- gen:end -->\n" {
		t.Fatalf("unexpected block: %q", got)
	}
}

func TestBlockReplaceCollapsesDuplicates(t *testing.T) {
	t.Parallel()
	body := "a\n\n<!-- gen:start -->\nold\n<!-- gen:end -->\n\nb\n\n<!-- gen:start -->\nolder\n<!-- gen:end -->\n"
	got := block.Replace(body, "new")
	if strings.Count(got, block.Start) != 1 {
		t.Fatalf("expected one block:\n%s", got)
	}
	if strings.Contains(got, "old") || !strings.Contains(got, "\nb") {
		t.Fatalf("unexpected result:\n%s", got)
	}
}

func TestBlockReplaceIgnoresDanglingStart(t *testing.T) {
	t.Parallel()
	got := block.Replace("notes\n<!-- gen:start -->\n", "x")
	if _, ok := block.Extract(got); !ok {
		t.Fatalf("expected a complete block:\n%s", got)
	}
	if !strings.HasPrefix(got, "notes\n") {
		t.Fatalf("user text lost:\n%s", got)
	}
}
