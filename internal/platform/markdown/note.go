package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Note is a Markdown file split into its raw YAML header and body.
type Note struct {
	Header string
	Body   string
}

// ParseNote splits content on a leading "---" fenced header. Content without
// a header becomes the body. CRLF line endings are normalised.
func ParseNote(content string) (Note, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence+"\n") {
		return Note{Body: content}, nil
	}
	rest := content[len(fence)+1:]
	var header, body string
	switch {
	case strings.HasPrefix(rest, fence+"\n"):
		body = rest[len(fence)+1:]
	case rest == fence:
	default:
		idx := strings.Index(rest, "\n"+fence+"\n")
		if idx < 0 {
			if !strings.HasSuffix(rest, "\n"+fence) {
				return Note{}, fmt.Errorf("unterminated frontmatter header")
			}
			idx = len(rest) - len(fence) - 1
			header = rest[:idx]
		} else {
			header = rest[:idx]
			body = rest[idx+len(fence)+2:]
		}
	}
	return Note{Header: header, Body: strings.TrimPrefix(body, "\n")}, nil
}

// Decode unmarshals the header into v. Unknown keys are rejected so a stale
// schema is noticed rather than silently dropped.
func (n Note) Decode(v any) error {
	if strings.TrimSpace(n.Header) == "" {
		return nil
	}
	dec := yaml.NewDecoder(strings.NewReader(n.Header))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode frontmatter: %w", err)
	}
	return nil
}

// RenderNote encodes meta as the header followed by one blank line and body.
func RenderNote(meta any, body string) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	body = strings.TrimLeft(body, "\n")
	return fence + "\n" + buf.String() + fence + "\n\n" + body, nil
}
