package markdown

import "strings"

// Block is a generated region of a note delimited by HTML comment markers.
// Everything outside the markers belongs to the user.
type Block struct {
	Start string
	End   string
}

// Extract returns the content between the first pair of markers.
func (b Block) Extract(body string) (string, bool) {
	start, end, ok := b.span(body)
	if !ok {
		return "", false
	}
	inner := body[start+len(b.Start) : end]
	return strings.Trim(inner, "\n"), true
}

// Replace swaps the first block for generated and drops any later copies left
// behind by a bad merge. Without a complete block, one is appended after a
// blank line.
func (b Block) Replace(body, generated string) string {
	block := b.Start + "\n" + strings.Trim(generated, "\n") + "\n" + b.End
	start, end, ok := b.span(body)
	if !ok {
		if strings.TrimSpace(body) == "" {
			return block + "\n"
		}
		return strings.TrimRight(body, "\n") + "\n\n" + block + "\n"
	}
	head := body[:start]
	tail := body[end+len(b.End):]
	for {
		s, e, found := b.span(tail)
		if !found {
			break
		}
		tail = strings.TrimRight(tail[:s], "\n") + tail[e+len(b.End):]
	}
	return head + block + tail
}

func (b Block) span(body string) (int, int, bool) {
	start := strings.Index(body, b.Start)
	if start < 0 {
		return 0, 0, false
	}
	end := strings.Index(body[start+len(b.Start):], b.End)
	if end < 0 {
		return 0, 0, false
	}
	return start, start + len(b.Start) + end, true
}
