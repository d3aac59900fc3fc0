package domain

import "strings"

const (
	UnknownTask       = "Unknown"
	maxTaskNameLength = 60
	ellipsis          = "..."
)

var appSuffixes = []string{
	" - Google Chrome",
	" - Chromium",
	" - Mozilla Firefox",
	" — Mozilla Firefox",
	" - Microsoft Edge",
	" - Safari",
	" - Brave",
	" - Opera",
	" - Visual Studio Code",
	" - Cursor",
	" - Sublime Text",
	" - IntelliJ IDEA",
	" - PyCharm",
	" - GoLand",
	" - Slack",
	" - Discord",
	" - Microsoft Teams",
	" - Notion",
	" - Obsidian",
}

// ExtractTaskName turns a raw window title into a stable task key.
func ExtractTaskName(windowTitle string) string {
	name := strings.TrimSpace(windowTitle)
	if name == "" {
		return UnknownTask
	}
	for _, suffix := range appSuffixes {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSpace(strings.TrimSuffix(name, suffix))
			break
		}
	}
	if name == "" {
		return UnknownTask
	}
	runes := []rune(name)
	if len(runes) > maxTaskNameLength {
		name = string(runes[:maxTaskNameLength-len(ellipsis)]) + ellipsis
	}
	return name
}
