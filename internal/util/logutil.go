package util

import "strings"

// TruncateForLog shortens s to at most limit runes for log output, appending
// an ellipsis when text was cut off. A non-positive limit yields an empty
// string.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit]) + "..."
}
