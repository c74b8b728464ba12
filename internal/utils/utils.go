package utils

import "strings"

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
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

// TruncateAll applies TruncateForLog to every entry.
func TruncateAll(values []string, limit int) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, TruncateForLog(v, limit))
	}
	return out
}
