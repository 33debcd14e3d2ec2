// Package utils holds shared helpers for logging and text formatting.
package utils

// Truncate shortens s to at most max runes, appending "..." when cut.
// Non-positive max returns s unchanged.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
