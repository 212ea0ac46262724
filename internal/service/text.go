package service

import "unicode/utf8"

// truncateUTF8 caps s at max bytes without splitting a multi-byte rune, so
// truncated excerpts stay valid UTF-8 for prompt assembly.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
