package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 10))
	assert.Equal(t, "abcde", truncateUTF8("abcdefgh", 5))

	// "रक्त" is 4 runes of 3 bytes each; a cut inside a rune must back up
	// to the previous boundary instead of emitting invalid UTF-8.
	devanagari := "रक्त रिपोर्ट"
	for max := 1; max < len(devanagari); max++ {
		out := truncateUTF8(devanagari, max)
		assert.True(t, utf8.ValidString(out), "max=%d produced invalid UTF-8", max)
		assert.True(t, len(out) <= max)
		assert.True(t, strings.HasPrefix(devanagari, out))
	}
}
