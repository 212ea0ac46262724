package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeechCacheKeyStableAndVoiceScoped(t *testing.T) {
	a := speechCacheKey("Namaste! How can I help?", "alloy")
	b := speechCacheKey("Namaste! How can I help?", "alloy")
	assert.Equal(t, a, b)

	other := speechCacheKey("Namaste! How can I help?", "nova")
	assert.NotEqual(t, a, other)

	different := speechCacheKey("A different reply.", "alloy")
	assert.NotEqual(t, a, different)
}
