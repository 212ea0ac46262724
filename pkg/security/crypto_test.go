package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keyA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	keyB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func TestFieldCipherRoundTrip(t *testing.T) {
	cipher, err := NewFieldCipher(keyA)
	require.NoError(t, err)

	plaintext := "Hemoglobin: 10.2 g/dL (Low). Patient: anonymous."
	sealed, err := cipher.Seal(plaintext)
	require.NoError(t, err)
	assert.NotContains(t, sealed, "Hemoglobin")

	opened, err := cipher.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestFieldCipherNonceVariesPerSeal(t *testing.T) {
	cipher, err := NewFieldCipher(keyA)
	require.NoError(t, err)

	a, err := cipher.Seal("same text")
	require.NoError(t, err)
	b, err := cipher.Seal("same text")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestFieldCipherWrongKeyFails(t *testing.T) {
	sealer, err := NewFieldCipher(keyA)
	require.NoError(t, err)
	opener, err := NewFieldCipher(keyB)
	require.NoError(t, err)

	sealed, err := sealer.Seal("secret")
	require.NoError(t, err)

	_, err = opener.Open(sealed)
	assert.Error(t, err)
}

func TestFieldCipherRejectsTamperedCiphertext(t *testing.T) {
	cipher, err := NewFieldCipher(keyA)
	require.NoError(t, err)

	sealed, err := cipher.Seal("secret")
	require.NoError(t, err)

	tampered := strings.ToUpper(sealed)
	if tampered == sealed {
		t.Skip("ciphertext has no lowercase characters to flip")
	}
	_, err = cipher.Open(tampered)
	assert.Error(t, err)
}

func TestNewFieldCipherRejectsBadKeys(t *testing.T) {
	_, err := NewFieldCipher("too-short")
	assert.Error(t, err)

	_, err = NewFieldCipher(strings.Repeat("z", 64)) // not hex
	assert.Error(t, err)
}
