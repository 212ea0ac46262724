package security

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// FieldCipher encrypts individual database fields. Documents keep their
// extracted text only in this form; plaintext exists in memory for the
// duration of a single call and is never written back anywhere.
type FieldCipher struct {
	key []byte
}

var ErrBadKey = errors.New("encryption key must be 32 bytes hex encoded")

// NewFieldCipher parses a 64-char hex key into a ChaCha20-Poly1305 cipher.
func NewFieldCipher(hexKey string) (*FieldCipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != chacha20poly1305.KeySize {
		return nil, ErrBadKey
	}
	return &FieldCipher{key: key}, nil
}

// Seal encrypts plaintext and returns base64(nonce || ciphertext).
func (f *FieldCipher) Seal(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(f.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal. A corrupt value or a key mismatch
// fails authentication; callers treat that as fatal for the field only.
func (f *FieldCipher) Open(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.NewX(f.key)
	if err != nil {
		return "", err
	}

	if len(raw) < aead.NonceSize() {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
