package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	password := []byte("test-password-123")
	salt := []byte("abcDEF0123456789")

	key := DeriveKey(password, salt)
	require.Len(t, key, KeyLength)

	// Deterministic: same inputs, same key.
	assert.Equal(t, key, DeriveKey(password, salt))

	// Different password or salt changes the key.
	assert.NotEqual(t, key, DeriveKey([]byte("other-password"), salt))
	assert.NotEqual(t, key, DeriveKey(password, []byte("XYZdef9876543210")))
}

func TestDeriveKeyParameters(t *testing.T) {
	// The cost parameters are pinned; existing ciphertexts depend on them.
	assert.Equal(t, 64*1024, Argon2Memory)
	assert.Equal(t, 3, Argon2Time)
	assert.Equal(t, 4, Argon2Threads)
	assert.Equal(t, 32, KeyLength)
}

func TestNewSalt(t *testing.T) {
	salt, err := NewSalt()
	require.NoError(t, err)
	require.Len(t, salt, SaltLength)

	for _, c := range salt {
		assert.Contains(t, saltCharset, string(c))
	}

	// Salts are random; two draws colliding is essentially impossible.
	other, err := NewSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt, other)
}

func TestSaltCharsetIsAlphanumeric(t *testing.T) {
	const alnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	assert.Equal(t, alnum, saltCharset)
	assert.False(t, strings.ContainsAny(saltCharset, " \t\n"))
}

func TestSecureWipe(t *testing.T) {
	b := []byte("sensitive-key-material")
	SecureWipe(b)
	for i, v := range b {
		assert.Zerof(t, v, "byte %d not wiped", i)
	}

	// Wiping nil or empty slices must not panic.
	SecureWipe(nil)
	SecureWipe([]byte{})
}
