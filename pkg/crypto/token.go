package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

// Token layout constants.
const (
	// TokenVersion is the current envelope token format version.
	TokenVersion = 0x01

	// NonceLength is the length of GCM nonces in bytes (96 bits).
	NonceLength = 12

	// tokenHeaderLength is version (1) + timestamp (8) + nonce (12).
	tokenHeaderLength = 1 + 8 + NonceLength

	// tokenPrefixLength covers the authenticated version + timestamp prefix.
	tokenPrefixLength = 1 + 8
)

// Seal encrypts plaintext into a self-describing envelope token:
//
//	version (1 byte) || unix time (8 bytes, big endian) || nonce (12 bytes) || AES-256-GCM ciphertext
//
// The version and timestamp prefix is bound into the GCM authentication tag
// as additional data, so a tampered header fails decryption. A random nonce
// is generated per call: sealing the same plaintext twice under the same key
// produces two different tokens.
func Seal(key, plaintext []byte) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to create GCM: %w", err)
	}

	header := make([]byte, tokenHeaderLength, tokenHeaderLength+len(plaintext)+gcm.Overhead())
	header[0] = TokenVersion
	binary.BigEndian.PutUint64(header[1:tokenPrefixLength], uint64(time.Now().Unix()))
	if _, err := rand.Read(header[tokenPrefixLength:tokenHeaderLength]); err != nil {
		return nil, fmt.Errorf("crypto: failed to generate nonce: %w", err)
	}

	nonce := header[tokenPrefixLength:tokenHeaderLength]
	return gcm.Seal(header, nonce, plaintext, header[:tokenPrefixLength]), nil
}

// Open decrypts an envelope token produced by Seal and verifies its
// authentication tag. Any failure — unknown version, truncated token, wrong
// key, or tampering — surfaces as ErrDecryptionFailed.
//
// The embedded timestamp is not checked: tokens remain valid indefinitely.
func Open(key, token []byte) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, ErrInvalidKeyLength
	}

	if len(token) < tokenHeaderLength || token[0] != TokenVersion {
		return nil, ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to create GCM: %w", err)
	}

	if len(token) < tokenHeaderLength+gcm.Overhead() {
		return nil, ErrDecryptionFailed
	}

	nonce := token[tokenPrefixLength:tokenHeaderLength]
	plaintext, err := gcm.Open(nil, nonce, token[tokenHeaderLength:], token[:tokenPrefixLength])
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// TokenIssuedAt extracts the creation timestamp embedded in a token without
// decrypting it. The value is informational only; nothing enforces expiry.
func TokenIssuedAt(token []byte) (time.Time, error) {
	if len(token) < tokenHeaderLength || token[0] != TokenVersion {
		return time.Time{}, ErrDecryptionFailed
	}
	sec := binary.BigEndian.Uint64(token[1:tokenPrefixLength])
	return time.Unix(int64(sec), 0), nil
}
