// Package crypto provides the cryptographic primitives for passkeep.
//
// This package implements Argon2id key derivation, PHC-encoded password
// hashing, and authenticated envelope encryption of stored secrets.
//
// # Security Features
//
//   - Argon2id key derivation (64MB memory, 3 iterations, 4 threads)
//   - Argon2id password hashing with per-hash random salts
//   - AES-256-GCM envelope tokens with random nonces
//   - Secure memory wiping for sensitive data
//
// # Example Usage
//
//	// Derive an encryption key from the master password
//	key := crypto.DeriveKey([]byte("password"), []byte(salt))
//
//	// Encrypt a secret
//	token, err := crypto.Seal(key, []byte("hunter2"))
//
//	// Decrypt it again
//	plaintext, err := crypto.Open(key, token)
//
//	// Securely wipe key material
//	crypto.SecureWipe(key)
package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"runtime"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. These are pinned: every stored ciphertext depends on
// reproducing the same derived key from the same password and salt, so
// changing them silently would make existing vault data unrecoverable.
const (
	// Argon2Memory is the memory cost in KiB (64MB).
	Argon2Memory = 64 * 1024

	// Argon2Time is the number of iterations.
	Argon2Time = 3

	// Argon2Threads is the degree of parallelism.
	Argon2Threads = 4

	// KeyLength is the length of encryption keys in bytes (256 bits).
	KeyLength = 32

	// SaltLength is the length of account salts in characters.
	SaltLength = 16
)

// saltCharset is the alphabet account salts are drawn from: case-sensitive
// alphanumerics, selected uniformly.
const saltCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Sentinel errors returned by crypto functions.
var (
	// ErrInvalidKeyLength indicates the key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("crypto: invalid key length, must be 32 bytes")

	// ErrDecryptionFailed indicates token decryption or authentication tag
	// verification failed: wrong key, truncation, or tampering.
	ErrDecryptionFailed = errors.New("crypto: decryption failed, authentication tag verification failed")

	// ErrCorruptHash indicates a stored password hash could not be parsed.
	// This is a fatal condition, distinct from a password mismatch.
	ErrCorruptHash = errors.New("crypto: malformed password hash")
)

// DeriveKey derives a 256-bit encryption key from a master password and an
// account salt using Argon2id with the pinned cost parameters.
//
// The function is deterministic: the same password and salt always produce
// the same key. The output length is fixed at exactly 32 bytes.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, Argon2Time, Argon2Memory, Argon2Threads, KeyLength)
}

// NewSalt generates a fresh account salt: SaltLength case-sensitive
// alphanumeric characters drawn uniformly from a cryptographically secure
// random source. The salt is generated once at registration and is immutable
// for the lifetime of the account.
func NewSalt() (string, error) {
	salt := make([]byte, SaltLength)
	max := big.NewInt(int64(len(saltCharset)))
	for i := range salt {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("crypto: failed to generate salt: %w", err)
		}
		salt[i] = saltCharset[idx.Int64()]
	}
	return string(salt), nil
}

// SecureWipe overwrites a byte slice with zeros in a way that prevents
// compiler optimization from removing the operation.
// This is critical for securely destroying session passwords and derived keys.
func SecureWipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	// runtime.KeepAlive ensures the write operations are not optimized away
	// by the compiler since b is still "in use" after the loop.
	runtime.KeepAlive(b)
}
