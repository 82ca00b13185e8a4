package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// Password generation defaults.
const (
	// DefaultPasswordLength is the generated password length when the caller
	// does not specify one.
	DefaultPasswordLength = 30
)

// DefaultPasswordCharset covers all printable ASCII characters (0x21-0x7E).
const DefaultPasswordCharset = "!\"#$%&'()*+,-./0123456789:;<=>?@" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`" +
	"abcdefghijklmnopqrstuvwxyz{|}~"

// ErrEmptyCharset indicates password generation was asked to draw from an
// empty character set.
var ErrEmptyCharset = errors.New("crypto: password charset is empty")

// GeneratePassword generates a random password of the given length, drawing
// each character uniformly from charset via crypto/rand. It is a pure
// function with no state: callers pass DefaultPasswordLength and
// DefaultPasswordCharset for the standard behavior.
func GeneratePassword(length int, charset string) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("crypto: invalid password length %d", length)
	}
	if charset == "" {
		return "", ErrEmptyCharset
	}

	charsetLen := big.NewInt(int64(len(charset)))
	password := make([]byte, length)
	for i := range password {
		idx, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("crypto: failed to generate random number: %w", err)
		}
		password[i] = charset[idx.Int64()]
	}

	return string(password), nil
}
