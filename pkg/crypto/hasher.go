package crypto

import (
	"fmt"

	"github.com/alexedwards/argon2id"
)

// hashParams are the Argon2id cost parameters used for password hashes.
// They mirror the key derivation parameters, but the hash salt is random
// per hash and independent of the account's KDF salt.
var hashParams = &argon2id.Params{
	Memory:      Argon2Memory,
	Iterations:  Argon2Time,
	Parallelism: Argon2Threads,
	SaltLength:  SaltLength,
	KeyLength:   KeyLength,
}

// HashPassword produces a self-contained PHC-encoded Argon2id hash:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<base64-salt>$<base64-hash>
//
// A fresh random salt is embedded in every hash, so hashing the same
// password twice never yields the same output.
func HashPassword(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, hashParams)
	if err != nil {
		return "", fmt.Errorf("crypto: failed to hash password: %w", err)
	}
	return hash, nil
}

// VerifyPassword reports whether password matches the given PHC-encoded hash.
// The comparison is constant time with respect to the hash contents.
//
// A mismatch returns (false, nil). A hash that cannot be parsed returns
// ErrCorruptHash: that signals stored-data corruption, never a wrong password.
func VerifyPassword(hash, password string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorruptHash, err)
	}
	return match, nil
}
