package vault

import "github.com/passkeep/passkeep/pkg/crypto"

// Session is the authenticated, in-memory context bound to one account.
//
// It holds the cleartext master password for its lifetime: the password hash
// alone cannot regenerate the encryption key, so the key is re-derived from
// the password and account salt on demand. Sessions are never persisted and
// must be closed when the caller is done, which wipes the password bytes.
type Session struct {
	account  string
	password []byte
	salt     []byte
	closed   bool
}

// Account returns the name of the account this session is bound to.
func (s *Session) Account() string {
	return s.account
}

// Close ends the session and wipes the held password from memory.
// A closed session rejects all further vault operations.
func (s *Session) Close() {
	if s.closed {
		return
	}
	crypto.SecureWipe(s.password)
	s.password = nil
	s.closed = true
}

// deriveKey recomputes the account's encryption key from the session
// password and salt. The key is recomputed on every cryptographic operation
// rather than cached: repeating the KDF work is the price of never holding
// key material between calls. Callers must wipe the returned key.
func (s *Session) deriveKey() []byte {
	return crypto.DeriveKey(s.password, s.salt)
}

// active returns ErrSessionClosed once the session has ended.
func (s *Session) active() error {
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}
