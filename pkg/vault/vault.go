// Package vault implements the credential vault engine: master-account
// registration and authentication, per-account key derivation, and CRUD over
// encrypted credential entries.
//
// The engine is a pure library. It performs no user interaction and owns no
// global state: it is constructed around an explicit store.Store handle, and
// every entry operation is scoped to an authenticated Session. Secrets are
// envelope-encrypted with a key derived from the session's master password,
// so records are decryptable only by their owning account.
package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/passkeep/passkeep/internal/logging"
	"github.com/passkeep/passkeep/pkg/crypto"
	"github.com/passkeep/passkeep/pkg/store"
)

// Engine composes the credential hasher, key deriver, envelope cipher and
// record store into the vault operations.
type Engine struct {
	store store.Store
	log   logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates a vault engine on top of the given record store.
func New(s store.Store, opts ...Option) *Engine {
	e := &Engine{store: s, log: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register creates a new master account and returns an authenticated session
// for it. The password is hashed with a per-hash random salt, and a separate
// 16-character alphanumeric KDF salt is generated for the account. The insert
// is atomic: a name collision returns ErrUsernameTaken with no partial write.
func (e *Engine) Register(ctx context.Context, name, password string) (*Session, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, err
	}

	account := &store.Account{Name: name, PasswordHash: hash, Salt: salt}
	if err := e.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAccountExists) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	e.log.Info(ctx, "account registered", "account", name)
	return e.newSession(name, password, salt), nil
}

// Authenticate verifies the master password for an existing account and
// returns a session on success. An unknown name yields ErrUnknownUsername; a
// failed verification yields ErrWrongPassword. The session keeps the
// cleartext password because entry encryption keys are derived from it.
func (e *Engine) Authenticate(ctx context.Context, name, password string) (*Session, error) {
	account, err := e.store.GetAccount(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, ErrUnknownUsername
		}
		return nil, err
	}

	match, err := crypto.VerifyPassword(account.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !match {
		e.log.Warn(ctx, "failed login attempt", "account", name)
		return nil, ErrWrongPassword
	}

	e.log.Info(ctx, "account authenticated", "account", name)
	return e.newSession(name, password, account.Salt), nil
}

func (e *Engine) newSession(name, password, salt string) *Session {
	return &Session{
		account:  name,
		password: []byte(password),
		salt:     []byte(salt),
	}
}

// seal derives the session key, encrypts plaintext under it, and wipes the
// key before returning.
func (e *Engine) seal(s *Session, plaintext []byte) ([]byte, error) {
	key := s.deriveKey()
	defer crypto.SecureWipe(key)
	return crypto.Seal(key, plaintext)
}

// open derives the session key, decrypts a token under it, and wipes the key
// before returning.
func (e *Engine) open(s *Session, token []byte) ([]byte, error) {
	key := s.deriveKey()
	defer crypto.SecureWipe(key)
	return crypto.Open(key, token)
}

// AddEntry encrypts secret under the session's derived key and inserts a new
// (username, website) entry for the account, returning its id. A triple
// collision returns ErrDuplicateEntry and leaves the existing entry's
// ciphertext untouched.
func (e *Engine) AddEntry(ctx context.Context, s *Session, username, website, secret string) (int64, error) {
	if err := s.active(); err != nil {
		return 0, err
	}

	token, err := e.seal(s, []byte(secret))
	if err != nil {
		return 0, err
	}

	id, err := e.store.CreateEntry(ctx, &store.Entry{
		AccountName:     s.account,
		Username:        username,
		Website:         website,
		EncryptedSecret: token,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEntry) {
			return 0, ErrDuplicateEntry
		}
		return 0, err
	}

	e.log.Debug(ctx, "entry added", "account", s.account, "id", id)
	return id, nil
}

// EditEntry replaces the identity and secret of the entry with the given id.
// The secret is re-encrypted with a fresh token even if unchanged. If the new
// (username, website) identity collides with another existing entry, the edit
// fails with ErrDuplicateEntry and nothing is modified.
func (e *Engine) EditEntry(ctx context.Context, s *Session, id int64, username, website, secret string) error {
	if err := s.active(); err != nil {
		return err
	}

	if _, err := e.store.GetEntryByID(ctx, s.account, id); err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	token, err := e.seal(s, []byte(secret))
	if err != nil {
		return err
	}

	err = e.store.UpdateEntry(ctx, &store.Entry{
		ID:              id,
		AccountName:     s.account,
		Username:        username,
		Website:         website,
		EncryptedSecret: token,
	})
	switch {
	case errors.Is(err, store.ErrDuplicateEntry):
		return ErrDuplicateEntry
	case errors.Is(err, store.ErrEntryNotFound):
		return ErrEntryNotFound
	case err != nil:
		return err
	}

	e.log.Debug(ctx, "entry updated", "account", s.account, "id", id)
	return nil
}

// RevealEntry fetches and decrypts one secret. On an authenticated session
// the derived key is already known-correct from login, so a decryption
// failure here signals data corruption rather than user error; it surfaces
// as crypto.ErrDecryptionFailed, distinct from ErrEntryNotFound.
func (e *Engine) RevealEntry(ctx context.Context, s *Session, username, website string) (string, error) {
	if err := s.active(); err != nil {
		return "", err
	}

	entry, err := e.store.GetEntry(ctx, s.account, username, website)
	if err != nil {
		if errors.Is(err, store.ErrEntryNotFound) {
			return "", ErrEntryNotFound
		}
		return "", err
	}

	plaintext, err := e.open(s, entry.EncryptedSecret)
	if err != nil {
		if errors.Is(err, crypto.ErrDecryptionFailed) {
			e.log.Error(ctx, "stored entry failed decryption on authenticated session",
				"account", s.account, "id", entry.ID)
			return "", fmt.Errorf("entry %d: %w", entry.ID, crypto.ErrDecryptionFailed)
		}
		return "", err
	}

	return string(plaintext), nil
}

// DeleteEntry removes one entry. Deleting an absent entry is a no-op.
func (e *Engine) DeleteEntry(ctx context.Context, s *Session, username, website string) error {
	if err := s.active(); err != nil {
		return err
	}
	return e.store.DeleteEntry(ctx, s.account, username, website)
}

// Entries returns a snapshot of the account's entries in insertion order,
// with secrets still encrypted. The snapshot feeds listing and fuzzy search;
// it is recomputed per call and never cached, so it always reflects the
// latest CRUD state.
func (e *Engine) Entries(ctx context.Context, s *Session) ([]store.Entry, error) {
	if err := s.active(); err != nil {
		return nil, err
	}
	return e.store.ListEntries(ctx, s.account)
}

// DeleteAccount re-verifies the master password and, on success, deletes
// every entry owned by the account followed by the account row inside one
// atomic transaction, then closes the session. A failed verification returns
// (false, nil) with no mutation.
func (e *Engine) DeleteAccount(ctx context.Context, s *Session, confirmPassword string) (bool, error) {
	if err := s.active(); err != nil {
		return false, err
	}

	account, err := e.store.GetAccount(ctx, s.account)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return false, ErrUnknownUsername
		}
		return false, err
	}

	match, err := crypto.VerifyPassword(account.PasswordHash, confirmPassword)
	if err != nil {
		return false, err
	}
	if !match {
		return false, nil
	}

	if err := e.store.DeleteAccount(ctx, s.account); err != nil {
		return false, err
	}

	e.log.Info(ctx, "account deleted", "account", s.account)
	s.Close()
	return true, nil
}
