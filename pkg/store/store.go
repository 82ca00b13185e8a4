// Package store persists vault accounts and encrypted entries.
//
// The Store interface is the record-store contract the vault engine operates
// against: keyed inserts that fail distinctly on uniqueness violations,
// predicate reads, deletes, and atomic multi-statement units for cascading
// mutations. The SQLite implementation lives in sqlite.go.
package store

import (
	"context"
	"errors"
)

// Account is one master account row. The name is unique and immutable; the
// password hash is an opaque PHC string; the salt feeds key derivation and is
// generated once at registration.
type Account struct {
	Name         string
	PasswordHash string
	Salt         string
}

// Entry is one stored credential row, identified by the triple
// (AccountName, Username, Website). The secret is an opaque envelope token.
type Entry struct {
	ID              int64
	AccountName     string
	Username        string
	Website         string
	EncryptedSecret []byte
}

// Sentinel errors. Anything else returned by a Store is a transport or
// storage failure and is fatal to the current operation.
var (
	ErrAccountExists   = errors.New("store: account name already exists")
	ErrAccountNotFound = errors.New("store: account not found")
	ErrDuplicateEntry  = errors.New("store: entry already exists for this account, username and website")
	ErrEntryNotFound   = errors.New("store: entry not found")
)

// Store is the durable record store behind the vault engine.
//
// Implementations must guarantee that CreateAccount and CreateEntry are
// atomic (no partial write on a uniqueness violation) and that DeleteAccount
// removes the account row and all its entries in a single transaction.
type Store interface {
	// CreateAccount inserts a new account. Returns ErrAccountExists if the
	// name is already taken; the existing row is left untouched.
	CreateAccount(ctx context.Context, a *Account) error

	// GetAccount looks up an account by name. Returns ErrAccountNotFound if
	// no such account exists.
	GetAccount(ctx context.Context, name string) (*Account, error)

	// DeleteAccount removes the account and every entry it owns inside one
	// atomic transaction. Deleting an absent account is not an error.
	DeleteAccount(ctx context.Context, name string) error

	// CreateEntry inserts a new entry and returns its assigned id. Returns
	// ErrDuplicateEntry if the (account, username, website) triple already
	// exists; the existing row is left untouched.
	CreateEntry(ctx context.Context, e *Entry) (int64, error)

	// GetEntry fetches one entry by its identifying triple. Returns
	// ErrEntryNotFound if absent.
	GetEntry(ctx context.Context, account, username, website string) (*Entry, error)

	// GetEntryByID fetches one entry by id, scoped to the owning account.
	// Returns ErrEntryNotFound if absent or owned by a different account.
	GetEntryByID(ctx context.Context, account string, id int64) (*Entry, error)

	// UpdateEntry rewrites the identity and ciphertext of the entry with
	// e.ID. Returns ErrEntryNotFound if the row is gone and
	// ErrDuplicateEntry if the new identity collides with another entry.
	UpdateEntry(ctx context.Context, e *Entry) error

	// DeleteEntry removes one entry by its identifying triple. Removing an
	// absent entry is not an error.
	DeleteEntry(ctx context.Context, account, username, website string) error

	// ListEntries returns all entries owned by the account in insertion
	// order. Secrets stay encrypted.
	ListEntries(ctx context.Context, account string) ([]Entry, error)

	// Close releases the underlying database handle.
	Close() error
}
