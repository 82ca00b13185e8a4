package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/passkeep/passkeep/internal/logging"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// FileMode restricts the database file to its owner.
const FileMode = 0600

// SQLite is the Store implementation backed by a local SQLite database.
type SQLite struct {
	db   *sql.DB
	log  logging.Logger
	path string
}

var _ Store = (*SQLite)(nil)

// Open opens (creating if necessary) the SQLite database at path and ensures
// the schema exists. The connection pool is limited to a single connection:
// the vault has exactly one writer at a time and this avoids "database is
// locked" errors.
func Open(path string, log logging.Logger) (*SQLite, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLite{db: db, log: log, path: path}
	if err := s.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: failed to create tables: %w", err)
	}

	// Keep the database unreadable by group/other. Skipped for in-memory
	// databases, which have no file.
	if !strings.Contains(path, ":memory:") {
		if err := os.Chmod(path, FileMode); err != nil {
			log.Warn(context.Background(), "failed to set database permissions",
				"path", filepath.Base(path), "error", err)
		}
	}

	log.Debug(context.Background(), "store opened", "path", path)
	return s, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) createTables(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			name          TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			salt          TEXT NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS entries (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			account_name     TEXT NOT NULL REFERENCES accounts(name),
			username         TEXT NOT NULL,
			website          TEXT NOT NULL,
			encrypted_secret BLOB NOT NULL,
			UNIQUE (account_name, username, website)
		)
	`)
	return err
}

// isUniqueViolation reports whether err is a SQLite unique-constraint or
// primary-key violation.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// CreateAccount inserts a new account row.
func (s *SQLite) CreateAccount(ctx context.Context, a *Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (name, password_hash, salt) VALUES (?, ?, ?)`,
		a.Name, a.PasswordHash, a.Salt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAccountExists
		}
		return fmt.Errorf("store: failed to insert account: %w", err)
	}
	s.log.Debug(ctx, "account created", "name", a.Name)
	return nil
}

// GetAccount fetches one account row by name.
func (s *SQLite) GetAccount(ctx context.Context, name string) (*Account, error) {
	a := &Account{Name: name}
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash, salt FROM accounts WHERE name = ?`, name).
		Scan(&a.PasswordHash, &a.Salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("store: failed to read account: %w", err)
	}
	return a, nil
}

// DeleteAccount removes the account and all its entries in one transaction,
// entries first so a partial failure can never orphan them.
func (s *SQLite) DeleteAccount(ctx context.Context, name string) error {
	err := withTx(ctx, s.db, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM entries WHERE account_name = ?`, name); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`DELETE FROM accounts WHERE name = ?`, name)
		return err
	})
	if err != nil {
		return fmt.Errorf("store: failed to delete account: %w", err)
	}
	s.log.Debug(ctx, "account deleted", "name", name)
	return nil
}

// CreateEntry inserts a new entry row and returns the assigned id.
func (s *SQLite) CreateEntry(ctx context.Context, e *Entry) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (account_name, username, website, encrypted_secret)
		 VALUES (?, ?, ?, ?)`,
		e.AccountName, e.Username, e.Website, e.EncryptedSecret)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateEntry
		}
		return 0, fmt.Errorf("store: failed to insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: failed to get entry id: %w", err)
	}
	e.ID = id
	return id, nil
}

// GetEntry fetches one entry by its identifying triple.
func (s *SQLite) GetEntry(ctx context.Context, account, username, website string) (*Entry, error) {
	e := &Entry{AccountName: account, Username: username, Website: website}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, encrypted_secret FROM entries
		 WHERE account_name = ? AND username = ? AND website = ?`,
		account, username, website).
		Scan(&e.ID, &e.EncryptedSecret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("store: failed to read entry: %w", err)
	}
	return e, nil
}

// GetEntryByID fetches one entry by id, scoped to the owning account.
func (s *SQLite) GetEntryByID(ctx context.Context, account string, id int64) (*Entry, error) {
	e := &Entry{ID: id, AccountName: account}
	err := s.db.QueryRowContext(ctx,
		`SELECT username, website, encrypted_secret FROM entries
		 WHERE id = ? AND account_name = ?`,
		id, account).
		Scan(&e.Username, &e.Website, &e.EncryptedSecret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("store: failed to read entry: %w", err)
	}
	return e, nil
}

// UpdateEntry rewrites an entry's identity and ciphertext in place.
func (s *SQLite) UpdateEntry(ctx context.Context, e *Entry) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE entries SET username = ?, website = ?, encrypted_secret = ?
		 WHERE id = ? AND account_name = ?`,
		e.Username, e.Website, e.EncryptedSecret, e.ID, e.AccountName)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("store: failed to update entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// DeleteEntry removes one entry; deleting an absent entry is a no-op.
func (s *SQLite) DeleteEntry(ctx context.Context, account, username, website string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM entries
		 WHERE account_name = ? AND username = ? AND website = ?`,
		account, username, website)
	if err != nil {
		return fmt.Errorf("store: failed to delete entry: %w", err)
	}
	return nil
}

// ListEntries returns the account's entries in insertion order.
func (s *SQLite) ListEntries(ctx context.Context, account string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, website, encrypted_secret FROM entries
		 WHERE account_name = ? ORDER BY id`, account)
	if err != nil {
		return nil, fmt.Errorf("store: failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e := Entry{AccountName: account}
		if err := rows.Scan(&e.ID, &e.Username, &e.Website, &e.EncryptedSecret); err != nil {
			return nil, fmt.Errorf("store: failed to scan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: error iterating rows: %w", err)
	}
	return entries, nil
}
