package store

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vault.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testAccount(name string) *Account {
	return &Account{
		Name:         name,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdHNhbHQ$aGFzaGhhc2g",
		Salt:         "0123456789abcdef",
	}
}

func TestOpenCreatesRestrictedFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file mode semantics differ on windows")
	}

	path := filepath.Join(t.TempDir(), "vault.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FileMode), info.Mode().Perm())
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")

	s, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.CreateAccount(context.Background(), testAccount("alice")))
	require.NoError(t, s.Close())

	// Reopening an existing database keeps its data.
	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	a, err := s.GetAccount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", a.Name)
}

func TestCreateAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	original := testAccount("alice")
	require.NoError(t, s.CreateAccount(ctx, original))

	got, err := s.GetAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, original.PasswordHash, got.PasswordHash)
	assert.Equal(t, original.Salt, got.Salt)
}

func TestCreateAccountDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateAccount(ctx, testAccount("alice")))

	dup := testAccount("alice")
	dup.PasswordHash = "$argon2id$v=19$m=65536,t=3,p=4$b3RoZXJzYWx0$b3RoZXJoYXNo"
	dup.Salt = "fedcba9876543210"
	err := s.CreateAccount(ctx, dup)
	require.ErrorIs(t, err, ErrAccountExists)

	// The original row is untouched by the failed insert.
	got, err := s.GetAccount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, testAccount("alice").PasswordHash, got.PasswordHash)
	assert.Equal(t, testAccount("alice").Salt, got.Salt)
}

func TestGetAccountNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetAccount(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestCreateEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, testAccount("alice")))

	e := &Entry{
		AccountName:     "alice",
		Username:        "alice@mail",
		Website:         "example.com",
		EncryptedSecret: []byte{0x01, 0x02, 0x03},
	}
	id, err := s.CreateEntry(ctx, e)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, id, e.ID)

	got, err := s.GetEntry(ctx, "alice", "alice@mail", "example.com")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, got.EncryptedSecret)
}

func TestCreateEntryDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, testAccount("alice")))

	first := &Entry{
		AccountName:     "alice",
		Username:        "alice@mail",
		Website:         "example.com",
		EncryptedSecret: []byte("original"),
	}
	_, err := s.CreateEntry(ctx, first)
	require.NoError(t, err)

	dup := &Entry{
		AccountName:     "alice",
		Username:        "alice@mail",
		Website:         "example.com",
		EncryptedSecret: []byte("replacement"),
	}
	_, err = s.CreateEntry(ctx, dup)
	require.ErrorIs(t, err, ErrDuplicateEntry)

	got, err := s.GetEntry(ctx, "alice", "alice@mail", "example.com")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got.EncryptedSecret)
}

func TestSameTripleDifferentAccounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, testAccount("alice")))
	require.NoError(t, s.CreateAccount(ctx, testAccount("bob")))

	// Uniqueness is scoped per account, not global.
	for _, account := range []string{"alice", "bob"} {
		_, err := s.CreateEntry(ctx, &Entry{
			AccountName:     account,
			Username:        "user@mail",
			Website:         "example.com",
			EncryptedSecret: []byte(account),
		})
		require.NoError(t, err)
	}

	got, err := s.GetEntry(ctx, "bob", "user@mail", "example.com")
	require.NoError(t, err)
	assert.Equal(t, []byte("bob"), got.EncryptedSecret)
}

func TestGetEntryByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, testAccount("alice")))
	require.NoError(t, s.CreateAccount(ctx, testAccount("bob")))

	id, err := s.CreateEntry(ctx, &Entry{
		AccountName:     "alice",
		Username:        "alice@mail",
		Website:         "example.com",
		EncryptedSecret: []byte("secret"),
	})
	require.NoError(t, err)

	got, err := s.GetEntryByID(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "alice@mail", got.Username)
	assert.Equal(t, "example.com", got.Website)

	// Ids are scoped to the owning account.
	_, err = s.GetEntryByID(ctx, "bob", id)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = s.GetEntryByID(ctx, "alice", id+100)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestUpdateEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, testAccount("alice")))

	id, err := s.CreateEntry(ctx, &Entry{
		AccountName:     "alice",
		Username:        "alice@mail",
		Website:         "example.com",
		EncryptedSecret: []byte("old"),
	})
	require.NoError(t, err)

	err = s.UpdateEntry(ctx, &Entry{
		ID:              id,
		AccountName:     "alice",
		Username:        "alice@work",
		Website:         "example.org",
		EncryptedSecret: []byte("new"),
	})
	require.NoError(t, err)

	got, err := s.GetEntryByID(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "alice@work", got.Username)
	assert.Equal(t, "example.org", got.Website)
	assert.Equal(t, []byte("new"), got.EncryptedSecret)

	_, err = s.GetEntry(ctx, "alice", "alice@mail", "example.com")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestUpdateEntryCollision(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, testAccount("alice")))

	_, err := s.CreateEntry(ctx, &Entry{
		AccountName: "alice", Username: "a", Website: "one.com",
		EncryptedSecret: []byte("a"),
	})
	require.NoError(t, err)
	id, err := s.CreateEntry(ctx, &Entry{
		AccountName: "alice", Username: "b", Website: "two.com",
		EncryptedSecret: []byte("b"),
	})
	require.NoError(t, err)

	// Renaming the second entry onto the first one's identity must fail.
	err = s.UpdateEntry(ctx, &Entry{
		ID: id, AccountName: "alice", Username: "a", Website: "one.com",
		EncryptedSecret: []byte("b2"),
	})
	require.ErrorIs(t, err, ErrDuplicateEntry)

	got, err := s.GetEntryByID(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Username)
	assert.Equal(t, []byte("b"), got.EncryptedSecret)
}

func TestUpdateEntryNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, testAccount("alice")))

	err := s.UpdateEntry(ctx, &Entry{
		ID: 42, AccountName: "alice", Username: "a", Website: "one.com",
		EncryptedSecret: []byte("a"),
	})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestDeleteEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, testAccount("alice")))

	_, err := s.CreateEntry(ctx, &Entry{
		AccountName: "alice", Username: "alice@mail", Website: "example.com",
		EncryptedSecret: []byte("secret"),
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteEntry(ctx, "alice", "alice@mail", "example.com"))
	_, err = s.GetEntry(ctx, "alice", "alice@mail", "example.com")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	// Deleting an absent entry is a no-op.
	assert.NoError(t, s.DeleteEntry(ctx, "alice", "alice@mail", "example.com"))
}

func TestListEntriesInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, testAccount("alice")))

	websites := []string{"first.com", "second.com", "third.com"}
	for _, w := range websites {
		_, err := s.CreateEntry(ctx, &Entry{
			AccountName: "alice", Username: "alice@mail", Website: w,
			EncryptedSecret: []byte(w),
		})
		require.NoError(t, err)
	}

	entries, err := s.ListEntries(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, len(websites))
	for i, w := range websites {
		assert.Equal(t, w, entries[i].Website)
	}
}

func TestListEntriesEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, testAccount("alice")))

	entries, err := s.ListEntries(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteAccountCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateAccount(ctx, testAccount("alice")))
	require.NoError(t, s.CreateAccount(ctx, testAccount("bob")))

	for _, w := range []string{"one.com", "two.com"} {
		_, err := s.CreateEntry(ctx, &Entry{
			AccountName: "alice", Username: "alice@mail", Website: w,
			EncryptedSecret: []byte(w),
		})
		require.NoError(t, err)
	}
	_, err := s.CreateEntry(ctx, &Entry{
		AccountName: "bob", Username: "bob@mail", Website: "one.com",
		EncryptedSecret: []byte("bob"),
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteAccount(ctx, "alice"))

	_, err = s.GetAccount(ctx, "alice")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	entries, err := s.ListEntries(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Other accounts are unaffected.
	bobEntries, err := s.ListEntries(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bobEntries, 1)

	// Deleting an absent account is not an error.
	assert.NoError(t, s.DeleteAccount(ctx, "alice"))
}
