package vault

import "errors"

// Sentinel errors. Authentication and uniqueness failures are expected,
// recoverable conditions; the engine never retries on the caller's behalf.
var (
	// ErrUsernameTaken indicates registration collided with an existing
	// account name. The stored account is unchanged.
	ErrUsernameTaken = errors.New("vault: username already exists")

	// ErrUnknownUsername indicates authentication for an account that does
	// not exist.
	ErrUnknownUsername = errors.New("vault: username does not exist")

	// ErrWrongPassword indicates the master password did not verify against
	// the stored hash.
	ErrWrongPassword = errors.New("vault: wrong password")

	// ErrDuplicateEntry indicates an add or edit collided with an existing
	// (username, website) pair for the account. The existing entry is
	// unchanged.
	ErrDuplicateEntry = errors.New("vault: entry already exists")

	// ErrEntryNotFound indicates the requested entry does not exist for the
	// session's account.
	ErrEntryNotFound = errors.New("vault: entry not found")

	// ErrSessionClosed indicates an operation on a session after logout or
	// account deletion.
	ErrSessionClosed = errors.New("vault: session is closed")
)
