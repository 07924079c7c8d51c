package vault

import (
	"errors"
	"fmt"
)

// ErrorKind classifies internal vault failures. Kinds exist for logging and
// tests; the public API surface stays the simple record / nil / bool / error
// contract and never leaks a raw crypto or storage error to UI code.
type ErrorKind int

const (
	// KindKeyInitialization — the master key could not be generated, loaded
	// or unwrapped. Surfaced to callers as EnsureEncryption returning false
	// or Unlock returning an error.
	KindKeyInitialization ErrorKind = iota

	// KindDecryption — a stored blob failed authentication or was malformed.
	// Always converted to "no credential found" on the lookup path.
	KindDecryption

	// KindMigrationWrite — writing a migrated new-format record failed. The
	// legacy entries are left intact and the record is still returned.
	KindMigrationWrite

	// KindStorage — the underlying key/value store failed on a read or
	// write unrelated to migration.
	KindStorage
)

// String returns a stable label for the kind, used as a log field.
func (k ErrorKind) String() string {
	switch k {
	case KindKeyInitialization:
		return "key_initialization"
	case KindDecryption:
		return "decryption"
	case KindMigrationWrite:
		return "migration_write"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// VaultError carries an internal failure with its classification. It wraps
// the underlying error so tests and logs can inspect the cause via
// [errors.Is]/[errors.As].
type VaultError struct {
	Kind ErrorKind
	Err  error
}

func (e *VaultError) Error() string {
	return fmt.Sprintf("vault %s error: %v", e.Kind, e.Err)
}

func (e *VaultError) Unwrap() error {
	return e.Err
}

func vaultErr(kind ErrorKind, err error) *VaultError {
	return &VaultError{Kind: kind, Err: err}
}

// Sentinel errors returned by the vault's unlock path.
var (
	// ErrWrongPassphrase is returned by Unlock when the wrapped master key
	// fails authentication, which almost always means a mistyped passphrase.
	ErrWrongPassphrase = errors.New("wrong vault passphrase")

	// ErrVaultLocked is returned by Save/Remove when no master key is loaded
	// and no passphrase is configured for automatic unlock.
	ErrVaultLocked = errors.New("vault is locked")

	// ErrEmptyPassphrase is returned by Unlock when the passphrase is empty.
	ErrEmptyPassphrase = errors.New("empty vault passphrase")
)
