package store

import "errors"

// Sentinel errors returned by [KVStore] implementations to signal well-known
// failure conditions. Callers should use [errors.Is] to match against them.
var (
	// ErrEntryNotFound is returned by Get when the requested key has no
	// stored value. The vault treats it as "no credential" rather than a
	// failure.
	ErrEntryNotFound = errors.New("entry not found")
)

// Low-level database operation errors. These are returned (or wrapped) by the
// SQL-backed stores when an operation fails before any domain logic applies.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) against the database fails.
	ErrExecutingStatement = errors.New("error executing sql statement")
)
