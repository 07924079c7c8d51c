package store

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/kv_store_mock.go -package=mock

// KVStore is the local persistent key/value store the credential vault sits
// on top of. Keys are host domains ("github.com"), legacy per-provider field
// names ("githubToken"), or the master-key entry; values are opaque base64
// blobs. The vault never depends on which backend is in use.
type KVStore interface {
	// Get returns the value stored under key, or [ErrEntryNotFound] if the
	// key has no entry.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	// Last write wins.
	Set(ctx context.Context, key, value string) error

	// Delete removes the entry for key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
