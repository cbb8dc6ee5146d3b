// Package store defines the warm-storage backend contract used by the
// facade's SaveTo/LoadFrom bridging methods (SPEC_FULL §4.6). A Store is an
// external collaborator in the sense of spec.md §1: the engine never knows
// it exists, and nothing in internal/engine imports this package.
package store

import "context"

// Store is a pluggable key/value persistence backend. Unlike a generic TTL
// cache store, it carries no expiry: the generational engine already decides
// what is worth keeping, so a warm store only needs to durably hold whatever
// the facade decided to export.
type Store[K comparable, V any] interface {
	// ValidateKey reports whether key is acceptable to this backend (e.g.
	// filesystem-safe characters, maximum length). Callers should check
	// this before Get/Set/Delete.
	ValidateKey(key K) error

	// Get returns the stored value for key, or found=false if absent.
	Get(ctx context.Context, key K) (value V, found bool, err error)

	// Set durably stores value under key, overwriting any prior value.
	Set(ctx context.Context, key K, value V) error

	// Delete removes key, if present. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key K) error

	// Flush removes every entry and reports how many were removed.
	Flush(ctx context.Context) (int, error)

	// Len reports the number of entries currently stored.
	Len(ctx context.Context) (int, error)

	// Close releases resources held by the backend.
	Close() error
}

// RangeScanner is an optional capability for backends that can enumerate
// their full contents, needed by the facade's LoadFrom bridging method
// (SPEC_FULL §4.6) to rebuild the engine from a store. localfs and badger
// implement it; datastore and valkey do not, so LoadFrom cannot read from
// them.
type RangeScanner[K comparable, V any] interface {
	// Range calls fn for every stored (key, value) pair. Iteration stops
	// early, without error, if fn returns false.
	Range(ctx context.Context, fn func(K, V) bool) error
}
