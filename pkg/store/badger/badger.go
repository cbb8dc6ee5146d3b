// Package badger provides an embedded LSM-tree warm store for localcache,
// backed by github.com/dgraph-io/badger/v4. Unlike localfs's one-file-per-key
// layout, this backend suits larger warm sets where per-key syscalls would
// dominate: Badger batches writes into its own WAL/SSTables.
package badger

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	bdg "github.com/dgraph-io/badger/v4"
)

// Store implements store.Store[K,V] over a Badger database. Keys are
// gob-encoded to bytes for the Badger key; values are gob-encoded to bytes
// for the Badger value.
type Store[K comparable, V any] struct {
	db *bdg.DB
}

// New opens (creating if absent) a Badger database rooted at dir. Badger's
// own internal logger is disabled; failures are returned to the caller as
// errors.
func New[K comparable, V any](dir string) (*Store[K, V], error) {
	db, err := bdg.Open(bdg.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &Store[K, V]{db: db}, nil
}

func encodeKey[K comparable](key K) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(key); err != nil {
		return nil, fmt.Errorf("encode key: %w", err)
	}
	return buf.Bytes(), nil
}

// ValidateKey reports whether key can be gob-encoded; any comparable Go
// value qualifies, so this only ever fails for pathological custom types.
func (*Store[K, V]) ValidateKey(key K) error {
	_, err := encodeKey(key)
	return err
}

// Get returns the value stored for key.
func (s *Store[K, V]) Get(_ context.Context, key K) (V, bool, error) {
	var zero V
	kb, err := encodeKey(key)
	if err != nil {
		return zero, false, err
	}

	var value V
	found := false
	err = s.db.View(func(txn *bdg.Txn) error {
		item, err := txn.Get(kb)
		if err == bdg.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get: %w", err)
		}
		return item.Value(func(val []byte) error {
			if decErr := gob.NewDecoder(bytes.NewReader(val)).Decode(&value); decErr != nil {
				return fmt.Errorf("decode value: %w", decErr)
			}
			found = true
			return nil
		})
	})
	if err != nil {
		return zero, false, err
	}
	return value, found, nil
}

// Set stores value under key.
func (s *Store[K, V]) Set(_ context.Context, key K, value V) error {
	kb, err := encodeKey(key)
	if err != nil {
		return err
	}
	var vb bytes.Buffer
	if err := gob.NewEncoder(&vb).Encode(value); err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	if err := s.db.Update(func(txn *bdg.Txn) error {
		return txn.Set(kb, vb.Bytes())
	}); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	return nil
}

// Delete removes key, if present.
func (s *Store[K, V]) Delete(_ context.Context, key K) error {
	kb, err := encodeKey(key)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(txn *bdg.Txn) error {
		return txn.Delete(kb)
	}); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Range enumerates every stored entry, implementing store.RangeScanner.
func (s *Store[K, V]) Range(_ context.Context, fn func(K, V) bool) error {
	return s.db.View(func(txn *bdg.Txn) error {
		it := txn.NewIterator(bdg.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var key K
			if err := item.Value(func(_ []byte) error { return nil }); err != nil {
				return err
			}
			if err := gob.NewDecoder(bytes.NewReader(item.KeyCopy(nil))).Decode(&key); err != nil {
				return fmt.Errorf("decode key: %w", err)
			}
			var value V
			if err := item.Value(func(val []byte) error {
				return gob.NewDecoder(bytes.NewReader(val)).Decode(&value)
			}); err != nil {
				return fmt.Errorf("decode value: %w", err)
			}
			if !fn(key, value) {
				return nil
			}
		}
		return nil
	})
}

// Flush removes every entry and reports how many were removed.
func (s *Store[K, V]) Flush(ctx context.Context) (int, error) {
	n := 0
	if err := s.Range(ctx, func(k K, _ V) bool {
		if err := s.Delete(ctx, k); err == nil {
			n++
		}
		return true
	}); err != nil {
		return n, err
	}
	return n, nil
}

// Len counts the stored entries.
func (s *Store[K, V]) Len(_ context.Context) (int, error) {
	n := 0
	err := s.db.View(func(txn *bdg.Txn) error {
		opts := bdg.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Close releases the underlying Badger database.
func (s *Store[K, V]) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger db: %w", err)
	}
	return nil
}
