// Package valkey provides a remote warm store for localcache backed by
// github.com/valkey-io/valkey-go, for deployments where the warm set must
// survive process restarts on a different host than the one running the
// cache.
package valkey

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

const maxKeyLength = 512

// Store implements store.Store[K,V] over a Valkey (Redis-protocol) server.
// Keys are prefixed by cacheID so multiple caches can share one server.
type Store[K comparable, V any] struct {
	client   valkey.Client
	keyspace string
}

// New connects to addr and namespaces all keys under cacheID.
func New[K comparable, V any](ctx context.Context, cacheID, addr string) (*Store[K, V], error) {
	if cacheID == "" {
		return nil, errors.New("cacheID cannot be empty")
	}

	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("connect to valkey: %w", err)
	}

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}

	return &Store[K, V]{client: client, keyspace: cacheID + ":"}, nil
}

// ValidateKey enforces the same length ceiling the store's sibling examples
// use for remote-store keys, independent of Valkey's own (much larger)
// limit.
func (*Store[K, V]) ValidateKey(key K) error {
	s := fmt.Sprintf("%v", key)
	if s == "" {
		return errors.New("key cannot be empty")
	}
	if len(s) > maxKeyLength {
		return fmt.Errorf("key too long: %d bytes (max %d)", len(s), maxKeyLength)
	}
	return nil
}

func (s *Store[K, V]) wireKey(key K) string {
	return s.keyspace + fmt.Sprintf("%v", key)
}

func encodeValue[V any](value V) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return buf.Bytes(), nil
}

// Get returns the value stored for key.
func (s *Store[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	var zero V
	resp := s.client.Do(ctx, s.client.B().Get().Key(s.wireKey(key)).Build())
	if resp.Error() != nil {
		if valkey.IsValkeyNil(resp.Error()) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("get: %w", resp.Error())
	}
	raw, err := resp.AsBytes()
	if err != nil {
		return zero, false, fmt.Errorf("read value: %w", err)
	}
	var value V
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&value); err != nil {
		return zero, false, fmt.Errorf("decode value: %w", err)
	}
	return value, true, nil
}

// Set stores value under key.
func (s *Store[K, V]) Set(ctx context.Context, key K, value V) error {
	raw, err := encodeValue(value)
	if err != nil {
		return err
	}
	cmd := s.client.B().Set().Key(s.wireKey(key)).Value(valkey.BinaryString(raw)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	return nil
}

// Delete removes key, if present.
func (s *Store[K, V]) Delete(ctx context.Context, key K) error {
	cmd := s.client.B().Del().Key(s.wireKey(key)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func (s *Store[K, V]) scanKeys(ctx context.Context) ([]string, error) {
	var out []string
	cursor := uint64(0)
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match(s.keyspace + "*").Build()
		resp := s.client.Do(ctx, cmd)
		entry, err := resp.AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, entry.Elements...)
		cursor = entry.Cursor
		if cursor == 0 {
			return out, nil
		}
	}
}

// Flush removes every entry belonging to this store's keyspace.
func (s *Store[K, V]) Flush(ctx context.Context) (int, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	cmd := s.client.B().Del().Key(keys...).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return 0, fmt.Errorf("flush: %w", err)
	}
	return len(keys), nil
}

// Len counts the entries in this store's keyspace.
func (s *Store[K, V]) Len(ctx context.Context) (int, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Close releases the underlying connection pool.
func (s *Store[K, V]) Close() error {
	s.client.Close()
	return nil
}
