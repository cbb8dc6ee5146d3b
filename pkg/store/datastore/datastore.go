// Package datastore provides Google Cloud Datastore persistence for
// localcache's warm store, for deployments already running on GCP where a
// managed store is preferable to a local file or a self-hosted Valkey.
package datastore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	ds "github.com/codeGROOVE-dev/ds9/pkg/datastore"
)

const (
	datastoreKind      = "LocalCacheEntry"
	maxDatastoreKeyLen = 1500
)

// Store implements store.Store[K,V] using Google Cloud Datastore. The key is
// stored in the entity key itself; the value is JSON-then-base64 encoded
// into a single indexed-off string property, since Datastore has no native
// byte-blob type that round-trips cleanly through arbitrary V.
type Store[K comparable, V any] struct {
	client *ds.Client
	kind   string
}

type entity struct {
	Value string `datastore:"value,noindex"`
}

// New creates a client against cacheID as the Datastore database name. An
// empty projectID lets ds9 auto-detect it from the environment (GCE/Cloud
// Run metadata or GOOGLE_CLOUD_PROJECT).
func New[K comparable, V any](ctx context.Context, cacheID string) (*Store[K, V], error) {
	client, err := ds.NewClientWithDatabase(ctx, "", cacheID)
	if err != nil {
		return nil, fmt.Errorf("create datastore client: %w", err)
	}
	return &Store[K, V]{client: client, kind: datastoreKind}, nil
}

// ValidateKey enforces Datastore's key-length ceiling.
func (*Store[K, V]) ValidateKey(key K) error {
	s := fmt.Sprintf("%v", key)
	if s == "" {
		return errors.New("key cannot be empty")
	}
	if len(s) > maxDatastoreKeyLen {
		return fmt.Errorf("key too long: %d bytes (max %d for datastore)", len(s), maxDatastoreKeyLen)
	}
	return nil
}

func (s *Store[K, V]) makeKey(key K) *ds.Key {
	return ds.NameKey(s.kind, fmt.Sprintf("%v", key), nil)
}

func decodeEntity[V any](e entity) (V, error) {
	var value V
	b, err := base64.StdEncoding.DecodeString(e.Value)
	if err != nil {
		return value, fmt.Errorf("decode base64: %w", err)
	}
	if err := json.Unmarshal(b, &value); err != nil {
		return value, fmt.Errorf("unmarshal value: %w", err)
	}
	return value, nil
}

// Get retrieves the value stored for key.
func (s *Store[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	var zero V
	var e entity
	if err := s.client.Get(ctx, s.makeKey(key), &e); err != nil {
		if errors.Is(err, ds.ErrNoSuchEntity) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("datastore get: %w", err)
	}
	value, err := decodeEntity[V](e)
	if err != nil {
		return zero, false, err
	}
	return value, true, nil
}

// Set stores value under key.
func (s *Store[K, V]) Set(ctx context.Context, key K, value V) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	e := entity{Value: base64.StdEncoding.EncodeToString(b)}
	if _, err := s.client.Put(ctx, s.makeKey(key), &e); err != nil {
		return fmt.Errorf("datastore put: %w", err)
	}
	return nil
}

// Delete removes key, if present.
func (s *Store[K, V]) Delete(ctx context.Context, key K) error {
	if err := s.client.Delete(ctx, s.makeKey(key)); err != nil {
		return fmt.Errorf("datastore delete: %w", err)
	}
	return nil
}

// Flush removes every entity of this store's kind.
func (s *Store[K, V]) Flush(ctx context.Context) (int, error) {
	keys, err := s.client.AllKeys(ctx, ds.NewQuery(s.kind).KeysOnly())
	if err != nil {
		return 0, fmt.Errorf("query all keys: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := s.client.DeleteMulti(ctx, keys); err != nil {
		return 0, fmt.Errorf("delete all entries: %w", err)
	}
	return len(keys), nil
}

// Len counts the entities of this store's kind.
func (s *Store[K, V]) Len(ctx context.Context) (int, error) {
	n, err := s.client.Count(ctx, ds.NewQuery(s.kind))
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// Close releases the Datastore client.
func (s *Store[K, V]) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close datastore client: %w", err)
	}
	return nil
}
