package compress

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/relcache/localcache/pkg/store"
)

// Store wraps a byte-oriented inner store.Store[K, []byte] and presents
// store.Store[K, V]: every V is gob-encoded then run through a Compressor
// before being handed to inner, and reversed on the way back out. This is
// the shape a warm store needs when values are JSON-ish or otherwise
// redundant (the common case for object-state caches).
type Store[K comparable, V any] struct {
	inner store.Store[K, []byte]
	codec Compressor
}

// Wrap decorates inner with codec. Passing None() keeps the wire format
// as plain gob, which is useful for A/B benchmarking a warm store with
// and without compression.
func Wrap[K comparable, V any](inner store.Store[K, []byte], codec Compressor) *Store[K, V] {
	return &Store[K, V]{inner: inner, codec: codec}
}

func (s *Store[K, V]) ValidateKey(key K) error { return s.inner.ValidateKey(key) }

// Get decodes and decompresses the value stored under key, if present.
func (s *Store[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	var zero V
	raw, found, err := s.inner.Get(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("get compressed payload: %w", err)
	}
	if !found {
		return zero, false, nil
	}
	value, err := s.decodeValue(raw)
	if err != nil {
		return zero, false, err
	}
	return value, true, nil
}

// Set compresses value and stores it under key.
func (s *Store[K, V]) Set(ctx context.Context, key K, value V) error {
	raw, err := s.encodeValue(value)
	if err != nil {
		return err
	}
	if err := s.inner.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("set compressed payload: %w", err)
	}
	return nil
}

func (s *Store[K, V]) Delete(ctx context.Context, key K) error {
	if err := s.inner.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

func (s *Store[K, V]) Flush(ctx context.Context) (int, error) {
	n, err := s.inner.Flush(ctx)
	if err != nil {
		return n, fmt.Errorf("flush: %w", err)
	}
	return n, nil
}

func (s *Store[K, V]) Len(ctx context.Context) (int, error) {
	n, err := s.inner.Len(ctx)
	if err != nil {
		return n, fmt.Errorf("len: %w", err)
	}
	return n, nil
}

func (s *Store[K, V]) Close() error {
	if err := s.inner.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

func (s *Store[K, V]) encodeValue(value V) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		return nil, fmt.Errorf("gob encode: %w", err)
	}
	compressed, err := s.codec.Encode(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%s compress: %w", s.codec.Extension(), err)
	}
	return compressed, nil
}

func (s *Store[K, V]) decodeValue(raw []byte) (V, error) {
	var value V
	plain, err := s.codec.Decode(raw)
	if err != nil {
		return value, fmt.Errorf("%s decompress: %w", s.codec.Extension(), err)
	}
	if err := gob.NewDecoder(bytes.NewReader(plain)).Decode(&value); err != nil {
		return value, fmt.Errorf("gob decode: %w", err)
	}
	return value, nil
}
