// Package localcache is a size-bounded, in-process key/value cache
// implementing W-TinyLFU-style generational admission and eviction: an
// eden generation for fresh arrivals, a probation generation that runs a
// frequency-based admission contest, and a protected generation for
// entries that have proven themselves on a hit. It is the local layer a
// storage adapter puts in front of a slower, authoritative backend.
package localcache

import (
	"context"
	"fmt"
	"sync"

	"github.com/relcache/localcache/internal/engine"
)

// Cache is the thread-safe facade over the generational engine: every
// mutating entry point is serialized by a single mutex, matching the
// engine's own single-threaded contract (§5) and the donor's split between
// context-free memory operations and context-bearing tiered ones.
type Cache[K comparable, V any] struct {
	mu  sync.Mutex
	eng *engine.Engine[K, V]
	cfg *config[K, V]
}

// New constructs a Cache with the given byte-weight limit and options.
// A limit of zero disables admission entirely (§8 scenario D): every Set
// becomes a no-op and every lookup misses.
func New[K comparable, V any](limit int64, opts ...Option[K, V]) *Cache[K, V] {
	cfg := defaultConfig[K, V]()
	for _, opt := range opts {
		opt(cfg)
	}

	eng := engine.New(engine.Config[K, V]{
		Limit:            limit,
		KeyWeight:        cfg.keyWeight,
		ValueWeight:      cfg.valueWeight,
		MaxValueWeight:   cfg.maxValueWeight,
		AgeFactor:        cfg.ageFactor,
		GenerationRatios: cfg.generationRatios,
	})

	return &Cache[K, V]{eng: eng, cfg: cfg}
}

// Set admits or updates key/value. The return reports whether the value
// was stored; it is false only when the value was silently rejected for
// being oversized, or the cache's limit is zero.
func (c *Cache[K, V]) Set(key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, err := c.eng.Set(key, value)
	if err != nil {
		c.cfg.logger.Error("engine invariant violated during set", "key", key, "error", err)
		return false
	}
	return stored
}

// GetAndTouch looks up each key in keys, promoting every hit exactly as
// §4.5's hit(keys) describes, and counts the whole call as a single hit
// or a single miss in statistics.
func (c *Cache[K, V]) GetAndTouch(keys ...K) map[K]V {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eng.Hit(keys)
}

// Get is a convenience wrapper over GetAndTouch for the common single-key
// lookup.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	hits := c.GetAndTouch(key)
	v, ok := hits[key]
	return v, ok
}

// Delete removes key, if present, with no cascade.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eng.Delete(key)
}

// Contains reports whether key is present without affecting ring order,
// frequency, or statistics.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eng.Contains(key)
}

// Peek returns the value for key, if present, without promoting it or
// touching statistics.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eng.Peek(key)
}

// Len returns the number of entries currently resident.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eng.Len()
}

// Stats returns a statistics snapshot (§4.5), extended with a
// per-generation breakdown.
func (c *Cache[K, V]) Stats() engine.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eng.Stats()
}

// ResetStats zeroes the hit/miss/set counters and the ager schedule.
func (c *Cache[K, V]) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eng.ResetStats()
}

// ItemsToWrite returns the ordered export §4.6 describes: entries from
// the selected generations, ascending by frequency, optionally sliced to
// the highest-value tail that fits byteLimit. Pass engine.AllGenerations()
// to export everything.
func (c *Cache[K, V]) ItemsToWrite(byteLimit int64, gens engine.Generations) ([]engine.Exported[K, V], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eng.Export(byteLimit, gens)
}

// SaveTo pushes every currently-exportable entry to the attached warm
// store (or the one passed here, if non-nil), one store.Set call per
// entry — the bridging path §4.6 describes for backends that cannot
// expose a raw byte stream (Datastore, Valkey).
func (c *Cache[K, V]) SaveTo(ctx context.Context, s warmStore[K, V]) (int, error) {
	if s == nil {
		s = c.cfg.warmStore
	}
	if s == nil {
		return 0, fmt.Errorf("no warm store attached or supplied")
	}

	items, err := c.ItemsToWrite(0, engine.AllGenerations())
	if err != nil {
		return 0, fmt.Errorf("export entries: %w", err)
	}

	count := 0
	for _, item := range items {
		if err := s.Set(ctx, item.Key, item.Value); err != nil {
			return count, fmt.Errorf("save %v: %w", item.Key, err)
		}
		count++
	}
	return count, nil
}

// LoadFrom pulls every entry a RangeScanner warm store can enumerate and
// bulk-ingests them, respecting the same cascade rules as individual Set
// calls (§4.6 "Bulk ingest"). Unlike ReadFromStream this has no version
// marker to check, since the warm store is assumed already validated.
func (c *Cache[K, V]) LoadFrom(ctx context.Context, s rangeWarmStore[K, V]) (examined, stored int, err error) {
	if s == nil {
		var ok bool
		s, ok = c.cfg.warmStore.(rangeWarmStore[K, V])
		if !ok {
			return 0, 0, fmt.Errorf("warm store does not support enumeration")
		}
	}

	var pairs []engine.KV[K, V]
	rangeErr := s.Range(ctx, func(k K, v V) bool {
		examined++
		pairs = append(pairs, engine.KV[K, V]{Key: k, Value: v})
		return true
	})
	if rangeErr != nil {
		return examined, 0, fmt.Errorf("enumerate warm store: %w", rangeErr)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	before := c.eng.Len()
	if err := c.eng.BulkIngest(pairs); err != nil {
		return examined, c.eng.Len() - before, fmt.Errorf("bulk ingest: %w", err)
	}
	return examined, c.eng.Len() - before, nil
}

// warmStore is the subset of store.Store SaveTo needs; declared locally
// (rather than importing pkg/store here) so callers can pass nil when
// relying on WithWarmStore instead.
type warmStore[K comparable, V any] interface {
	Set(ctx context.Context, key K, value V) error
}

// rangeWarmStore is the subset of store.RangeScanner LoadFrom needs.
type rangeWarmStore[K comparable, V any] interface {
	Range(ctx context.Context, fn func(K, V) bool) error
}
