package localcache

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"

	"github.com/agilira/go-timecache"

	"github.com/relcache/localcache/internal/engine"
)

// CodecVersion is the persistence format's version marker (§4.6 "current
// version: 5"). ReadFromStream rejects any stream whose leading frame
// doesn't match.
const CodecVersion uint32 = 5

// frame is the wire shape of one persisted entry: key and value only.
// Frequencies are deliberately not persisted (§6 Persistence format) — on
// reload every admitted entry starts fresh at frequency 1.
type frame[K comparable, V any] struct {
	Key   K
	Value V
}

// WriteToStream dumps a version marker followed by one gob frame per
// exported entry, in ascending-frequency order, optionally sliced to the
// highest-value byteLimit tail. It returns the number of entries written.
func (c *Cache[K, V]) WriteToStream(w io.Writer, byteLimit int64) (int, error) {
	c.mu.Lock()
	items, err := c.eng.Export(byteLimit, engine.AllGenerations())
	c.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("export entries: %w", err)
	}

	enc := gob.NewEncoder(w)
	if err := enc.Encode(CodecVersion); err != nil {
		return 0, fmt.Errorf("write version marker: %w", err)
	}

	for i, item := range items {
		f := frame[K, V]{Key: item.Key, Value: item.Value}
		if err := enc.Encode(&f); err != nil {
			return i, fmt.Errorf("write frame %d: %w", i, err)
		}
	}

	c.cfg.logger.Debug("wrote persistence stream",
		"entries", len(items), "saved_at_nano", timecache.CachedTimeNano())
	return len(items), nil
}

// ReadFromStream loads a version marker then frames until EOF. If the
// engine is empty, entries are admitted oldest-in-file-first (so the
// file's most-recent — highest-frequency — entries land closest to MRU,
// per §4.6 step 3 of Read). If the engine already holds entries, keys
// already present are filtered out and the remainder admitted
// most-recent-in-file-first. On a version mismatch the engine is left
// completely untouched.
func (c *Cache[K, V]) ReadFromStream(r io.Reader) (examined, stored int, err error) {
	dec := gob.NewDecoder(r)

	var version uint32
	if err := dec.Decode(&version); err != nil {
		return 0, 0, fmt.Errorf("read version marker: %w", err)
	}
	if version != CodecVersion {
		return 0, 0, engine.ErrVersionMismatch(version, CodecVersion)
	}

	var frames []frame[K, V]
	for {
		var f frame[K, V]
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return examined, 0, fmt.Errorf("read frame %d: %w", examined, err)
		}
		frames = append(frames, f)
		examined++
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pairs := framesToPairs(frames, c.eng.Len() == 0, c.eng.Contains)

	before := c.eng.Len()
	if err := c.eng.BulkIngest(pairs); err != nil {
		return examined, c.eng.Len() - before, fmt.Errorf("bulk ingest: %w", err)
	}
	return examined, c.eng.Len() - before, nil
}

// framesToPairs implements §4.6's read-side ordering rule: when the
// engine starts empty, frames are admitted in file order (oldest first
// becomes LRU, matching how they were exported). When the engine already
// holds entries, already-present keys are dropped and the rest reversed,
// so the most-recent-in-file entries are admitted first and land closest
// to MRU.
func framesToPairs[K comparable, V any](frames []frame[K, V], engineEmpty bool, contains func(K) bool) []engine.KV[K, V] {
	if engineEmpty {
		pairs := make([]engine.KV[K, V], len(frames))
		for i, f := range frames {
			pairs[i] = engine.KV[K, V]{Key: f.Key, Value: f.Value}
		}
		return pairs
	}

	var fresh []frame[K, V]
	for _, f := range frames {
		if !contains(f.Key) {
			fresh = append(fresh, f)
		}
	}
	pairs := make([]engine.KV[K, V], len(fresh))
	for i, f := range fresh {
		pairs[len(fresh)-1-i] = engine.KV[K, V]{Key: f.Key, Value: f.Value}
	}
	return pairs
}
