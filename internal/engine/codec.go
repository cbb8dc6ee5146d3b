package engine

import "sort"

// Exported is one frame of the ordered dump produced by Export (§4.6).
// Frequency drives the stable sort and is exposed so callers and tests can
// see the order; it is never written to the wire (WriteToStream in the root
// package's stream.go writes only key and value).
type Exported[K comparable, V any] struct {
	Key       K
	Value     V
	Weight    int64
	Frequency uint8
}

// Generations selects which rings Export draws from, in the fixed
// probation -> protected -> eden concatenation order mandated by §4.6.
type Generations struct {
	Probation bool
	Protected bool
	Eden      bool
}

// AllGenerations selects every ring, the default Export scope.
func AllGenerations() Generations {
	return Generations{Probation: true, Protected: true, Eden: true}
}

// Export produces the ordered sequence consumed by persistence: entries
// from the selected generations, ascending by frequency, optionally sliced
// to the highest-value tail that fits byteLimit (§4.6 items_to_write).
// It returns ErrCorruptedState if the index and the combined ring counts
// disagree (I4), in which case no partial output is produced.
func (en *Engine[K, V]) Export(byteLimit int64, gens Generations) ([]Exported[K, V], error) {
	ringTotal := en.eden.count + en.probation.count + en.protected.count
	if ringTotal != len(en.index) {
		return nil, ErrCorruptedState("eden+probation+protected", ringTotal, len(en.index))
	}

	var out []Exported[K, V]
	appendRing := func(r *ring[K, V]) {
		r.forEachLRUToMRU(func(e *entry[K, V]) {
			out = append(out, Exported[K, V]{Key: e.key, Value: e.value, Weight: e.weight, Frequency: e.frequency})
		})
	}
	if gens.Probation {
		appendRing(en.probation)
	}
	if gens.Protected {
		appendRing(en.protected)
	}
	if gens.Eden {
		appendRing(en.eden)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Frequency < out[j].Frequency })

	if byteLimit > 0 {
		out = sliceToByteLimit(out, byteLimit)
	}
	return out, nil
}

// sliceToByteLimit walks the ascending-frequency list from its high-value
// (tail) end backwards, accumulating weight until adding the next entry
// would exceed byteLimit, then reverses that run so the result stays in
// ascending-frequency order (§4.6 step 3).
func sliceToByteLimit[K comparable, V any](sorted []Exported[K, V], byteLimit int64) []Exported[K, V] {
	var kept []Exported[K, V]
	var acc int64
	for i := len(sorted) - 1; i >= 0; i-- {
		if acc+sorted[i].Weight > byteLimit {
			break
		}
		acc += sorted[i].Weight
		kept = append(kept, sorted[i])
	}
	// kept was built highest-frequency-first; reverse to ascending order.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

// KV is a bare key/value pair, the unit BulkIngest and the stream reader
// operate on.
type KV[K comparable, V any] struct {
	Key   K
	Value V
}

// BulkIngest admits pairs into the engine in order, respecting every
// cascade rule Set does. The observable end state is identical to calling
// Set once per pair (§4.6 "Bulk ingest"); a partially-applied batch (one
// that errors partway through) leaves every already-admitted prefix
// coherent, since each Set call is itself a complete, invariant-preserving
// step.
func (en *Engine[K, V]) BulkIngest(pairs []KV[K, V]) error {
	for _, p := range pairs {
		if _, err := en.Set(p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}
