package engine

// KeyWeightFunc computes the byte-weight attributable to a key alone.
type KeyWeightFunc[K comparable] func(K) int64

// ValueWeightFunc computes the byte-weight attributable to a value alone.
type ValueWeightFunc[V any] func(V) int64

// defaultAgeFactor is the §4.4 age_factor default.
const defaultAgeFactor = 10

// Ratios overrides the §4.2 generation split fractions. Eden and Probation
// are fractions of Limit handed to their respective rings; Protected always
// gets the remainder. The zero value (both fields zero) falls back to the
// canonical 1/20/79 split (eden=L/100, probation=L/5).
type Ratios struct {
	Eden, Probation float64
}

// edenLimit computes eden's byte budget, defaulting to max(1, limit/100).
func (r Ratios) edenLimit(limit int64) int64 {
	if r.Eden <= 0 {
		return max64(1, limit/100)
	}
	return max64(1, int64(float64(limit)*r.Eden))
}

// probationLimit computes probation's byte budget, defaulting to
// max(1, limit/5).
func (r Ratios) probationLimit(limit int64) int64 {
	if r.Probation <= 0 {
		return max64(1, limit/5)
	}
	return max64(1, int64(float64(limit)*r.Probation))
}

// Config bundles the knobs an Engine is constructed with. The zero value is
// not usable: KeyWeight and ValueWeight must be set (the root package's New
// supplies length-based defaults).
type Config[K comparable, V any] struct {
	Limit            int64
	KeyWeight        KeyWeightFunc[K]
	ValueWeight      ValueWeightFunc[V]
	MaxValueWeight   int64 // 0 disables the oversized-value check
	AgeFactor        int64 // 0 means defaultAgeFactor
	GenerationRatios Ratios
}

// Engine is the generational sized-LRU cache core: the primary index plus
// the three rings (eden, probation, protected), their budgets, and the
// admission/promotion/eviction/ageing policy described in §4. It is not
// thread-safe — see the root package's Cache for the serializing mutex.
type Engine[K comparable, V any] struct {
	index map[K]*entry[K, V]

	eden, probation, protected *ring[K, V]
	limit                      int64

	keyWeight      KeyWeightFunc[K]
	valueWeight    ValueWeightFunc[V]
	maxValueWeight int64
	ageFactor      int64

	hits, misses, sets int64
	agedAt, nextAgeAt  int64
}

// New constructs an Engine with the §4.2 generation split:
// eden = max(1, L/100), probation = max(1, L/5), protected = remainder.
func New[K comparable, V any](cfg Config[K, V]) *Engine[K, V] {
	af := cfg.AgeFactor
	if af <= 0 {
		af = defaultAgeFactor
	}

	edenLimit := cfg.GenerationRatios.edenLimit(cfg.Limit)
	probationLimit := cfg.GenerationRatios.probationLimit(cfg.Limit)
	protectedLimit := cfg.Limit - edenLimit - probationLimit
	if protectedLimit < 0 {
		protectedLimit = 0
	}
	if cfg.Limit <= 0 {
		// Zero (or negative) total limit disables admission entirely (§8
		// scenario D); the per-ring limits above are meaningless in that
		// case, so all three are reported as zero.
		edenLimit, probationLimit, protectedLimit = 0, 0, 0
	}

	return &Engine[K, V]{
		index:          make(map[K]*entry[K, V]),
		eden:           newRing[K, V](genEden, edenLimit),
		probation:      newRing[K, V](genProbation, probationLimit),
		protected:      newRing[K, V](genProtected, protectedLimit),
		limit:          cfg.Limit,
		keyWeight:      cfg.KeyWeight,
		valueWeight:    cfg.ValueWeight,
		maxValueWeight: cfg.MaxValueWeight,
		ageFactor:      af,
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func (en *Engine[K, V]) ringOf(g generation) *ring[K, V] {
	switch g {
	case genEden:
		return en.eden
	case genProbation:
		return en.probation
	default:
		return en.protected
	}
}

// weightOf computes key_weight(key) + value_weight(value) (§3 WeightedEntry).
func (en *Engine[K, V]) weightOf(key K, value V) int64 {
	return en.keyWeight(key) + en.valueWeight(value)
}

// Set admits or updates key/value (§4.3). The returned bool reports whether
// the value was stored; it is false only for silent oversized-value
// rejection or when the engine's total limit is zero. A non-nil error
// indicates ErrProgrammerFault — an insertion-path invariant violation that
// should never occur in correct code.
func (en *Engine[K, V]) Set(key K, value V) (bool, error) {
	if e, ok := en.index[key]; ok {
		w := en.weightOf(key, value)
		en.ringOf(e.gen).updateMRU(e, value, w)
		en.sets++
		en.consultAger()
		return true, nil
	}

	w := en.weightOf(key, value)
	if en.maxValueWeight > 0 && w > en.maxValueWeight {
		return false, nil
	}
	if en.limit <= 0 {
		return false, nil
	}

	if _, exists := en.index[key]; exists {
		return false, ErrProgrammerFault("key believed absent was present before admission")
	}

	e := &entry[K, V]{key: key, value: value, weight: w, frequency: 1}
	en.eden.addMRU(e)
	en.index[key] = e
	en.sets++

	// The just-admitted entry is never evicted on its own insert, even if its
	// weight alone exceeds eden's tiny budget — only eviction of an older
	// sibling makes room for the next admission.
	for en.eden.count > 1 && en.eden.size > en.eden.limit {
		v := en.eden.tail
		if v == nil {
			break
		}
		en.eden.remove(v)
		en.demoteFromEden(v)
	}

	en.consultAger()
	return true, nil
}

// demoteFromEden places a victim leaving eden per the §4.3 decision table:
// promote straight to protected if there's room and probation is empty,
// otherwise run the probation admission contest.
func (en *Engine[K, V]) demoteFromEden(v *entry[K, V]) {
	if en.protected.size+v.weight <= en.protected.limit && en.probation.count == 0 {
		en.protected.addMRU(v)
		return
	}
	en.admitToProbation(v)
}

// admitToProbation runs the TinyLFU admission contest (§4.3) for a
// candidate v that wants a slot in probation. v is already detached from
// whatever ring it was in and still present in the index.
func (en *Engine[K, V]) admitToProbation(v *entry[K, V]) {
	if en.probation.size+v.weight <= en.probation.limit {
		en.probation.addMRU(v)
		return
	}
	if en.probation.count == 0 {
		// Nothing to contest: v alone already exceeds the budget. Admit it
		// anyway rather than discard a newly-created entry with no rival.
		en.probation.addMRU(v)
		return
	}

	u := en.probation.tail
	if v.frequency > u.frequency {
		en.probation.remove(u)
		en.destroy(u)
		en.probation.addMRU(v)
		return
	}
	// Tie or loss: the incumbent wins, v is discarded.
	en.destroy(v)
}

// destroy removes an entry from the index entirely. The caller must already
// have unlinked it from whichever ring held it.
func (en *Engine[K, V]) destroy(e *entry[K, V]) {
	delete(en.index, e.key)
}

// touch performs a single-key hit: move to MRU within the owning ring,
// bump frequency, and promote out of probation into protected if that is
// where the hit landed, cascading any resulting protected overflow back
// into probation. It does not update hit/miss statistics; its caller (Hit)
// owns that per §4.5's "one call, one count" rule.
func (en *Engine[K, V]) touch(key K) (V, bool) {
	e, ok := en.index[key]
	if !ok {
		var zero V
		return zero, false
	}

	wasProbation := e.gen == genProbation
	en.ringOf(e.gen).onHit(e)

	if wasProbation {
		en.probation.remove(e)
		en.protected.addMRU(e)
		en.demoteProtectedOverflow()
	}

	return e.value, true
}

// demoteProtectedOverflow repeatedly demotes protected's LRU into
// probation until protected is back within its budget, each demotion
// subject to the same admission contest as any other probation entrant.
func (en *Engine[K, V]) demoteProtectedOverflow() {
	for en.protected.size > en.protected.limit {
		v := en.protected.tail
		if v == nil {
			break
		}
		en.protected.remove(v)
		en.admitToProbation(v)
	}
}

// Hit looks up each key in keys, promoting every hit (§4.5 hit(keys)). The
// call counts as exactly one hit in statistics if any key was found, or
// exactly one miss if none were.
func (en *Engine[K, V]) Hit(keys []K) map[K]V {
	out := make(map[K]V, len(keys))
	anyHit := false
	for _, k := range keys {
		if v, ok := en.touch(k); ok {
			out[k] = v
			anyHit = true
		}
	}
	if anyHit {
		en.hits++
	} else {
		en.misses++
	}
	en.consultAger()
	return out
}

// Contains reports whether key is present, without affecting ring order,
// frequency, or statistics.
func (en *Engine[K, V]) Contains(key K) bool {
	_, ok := en.index[key]
	return ok
}

// Peek returns the value for key, if present, without promoting it or
// touching statistics — useful for introspection and tests.
func (en *Engine[K, V]) Peek(key K) (V, bool) {
	e, ok := en.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Delete removes key from the index and its ring, with no cascade (§4.3).
func (en *Engine[K, V]) Delete(key K) {
	e, ok := en.index[key]
	if !ok {
		return
	}
	en.ringOf(e.gen).remove(e)
	delete(en.index, key)
}

// Len returns the number of entries currently in the index.
func (en *Engine[K, V]) Len() int {
	return len(en.index)
}

// totalWeight sums the three rings' sizes, which by I2/I4 equals the sum
// of live entry weights.
func (en *Engine[K, V]) totalWeight() int64 {
	return en.eden.size + en.probation.size + en.protected.size
}

// consultAger implements the §4.4 adaptive scheduling: ageing only runs
// once the cache is full and enough operations have elapsed since the last
// run, and the next check threshold backs off by 1.5x afterward so a
// shrinking index doesn't retrigger the ager every call.
func (en *Engine[K, V]) consultAger() {
	ops := en.hits + en.sets
	if ops <= en.nextAgeAt {
		return
	}

	agePeriod := en.ageFactor * int64(len(en.index))
	if ops-en.agedAt >= agePeriod && en.totalWeight() >= en.limit {
		en.runAgeing()
		en.agedAt = ops
		en.nextAgeAt = (3 * en.agedAt) / 2
		return
	}
	en.nextAgeAt = agePeriod
}

// runAgeing halves every entry's frequency counter (§4.4).
func (en *Engine[K, V]) runAgeing() {
	for _, e := range en.index {
		e.age()
	}
}
