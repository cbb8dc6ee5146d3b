package engine

// ring is an intrusive doubly-linked list of entries belonging to one
// generation (eden, probation or protected). It maintains O(1) MRU insert,
// O(1) arbitrary-node removal, O(1) LRU inspection, and a running byte-weight
// total. No ring operation ever triggers eviction — that decision belongs to
// the engine (see engine.go), which is the only thing that knows about the
// other two rings and the global budget.
type ring[K comparable, V any] struct {
	gen generation

	head, tail *entry[K, V] // head = MRU, tail = LRU
	limit      int64
	size       int64
	count      int
}

func newRing[K comparable, V any](gen generation, limit int64) *ring[K, V] {
	return &ring[K, V]{gen: gen, limit: limit}
}

// link splices e in at the head without touching size/count; used by both
// addMRU and relinkFront so weight accounting only ever happens in one
// place per caller.
func (r *ring[K, V]) link(e *entry[K, V]) {
	e.gen = r.gen
	e.prev = nil
	e.next = r.head
	if r.head != nil {
		r.head.prev = e
	}
	r.head = e
	if r.tail == nil {
		r.tail = e
	}
}

// unlink removes e from the list without touching size/count.
func (r *ring[K, V]) unlink(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		r.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		r.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

// addMRU inserts e at the head (MRU end) and adds its weight to size,
// stamping e.gen so the entry always knows which ring owns it (I3).
func (r *ring[K, V]) addMRU(e *entry[K, V]) {
	r.link(e)
	r.size += e.weight
	r.count++
}

// remove unlinks e from the ring and subtracts its weight.
func (r *ring[K, V]) remove(e *entry[K, V]) {
	r.unlink(e)
	r.size -= e.weight
	r.count--
}

// relinkFront moves e to the head in place, touching neither size nor
// count — callers that already adjusted weight (updateMRU) or don't need
// to (onHit) use this directly.
func (r *ring[K, V]) relinkFront(e *entry[K, V]) {
	if r.head == e {
		return
	}
	r.unlink(e)
	r.link(e)
}

// onHit moves e to MRU and bumps its frequency (§4.1).
func (r *ring[K, V]) onHit(e *entry[K, V]) {
	r.relinkFront(e)
	e.bump()
}

// updateMRU replaces e's value, refreshes its weight, moves it to MRU and
// bumps frequency (§4.1 update_MRU).
func (r *ring[K, V]) updateMRU(e *entry[K, V], value V, newWeight int64) {
	r.size += newWeight - e.weight
	e.value = value
	e.weight = newWeight
	r.relinkFront(e)
	e.bump()
}

// forEachLRUToMRU iterates from the tail (least recently used) to the head
// (most recently used), used by the persistence export in codec.go.
func (r *ring[K, V]) forEachLRUToMRU(fn func(*entry[K, V])) {
	for e := r.tail; e != nil; e = e.prev {
		fn(e)
	}
}

// keys returns the ring's current entries, LRU first, for tests and
// diagnostics (cheap O(n) snapshot, never called on a hot path).
func (r *ring[K, V]) keys() []K {
	out := make([]K, 0, r.count)
	r.forEachLRUToMRU(func(e *entry[K, V]) { out = append(out, e.key) })
	return out
}
