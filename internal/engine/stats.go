package engine

// GenerationStats reports a single ring's occupancy for introspection.
type GenerationStats struct {
	Name  string
	Size  int64
	Limit int64
	Count int
}

// Stats is the §4.5 statistics record, extended (SPEC_FULL §4.5) with a
// per-generation breakdown that costs nothing on the hot path because it is
// computed on demand rather than maintained incrementally.
type Stats struct {
	Hits    int64
	Misses  int64
	Sets    int64
	Ratio   float64
	Entries int
	Bytes   int64

	PerGeneration [3]GenerationStats
}

// Stats returns the current statistics snapshot.
func (en *Engine[K, V]) Stats() Stats {
	total := en.hits + en.misses
	var ratio float64
	if total > 0 {
		ratio = float64(en.hits) / float64(total)
	}

	return Stats{
		Hits:    en.hits,
		Misses:  en.misses,
		Sets:    en.sets,
		Ratio:   ratio,
		Entries: len(en.index),
		Bytes:   en.totalWeight(),
		PerGeneration: [3]GenerationStats{
			{Name: genEden.String(), Size: en.eden.size, Limit: en.eden.limit, Count: en.eden.count},
			{Name: genProbation.String(), Size: en.probation.size, Limit: en.probation.limit, Count: en.probation.count},
			{Name: genProtected.String(), Size: en.protected.size, Limit: en.protected.limit, Count: en.protected.count},
		},
	}
}

// ResetStats zeroes hit/miss/set counters and resets the ager schedule
// (§4.5 reset_stats).
func (en *Engine[K, V]) ResetStats() {
	en.hits, en.misses, en.sets = 0, 0, 0
	en.agedAt, en.nextAgeAt = 0, 0
}
