// Package benchmarks compares localcache's generational engine against a
// plain LRU under a Zipfian-ish workload, the same comparison-by-benchmark
// culture the donor's benchmarks module uses against its own competitor
// set, scaled down to one representative alternative rather than a whole
// cache-library zoo.
package benchmarks

import (
	"strconv"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/relcache/localcache"
)

const benchCapacity = 10000

func zipfKey(i, n int) string {
	// A handful of keys recur far more often than the rest, so an
	// admission policy that resists scanning one-off keys should show a
	// measurably better hit ratio than plain LRU.
	if i%10 < 7 {
		return "hot-" + strconv.Itoa(i%50)
	}
	return "cold-" + strconv.Itoa(i%n)
}

func BenchmarkLocalCacheSet(b *testing.B) {
	c := localcache.New[string, []byte](int64(benchCapacity * 64))
	val := make([]byte, 32)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Set(zipfKey(i, benchCapacity), val)
	}
}

func BenchmarkGolangLRUSet(b *testing.B) {
	c, err := lru.New[string, []byte](benchCapacity)
	if err != nil {
		b.Fatalf("lru.New: %v", err)
	}
	val := make([]byte, 32)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Add(zipfKey(i, benchCapacity), val)
	}
}

func BenchmarkLocalCacheHitRatio(b *testing.B) {
	c := localcache.New[string, []byte](int64(benchCapacity * 64))
	val := make([]byte, 32)
	for i := 0; i < benchCapacity*3; i++ {
		c.Set(zipfKey(i, benchCapacity), val)
	}

	var hits int
	for i := 0; i < benchCapacity; i++ {
		if _, ok := c.Get(zipfKey(i, benchCapacity)); ok {
			hits++
		}
	}
	b.ReportMetric(float64(hits)/float64(benchCapacity), "hit-ratio")
}

func BenchmarkGolangLRUHitRatio(b *testing.B) {
	c, err := lru.New[string, []byte](benchCapacity)
	if err != nil {
		b.Fatalf("lru.New: %v", err)
	}
	val := make([]byte, 32)
	for i := 0; i < benchCapacity*3; i++ {
		c.Add(zipfKey(i, benchCapacity), val)
	}

	var hits int
	for i := 0; i < benchCapacity; i++ {
		if _, ok := c.Get(zipfKey(i, benchCapacity)); ok {
			hits++
		}
	}
	b.ReportMetric(float64(hits)/float64(benchCapacity), "hit-ratio")
}
