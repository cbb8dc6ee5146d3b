package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRingAddMRUOrdering(t *testing.T) {
	r := newRing[string, string](genEden, 100)
	a := &entry[string, string]{key: "a", weight: 1}
	b := &entry[string, string]{key: "b", weight: 1}
	c := &entry[string, string]{key: "c", weight: 1}

	r.addMRU(a)
	r.addMRU(b)
	r.addMRU(c)

	if diff := cmp.Diff([]string{"a", "b", "c"}, r.keys()); diff != "" {
		t.Errorf("keys (LRU->MRU) (-want +got):\n%s", diff)
	}
	if r.size != 3 || r.count != 3 {
		t.Errorf("size/count = %d/%d, want 3/3", r.size, r.count)
	}
	if r.tail != a || r.head != c {
		t.Error("tail should be the oldest insert, head the newest")
	}
}

func TestRingRemoveMiddle(t *testing.T) {
	r := newRing[string, string](genEden, 100)
	a := &entry[string, string]{key: "a", weight: 2}
	b := &entry[string, string]{key: "b", weight: 3}
	c := &entry[string, string]{key: "c", weight: 4}
	r.addMRU(a)
	r.addMRU(b)
	r.addMRU(c)

	r.remove(b)

	if diff := cmp.Diff([]string{"a", "c"}, r.keys()); diff != "" {
		t.Errorf("keys after remove (-want +got):\n%s", diff)
	}
	if r.size != 6 {
		t.Errorf("size = %d, want 6", r.size)
	}
	if r.count != 2 {
		t.Errorf("count = %d, want 2", r.count)
	}
	if a.prev != nil || a.next != c || c.prev != a || c.next != nil {
		t.Error("splice left a dangling pointer")
	}
}

func TestRingOnHitMovesToMRUAndBumps(t *testing.T) {
	r := newRing[string, string](genProtected, 100)
	a := &entry[string, string]{key: "a", weight: 1, frequency: 1}
	b := &entry[string, string]{key: "b", weight: 1, frequency: 1}
	r.addMRU(a)
	r.addMRU(b)

	r.onHit(a)

	if diff := cmp.Diff([]string{"b", "a"}, r.keys()); diff != "" {
		t.Errorf("keys after onHit (-want +got):\n%s", diff)
	}
	if a.frequency != 2 {
		t.Errorf("frequency = %d, want 2", a.frequency)
	}
}

func TestRingUpdateMRUAdjustsSize(t *testing.T) {
	r := newRing[string, string](genProtected, 100)
	a := &entry[string, string]{key: "a", weight: 10, frequency: 1}
	b := &entry[string, string]{key: "b", weight: 5, frequency: 1}
	r.addMRU(a)
	r.addMRU(b)

	r.updateMRU(a, "new", 3)

	if r.size != 8 { // 3 (new a) + 5 (b)
		t.Errorf("size = %d, want 8", r.size)
	}
	if a.value != "new" || a.weight != 3 {
		t.Errorf("a = %+v, want value=new weight=3", a)
	}
	if diff := cmp.Diff([]string{"b", "a"}, r.keys()); diff != "" {
		t.Errorf("keys after updateMRU (-want +got):\n%s", diff)
	}
	if a.frequency != 2 {
		t.Errorf("frequency = %d, want 2", a.frequency)
	}
}

func TestEntryBumpSaturates(t *testing.T) {
	e := &entry[string, string]{frequency: maxFrequency}
	e.bump()
	if e.frequency != maxFrequency {
		t.Errorf("frequency = %d, want saturated at %d", e.frequency, maxFrequency)
	}
}

func TestEntryAgeHalves(t *testing.T) {
	e := &entry[string, string]{frequency: 9}
	e.age()
	if e.frequency != 4 {
		t.Errorf("frequency = %d, want 4", e.frequency)
	}
}
