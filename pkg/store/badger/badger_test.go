package badger

import (
	"context"
	"testing"
)

func TestSetGetDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := New[string, string](t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := s.Set(ctx, "k1", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, found, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || v != "v1" {
		t.Errorf("Get = %q, %v; want v1, true", v, found)
	}

	if err := s.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, err := s.Get(ctx, "k1"); err != nil || found {
		t.Errorf("Get after delete = found=%v err=%v; want false, nil", found, err)
	}
}

func TestLenAndFlush(t *testing.T) {
	ctx := context.Background()
	s, err := New[string, int](t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	for i, k := range []string{"a", "b", "c"} {
		if err := s.Set(ctx, k, i); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	if n, err := s.Len(ctx); err != nil || n != 3 {
		t.Fatalf("Len = %d, %v; want 3, nil", n, err)
	}
	n, err := s.Flush(ctx)
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if n != 3 {
		t.Errorf("Flush removed %d, want 3", n)
	}
}
