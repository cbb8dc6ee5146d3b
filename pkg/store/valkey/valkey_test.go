package valkey

import (
	"context"
	"os"
	"testing"
	"time"
)

// skipIfNoValkey skips the test unless a Valkey/Redis server is reachable,
// following the sibling sfcache example's pattern of probing with a short
// timeout rather than requiring network access for every test run.
func skipIfNoValkey(t *testing.T) *Store[string, string] {
	t.Helper()
	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s, err := New[string, string](ctx, "localcache-test", addr)
	if err != nil {
		t.Skipf("skipping valkey tests: %v", err)
	}
	return s
}

func TestNewRejectsEmptyCacheID(t *testing.T) {
	ctx := context.Background()
	if _, err := New[string, string](ctx, "", "localhost:6379"); err == nil {
		t.Error("New should fail with an empty cacheID")
	}
}

func TestValidateKeyRejectsEmptyAndOverlong(t *testing.T) {
	var s Store[string, string]
	if err := s.ValidateKey(""); err == nil {
		t.Error("empty key should be rejected")
	}
	long := make([]byte, maxKeyLength+1)
	if err := s.ValidateKey(string(long)); err == nil {
		t.Error("over-length key should be rejected")
	}
	if err := s.ValidateKey("fine"); err != nil {
		t.Errorf("ordinary key rejected: %v", err)
	}
}

func TestSetGetDeleteRoundTrip(t *testing.T) {
	s := skipIfNoValkey(t)
	defer s.Close()
	ctx := context.Background()

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
