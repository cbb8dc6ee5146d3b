// Package cloudrun provides automatic warm-store backend selection for
// deployments running on Cloud Run: Datastore when the platform is present
// and reachable, a local-filesystem store everywhere else (including local
// development and CI).
package cloudrun

import (
	"context"
	"fmt"
	"os"

	"github.com/relcache/localcache/pkg/store"
	"github.com/relcache/localcache/pkg/store/datastore"
	"github.com/relcache/localcache/pkg/store/localfs"
)

// New selects a warm store: on Cloud Run (detected via the K_SERVICE env
// var that the platform always sets) it tries Datastore first, falling
// back to a local file store if the client can't be constructed; off
// Cloud Run it goes straight to local files.
func New[K comparable, V any](ctx context.Context, cacheID, localDir string) (store.Store[K, V], error) {
	if os.Getenv("K_SERVICE") != "" {
		if s, err := datastore.New[K, V](ctx, cacheID); err == nil {
			return s, nil
		}
	}
	s, err := localfs.New[K, V](cacheID, localDir)
	if err != nil {
		return nil, fmt.Errorf("fall back to local store: %w", err)
	}
	return s, nil
}
