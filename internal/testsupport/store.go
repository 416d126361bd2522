package testsupport

import (
	"testing"

	"bodywise/internal/config"
	"bodywise/internal/photostore"
)

// MustOpenStore opens a photostore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *photostore.Store {
	t.Helper()

	store, err := photostore.Open(cfg)
	if err != nil {
		t.Fatalf("photostore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
