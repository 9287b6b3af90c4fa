package testsupport

import (
	"testing"

	"dupereview/internal/config"
	"dupereview/internal/sessionstore"
)

// MustOpenStore opens the configured session backend for tests and registers
// cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) sessionstore.Backend {
	t.Helper()

	store, err := sessionstore.Open(cfg)
	if err != nil {
		t.Fatalf("sessionstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
