package testsupport

import (
	"testing"

	"ffstats/internal/config"
	"ffstats/internal/runlog"
)

// MustOpenRunlog opens the run history database configured in cfg and
// registers cleanup with the test.
func MustOpenRunlog(t testing.TB, cfg *config.Config) *runlog.Store {
	t.Helper()

	store, err := runlog.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("open run history: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
