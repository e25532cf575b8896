package preflight

import (
	"path/filepath"

	"ffstats/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks that apply to cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	}

	// History database may live outside state_dir.
	if path := cfg.HistoryPath(); path != "" {
		dir := filepath.Dir(path)
		if filepath.Clean(dir) != filepath.Clean(cfg.Paths.StateDir) {
			results = append(results, CheckDirectoryAccess("History directory", dir))
		}
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
