package preflight

import (
	"context"
	"path/filepath"

	"creditspanel/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("User data directory", cfg.Host.UserDataDir),
		CheckDirectoryAccess("Project directory", filepath.Dir(cfg.Host.ProjectFile)),
		CheckDirectoryAccess("Settings directory", filepath.Dir(cfg.Settings.Path)),
	}
	results = append(results, CheckBackend(ctx, cfg.Server.BaseURL)...)
	return results
}

// Failed returns the names of checks that did not pass.
func Failed(results []Result) []string {
	var names []string
	for _, r := range results {
		if !r.Passed {
			names = append(names, r.Name)
		}
	}
	return names
}
