package preflight

import (
	"cleanfolder/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RootCheckName labels the check on the directory being organized.
const RootCheckName = "Root directory"

// RunAll executes the preflight checks for organizing root. The root check
// always runs; the others follow the config toggles and expect
// config.EnsureDirectories to have run.
func RunAll(cfg *config.Config, root string) []Result {
	results := []Result{CheckDirectoryAccess(RootCheckName, root)}
	if cfg == nil {
		return results
	}

	results = append(results, CheckDirectoryAccess("Lock directory", cfg.Lock.Dir))

	if cfg.Logging.Dir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Logging.Dir))
	}

	if cfg.History.Enabled {
		results = append(results, CheckParentWritable("History database", cfg.History.Path))
	}

	return results
}

// FirstFailure returns the first failed check, if any.
func FirstFailure(results []Result) (Result, bool) {
	for _, r := range results {
		if !r.Passed {
			return r, true
		}
	}
	return Result{}, false
}
