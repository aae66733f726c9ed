package preflight

import (
	"context"

	"exomatch/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Always checked
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Report directory", cfg.Paths.ReportDir))
	results = append(results, CheckDocuments(cfg.Paths.DocumentsDir))
	results = append(results, CheckCatalog(ctx, cfg))
	results = append(results, CheckApplyLock(cfg.CatalogLockPath()))

	if cfg.Normalization.RulesPath != "" {
		results = append(results, CheckRulesFile(cfg.Normalization.RulesPath))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
