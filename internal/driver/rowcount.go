package driver

import (
	"context"

	"github.com/perghosh/filecleaner/internal/cache"
)

// RowCountResult is one file's plain line-count outcome.
type RowCountResult struct {
	Path  string
	Total uint64
	Code  uint64
	Err   error
}

// RunRowCount runs a Counter-only pass over paths with no pattern matching,
// for the CLI's plain line-count mode (§6; grounded on
// original_source/target/TOOLS/FileCleaner/playground/PLAY_rowcounter.cpp,
// whose row-counting TEST_CASE drives the RegionMachine/pattern primitives
// directly with no LineMatcher involved — the thin convenience path this
// function gives a name to).
func RunRowCount(ctx context.Context, paths []string, concurrency int) []RowCountResult {
	return RunRowCountCached(ctx, paths, concurrency, nil)
}

// RunRowCountCached is RunRowCount with an optional Cache consulted before
// each file is reopened and rescanned.
func RunRowCountCached(ctx context.Context, paths []string, concurrency int, c *cache.Cache) []RowCountResult {
	pool := New(Config{Concurrency: concurrency, Cache: c})
	results := pool.Run(ctx, paths)

	out := make([]RowCountResult, len(results))
	for i, r := range results {
		out[i] = RowCountResult{
			Path:  r.Path,
			Total: r.Stats.TotalLines,
			Code:  r.Stats.CodeLines,
			Err:   r.Err,
		}
	}
	return out
}
