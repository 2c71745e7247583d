// Package driver fans a set of source file paths across a bounded pool of
// goroutines, each owning its own Scanner (§5 Concurrency model: "The
// analysis engine is single-threaded per file... each Scanner instance owns
// its Window, its RegionMachine, and its contribution rows and does not
// share them").
//
// Grounded on server.UDSDaemon's semaphore + sync.WaitGroup + shutdown
// channel shape (entreya-csvquery), repurposed from a network daemon
// accepting connections to a pool running one scan per file. Each worker
// writes only its own slot of Run's pre-sized results slice, so no lock is
// needed during the scan itself; the file/file-count/file-linelist
// table.Table values §5 describes as reader-writer-locked are built
// single-threaded afterwards, once Run has returned and every worker has
// joined, by the caller folding results into a Table row by row.
package driver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/perghosh/filecleaner/internal/cache"
	"github.com/perghosh/filecleaner/internal/counter"
	"github.com/perghosh/filecleaner/internal/diag"
	"github.com/perghosh/filecleaner/internal/matcher"
	"github.com/perghosh/filecleaner/internal/region"
	"github.com/perghosh/filecleaner/internal/scanerr"
	"github.com/perghosh/filecleaner/internal/scanner"
)

// FileResult is one file's outcome: its Counter stats (if requested), its
// LineMatcher matches (if requested), and any error encountered opening or
// reading it.
type FileResult struct {
	Path    string
	Stats   counter.Stats
	Matches []matcher.Match
	Err     error
}

// Config controls a Pool run.
type Config struct {
	// Concurrency bounds the number of files scanned simultaneously.
	// <= 0 defaults to 4.
	Concurrency int

	// NewMatcher, when non-nil, is called once per worker goroutine to
	// build a fresh LineMatcher instance (matchers are not safe to share
	// across files scanned concurrently — each accumulates its own
	// Matches slice). Leave nil to skip pattern matching (row-count-only
	// mode, §6 plain line-count mode / PLAY_rowcounter.cpp).
	NewMatcher func() *matcher.LineMatcher

	Logger *diag.Logger

	// Cache, when non-nil, lets scanOne skip files whose size and mtime
	// match a prior run's recorded line counts. Only used in row-count-only
	// mode (NewMatcher == nil): a cache hit has no match positions to
	// reconstruct, so pattern search always rescans.
	Cache *cache.Cache
}

// Pool runs Scanner passes over a batch of files, each on its own
// goroutine, honoring a concurrency cap and a best-effort shutdown signal.
type Pool struct {
	cfg      Config
	sem      chan struct{}
	shutdown chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// New returns a Pool ready to run.
func New(cfg Config) *Pool {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Pool{
		cfg:      cfg,
		sem:      make(chan struct{}, cfg.Concurrency),
		shutdown: make(chan struct{}),
	}
}

// Stop requests that in-flight files finish but no new files start (§5
// Cancellation: "there is no mid-file cancellation token — a file either
// completes or is abandoned when its worker exits").
func (p *Pool) Stop() { p.once.Do(func() { close(p.shutdown) }) }

// ListenForInterrupt closes the pool's shutdown channel on SIGINT/SIGTERM,
// returning a cancel func that stops listening. Mirrors
// server.UDSDaemon.Start's signal.Notify + goroutine shape.
func (p *Pool) ListenForInterrupt() (cancel func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			p.Stop()
		case <-done:
		}
	}()
	return func() {
		close(done)
		signal.Stop(sigCh)
	}
}

// Run scans paths, extension-matching each to a region.Machine rule set via
// region.NewMachineForExtension, and returns one FileResult per path in the
// same order as the input slice (order is a reporting convenience; §5
// guarantees no cross-file ordering otherwise). A path whose extension has
// no registered rule set still yields a FileResult with a populated
// Stats.TotalLines only, per §6's "reports only total_lines" fallback —
// Run still counts its lines via a Counter with an empty Machine.
func (p *Pool) Run(ctx context.Context, paths []string) []FileResult {
	results := make([]FileResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		// Checked first on its own: a select with several ready cases picks
		// one at random, so a free semaphore slot could otherwise win.
		select {
		case <-p.shutdown:
			results[i] = FileResult{Path: path, Err: fmt.Errorf("driver: pool stopped before scanning %s", path)}
			continue
		default:
		}
		select {
		case <-p.shutdown:
			results[i] = FileResult{Path: path, Err: fmt.Errorf("driver: pool stopped before scanning %s", path)}
			continue
		case <-ctx.Done():
			results[i] = FileResult{Path: path, Err: ctx.Err()}
			continue
		case p.sem <- struct{}{}:
		}

		wg.Add(1)
		p.wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer p.wg.Done()
			defer func() { <-p.sem }()
			results[i] = p.scanOne(path)
		}(i, path)
	}

	wg.Wait()
	return results
}

// Wait blocks until every in-flight scan started by Run has finished.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) scanOne(path string) FileResult {
	info, statErr := os.Stat(path)
	if p.cfg.Cache != nil && p.cfg.NewMatcher == nil && statErr == nil {
		if rec, ok := p.cfg.Cache.Fresh(path, info.Size(), info.ModTime().UnixNano()); ok {
			return FileResult{Path: path, Stats: counter.Stats{TotalLines: rec.Total, CodeLines: rec.Code}}
		}
	}

	f, err := os.Open(path)
	if err != nil {
		err = scanerr.New(scanerr.IoOpenFailed, path, err)
		if p.cfg.Logger != nil {
			p.cfg.Logger.Error("%v", err)
		}
		return FileResult{Path: path, Err: err}
	}
	defer f.Close()

	machine, _ := region.NewMachineForExtension(extOf(path))
	noRules := machine == nil
	if noRules {
		machine = region.NewMachine()
	}

	c := counter.New()
	var lm *matcher.LineMatcher
	if p.cfg.NewMatcher != nil {
		lm = p.cfg.NewMatcher()
	}

	var handler scanner.Handler = c
	if lm != nil {
		handler = scanner.Multi{c, lm}
	}

	sc := scanner.New(machine, handler)
	if err := sc.Scan(f); err != nil {
		err = scanerr.New(scanerr.IoReadFailed, path, err)
		if p.cfg.Logger != nil {
			p.cfg.Logger.Error("%v", err)
		}
		return FileResult{Path: path, Stats: c.Stats(), Err: err}
	}

	res := FileResult{Path: path, Stats: c.Stats()}
	if noRules {
		res.Stats = counter.Stats{TotalLines: res.Stats.TotalLines}
	}
	if lm != nil {
		res.Matches = lm.Matches()
	} else if p.cfg.Cache != nil && statErr == nil {
		p.cfg.Cache.Remember(path, cache.Record{
			Size:    info.Size(),
			ModTime: info.ModTime().UnixNano(),
			Total:   res.Stats.TotalLines,
			Code:    res.Stats.CodeLines,
		})
	}
	return res
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i] {
		case '.':
			return path[i+1:]
		case '/', '\\':
			return ""
		}
	}
	return ""
}
