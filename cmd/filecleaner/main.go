// Package main provides the FileCleaner CLI: a source-code scanning tool
// that counts lines and searches for literal/regex patterns across a file
// tree, restricted to lexical regions (code/comment/string).
//
// Grounded on entreya-csvquery's src/go/main.go: a bare os.Args[0] command
// dispatch (no cobra/urfave-cli — none of the retrieved example repos
// imports a CLI framework), flag.NewFlagSet per subcommand, and a
// signal.Notify-driven graceful shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/perghosh/filecleaner/internal/annotate"
	"github.com/perghosh/filecleaner/internal/cache"
	"github.com/perghosh/filecleaner/internal/config"
	"github.com/perghosh/filecleaner/internal/diag"
	"github.com/perghosh/filecleaner/internal/driver"
	"github.com/perghosh/filecleaner/internal/exprlang"
	"github.com/perghosh/filecleaner/internal/history"
	"github.com/perghosh/filecleaner/internal/ignore"
	"github.com/perghosh/filecleaner/internal/matcher"
	"github.com/perghosh/filecleaner/internal/report"
	"github.com/perghosh/filecleaner/internal/table"
)

const Version = "0.1.0"

var shutdownChan = make(chan os.Signal, 1)

func main() {
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "count":
		runCount(os.Args[2:])
	case "search":
		runSearch(os.Args[2:])
	case "version":
		fmt.Printf("filecleaner v%s\n", Version)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`filecleaner - source file line counting and pattern search

Usage:
    filecleaner <command> [arguments]

Commands:
    count    Count total and code lines per file (§6 plain line-count mode); comment and string counts are not reported
    search   Search files for literal or regex patterns in a lexical state
    version  Show version
    help     Show this help

Use "filecleaner <command> -help" for command-specific options.`)
}

// cliFlags bundles the §6 CLI surface shared by count and search.
type cliFlags struct {
	source      string
	recursive   int
	filter      string
	ignoreFile  string
	output      string
	print       bool
	table       string
	vs          bool
	verbose     bool
	historyFile string
	saveConfig  string
	suppress    bool
	cacheFile   string
	where       string
}

func runCount(args []string) {
	fs := commonFlagSet("count")
	cf := bindCommonFlags(fs)
	_ = fs.Parse(args)

	if cf.source == "" {
		fmt.Fprintln(os.Stderr, "error: source=<path>[;<path>...] is required")
		fs.PrintDefaults()
		os.Exit(1)
	}

	logger := diag.Stderr(cf.verbose)
	paths, err := enumerate(cf)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	var fileCache *cache.Cache
	if cf.cacheFile != "" {
		fileCache, err = cache.Load(cf.cacheFile)
		if err != nil {
			logger.Error("loading cache: %v", err)
			fileCache = nil
		}
	}

	out := driver.RunRowCountCached(context.Background(), paths, 4, fileCache)

	if fileCache != nil {
		if err := fileCache.Save(); err != nil {
			logger.Error("saving cache: %v", err)
		}
	}

	t := table.New([]table.Column{
		{Name: "filename", Type: table.ColRStr},
		{Name: "count", Type: table.ColInt64},
		{Name: "code", Type: table.ColInt64},
	})
	var totalLines, codeLines int64
	for _, r := range out {
		if r.Err != nil {
			logger.Error("%s: %v", r.Path, r.Err)
			continue
		}
		row := t.RowAdd()
		t.SetStr(row, "filename", r.Path)
		t.SetInt64(row, "count", int64(r.Total))
		t.SetInt64(row, "code", int64(r.Code))
		totalLines += int64(r.Total)
		codeLines += int64(r.Code)
	}

	applyWhere(cf, logger, t)

	emit(cf, t)
	recordHistory(cf, logger, history.Record{
		Command: "count",
		Files:   int64(len(paths)),
		Total:   totalLines,
		Code:    codeLines,
	})
	persistConfig(cf, logger)
}

func runSearch(args []string) {
	fs := commonFlagSet("search")
	cf := bindCommonFlags(fs)
	pattern := fs.String("pattern", "", "literal patterns, comma-separated")
	regexPattern := fs.String("regex", "", "a single regex pattern")
	stateFlag := fs.String("state", "all", "state=code|comment|string|all")
	snippetExpr := fs.String("snippet", "", "ExprLang expression evaluated per match row; appends a 'snippet' column to a synthesised row, dropping rows where it evaluates to null (§2 Data flow)")
	_ = fs.Parse(args)

	if cf.source == "" {
		fmt.Fprintln(os.Stderr, "error: source=<path>[;<path>...] is required")
		fs.PrintDefaults()
		os.Exit(1)
	}
	if *pattern == "" && *regexPattern == "" {
		fmt.Fprintln(os.Stderr, "error: pattern=<str>[,...] or regex=<str> is required")
		os.Exit(1)
	}

	logger := diag.Stderr(cf.verbose)
	paths, err := enumerate(cf)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	state := stateFor(*stateFlag)
	literals := splitNonEmpty(*pattern, ",")

	pool := driver.New(driver.Config{
		Concurrency: 4,
		Logger:      logger,
		NewMatcher: func() *matcher.LineMatcher {
			lm := matcher.New()
			for _, p := range literals {
				lm.AddLiteral(p, p, state)
			}
			if *regexPattern != "" {
				if re, err := regexp.Compile(*regexPattern); err == nil {
					lm.AddRegex(*regexPattern, re, state)
				} else {
					logger.Error("invalid regex %q: %v", *regexPattern, err)
				}
			}
			return lm
		},
	})

	ctx, cancel := signalContext()
	defer cancel()
	results := pool.Run(ctx, paths)

	t := table.New([]table.Column{
		{Name: "filename", Type: table.ColRStr},
		{Name: "row", Type: table.ColInt64},
		{Name: "column", Type: table.ColInt64},
		{Name: "pattern", Type: table.ColStr},
	})
	var matchCount int64
	for _, r := range results {
		if r.Err != nil {
			logger.Error("%s: %v", r.Path, r.Err)
			continue
		}
		var notes *annotate.Store
		if cf.suppress {
			notes, err = annotate.Load(r.Path)
			if err != nil {
				logger.Error("loading annotations for %s: %v", r.Path, err)
				notes = nil
			}
		}
		for _, m := range r.Matches {
			if notes != nil && notes.Suppressed(r.Path, m.Row, m.Col) {
				continue
			}
			row := t.RowAdd()
			t.SetStr(row, "filename", r.Path)
			t.SetInt64(row, "row", int64(m.Row))
			t.SetInt64(row, "column", int64(m.Col))
			t.SetStr(row, "pattern", m.Name)
			matchCount++
		}
	}

	applyWhere(cf, logger, t)

	if *snippetExpr != "" {
		if snippets, err := buildSnippetTable(t, *snippetExpr); err != nil {
			logger.Error("compiling -snippet %q: %v", *snippetExpr, err)
		} else {
			t = snippets
		}
	}

	emit(cf, t)
	recordHistory(cf, logger, history.Record{
		Command: "search",
		Files:   int64(len(paths)),
		Matches: matchCount,
	})
	persistConfig(cf, logger)
}

func commonFlagSet(name string) *flag.FlagSet { return flag.NewFlagSet(name, flag.ExitOnError) }

func bindCommonFlags(fs *flag.FlagSet) *cliFlags {
	cf := &cliFlags{}
	fs.StringVar(&cf.source, "source", "", "file or directory path(s), ';'-separated")
	fs.IntVar(&cf.recursive, "recursive", 0, "subtree recursion depth (R implies 16)")
	fs.BoolFunc("R", "same as -recursive=16", func(string) error { cf.recursive = 16; return nil })
	fs.StringVar(&cf.filter, "filter", "", "filename wildcard filter(s), ';'-separated")
	fs.StringVar(&cf.ignoreFile, "ignore", "", "path to an ignore-pattern file")
	fs.StringVar(&cf.output, "output", "", "output file path (default: stdout)")
	fs.BoolVar(&cf.print, "print", false, "print results to stdout")
	fs.StringVar(&cf.table, "table", "", "named result table to render")
	fs.BoolVar(&cf.vs, "vs", false, "Visual Studio error-list output flavour")
	fs.BoolVar(&cf.verbose, "verbose", false, "enable verbose diagnostics")
	fs.StringVar(&cf.historyFile, "history", "", "append a one-line run summary to this CSV log")
	fs.StringVar(&cf.saveConfig, "saveconfig", "", "persist this run's flags as a JSON sidecar for later replay")
	fs.BoolVar(&cf.suppress, "suppress", false, "drop matches previously annotated as suppressed in source.annotations.json")
	fs.StringVar(&cf.cacheFile, "cache", "", "skip rescanning unchanged files, recorded in this JSON cache")
	fs.StringVar(&cf.where, "where", "", "ExprLang predicate evaluated per result row; rows it rejects are pruned (§2 Data flow)")
	return cf
}

// applyWhere compiles and runs cf.where as an ExprLang predicate against
// every row of t, pruning rows it rejects (§2 Data flow's "expression
// filter" pass over the result table, bound via exprlang.BindRow/
// PruneFiltered). A no-op when cf.where is unset.
func applyWhere(cf *cliFlags, logger *diag.Logger, t *table.Table) {
	if cf.where == "" {
		return
	}
	prog, err := exprlang.Compile(cf.where)
	if err != nil {
		logger.Error("compiling -where %q: %v", cf.where, err)
		return
	}
	if err := exprlang.PruneFiltered(prog, t, exprlang.NewRuntime()); err != nil {
		logger.Error("evaluating -where %q: %v", cf.where, err)
	}
}

// persistConfig saves cf's resolved flags to cf.saveConfig as a
// config.Config sidecar (§6), so a later run can reuse the same source
// list, filters, and output selection without retyping them.
func persistConfig(cf *cliFlags, logger *diag.Logger) {
	if cf.saveConfig == "" {
		return
	}
	cfg, err := config.Load(cf.saveConfig)
	if err != nil {
		logger.Error("loading %s: %v", cf.saveConfig, err)
		return
	}
	cfg.Source = splitNonEmpty(cf.source, ";")
	cfg.Recursive = cf.recursive
	cfg.Filter = splitNonEmpty(cf.filter, ";")
	cfg.Output = cf.output
	cfg.Print = cf.print
	cfg.Table = cf.table
	cfg.VS = cf.vs
	cfg.IgnoreFile = cf.ignoreFile
	cfg.Verbose = cf.verbose
	if err := cfg.Save(); err != nil {
		logger.Error("saving %s: %v", cf.saveConfig, err)
	}
}

// recordHistory appends a summary line for this run when cf.historyFile is
// set. Failures are logged but never fail the run itself — the history log
// sits outside the core boundary (§9) and is best-effort.
func recordHistory(cf *cliFlags, logger *diag.Logger, rec history.Record) {
	if cf.historyFile == "" {
		return
	}
	rec.Timestamp = time.Now().UTC().Format(time.RFC3339)
	rec.Source = cf.source
	log := history.New(history.Config{Path: cf.historyFile})
	if err := log.Append(rec); err != nil {
		logger.Error("writing history: %v", err)
	}
}

// emit renders t per cf's output selection: vs flavour, CSV (when output
// ends in .csv), or the aligned text table otherwise; to cf.output when
// set, else stdout. When both output and print are set, the rendering goes
// to both (§6: "Default to printing if no output options are specified",
// CLICount.cpp — print additionally forces the stdout copy once a file
// target is also given).
func emit(cf *cliFlags, t *table.Table) {
	var w io.Writer = os.Stdout
	var f *os.File
	if cf.output != "" {
		var err error
		f, err = os.Create(cf.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: creating %s: %v\n", cf.output, err)
			os.Exit(1)
		}
		defer f.Close()
		if cf.print {
			w = io.MultiWriter(os.Stdout, f)
		} else {
			w = f
		}
	}

	var renderErr error
	switch {
	case cf.vs:
		renderErr = report.WriteVS(w, t, "filename", "row", "column", "pattern")
	case strings.HasSuffix(cf.output, ".csv"):
		renderErr = report.WriteCSV(w, t)
	default:
		renderErr = report.WriteTable(w, t)
	}
	if renderErr != nil {
		fmt.Fprintf(os.Stderr, "error: rendering output: %v\n", renderErr)
		os.Exit(1)
	}
}

// buildSnippetTable compiles expr and runs it once per row of src (columns
// bound as variables via exprlang.BindRow), producing a new table that
// carries src's columns through plus a "snippet" column holding the
// expression's result (§2 Data flow's synthesised-snippet-row transform).
func buildSnippetTable(src *table.Table, expr string) (*table.Table, error) {
	prog, err := exprlang.Compile(expr)
	if err != nil {
		return nil, err
	}
	dest := table.New(append(append([]table.Column{}, src.Columns()...), table.Column{Name: "snippet", Type: table.ColStr}))
	specs := []exprlang.SnippetSpec{{Column: "snippet", Expr: prog}}
	if err := exprlang.EmitSnippets(src, dest, specs, exprlang.NewRuntime()); err != nil {
		return nil, err
	}
	return dest, nil
}

// stateFor maps the search command's single state= value to the one
// matcher.State a pattern can be restricted to (§4.6: a Pattern's State is
// a single region, not a set — unlike config.State, which tracks the
// broader run-level mask as a bitmask for persistence).
func stateFor(s string) matcher.State {
	switch s {
	case "code":
		return matcher.StateCode
	case "comment":
		return matcher.StateComment
	case "string":
		return matcher.StateString
	default:
		return matcher.StateAll
	}
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// enumerate expands cf.source (';'-separated files/directories) into a flat
// file list, honoring cf.recursive's depth bound, cf.filter's wildcards,
// and cf.ignoreFile's ignore.Matcher (§6 Ignore lists).
func enumerate(cf *cliFlags) ([]string, error) {
	var matcherIgnore *ignore.Matcher
	if cf.ignoreFile != "" {
		m, err := ignore.Load(cf.ignoreFile)
		if err != nil {
			return nil, fmt.Errorf("loading ignore file: %w", err)
		}
		matcherIgnore = m
	}
	filters := splitNonEmpty(cf.filter, ";")

	var out []string
	for _, root := range splitNonEmpty(cf.source, ";") {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", root, err)
		}
		if !info.IsDir() {
			out = append(out, root)
			continue
		}
		if err := walkDir(root, cf.recursive, filters, matcherIgnore, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func walkDir(root string, depth int, filters []string, im *ignore.Matcher, out *[]string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("reading directory %q: %w", root, err)
	}
	for _, e := range entries {
		full := filepath.Join(root, e.Name())
		if im != nil && im.Match(full) {
			continue
		}
		if e.IsDir() {
			if depth > 0 {
				if err := walkDir(full, depth-1, filters, im, out); err != nil {
					return err
				}
			}
			continue
		}
		if matchesAnyFilter(e.Name(), filters) {
			*out = append(*out, full)
		}
	}
	return nil
}

func matchesAnyFilter(name string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if ok, err := filepath.Match(f, name); err == nil && ok {
			return true
		}
	}
	return false
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-shutdownChan:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
