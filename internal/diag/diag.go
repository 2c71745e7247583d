// Package diag provides the ambient logging facility used across
// FileCleaner. No structured-logging library appears anywhere in the
// retrieved corpus, so, following indexer.Indexer/query.QueryEngine's
// Verbose-gated fmt.Fprintf(os.Stderr, ...) idiom, Logger is a thin
// io.Writer wrapper with no third-party dependency.
package diag

import (
	"fmt"
	"io"
	"os"
)

// Logger writes diagnostic lines to an io.Writer, gated by Verbose/Debug
// levels. The zero Logger writes errors only to os.Stderr.
type Logger struct {
	w       io.Writer
	Verbose bool
	Debug   bool
}

// New returns a Logger writing to w.
func New(w io.Writer) *Logger { return &Logger{w: w} }

// Stderr returns a Logger writing to os.Stderr, with the given Verbose
// level.
func Stderr(verbose bool) *Logger { return &Logger{w: os.Stderr, Verbose: verbose} }

func (l *Logger) writer() io.Writer {
	if l == nil || l.w == nil {
		return os.Stderr
	}
	return l.w
}

// Error always prints, regardless of Verbose/Debug.
func (l *Logger) Error(format string, args ...any) {
	fmt.Fprintf(l.writer(), "error: "+format+"\n", args...)
}

// Info prints only when Verbose is set.
func (l *Logger) Info(format string, args ...any) {
	if l == nil || !l.Verbose {
		return
	}
	fmt.Fprintf(l.writer(), format+"\n", args...)
}

// Debugf prints only when Debug is set, prefixed for grep-ability.
func (l *Logger) Debugf(format string, args ...any) {
	if l == nil || !l.Debug {
		return
	}
	fmt.Fprintf(l.writer(), "debug: "+format+"\n", args...)
}
