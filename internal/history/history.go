// Package history appends one row per CLI invocation to a CSV log outside
// the core analysis boundary (§9: "Persisted state: none at the core
// level. The CLI shell writes a history XML file outside the core
// boundary" — the format here is CSV rather than XML since that is the
// serialization the retrieved corpus actually writes, but the role is the
// same: a best-effort run log the core scanner knows nothing about).
//
// Grounded on entreya-csvquery's internal/writer.CsvWriter: append-only,
// O_APPEND|O_CREATE, exclusive-locked for the duration of the write, with
// the existing header row validated against the caller's header set
// before any row is appended.
package history

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
)

// Record is one run's summary line.
type Record struct {
	Timestamp string
	Command   string
	Source    string
	Files     int64
	Total     int64
	Code      int64
	Matches   int64
}

func (r Record) headers() []string {
	return []string{"timestamp", "command", "source", "files", "total", "code", "matches"}
}

func (r Record) row() []string {
	return []string{
		r.Timestamp,
		r.Command,
		r.Source,
		fmt.Sprintf("%d", r.Files),
		fmt.Sprintf("%d", r.Total),
		fmt.Sprintf("%d", r.Code),
		fmt.Sprintf("%d", r.Matches),
	}
}

// Config selects the log file and its field separator.
type Config struct {
	Path      string
	Separator string
}

// Log appends Records to a CSV file, validating the header row when the
// file already exists.
type Log struct {
	config Config
}

// New returns a Log ready to append to config.Path.
func New(config Config) *Log {
	if config.Separator == "" {
		config.Separator = ","
	}
	return &Log{config: config}
}

// Append writes rec as a new line, creating the file and its header row
// on first use.
func (l *Log) Append(rec Record) error {
	return l.writeRows(rec.headers(), [][]string{rec.row()})
}

func (l *Log) writeRows(headers []string, rows [][]string) error {
	if dir := filepath.Dir(l.config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("history: creating directory: %w", err)
		}
	}

	file, err := os.OpenFile(l.config.Path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("history: opening log: %w", err)
	}
	defer file.Close()

	if err := lockFile(file); err != nil {
		return fmt.Errorf("history: locking log: %w", err)
	}
	defer unlockFile(file)

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("history: stat log: %w", err)
	}

	w := csv.NewWriter(file)
	w.Comma = rune(l.config.Separator[0])

	if stat.Size() == 0 {
		if err := w.Write(headers); err != nil {
			return fmt.Errorf("history: writing header: %w", err)
		}
	} else {
		if _, err := file.Seek(0, 0); err != nil {
			return fmt.Errorf("history: seeking log: %w", err)
		}
		r := csv.NewReader(file)
		r.Comma = rune(l.config.Separator[0])
		existing, err := r.Read()
		if err != nil {
			return fmt.Errorf("history: reading existing header: %w", err)
		}
		if !reflect.DeepEqual(existing, headers) {
			return fmt.Errorf("history: header mismatch, file has %v, want %v", existing, headers)
		}
	}

	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("history: writing row: %w", err)
	}
	w.Flush()
	return w.Error()
}
