package history

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppendCreatesHeaderThenAppendsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")
	log := New(Config{Path: path})

	if err := log.Append(Record{Timestamp: "t1", Command: "count", Source: "a", Files: 3, Total: 10, Code: 7}); err != nil {
		t.Fatal(err)
	}
	if err := log.Append(Record{Timestamp: "t2", Command: "search", Source: "b", Files: 1, Matches: 2}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := splitLines(string(data))
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines: %q", len(lines), string(data))
	}
	if lines[0] != "timestamp,command,source,files,total,code,matches" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "t1,count,a,3,10,7,0" {
		t.Fatalf("unexpected row 1: %q", lines[1])
	}
	if lines[2] != "t2,search,b,1,0,0,2" {
		t.Fatalf("unexpected row 2: %q", lines[2])
	}
}

func TestAppendRejectsHeaderMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")
	if err := os.WriteFile(path, []byte("wrong,header\n"), 0644); err != nil {
		t.Fatal(err)
	}

	log := New(Config{Path: path})
	if err := log.Append(Record{Timestamp: "t1", Command: "count"}); err == nil {
		t.Fatal("expected a header mismatch error")
	}
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
