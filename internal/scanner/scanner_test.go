package scanner

import (
	"strings"
	"testing"

	"github.com/perghosh/filecleaner/internal/region"
	"github.com/perghosh/filecleaner/internal/window"
)

type event struct {
	kind string
	s    string
}

type recorder struct {
	events []event
}

func (r *recorder) CodeLine(row, col int, text []byte) {
	r.events = append(r.events, event{"codeline", string(text)})
}
func (r *recorder) CodeTransition(row, col int, text []byte) {
	r.events = append(r.events, event{"codetrans", string(text)})
}
func (r *recorder) Newline(row int) {
	r.events = append(r.events, event{"newline", ""})
}
func (r *recorder) RegionEnter(rule *region.Rule, row, col int) {
	r.events = append(r.events, event{"enter", rule.Kind.String()})
}
func (r *recorder) RegionEnd(rule *region.Rule, startRow, startCol, endRow, endCol int, text []byte, terminated bool) {
	kind := "end"
	if !terminated {
		kind = "unterminated"
	}
	r.events = append(r.events, event{kind, string(text)})
}
func (r *recorder) RegionNewline(rule *region.Rule, row, col int, textSoFar []byte) {
	r.events = append(r.events, event{"regionnewline", string(textSoFar)})
}

func cMachine() *region.Machine {
	m, _ := region.NewMachineForExtension("c")
	return m
}

func countOf(events []event, kind string) int {
	n := 0
	for _, e := range events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

// TestScanLineComment validates S1-shaped content: code, a line comment, a
// second code line. The line comment must flush the code line and never
// consume the trailing newline as part of its own content.
func TestScanLineComment(t *testing.T) {
	src := "int x = 0; // comment\nint y = 1;\n"
	rec := &recorder{}
	s := New(cMachine(), rec)
	if err := s.Scan(strings.NewReader(src)); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if n := countOf(rec.events, "codeline"); n != 2 {
		t.Fatalf("expected 2 code lines, got %d: %+v", n, rec.events)
	}
	if n := countOf(rec.events, "newline"); n != 2 {
		t.Fatalf("expected 2 newlines, got %d", n)
	}
	if n := countOf(rec.events, "enter"); n != 1 {
		t.Fatalf("expected 1 region enter, got %d", n)
	}
}

// TestScanBlockCommentSpanningLines validates S3-shaped content: a block
// comment spanning three physical lines with no code outside it.
func TestScanBlockCommentSpanningLines(t *testing.T) {
	src := "/* a\nb\nc */\n"
	rec := &recorder{}
	s := New(cMachine(), rec)
	if err := s.Scan(strings.NewReader(src)); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if n := countOf(rec.events, "codeline"); n != 0 {
		t.Fatalf("expected 0 code lines, got %d: %+v", n, rec.events)
	}
	var endText string
	for _, e := range rec.events {
		if e.kind == "end" {
			endText = e.s
		}
	}
	if endText != " a\nb\nc " {
		t.Fatalf("unexpected block comment content: %q", endText)
	}
}

// TestScanEscapedQuoteInString validates that an escaped quote does not
// terminate a string region, matching the §4.2 escape rule.
func TestScanEscapedQuoteInString(t *testing.T) {
	src := `"a\"b"` + "\n"
	rec := &recorder{}
	s := New(cMachine(), rec)
	if err := s.Scan(strings.NewReader(src)); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	var ends []string
	for _, e := range rec.events {
		if e.kind == "end" {
			ends = append(ends, e.s)
		}
	}
	if len(ends) != 1 || ends[0] != `a\"b` {
		t.Fatalf("expected single string region with escaped quote preserved, got %+v", ends)
	}
}

// TestScanUnterminatedRegion validates EOF-while-active reporting (§7
// UnterminatedRegion).
func TestScanUnterminatedRegion(t *testing.T) {
	src := `"unterminated`
	rec := &recorder{}
	s := New(cMachine(), rec)
	if err := s.Scan(strings.NewReader(src)); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if n := countOf(rec.events, "unterminated"); n != 1 {
		t.Fatalf("expected 1 unterminated region, got %d: %+v", n, rec.events)
	}
}

// TestScanAcrossWindowBoundary forces a rotate/refill cycle mid-region by
// using a tiny window, verifying the classification is unaffected by chunk
// boundaries (Property 1, §8).
func TestScanAcrossWindowBoundary(t *testing.T) {
	src := "int a;\n/* a long comment that will span the rotate boundary */\nint b;\n"
	rec := &recorder{}
	win := window.New(8)
	s := NewWithWindow(cMachine(), rec, win)
	if err := s.Scan(strings.NewReader(src)); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	var endText string
	for _, e := range rec.events {
		if e.kind == "end" {
			endText = e.s
		}
	}
	want := " a long comment that will span the rotate boundary "
	if endText != want {
		t.Fatalf("comment content corrupted across window boundary: got %q want %q", endText, want)
	}
	if n := countOf(rec.events, "codeline"); n != 2 {
		t.Fatalf("expected 2 code lines, got %d: %+v", n, rec.events)
	}
}
