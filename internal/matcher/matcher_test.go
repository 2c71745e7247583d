package matcher

import (
	"regexp"
	"strings"
	"testing"

	"github.com/perghosh/filecleaner/internal/region"
	"github.com/perghosh/filecleaner/internal/scanner"
)

func cMachine() *region.Machine {
	m, _ := region.NewMachineForExtension("c")
	return m
}

// TestScenarioS7 matches spec.md's S7 shape: a literal search restricted to
// the code state must not match the same text appearing inside a comment.
func TestScenarioS7(t *testing.T) {
	lm := New()
	lm.AddLiteral("todo", "TODO", StateCode)
	s := scanner.New(cMachine(), lm)
	src := "do_work(); // TODO: fix\nTODO();\n"
	if err := s.Scan(strings.NewReader(src)); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	matches := lm.Matches()
	if len(matches) != 1 {
		t.Fatalf("expected 1 code-state match, got %d: %+v", len(matches), matches)
	}
	if matches[0].Text != "TODO" {
		t.Fatalf("unexpected match text %q", matches[0].Text)
	}
}

// TestScenarioS8 matches spec.md's S8 shape: a comment-restricted search
// finds a match inside a block comment and reports its row.
func TestScenarioS8(t *testing.T) {
	lm := New()
	lm.AddLiteral("fixme", "FIXME", StateComment)
	s := scanner.New(cMachine(), lm)
	src := "a = 1;\n/* FIXME later */\nb = 2;\n"
	if err := s.Scan(strings.NewReader(src)); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	matches := lm.Matches()
	if len(matches) != 1 {
		t.Fatalf("expected 1 comment-state match, got %d: %+v", len(matches), matches)
	}
	if matches[0].Row != 2 {
		t.Fatalf("expected match on row 2, got %d", matches[0].Row)
	}
}

func TestStateAllMatchesEverywhere(t *testing.T) {
	lm := New()
	lm.AddLiteral("x", "x", StateAll)
	s := scanner.New(cMachine(), lm)
	src := "x = 1; // x\n\"x\"\n"
	if err := s.Scan(strings.NewReader(src)); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if len(lm.Matches()) != 3 {
		t.Fatalf("expected 3 matches across all states, got %d: %+v", len(lm.Matches()), lm.Matches())
	}
}

func TestRegexMatch(t *testing.T) {
	lm := New()
	lm.AddRegex("num", regexp.MustCompile(`\d+`), StateCode)
	s := scanner.New(cMachine(), lm)
	src := "a = 123;\n"
	if err := s.Scan(strings.NewReader(src)); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if len(lm.Matches()) != 1 || lm.Matches()[0].Text != "123" {
		t.Fatalf("unexpected matches: %+v", lm.Matches())
	}
}
