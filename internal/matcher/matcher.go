// Package matcher implements LineMatcher (§4.6): literal and regular
// expression search restricted to a subset of lexical states (code, comment,
// string, or all), reusing pattern.Set for the literal case and regexp for
// the regex case. It is grounded on CLICount.cpp's per-line grep-style scan
// in the original, adapted to subscribe to scanner.Handler events instead of
// re-walking the file.
package matcher

import (
	"bytes"
	"regexp"

	"github.com/perghosh/filecleaner/internal/pattern"
	"github.com/perghosh/filecleaner/internal/region"
)

// State is the lexical-state subset a Pattern is restricted to (§4.6).
type State uint8

const (
	StateAll State = iota
	StateCode
	StateComment
	StateString
)

// Match is a single located occurrence (§6 line-list schema: row, column,
// pattern identity, and the matched text).
type Match struct {
	Row   int
	Col   int
	Name  string
	Text  string
	State State
}

// query is one registered search: either a literal pattern.Set entry or a
// compiled regexp, restricted to a State.
type query struct {
	name  string
	state State
	re    *regexp.Regexp
}

// LineMatcher implements scanner.Handler, applying every registered query to
// the text of each event whose State it accepts.
type LineMatcher struct {
	literals *pattern.Set
	// litByText indexes query metadata by literal text rather than by
	// pattern.Set index: Set.Add re-sorts its patterns by length on every
	// call, so an index recorded at registration time would drift out of
	// sync with Patterns() as soon as a later, longer pattern is added.
	litByText map[string][]query
	regexes   []query
	matches   []Match
}

// New returns an empty LineMatcher.
func New() *LineMatcher {
	return &LineMatcher{literals: pattern.New(nil), litByText: make(map[string][]query)}
}

// AddLiteral registers a literal pattern restricted to state.
func (lm *LineMatcher) AddLiteral(name, text string, state State) {
	lm.literals.Add(pattern.Pattern{Bytes: []byte(text)})
	lm.litByText[text] = append(lm.litByText[text], query{name: name, state: state})
}

// AddRegex registers a compiled regular expression restricted to state.
func (lm *LineMatcher) AddRegex(name string, re *regexp.Regexp, state State) {
	lm.regexes = append(lm.regexes, query{name: name, state: state, re: re})
}

// Matches returns every match found so far, in discovery order.
func (lm *LineMatcher) Matches() []Match { return lm.matches }

func stateAccepts(want, have State) bool {
	return want == StateAll || want == have
}

func (lm *LineMatcher) scan(row, col int, text []byte, have State) {
	if len(text) == 0 {
		return
	}
	if lm.literals.Len() > 0 {
		for _, m := range lm.literals.FindAll(text, 0, len(text)) {
			p := lm.literals.Patterns()[m.PatternIndex]
			for _, q := range lm.litByText[string(p.Bytes)] {
				if stateAccepts(q.state, have) {
					lm.record(q.name, have, row, col, m.Index, p.Bytes)
				}
			}
		}
	}
	for _, q := range lm.regexes {
		if !stateAccepts(q.state, have) {
			continue
		}
		for _, loc := range q.re.FindAllIndex(text, -1) {
			lm.record(q.name, have, row, col, loc[0], text[loc[0]:loc[1]])
		}
	}
}

// record converts a byte offset within a segment into an absolute row and a
// 0-based column (the scanner's startCol is 1-based).
// Segments passed to scan never straddle the newline that would invalidate a
// flat column add: CodeLine/CodeTransition text is a single physical line's
// worth of code, RegionNewline hands back only the current line's
// accumulated region text (reset at each '\n', see scanner.Scan), and
// RegionEnd passes only the text after the region's last '\n'.
func (lm *LineMatcher) record(name string, state State, startRow, startCol, offset int, matched []byte) {
	lm.matches = append(lm.matches, Match{Row: startRow, Col: startCol - 1 + offset, Name: name, Text: string(matched), State: state})
}

// CodeLine searches code-state and all-state queries against a completed
// code line.
func (lm *LineMatcher) CodeLine(row, col int, text []byte) {
	lm.scan(row, col, text, StateCode)
}

// CodeTransition searches the code accumulated so far at a region boundary,
// so a code-state match is never lost because it straddles the transition
// rather than a line end.
func (lm *LineMatcher) CodeTransition(row, col int, text []byte) {
	lm.scan(row, col, text, StateCode)
}

// Newline is a no-op for LineMatcher.
func (lm *LineMatcher) Newline(row int) {}

// RegionEnter is a no-op for LineMatcher; matching happens on RegionEnd once
// the full segment text is known (or RegionNewline for multiline partials).
func (lm *LineMatcher) RegionEnter(rule *region.Rule, row, col int) {}

// RegionEnd searches the completed region's content on its last physical
// line against comment-state or string-state queries, by group. Earlier lines
// of a multiline region were already searched by RegionNewline.
func (lm *LineMatcher) RegionEnd(rule *region.Rule, startRow, startCol, endRow, endCol int, text []byte, terminated bool) {
	row, col := startRow, startCol+len(rule.Open)
	if i := bytes.LastIndexByte(text, '\n'); i >= 0 {
		row, col, text = endRow, 1, text[i+1:]
	}
	lm.scan(row, col, text, groupState(rule.Group))
}

// RegionNewline searches the region text accumulated so far on the current
// physical line, so a multiline comment/string match is found even before
// the region closes.
func (lm *LineMatcher) RegionNewline(rule *region.Rule, row, col int, textSoFar []byte) {
	lm.scan(row, col, textSoFar, groupState(rule.Group))
}

func groupState(g region.Group) State {
	switch g {
	case region.GroupComment:
		return StateComment
	case region.GroupString:
		return StateString
	default:
		return StateAll
	}
}
