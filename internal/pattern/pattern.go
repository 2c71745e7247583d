// Package pattern implements PatternSet (§4.3): a length-sorted set of
// literal byte patterns plus a 256-entry first-byte hint table, used to
// locate the first occurrence of any registered pattern within a byte range.
package pattern

import "sort"

// Pattern is a literal byte sequence with an optional escape marker (§3).
type Pattern struct {
	Bytes  []byte
	Escape []byte
}

// Set is an ordered, length-sorted-descending collection of Patterns plus a
// 256-entry hint table indexed by each pattern's first byte.
type Set struct {
	patterns []Pattern
	hint     [256]bool
}

// New builds a Set from literal pattern strings. Patterns are sorted by
// length descending so that the longest match always wins over any pattern
// that is merely a prefix of it (§3 Pattern invariant, Property 3).
func New(patterns []string) *Set {
	s := &Set{}
	for _, p := range patterns {
		s.Add(Pattern{Bytes: []byte(p)})
	}
	return s
}

// Add registers a Pattern, re-sorting by length descending and updating the
// first-byte hint table.
func (s *Set) Add(p Pattern) {
	if len(p.Bytes) == 0 {
		return
	}
	s.patterns = append(s.patterns, p)
	sort.SliceStable(s.patterns, func(i, j int) bool {
		return len(s.patterns[i].Bytes) > len(s.patterns[j].Bytes)
	})
	s.hint[p.Bytes[0]] = true
}

// Patterns returns the registered patterns, longest first.
func (s *Set) Patterns() []Pattern { return s.patterns }

// Len returns the number of registered patterns.
func (s *Set) Len() int { return len(s.patterns) }

// Match is a single located occurrence.
type Match struct {
	Index        int // byte offset of the match start within data
	PatternIndex int // index into Patterns() of the matched pattern
}

// FindFirst scans data[from:to) for the first occurrence of any registered
// pattern (byte-exact; case sensitivity is the caller's responsibility), and
// returns the earliest-positioned, longest-at-that-position match. An empty
// corpus or empty pattern set yields ok=false (§4.3 edge cases).
func (s *Set) FindFirst(data []byte, from, to int) (Match, bool) {
	if to > len(data) {
		to = len(data)
	}
	if len(s.patterns) == 0 || from >= to {
		return Match{}, false
	}

	for i := from; i < to; i++ {
		if !s.hint[data[i]] {
			continue
		}
		for pi, p := range s.patterns {
			if hasPrefixAt(data, to, i, p.Bytes) {
				return Match{Index: i, PatternIndex: pi}, true
			}
		}
	}
	return Match{}, false
}

// FindAll returns every non-overlapping match in data[from:to), scanning
// left to right and resuming after each match's end.
func (s *Set) FindAll(data []byte, from, to int) []Match {
	var out []Match
	pos := from
	for {
		m, ok := s.FindFirst(data, pos, to)
		if !ok {
			break
		}
		out = append(out, m)
		pos = m.Index + len(s.patterns[m.PatternIndex].Bytes)
	}
	return out
}

func hasPrefixAt(data []byte, to, pos int, prefix []byte) bool {
	if pos+len(prefix) > to {
		return false
	}
	for i := range prefix {
		if data[pos+i] != prefix[i] {
			return false
		}
	}
	return true
}
