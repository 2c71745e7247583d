// Package scanner composes window.Window, region.Machine, and a byte-class
// table into the higher-level streaming analysis described in §4.4: it
// drives the region state machine across a file and publishes classified
// ranges to one or more Handlers, the way the teacher's indexer.Scanner
// drives its mmap'd buffer and publishes rows into Sorters.
package scanner

import "github.com/perghosh/filecleaner/internal/region"

// Handler receives the Scanner's classified byte-range events. Counter and
// LineMatcher each implement Handler and are composed together with Multi.
type Handler interface {
	// CodeLine fires when a run of accumulated code characters is
	// terminated by '\n', by a transition into a non-multiline region, or
	// by EOF (§4.5's code_lines rule). text excludes the terminating '\n'.
	CodeLine(row, col int, text []byte)

	// CodeTransition fires when entering a multiline region, with the code
	// text accumulated so far on the current line. Unlike CodeLine this
	// does not end the code line (the multiline region may later close on
	// the same line, letting code accumulation continue), but LineMatcher
	// still needs visibility into this text so a code-state pattern is not
	// missed because it precedes the region instead of a line end (§4.6).
	// Entering a non-multiline region ends the code line outright, so that
	// case reaches Handler via CodeLine instead, never this method.
	CodeTransition(row, col int, text []byte)

	// Newline fires once per '\n' byte encountered, in or out of a region.
	Newline(row int)

	// RegionEnter fires when a region is activated.
	RegionEnter(rule *region.Rule, row, col int)

	// RegionEnd fires when a region's content is complete: either the close
	// marker matched (terminated=true) or EOF arrived while still active
	// (terminated=false, §7 UnterminatedRegion). text is the accumulated
	// region content with escaped bytes included verbatim and the
	// close marker excluded.
	RegionEnd(rule *region.Rule, startRow, startCol, endRow, endCol int, text []byte, terminated bool)

	// RegionNewline fires for every '\n' encountered while inside a
	// multiline region, with the column of the first byte of this physical
	// line's region content and the region text accumulated so far on this
	// line only (reset after each firing), for §4.6's comment/string subset
	// trigger.
	RegionNewline(rule *region.Rule, row, col int, textSoFar []byte)
}

// Multi fans Scanner events out to every Handler in the slice, letting
// Counter and LineMatcher subscribe to the same scan pass (§4.4: "the
// Counter and LineMatcher subscribe to classified ranges").
type Multi []Handler

func (m Multi) CodeLine(row, col int, text []byte) {
	for _, h := range m {
		h.CodeLine(row, col, text)
	}
}

func (m Multi) CodeTransition(row, col int, text []byte) {
	for _, h := range m {
		h.CodeTransition(row, col, text)
	}
}

func (m Multi) Newline(row int) {
	for _, h := range m {
		h.Newline(row)
	}
}

func (m Multi) RegionEnter(rule *region.Rule, row, col int) {
	for _, h := range m {
		h.RegionEnter(rule, row, col)
	}
}

func (m Multi) RegionEnd(rule *region.Rule, startRow, startCol, endRow, endCol int, text []byte, terminated bool) {
	for _, h := range m {
		h.RegionEnd(rule, startRow, startCol, endRow, endCol, text, terminated)
	}
}

func (m Multi) RegionNewline(rule *region.Rule, row, col int, textSoFar []byte) {
	for _, h := range m {
		h.RegionNewline(rule, row, col, textSoFar)
	}
}
