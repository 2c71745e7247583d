// Package counter implements the Counter component (§4.5): per-file line and
// character statistics derived from a scanner.Scanner pass. It is grounded on
// COMMAND_CollectFileStatistics in the original Command.cpp, adapted to the
// Scanner/Handler event shape instead of a hand-rolled byte loop.
package counter

import (
	"github.com/perghosh/filecleaner/internal/bytescan"
	"github.com/perghosh/filecleaner/internal/region"
)

// Stats holds the accumulated counts for one file (§3 Table "file statistics"
// row / §6 counter schema).
type Stats struct {
	TotalLines      uint64
	CodeLines       uint64
	CodeCharacters  uint64
	CommentSegments uint64
	StringSegments  uint64
}

// Counter implements scanner.Handler, accumulating Stats as events arrive.
// A Counter is single-use: construct one per file.
type Counter struct {
	stats Stats
}

// New returns an empty Counter.
func New() *Counter { return &Counter{} }

// Stats returns the accumulated statistics. Valid once the scan completes.
func (c *Counter) Stats() Stats { return c.stats }

// CodeLine fires once per completed run of accumulated code characters
// (§4.5: terminated by '\n', by entering a non-multiline region, or by EOF).
// Every firing corresponds to exactly one code line, and code characters are
// tallied from the filtered text directly rather than re-scanned.
func (c *Counter) CodeLine(row, col int, text []byte) {
	c.stats.CodeLines++
	for _, b := range text {
		if bytescan.IsCodeByte[b] {
			c.stats.CodeCharacters++
		}
	}
}

// CodeTransition is a no-op for Counter; it exists for LineMatcher's benefit.
func (c *Counter) CodeTransition(row, col int, text []byte) {}

// Newline fires once per '\n' encountered anywhere in the file, so
// TotalLines is simply the number of Newline calls (a file with no trailing
// newline still counts each interior '\n').
func (c *Counter) Newline(row int) {
	c.stats.TotalLines++
}

// RegionEnter increments CommentSegments or StringSegments on entry into a
// Comment-group or String-group region (§4.5).
func (c *Counter) RegionEnter(rule *region.Rule, row, col int) {
	switch rule.Group {
	case region.GroupComment:
		c.stats.CommentSegments++
	case region.GroupString:
		c.stats.StringSegments++
	}
}

// RegionEnd is a no-op for Counter: segment counts are taken at entry so an
// unterminated region (§7) still counts as one segment.
func (c *Counter) RegionEnd(rule *region.Rule, startRow, startCol, endRow, endCol int, text []byte, terminated bool) {
}

// RegionNewline is a no-op for Counter.
func (c *Counter) RegionNewline(rule *region.Rule, row, col int, textSoFar []byte) {}
