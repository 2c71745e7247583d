package scanner

import (
	"io"

	"github.com/perghosh/filecleaner/internal/bytescan"
	"github.com/perghosh/filecleaner/internal/region"
	"github.com/perghosh/filecleaner/internal/window"
)

// Scanner drives a region.Machine across a byte stream held in a
// window.Window, publishing classified ranges to a Handler (§4.4). Window
// provides the chunked read/rotate mechanics; Scanner owns the byte-by-byte
// classification loop and the row/column bookkeeping.
type Scanner struct {
	machine *region.Machine
	win     *window.Window
	handler Handler
	margin  uint64
}

// New builds a Scanner over machine's rule set, publishing to handler. The
// window size defaults to window.DefaultSize; use NewWithWindow to override
// it (e.g. in tests, to exercise the rotate/refill boundary with small files).
func New(machine *region.Machine, handler Handler) *Scanner {
	return NewWithWindow(machine, handler, window.New(window.DefaultSize))
}

// NewWithWindow builds a Scanner over an explicit Window.
func NewWithWindow(machine *region.Machine, handler Handler, win *window.Window) *Scanner {
	return &Scanner{
		machine: machine,
		win:     win,
		handler: handler,
		margin:  longestMarker(machine.Rules()),
	}
}

func longestMarker(rules []*region.Rule) uint64 {
	n := uint64(1)
	for _, r := range rules {
		for _, m := range [][]byte{r.Open, r.Close, r.Escape} {
			if l := uint64(len(m)); l > n {
				n = l
			}
		}
	}
	return n
}

// fillBuffer reads into the Window until it is full or the reader is
// exhausted, so the classification loop never has to special-case a short
// read in the middle of a potential marker (§4.1's look-ahead margin assumes
// the margin is actually populated before it is relied upon).
func (s *Scanner) fillBuffer(r io.Reader) (eof bool, err error) {
	for s.win.Available() > 0 {
		n, rerr := r.Read(s.win.Buffer())
		if n > 0 {
			s.win.Update(uint64(n))
		}
		if rerr == io.EOF {
			return true, nil
		}
		if rerr != nil {
			return false, rerr
		}
		if n == 0 {
			return false, nil
		}
	}
	return false, nil
}

// Scan reads r to completion, driving the region machine and calling back
// into the Scanner's Handler for every classified range.
func (s *Scanner) Scan(r io.Reader) error {
	m := s.machine
	m.Reset()

	row, col := 1, 1
	var codeBuf []byte
	codeRow, codeCol := row, col
	var codeCharCount int

	var regionBuf []byte
	var regionStartRow, regionStartCol int
	var regionLineBuf []byte
	regionLineCol := 1

	// flushCode ends the current code line. text is always the raw bytes
	// seen outside any region (including spaces) so LineMatcher can run
	// exact substring/regex search against it; codeCharCount (the "is code"
	// filtered tally) gates whether this was actually a code line at all,
	// matching the original's uRowCharacterCodeCount gate.
	flushCode := func() {
		if codeCharCount > 0 {
			s.handler.CodeLine(codeRow, codeCol, codeBuf)
		}
		codeBuf = nil
		codeCharCount = 0
	}

	eofSeen, err := s.fillBuffer(r)
	if err != nil {
		return err
	}

	var pos uint64
	for {
		last := s.win.Capacity() - s.win.Available()
		limit := last
		if !eofSeen {
			limit = s.win.Size()
		}
		data := s.win.Data()[:last]

		for pos < limit {
			b := data[pos]

			if m.InRegion() {
				active := m.Active()

				if active.LineTerminated && b == '\n' {
					s.handler.RegionEnd(active, regionStartRow, regionStartCol, row, col, regionBuf, true)
					m.Deactivate()
					regionBuf, regionLineBuf = nil, nil
					s.handler.Newline(row)
					row++
					col, regionLineCol = 1, 1
					pos++
					continue
				}

				if !active.LineTerminated {
					// Bytes before pos may have been rotated out of the window;
					// near the window start the escape lookbehind reads them
					// from regionBuf, which holds every content byte so far.
					probe, at := data, int(pos)
					if n := 2 * len(active.Escape); n > 0 && at < n {
						k := len(regionBuf)
						if k > n {
							k = n
						}
						probe = append(append([]byte(nil), regionBuf[len(regionBuf)-k:]...), data[pos:]...)
						at = k
					}
					if adv, escaped, ok := m.TryClose(probe, at); ok {
						if escaped {
							chunk := data[pos : pos+uint64(adv)]
							regionBuf = append(regionBuf, chunk...)
							regionLineBuf = append(regionLineBuf, chunk...)
							pos += uint64(adv)
							col += adv
							continue
						}
						endRow, endCol := row, col
						pos += uint64(adv)
						col += adv
						s.handler.RegionEnd(active, regionStartRow, regionStartCol, endRow, endCol, regionBuf, true)
						m.Deactivate()
						regionBuf, regionLineBuf = nil, nil
						continue
					}
				}

				if b == '\n' {
					s.handler.RegionNewline(active, row, regionLineCol, regionLineBuf)
					regionBuf = append(regionBuf, b)
					regionLineBuf = nil
					s.handler.Newline(row)
					row++
					col, regionLineCol = 1, 1
					pos++
					continue
				}

				regionBuf = append(regionBuf, b)
				regionLineBuf = append(regionLineBuf, b)
				col++
				pos++
				continue
			}

			if rule, adv, ok := m.TryOpen(data, int(pos)); ok {
				if rule.Kind.Multiline() {
					// A multiline region does not end the code line, so the
					// accumulated code text is reported here (for
					// LineMatcher) without flushing it as a CodeLine.
					s.handler.CodeTransition(codeRow, codeCol, codeBuf)
				} else {
					flushCode()
				}
				m.Activate(rule)
				regionStartRow, regionStartCol = row, col
				regionBuf, regionLineBuf = nil, nil
				pos += uint64(adv)
				col += adv
				regionLineCol = col
				s.handler.RegionEnter(rule, regionStartRow, regionStartCol)
				continue
			}

			if b == '\n' {
				flushCode()
				s.handler.Newline(row)
				row++
				col = 1
				pos++
				continue
			}

			if len(codeBuf) == 0 {
				codeRow, codeCol = row, col
			}
			if bytescan.IsCodeByte[b] {
				codeCharCount++
			}
			codeBuf = append(codeBuf, b)
			col++
			pos++
		}

		if eofSeen {
			break
		}

		s.win.Rotate()
		pos -= s.win.Size()

		more, ferr := s.fillBuffer(r)
		if ferr != nil {
			return ferr
		}
		eofSeen = more
	}

	if m.InRegion() {
		active := m.Active()
		s.handler.RegionEnd(active, regionStartRow, regionStartCol, row, col, regionBuf, false)
		m.Deactivate()
	} else {
		flushCode()
	}
	return nil
}
