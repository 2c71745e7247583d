package region

// Machine is the configurable region state machine (§4.2). Rules are added
// before scanning; Machine itself holds only the "currently active rule"
// state, leaving the byte-by-byte drive loop to the caller (internal/scanner),
// exactly as the teacher's Scanner composes Window + RegionMachine rather
// than hiding the loop inside either.
type Machine struct {
	rules    []*Rule
	hintOpen [256]bool
	active   *Rule
}

// NewMachine builds an empty Machine. Call Add for each Rule before scanning.
func NewMachine() *Machine {
	return &Machine{}
}

// Add registers a Rule and updates the first-byte hint table.
func (m *Machine) Add(r Rule) {
	if r.Group == GroupNone {
		r.Group = r.groupForKind()
	}
	rc := r
	m.rules = append(m.rules, &rc)
	if len(r.Open) > 0 {
		m.hintOpen[r.Open[0]] = true
	}
}

// Rules returns the registered rule set.
func (m *Machine) Rules() []*Rule { return m.rules }

// Active returns the currently active rule, or nil if the machine is
// Outside (no region active).
func (m *Machine) Active() *Rule { return m.active }

// InRegion reports whether a region is currently active.
func (m *Machine) InRegion() bool { return m.active != nil }

// Activate marks r as the active region.
func (m *Machine) Activate(r *Rule) { m.active = r }

// Deactivate clears the active region, returning the machine to Outside.
func (m *Machine) Deactivate() { m.active = nil }

// Reset returns the machine to its initial Outside state so it can be reused
// across files without re-registering rules.
func (m *Machine) Reset() { m.active = nil }

// HintOpen reports whether byte b could start some rule's open marker; an
// O(1) reject filter tested before any multi-byte comparison.
func (m *Machine) HintOpen(b byte) bool { return m.hintOpen[b] }

// TryOpen attempts to match some rule's open marker at data[pos:]. Only
// meaningful when the machine is Outside. Returns the matched rule and the
// number of bytes to advance (len(rule.Open)) on success.
func (m *Machine) TryOpen(data []byte, pos int) (*Rule, int, bool) {
	if pos >= len(data) || !m.hintOpen[data[pos]] {
		return nil, 0, false
	}
	for _, r := range m.rules {
		if hasPrefix(data[pos:], r.Open) {
			return r, len(r.Open), true
		}
	}
	return nil, 0, false
}

// TryClose attempts to match the active rule's close marker at data[pos:].
// It implements the escape-of-escape rule (§4.2, DESIGN NOTES): a close
// marker is escaped iff the preceding escape.length bytes equal escape AND
// the escape.length bytes before that do not also equal escape.
//
// ok is false when the close marker does not match at all. When ok is true,
// escaped reports whether this occurrence was neutralized by an escape
// sequence (the caller should advance by 1 byte and remain in the region)
// rather than being a real terminator (the caller advances by len(close)
// and deactivates the region).
func (m *Machine) TryClose(data []byte, pos int) (advance int, escaped bool, ok bool) {
	r := m.active
	if r == nil || !hasPrefix(data[pos:], r.Close) {
		return 0, false, false
	}
	if len(r.Escape) == 0 {
		return len(r.Close), false, true
	}

	n := len(r.Escape)
	if pos >= n && hasSuffix(data[:pos], r.Escape) {
		if pos-n >= n && hasSuffix(data[:pos-n], r.Escape) {
			// escaped-escape: the escape itself was escaped, so the close
			// marker is a real terminator after all.
			return len(r.Close), false, true
		}
		return 1, true, true
	}
	return len(r.Close), false, true
}

// FindFirstOpen scans data[pos:end) for the first position (while Outside)
// where some rule's open marker appears, implementing the "first-match
// search over a byte range" described at the end of §4.2.
func (m *Machine) FindFirstOpen(data []byte, pos, end int) (*Rule, int, bool) {
	if end > len(data) {
		end = len(data)
	}
	for i := pos; i < end; i++ {
		if !m.hintOpen[data[i]] {
			continue
		}
		for _, r := range m.rules {
			if hasPrefix(data[i:end], r.Open) {
				return r, i, true
			}
		}
	}
	return nil, 0, false
}

func hasPrefix(data, prefix []byte) bool {
	if len(prefix) == 0 || len(data) < len(prefix) {
		return false
	}
	for i := range prefix {
		if data[i] != prefix[i] {
			return false
		}
	}
	return true
}

func hasSuffix(data, suffix []byte) bool {
	if len(suffix) == 0 || len(data) < len(suffix) {
		return false
	}
	off := len(data) - len(suffix)
	for i := range suffix {
		if data[off+i] != suffix[i] {
			return false
		}
	}
	return true
}
