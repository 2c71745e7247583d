// Package region implements the configurable lexical-region state machine
// (§4.2 RegionMachine): given a byte stream and a set of RegionRules, it
// recognizes comment/string/raw-string spans (and a handful of sibling
// region kinds used by non-code file formats) while respecting escaped
// terminators.
package region

// Kind is the tagged region classification (§3 Region). Values are assigned
// in spec order; "multiline iff numeric code >= BlockComment" depends on
// this exact ordering.
type Kind uint8

const (
	None Kind = iota
	LineComment
	BlockComment
	String
	RawString
	Number
	Identifier
	Operator
	Whitespace
	End
	ScriptCode
	Text
	Heading
	Table
	Summary
	Configuration
)

func (k Kind) String() string {
	names := [...]string{
		"None", "LineComment", "BlockComment", "String", "RawString",
		"Number", "Identifier", "Operator", "Whitespace", "End",
		"ScriptCode", "Text", "Heading", "Table", "Summary", "Configuration",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Multiline reports whether a region of this Kind can span multiple lines.
// Per §3: a region is multiline iff its numeric code is >= BlockComment.
func (k Kind) Multiline() bool { return k >= BlockComment }

// Group is the coarse classification layered over Kind (§3 Region).
type Group uint8

const (
	GroupNone Group = iota
	GroupComment
	GroupString
	GroupOutside
)

// Code packs (region, group) into a single 16-bit value: low byte is the
// region, high byte is the group.
type Code uint16

// Pack combines a Kind and a Group into a Code.
func Pack(k Kind, g Group) Code {
	return Code(uint16(g)<<8 | uint16(k))
}

// Region returns the Kind component of a Code.
func (c Code) Region() Kind { return Kind(c & 0xFF) }

// Group returns the Group component of a Code.
func (c Code) Group() Group { return Group((c >> 8) & 0xFF) }

// Rule describes a single region's open/close/escape markers (§3 RegionRule).
// Open must be non-empty; Close may equal Open for symmetric delimiters.
// Escape, when set, applies only to Close.
type Rule struct {
	Kind   Kind
	Group  Group
	Open   []byte
	Close  []byte
	Escape []byte

	// LineTerminated marks rules (like line comments) whose region ends
	// implicitly at '\n' without a Close marker being consumed.
	LineTerminated bool
}

func (r Rule) groupForKind() Group {
	if r.Group != GroupNone {
		return r.Group
	}
	switch r.Kind {
	case LineComment, BlockComment:
		return GroupComment
	case String, RawString:
		return GroupString
	default:
		return GroupNone
	}
}
