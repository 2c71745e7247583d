package region

import "strings"

// RuleSet is an ordered list of Rules for one file-type family (§6).
type RuleSet []Rule

func cLikeRules() RuleSet {
	return RuleSet{
		{Kind: LineComment, Open: []byte("//"), LineTerminated: true},
		{Kind: BlockComment, Open: []byte("/*"), Close: []byte("*/")},
		{Kind: String, Open: []byte(`"`), Close: []byte(`"`), Escape: []byte(`\`)},
		{Kind: String, Open: []byte(`'`), Close: []byte(`'`), Escape: []byte(`\`)},
		{Kind: RawString, Open: []byte(`R"(`), Close: []byte(`)"`)},
	}
}

func pythonRules() RuleSet {
	return RuleSet{
		{Kind: LineComment, Open: []byte("#"), LineTerminated: true},
		{Kind: String, Open: []byte(`"""`), Close: []byte(`"""`)},
		{Kind: String, Open: []byte(`'''`), Close: []byte(`'''`)},
		{Kind: String, Open: []byte(`"`), Close: []byte(`"`), Escape: []byte(`\`)},
		{Kind: String, Open: []byte(`'`), Close: []byte(`'`), Escape: []byte(`\`)},
	}
}

func shellRules() RuleSet {
	return RuleSet{
		{Kind: LineComment, Open: []byte("#"), LineTerminated: true},
		{Kind: String, Open: []byte(`"`), Close: []byte(`"`), Escape: []byte(`\`)},
		{Kind: String, Open: []byte(`'`), Close: []byte(`'`)},
	}
}

func sqlRules() RuleSet {
	return RuleSet{
		{Kind: LineComment, Open: []byte("--"), LineTerminated: true},
		{Kind: BlockComment, Open: []byte("/*"), Close: []byte("*/")},
		{Kind: String, Open: []byte(`'`), Close: []byte(`'`)},
	}
}

// extensionFamilies maps a file extension (without the leading dot, lower
// case) to the RuleSet builder for its family (§6 table).
var extensionFamilies = map[string]func() RuleSet{
	"c": cLikeRules, "h": cLikeRules,
	"cpp": cLikeRules, "cc": cLikeRules, "cxx": cLikeRules, "hpp": cLikeRules,
	"cs": cLikeRules,
	"java": cLikeRules,
	"js": cLikeRules, "jsx": cLikeRules, "mjs": cLikeRules,
	"ts": cLikeRules, "tsx": cLikeRules,
	"rs": cLikeRules,
	"go": cLikeRules,

	"py": pythonRules,

	"sh": shellRules, "bash": shellRules,
	"makefile": shellRules, "mk": shellRules,
	"rb": shellRules,

	"sql": sqlRules,
}

// ForExtension returns the registered RuleSet for a file extension (without
// the leading dot; case-insensitive), and false if none is registered. Per
// §6: "If no ruleset is registered for the file, the engine reports only
// total_lines."
func ForExtension(ext string) (RuleSet, bool) {
	build, ok := extensionFamilies[strings.ToLower(strings.TrimPrefix(ext, "."))]
	if !ok {
		return nil, false
	}
	return build(), true
}

// NewMachineForExtension builds a ready-to-use Machine for a file extension.
func NewMachineForExtension(ext string) (*Machine, bool) {
	rules, ok := ForExtension(ext)
	if !ok {
		return nil, false
	}
	m := NewMachine()
	for _, r := range rules {
		m.Add(r)
	}
	return m, true
}
