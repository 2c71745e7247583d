// Package ignore parses an ignore-pattern file and matches candidate paths
// against it (§6 "Ignore lists"). Grounded on
// original_source/target/TOOLS/FileCleaner/playground/PLAY_ignore.cpp's
// ReadIgnoreList: one pattern per line, '#' starts a comment, blank lines
// are skipped. The distilled spec additionally names wildcard (`*`, `?`)
// and leading-`/` project-root anchoring, which PLAY_ignore.cpp's test
// driver consumes but does not itself implement — that matching behavior is
// supplemented here using path.Match, the stdlib's shell-glob matcher, the
// same primitive pattern.Set's literal matching complements for glob-style
// (rather than literal-substring) patterns.
package ignore

import (
	"bufio"
	"io"
	"os"
	"path"
	"strings"
)

// Pattern is one compiled ignore rule.
type Pattern struct {
	raw     string
	anchor  bool // leading '/': anchored to the project root, not any subdirectory
	literal string
	glob    bool // contains '*' or '?'
}

// Matcher holds a compiled set of ignore patterns (§6).
type Matcher struct {
	patterns []Pattern
}

// New returns a Matcher with no patterns.
func New() *Matcher { return &Matcher{} }

// Load parses an ignore file at path: one pattern per line, blank lines and
// lines whose first non-space byte is '#' are skipped.
func Load(filePath string) (*Matcher, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads ignore patterns from r (§6).
func Parse(r io.Reader) (*Matcher, error) {
	m := New()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		m.Add(trimmed)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Add compiles one pattern line and appends it to the Matcher.
func (m *Matcher) Add(raw string) {
	p := Pattern{raw: raw}
	text := raw
	if strings.HasPrefix(text, "/") {
		p.anchor = true
		text = text[1:]
	}
	p.literal = text
	p.glob = strings.ContainsAny(text, "*?")
	m.patterns = append(m.patterns, p)
}

// Match reports whether relPath (project-root-relative, forward-slash
// separated) is ignored by any registered pattern. An anchored pattern
// (leading '/') matches only against the full relative path; an
// unanchored pattern matches against the path's base name as well as
// any path suffix that starts at a '/' boundary.
func (m *Matcher) Match(relPath string) bool {
	relPath = filepathToSlash(relPath)
	base := path.Base(relPath)
	for _, p := range m.patterns {
		if p.anchor {
			if matchOne(p, relPath) {
				return true
			}
			continue
		}
		if matchOne(p, base) {
			return true
		}
		for s := relPath; ; {
			if matchOne(p, s) {
				return true
			}
			i := strings.IndexByte(s, '/')
			if i < 0 {
				break
			}
			s = s[i+1:]
		}
	}
	return false
}

func matchOne(p Pattern, candidate string) bool {
	if p.glob {
		ok, err := path.Match(p.literal, candidate)
		return err == nil && ok
	}
	return p.literal == candidate
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
