// Package matcher matches identifiers against configured allow-lists.
//
// Exemption lists and shared-account prefixes are written by operators in
// YAML, so entries may be plain values, prefixes, substrings, globs or
// regular expressions. Every pattern is compiled once and matched against
// inputs folded with the same function as the pattern. Regular expressions
// are case-insensitive.
package matcher

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Exact matches the whole input.
	Exact PatternType = iota
	// Prefix matches inputs starting with the pattern.
	Prefix
	// Contains matches inputs containing the pattern.
	Contains
	// Glob uses shell-style glob patterns (*, ?, []).
	Glob
	// Regex uses regular expressions.
	Regex
	// Auto picks Regex, Glob or Exact from the pattern's metacharacters.
	Auto
)

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Exact:
		return "exact"
	case Prefix:
		return "prefix"
	case Contains:
		return "contains"
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Options configures the matcher behavior.
type Options struct {
	// Fold normalizes both pattern and input before comparison.
	// Defaults to trimming whitespace only.
	Fold func(string) string
}

// Matcher reports whether an input matches a single pattern.
type Matcher interface {
	Match(input string) bool
	Pattern() string
	Type() PatternType
}

type matcher struct {
	pattern     string
	folded      string
	patternType PatternType
	compiled    *regexp.Regexp
	fold        func(string) string
}

// New creates a new Matcher with the specified pattern and type.
func New(patternType PatternType, pattern string, opts *Options) (Matcher, error) {
	fold := strings.TrimSpace
	if opts != nil && opts.Fold != nil {
		fold = opts.Fold
	}

	m := &matcher{
		pattern:     pattern,
		patternType: patternType,
		fold:        fold,
	}
	if patternType == Auto {
		m.patternType = detectPatternType(pattern)
	}
	if err := m.compile(); err != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %w", pattern, err)
	}
	return m, nil
}

func (m *matcher) compile() error {
	switch m.patternType {
	case Exact, Prefix, Contains:
		m.folded = m.fold(m.pattern)
		if m.folded == "" {
			return fmt.Errorf("empty pattern")
		}
	case Glob:
		m.folded = m.fold(m.pattern)
		if _, err := path.Match(m.folded, ""); err != nil {
			return fmt.Errorf("invalid glob pattern: %w", err)
		}
	case Regex:
		// Inputs are folded before matching, so the expression ignores case.
		compiled, err := regexp.Compile("(?i)" + strings.TrimSpace(m.pattern))
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		m.compiled = compiled
	default:
		return fmt.Errorf("unsupported pattern type: %v", m.patternType)
	}
	return nil
}

// Match checks if the input matches the pattern.
func (m *matcher) Match(input string) bool {
	in := m.fold(input)
	if in == "" {
		return false
	}
	switch m.patternType {
	case Exact:
		return in == m.folded
	case Prefix:
		return strings.HasPrefix(in, m.folded)
	case Contains:
		return strings.Contains(in, m.folded)
	case Glob:
		ok, _ := path.Match(m.folded, in)
		return ok
	case Regex:
		return m.compiled.MatchString(in)
	default:
		return false
	}
}

// Pattern returns the original pattern string.
func (m *matcher) Pattern() string { return m.pattern }

// Type returns the pattern type being used.
func (m *matcher) Type() PatternType { return m.patternType }

// detectPatternType treats patterns with regex anchors or groups as regex
// and patterns with glob metacharacters as globs.
func detectPatternType(pattern string) PatternType {
	if strings.HasPrefix(pattern, "^") || strings.HasSuffix(pattern, "$") ||
		strings.Contains(pattern, "(?i)") || strings.Contains(pattern, `\d`) ||
		strings.ContainsAny(pattern, "|+(){}") {
		return Regex
	}
	if strings.ContainsAny(pattern, "*?[") {
		return Glob
	}
	return Exact
}

// Set matches an input against many patterns of one type.
// An empty Set matches nothing. A Set is read-only after construction.
type Set struct {
	matchers []Matcher
	exact    map[string]struct{}
	fold     func(string) string
}

// NewSet compiles patterns into a Set. Exact patterns are kept in a map.
func NewSet(patterns []string, patternType PatternType, opts *Options) (*Set, error) {
	s := &Set{fold: strings.TrimSpace}
	if opts != nil && opts.Fold != nil {
		s.fold = opts.Fold
	}
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		pt := patternType
		if pt == Auto {
			pt = detectPatternType(p)
		}
		if pt == Exact {
			if s.exact == nil {
				s.exact = make(map[string]struct{})
			}
			s.exact[s.fold(p)] = struct{}{}
			continue
		}
		m, err := New(pt, p, opts)
		if err != nil {
			return nil, err
		}
		s.matchers = append(s.matchers, m)
	}
	return s, nil
}

// Match returns true if any pattern matches.
func (s *Set) Match(input string) bool {
	if s == nil {
		return false
	}
	if len(s.exact) > 0 {
		if _, ok := s.exact[s.fold(input)]; ok {
			return true
		}
	}
	for _, m := range s.matchers {
		if m.Match(input) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.exact) + len(s.matchers)
}
