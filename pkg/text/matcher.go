package text

import (
	"regexp"
	"strings"
)

// Matcher locates and replaces every occurrence of a pattern in a string
type Matcher interface {
	// Count returns the number of non-overlapping matches
	Count(s string) int

	// ReplaceAll replaces every match with repl
	ReplaceAll(s, repl string) string
}

type literalMatcher struct {
	old string
}

func (m *literalMatcher) Count(s string) int {
	return strings.Count(s, m.old)
}

func (m *literalMatcher) ReplaceAll(s, repl string) string {
	return strings.ReplaceAll(s, m.old, repl)
}

type regexMatcher struct {
	re *regexp.Regexp
}

func (m *regexMatcher) Count(s string) int {
	return len(m.re.FindAllStringIndex(s, -1))
}

// ReplaceAll expands $1 and ${name} in repl
func (m *regexMatcher) ReplaceAll(s, repl string) string {
	return m.re.ReplaceAllString(s, repl)
}
