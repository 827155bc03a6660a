package text

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidRule is returned when a rule cannot be compiled into a matcher
var ErrInvalidRule = errors.Base("invalid replacement rule")

// MatchKind identifies how a rule locates the text to replace
type MatchKind int

const (
	KindLiteral MatchKind = iota
	KindRegex
)

// String returns a string representation of MatchKind
func (k MatchKind) String() string {
	switch k {
	case KindRegex:
		return "regex"
	default:
		return "literal"
	}
}

// SkipReason explains why a rule left the content untouched even though it ran
type SkipReason string

const (
	SkipNone           SkipReason = ""
	SkipAlreadyApplied SkipReason = "already applied"
	SkipFileFilter     SkipReason = "file filter"
)

// ReplacementRule defines a single guarded text replacement
type ReplacementRule struct {
	// Name identifies the rule in reports
	Name string

	// FromText is the exact literal to replace
	FromText string

	// FromPattern is a regular expression to replace. It is compiled with the
	// s flag, so `.` also matches newlines.
	FromPattern string

	// ToText is the replacement. For regex rules it may reference capture
	// groups as $1, ${1} or ${name}.
	ToText string

	// SkipIf marks the rule as already applied when this literal is present
	SkipIf string

	// FileFilterGlob restricts the rule to paths matching a doublestar glob
	FileFilterGlob string
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates the matcher was found at least once
	WasModified bool

	// ReplacementCount is the number of matches that were replaced
	ReplacementCount int

	// SkipReason is set when a guard kept the rule from running
	SkipReason SkipReason

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules to the content in order
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}

// Kind reports whether the rule is a literal or a regex rule
func (r ReplacementRule) Kind() MatchKind {
	if r.FromPattern != "" {
		return KindRegex
	}
	return KindLiteral
}

// String returns the rule name, falling back to a description of the matcher
func (r ReplacementRule) String() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Kind() == KindRegex {
		return "regex /" + r.FromPattern + "/"
	}
	return "literal " + `"` + r.FromText + `"`
}

// Validate checks that the rule has exactly one matcher and that it compiles
func (r ReplacementRule) Validate() error {
	switch {
	case r.FromText == "" && r.FromPattern == "":
		return errors.Errorf("%w: from_text or from_pattern is required", ErrInvalidRule)
	case r.FromText != "" && r.FromPattern != "":
		return errors.Errorf("%w: from_text and from_pattern are mutually exclusive", ErrInvalidRule)
	}

	if r.FromPattern != "" {
		re, err := compilePattern(r.FromPattern)
		if err != nil {
			return errors.Errorf("%w: compiling from_pattern: %s", ErrInvalidRule, err.Error())
		}
		if err := checkTemplate(re, r.ToText); err != nil {
			return err
		}
	}

	if r.FileFilterGlob != "" && !doublestar.ValidatePattern(r.FileFilterGlob) {
		return errors.Errorf("%w: bad file_filter_glob %q", ErrInvalidRule, r.FileFilterGlob)
	}

	return nil
}

// AppliesTo checks the file filter glob against the full path and its base name
func (r ReplacementRule) AppliesTo(path string) bool {
	if r.FileFilterGlob == "" {
		return true
	}

	slashed := filepath.ToSlash(path)
	for _, candidate := range []string{slashed, filepath.Base(path)} {
		if matched, err := doublestar.Match(r.FileFilterGlob, candidate); err == nil && matched {
			return true
		}
	}
	return false
}

// Matcher returns the compiled matcher for the rule
func (r ReplacementRule) Matcher() (Matcher, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.Kind() == KindRegex {
		re, err := compilePattern(r.FromPattern)
		if err != nil {
			return nil, errors.Errorf("%w: compiling from_pattern: %s", ErrInvalidRule, err.Error())
		}
		return &regexMatcher{re: re}, nil
	}
	return &literalMatcher{old: r.FromText}, nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?s)" + pattern)
}

// checkTemplate rejects $name and ${name} references to groups the pattern
// does not define. regexp expands those to "", which would delete the match.
func checkTemplate(re *regexp.Regexp, template string) error {
	for _, ref := range templateRefs(template) {
		if n, err := strconv.Atoi(ref); err == nil {
			if n > re.NumSubexp() {
				return errors.Errorf("%w: to_text references group $%s but from_pattern has %d", ErrInvalidRule, ref, re.NumSubexp())
			}
			continue
		}
		if !slices.Contains(re.SubexpNames(), ref) {
			return errors.Errorf("%w: to_text references unknown group ${%s}; use ${1}x style braces to follow a group with text", ErrInvalidRule, ref)
		}
	}
	return nil
}

// templateRefs lists the group names referenced in a regexp.Expand template,
// reading names the same way Expand does: the longest run of letters, digits
// and underscores, or a braced name. "$$" is a literal dollar.
func templateRefs(template string) []string {
	var refs []string
	for {
		i := strings.IndexByte(template, '$')
		if i < 0 || i+1 >= len(template) {
			return refs
		}
		template = template[i+1:]

		if template[0] == '$' {
			template = template[1:]
			continue
		}

		braced := template[0] == '{'
		rest := template
		if braced {
			rest = template[1:]
		}

		n := 0
		for n < len(rest) {
			r, size := utf8.DecodeRuneInString(rest[n:])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			n += size
		}
		if n == 0 {
			continue
		}

		if braced {
			if n >= len(rest) || rest[n] != '}' {
				continue
			}
			refs = append(refs, rest[:n])
			template = rest[n+1:]
			continue
		}

		refs = append(refs, rest[:n])
		template = rest[n:]
	}
}
