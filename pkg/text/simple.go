package text

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Apply runs a single rule over content without touching the filesystem.
// The result is modified only when the matcher is found and the replacement
// changes the text; otherwise ModifiedContent is the original slice.
func Apply(content []byte, rule ReplacementRule) (*ReplacementResult, error) {
	matcher, err := rule.Matcher()
	if err != nil {
		return nil, err
	}

	result := &ReplacementResult{
		OriginalContent: content,
		ModifiedContent: content,
	}

	current := string(content)

	if rule.SkipIf != "" && strings.Contains(current, rule.SkipIf) {
		result.SkipReason = SkipAlreadyApplied
		return result, nil
	}

	count := matcher.Count(current)
	if count == 0 {
		return result, nil
	}

	// a match that rewrites to the same text, such as an empty match, is not a change
	replaced := matcher.ReplaceAll(current, rule.ToText)
	if replaced == current {
		return result, nil
	}

	result.WasModified = true
	result.ReplacementCount = count
	result.ModifiedContent = []byte(replaced)
	return result, nil
}

// SimpleTextReplacer implements TextReplacer by applying rules in order
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	if err := r.ValidateRules(rules); err != nil {
		return nil, err
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	// each rule sees the output of the previous one
	for _, rule := range rules {
		step, err := Apply(result.ModifiedContent, rule)
		if err != nil {
			return nil, errors.Errorf("applying rule %s: %w", rule, err)
		}

		zerolog.Ctx(ctx).Debug().
			Str("rule", rule.String()).
			Str("kind", rule.Kind().String()).
			Int("replacements", step.ReplacementCount).
			Str("skip_reason", string(step.SkipReason)).
			Msg("applied rule")

		if step.WasModified {
			result.WasModified = true
			result.ReplacementCount += step.ReplacementCount
		}
		result.ModifiedContent = step.ModifiedContent
	}

	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if err := rule.Validate(); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}
