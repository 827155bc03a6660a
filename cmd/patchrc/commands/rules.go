package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ruleFlags holds an inline rule given on the command line
type ruleFlags struct {
	name    string
	literal string
	regex   string
	replace string
	skipIf  string
	files   string
}

// bind adds the inline rule flags to cmd
func (f *ruleFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "name shown for the inline rule")
	cmd.Flags().StringVarP(&f.literal, "literal", "l", "", "exact text to replace")
	cmd.Flags().StringVarP(&f.regex, "regex", "r", "", "regular expression to replace (. matches newlines)")
	cmd.Flags().StringVar(&f.replace, "replace", "", "replacement text; regex rules may use $1 or ${name}")
	cmd.Flags().StringVar(&f.skipIf, "skip-if", "", "treat the rule as applied when this text is present")
	cmd.Flags().StringVar(&f.files, "files", "", "only apply to paths matching this glob")
	cmd.MarkFlagsMutuallyExclusive("literal", "regex")
}

func (f *ruleFlags) inline() bool {
	return f.literal != "" || f.regex != ""
}

// resolve picks the target path and the rules to run. Inline flags win over
// the rule file; a positional path wins over the rule file's target. The rule
// file is only loaded when one of the two falls back to it.
func (f *ruleFlags) resolve(ctx context.Context, o *opts.RootOpts, args []string) (string, []text.ReplacementRule, error) {
	if f.inline() && len(args) > 0 {
		return args[0], []text.ReplacementRule{f.rule()}, nil
	}

	cfg, err := o.Config(ctx)
	if err != nil {
		return "", nil, err
	}

	var rules []text.ReplacementRule
	switch {
	case f.inline():
		rules = []text.ReplacementRule{f.rule()}
	case cfg != nil:
		rules = cfg.ReplacementRules()
	default:
		return "", nil, errors.Errorf("no rules: pass --literal or --regex, or a rule file with --config")
	}

	var path string
	switch {
	case len(args) > 0:
		path = args[0]
	case cfg != nil && cfg.Target() != "":
		path = cfg.Target()
	default:
		return "", nil, errors.Errorf("no target file: pass a path or set file in the rule file")
	}

	return path, rules, nil
}

func (f *ruleFlags) rule() text.ReplacementRule {
	return text.ReplacementRule{
		Name:           f.name,
		FromText:       f.literal,
		FromPattern:    f.regex,
		ToText:         f.replace,
		SkipIf:         f.skipIf,
		FileFilterGlob: f.files,
	}
}
