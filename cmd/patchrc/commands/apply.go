package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		rules  ruleFlags
		atomic bool
		backup bool
	)

	cmd := &cobra.Command{
		Use:   "apply [path]",
		Short: "Patch a file when its pattern is present",
		Long: `Apply runs each rule against the file in order.
For every rule it will:
1. Read the whole file
2. Look for the literal or regex pattern
3. Replace every match and overwrite the file, or leave it untouched
4. Print one line: "updated" or "pattern not found"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path, rs, err := rules.resolve(ctx, opts, args)
			if err != nil {
				return err
			}

			p := patch.New(patch.Options{
				Documents: opts.Documents,
				Logger:    opts.Logger,
				Atomic:    atomic,
				Backup:    backup,
			})

			if _, err := p.ApplyAll(ctx, path, rs); err != nil {
				return errors.Errorf("patching %s: %w", path, err)
			}

			changed := 0
			for _, op := range opts.Logger.Operations() {
				if op.IsChanged {
					changed++
				}
			}
			zerolog.Ctx(ctx).Debug().
				Str("path", path).
				Int("rules", len(rs)).
				Int("changed", changed).
				Msg("apply finished")

			return nil
		},
	}

	rules.bind(cmd)
	cmd.Flags().BoolVar(&atomic, "atomic", false, "write through a temp file and rename")
	cmd.Flags().BoolVar(&backup, "backup", false, "keep the original as <path>.bak before overwriting")

	return cmd
}
