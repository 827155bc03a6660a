package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		rules ruleFlags
		table bool
	)

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Report which rules would change a file without writing it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path, rs, err := rules.resolve(ctx, opts, args)
			if err != nil {
				return err
			}

			opts.Logger.Header("checking " + path)

			reports, err := patch.New(patch.Options{
				Documents: opts.Documents,
				Logger:    opts.Logger,
			}).Check(ctx, path, rs)
			if err != nil {
				return errors.Errorf("checking %s: %w", path, err)
			}

			if table {
				data := pterm.TableData{{"Rule", "Kind", "Matches", "Result"}}
				for _, r := range reports {
					data = append(data, []string{
						r.Rule.String(),
						r.Rule.Kind().String(),
						fmt.Sprint(r.Replacements),
						r.Status(),
					})
				}
				rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
				if err != nil {
					return errors.Errorf("rendering table: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), rendered)
			}

			pending := 0
			for _, r := range reports {
				if r.Outcome == patch.Changed {
					pending++
				}
			}

			if pending > 0 {
				opts.Logger.Warningf("%d of %d rules would update %s", pending, len(reports), path)
			} else {
				opts.Logger.Successf("%s is up to date", path)
			}

			return nil
		},
	}

	rules.bind(cmd)
	cmd.Flags().BoolVar(&table, "table", false, "also render the results as a table")

	return cmd
}
