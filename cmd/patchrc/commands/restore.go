package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/document"
	"gitlab.com/tozd/go/errors"
)

// NewRestoreCmd creates a new restore command
func NewRestoreCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <path>",
		Short: "Put back the " + document.BackupSuffix + " copy taken by apply --backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			if err := opts.Documents.Restore(cmd.Context(), path); err != nil {
				return errors.Errorf("restoring %s: %w", path, err)
			}

			opts.Logger.Successf("restored %s from %s%s", path, path, document.BackupSuffix)
			return nil
		},
	}
}
