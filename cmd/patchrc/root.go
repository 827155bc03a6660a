// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/commands"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/document"
	"github.com/walteh/patchrc/pkg/log"
)

// newRootCmd creates the root command with all subcommands attached
func newRootCmd() *cobra.Command {
	var debug bool

	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "patchrc",
		Short: "Guarded in-place text patches",
		Long: `patchrc applies literal or regex replacement rules to a file and
writes it back only when the pattern is present. Running the same rule twice
leaves the file as it was after the first run.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := setupLogging(cmd, debug)

			rootOpts.Documents = document.NewManager()
			rootOpts.Logger = log.NewWithDiagnostics(cmd.OutOrStdout(), zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}, level)

			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&rootOpts.ConfigFile, "config", "c", "", "rule file path (default: discover .patchrc.* in the working directory)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	cmd.AddCommand(
		commands.NewApplyCmd(rootOpts),
		commands.NewCheckCmd(rootOpts),
		commands.NewRestoreCmd(rootOpts),
		newVersionCmd(),
	)

	return cmd
}

// setupLogging configures zerolog based on flags and attaches a diagnostics
// logger to the command context
func setupLogging(cmd *cobra.Command, debug bool) zerolog.Level {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
	cmd.SetContext(logger.WithContext(cmd.Context()))

	return level
}
