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
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// 🏷️ buildVersion is what the binary knows about the commit it was built from
type buildVersion struct {
	Module   string `json:"module"`
	Version  string `json:"version"`
	Commit   string `json:"commit,omitempty"`
	Dirty    bool   `json:"dirty"`
	Built    string `json:"built,omitempty"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

// readBuildVersion fills a buildVersion from the embedded build info. Binaries
// built outside a module (or from a plain go run) report "dev".
func readBuildVersion() buildVersion {
	v := buildVersion{
		Module:   "patchrc",
		Version:  "dev",
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}

	if info.Main.Path != "" {
		v.Module = info.Main.Path
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		v.Version = info.Main.Version
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	v.Commit = settings["vcs.revision"]
	if len(v.Commit) > 12 {
		v.Commit = v.Commit[:12]
	}
	v.Built = settings["vcs.time"]
	v.Dirty = settings["vcs.modified"] == "true"

	return v
}

// render returns the version as a two-column table
func (v buildVersion) render() (string, error) {
	commit := v.Commit
	if commit == "" {
		commit = "unknown"
	}
	if v.Dirty {
		commit += " (dirty)"
	}

	return pterm.DefaultTable.WithData(pterm.TableData{
		{"module", v.Module},
		{"version", v.Version},
		{"commit", commit},
		{"built", v.Built},
		{"go", v.Go},
		{"platform", v.Platform},
	}).Srender()
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := readBuildVersion()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(v); err != nil {
					return errors.Errorf("encoding version: %w", err)
				}
				return nil
			}

			table, err := v.render()
			if err != nil {
				return errors.Errorf("rendering version: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "🚀 patchrc version info")
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
