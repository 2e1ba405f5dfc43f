// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"compliance-tools/internal/formatters"
	"compliance-tools/internal/platform"
	"compliance-tools/internal/version"
)

// versionInfo is the detailed version document.
type versionInfo struct {
	Build    map[string]string `json:"Build" yaml:"Build"`
	Platform *platform.Config  `json:"Platform" yaml:"Platform"`
}

func (v versionInfo) Table() formatters.Table {
	t := formatters.Table{Title: "compliance-tools", Headers: []string{"Key", "Value"}}
	keys := make([]string, 0, len(v.Build))
	for k := range v.Build {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.Rows = append(t.Rows, []string{k, v.Build[k]})
	}
	if v.Platform != nil {
		t.Rows = append(t.Rows,
			[]string{"configDirectory", v.Platform.ConfigDirectory},
			[]string{"exportDirectory", v.Platform.ExportDirectory},
			[]string{"caseSensitivePaths", strconv.FormatBool(v.Platform.CaseSensitivePaths)},
		)
	}
	return t
}

func (a *App) newVersionCommand() *cobra.Command {
	var details bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !details {
				_, err := fmt.Fprintln(a.Stdout, version.Info())
				return err
			}
			f, err := a.formatter("text")
			if err != nil {
				return err
			}
			return a.writeDocument(f, versionInfo{Build: version.Full(), Platform: platform.GetConfig()})
		},
	}
	cmd.Flags().BoolVar(&details, "details", false, "Show build and platform details")
	return cmd
}
