// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"compliance-tools/internal/failure"
	"compliance-tools/internal/paths"
	"compliance-tools/internal/rulepack"
)

func (a *App) newRulepackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rulepack",
		Short: "List and export classification rule packages",
	}
	cmd.AddCommand(a.newRulepackListCommand(), a.newRulepackExportCommand())
	return cmd
}

func (a *App) newRulepackListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the rule packages in the tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.formatter("text")
			if err != nil {
				return err
			}
			catalog, closeFn, err := a.loadCatalog(cmd)
			if err != nil {
				return err
			}
			defer closeFn()
			return a.writeDocument(f, catalog)
		},
	}
}

type exportFlags struct {
	selection string
	outputDir string
}

func (a *App) newRulepackExportCommand() *cobra.Command {
	var flags exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one rule package as XML",
		Long: `Writes the XML of one rule package to <output-dir>/<name>.xml. The package
is chosen with --select, by list index or exact name; without --select the
list is shown and you are asked to choose.`,
		Example: `  compliance-tools rulepack export --select 2
  compliance-tools rulepack export --select "Microsoft Rule Package" --output-dir ./packs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRulepackExport(cmd, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.selection, "select", "s", "", "Rule package index or exact name")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "Directory to write the XML file to (default: desktop)")
	return cmd
}

func (a *App) runRulepackExport(cmd *cobra.Command, flags exportFlags) error {
	f, err := a.formatter("text")
	if err != nil {
		return err
	}

	dir := strings.TrimSpace(flags.outputDir)
	if dir == "" {
		dir = a.settings.OutputDir
	}
	if dir == "" {
		dir = paths.DefaultExportDir()
	}
	dir, err = paths.ResolvePath(dir)
	if err != nil {
		return failure.WrapConfiguration(err, "invalid output directory")
	}
	if err := rulepack.CheckOutputDir(dir); err != nil {
		return err
	}

	catalog, closeFn, err := a.loadCatalog(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	token := flags.selection
	if strings.TrimSpace(token) == "" && catalog.Len() > 0 {
		if token, err = a.Prompter.Choose("Rule package", catalog.Items()); err != nil {
			return err
		}
	}
	item, err := catalog.Select(token)
	if err != nil {
		return err
	}

	result, err := rulepack.Export(item, dir)
	if err != nil {
		return err
	}
	a.logger.Info("rule package exported", zap.String("name", result.Name), zap.String("path", result.Path), zap.Bool("binary", result.Binary))
	a.statusf("%s", result)
	return a.writeDocument(f, result)
}

// loadCatalog lists the rule packages. The returned function closes the
// session.
func (a *App) loadCatalog(cmd *cobra.Command) (*rulepack.Catalog, func(), error) {
	in, err := a.resolveInputs()
	if err != nil {
		return nil, nil, err
	}
	client, s, err := a.openClient(cmd.Context(), in)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { a.closeSession(s) }

	objs, err := client.ListRulePackages(cmd.Context())
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	a.logger.Info("rule packages listed", zap.Int("count", len(objs)))
	return rulepack.NewCatalog(objs), closeFn, nil
}
