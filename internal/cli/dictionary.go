// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"compliance-tools/internal/compliance"
	"compliance-tools/internal/dictionary"
)

type dictionaryFlags struct {
	name         string
	description  string
	keywordsFile string
	keywords     []string
}

func (a *App) newDictionaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Manage keyword dictionaries",
	}
	cmd.AddCommand(a.newDictionaryNewCommand())
	return cmd
}

func (a *App) newDictionaryNewCommand() *cobra.Command {
	var flags dictionaryFlags
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a keyword dictionary",
		Long: `Creates a keyword dictionary from a keywords file and/or --keyword flags.

The file holds one or more keywords per line, separated by commas; lines
starting with # are ignored. Keywords are trimmed and duplicates are removed
without regard to case, keeping the first spelling.`,
		Example: `  compliance-tools dictionary new --name "Project codenames" --keywords-file codenames.txt
  compliance-tools dictionary new --name Diseases --keyword Malaria --keyword Cholera`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDictionaryNew(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.name, "name", "", "Dictionary name")
	cmd.Flags().StringVar(&flags.description, "description", "", "Dictionary description")
	cmd.Flags().StringVar(&flags.keywordsFile, "keywords-file", "", "File with keywords, newline or comma separated")
	cmd.Flags().StringArrayVar(&flags.keywords, "keyword", nil, "Keyword to include (repeatable)")
	return cmd
}

func (a *App) runDictionaryNew(cmd *cobra.Command, flags dictionaryFlags) error {
	f, err := a.formatter("text")
	if err != nil {
		return err
	}

	var fromFile []string
	if flags.keywordsFile != "" {
		if fromFile, err = dictionary.ReadKeywordsFile(flags.keywordsFile); err != nil {
			return err
		}
	}
	keywords := dictionary.Normalize(fromFile, flags.keywords)
	payload, err := dictionary.Encode(keywords)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(flags.name)
	if name == "" {
		if name, err = a.Prompter.Ask("Dictionary name"); err != nil {
			return err
		}
	}
	description := strings.TrimSpace(flags.description)

	in, err := a.resolveInputs()
	if err != nil {
		return err
	}
	client, s, err := a.openClient(cmd.Context(), in)
	if err != nil {
		return err
	}
	defer a.closeSession(s)

	a.logger.Info("creating keyword dictionary", zap.String("name", name), zap.Int("keywords", len(keywords)), zap.Int("payload_bytes", len(payload)))
	result, err := client.NewKeywordDictionary(cmd.Context(), compliance.DictionaryRequest{
		Name:        name,
		Description: description,
		FileData:    payload,
	})
	if err != nil {
		return err
	}

	a.statusf("Created keyword dictionary %q with %d keywords", name, len(keywords))
	return a.writeDocument(f, dictionary.NewSummary(name, description, len(keywords), result))
}
