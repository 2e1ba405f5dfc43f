// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"compliance-tools/internal/compliance"
	"compliance-tools/internal/failure"
	"compliance-tools/internal/preflight"
	"compliance-tools/internal/report"
)

type extractFlags struct {
	file     string
	classify bool
}

func (a *App) newExtractCommand() *cobra.Command {
	var flags extractFlags
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract text streams from a document and optionally classify them",
		Long: `Uploads a document to the text extraction operation and prints a report
with one entry per extracted stream. The body stream is listed first as
"Body", the others as "Attachment" or "Attachment-<n>".

With --classify every stream that carries text is also sent to the data
classification operation and its result is attached to the stream.`,
		Example: `  compliance-tools extract --file invoice.pdf
  compliance-tools extract --file mail.msg --classify --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("classify") {
				a.settings.Classify = flags.classify
			}
			return a.runExtract(cmd, flags.file)
		},
	}
	cmd.Flags().StringVar(&flags.file, "file", "", "Document to extract text from")
	cmd.Flags().BoolVar(&flags.classify, "classify", false, "Classify every extracted stream")
	return cmd
}

func (a *App) runExtract(cmd *cobra.Command, file string) error {
	f, err := a.formatter("json")
	if err != nil {
		return err
	}

	file = strings.TrimSpace(file)
	if file == "" {
		if file, err = a.Prompter.Ask("File to extract"); err != nil {
			return err
		}
	}
	info, data, err := preflight.Check(file, a.settings.MaxFileSize)
	if err != nil {
		return err
	}
	for _, warning := range info.Warnings {
		a.logger.Warn("preflight", zap.String("file", file), zap.String("warning", warning))
	}

	in, err := a.resolveInputs()
	if err != nil {
		return err
	}
	client, s, err := a.openClient(cmd.Context(), in)
	if err != nil {
		return err
	}
	defer a.closeSession(s)

	a.logger.Info("extracting text", zap.String("file", file), zap.Int64("bytes", info.SizeBytes))
	extraction, err := client.TestTextExtraction(cmd.Context(), data)
	if err != nil {
		return err
	}

	var classification *report.Classifications
	if a.settings.Classify {
		if classification, err = client.ClassifyStreams(cmd.Context(), extraction); err != nil {
			return err
		}
	}

	r := report.Assemble(file, extraction, classification)
	r.Source = info
	if err := r.Check(); err != nil {
		return fmt.Errorf("assembled report for %s: %w", file, err)
	}
	if err := a.writeDocument(f, r); err != nil {
		return err
	}
	if r.Status == report.StatusFailed {
		msg := "text extraction failed"
		if r.Error != nil {
			msg = *r.Error
		}
		return failure.Remote(compliance.CmdletTextExtraction, errors.New(msg))
	}
	return nil
}
