// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"os"

	"go.uber.org/zap"

	"compliance-tools/internal/formatters"
	"compliance-tools/internal/paths"
	"compliance-tools/internal/platform"
)

// writeDocument renders doc and writes it to --output or stdout.
func (a *App) writeDocument(f formatters.Formatter, doc formatters.Document) error {
	data, err := f.Format(doc, formatters.FormatterOptions{NoColor: a.noColor() || a.flags.output != ""})
	if err != nil {
		return err
	}

	if a.flags.output == "" {
		_, err = a.Stdout.Write(data)
		return err
	}

	path := paths.NormalizePath(a.flags.output)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return platform.WrapFileError(err, path, "write")
	}
	a.logger.Info("output written", zap.String("path", path), zap.String("format", f.Name()), zap.Int("bytes", len(data)))
	a.statusf("Wrote %s output to %s", f.Name(), path)
	return nil
}
