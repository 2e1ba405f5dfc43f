// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the diagnostic logger. Diagnostics go to stderr so
// stdout stays reserved for the output document.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level picks the log level for the verbosity flags.
func Level(verbose, debug bool) zapcore.Level {
	switch {
	case debug:
		return zapcore.DebugLevel
	case verbose:
		return zapcore.InfoLevel
	default:
		return zapcore.WarnLevel
	}
}

// New returns a console logger writing to stderr.
func New(verbose, debug, noColor bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.Development = false
	config.Level = zap.NewAtomicLevelAt(Level(verbose, debug))
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.DisableStacktrace = !debug
	config.DisableCaller = !debug
	config.EncoderConfig.TimeKey = ""
	if noColor {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
