// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"compliance-tools/internal/compliance"
	"compliance-tools/internal/failure"
	"compliance-tools/internal/formatters"
	"compliance-tools/internal/paths"
	"compliance-tools/internal/session"
)

// inputs are the session parameters every command needs.
type inputs struct {
	user  string
	token string
}

// resolveInputs collects missing inputs from the operator. It runs once,
// before any remote call; without a terminal a missing input is a
// configuration error.
func (a *App) resolveInputs() (inputs, error) {
	in := inputs{user: strings.TrimSpace(a.settings.UserPrincipalName)}
	if in.user == "" {
		user, err := a.Prompter.Ask("User principal name")
		if err != nil {
			return inputs{}, err
		}
		in.user = user
	}

	getenv := a.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	in.token = strings.TrimSpace(getenv(session.TokenEnv))
	if in.token == "" {
		token, err := a.Prompter.Secret("Access token (" + session.TokenEnv + ")")
		if err != nil {
			return inputs{}, err
		}
		in.token = token
	}
	return in, nil
}

// openClient opens the session. The caller must close the returned session.
func (a *App) openClient(ctx context.Context, in inputs) (*compliance.Client, session.Session, error) {
	if strings.TrimSpace(a.settings.Endpoint) == "" {
		return nil, nil, failure.Configuration("no service endpoint configured; set endpoint in the config file or pass --endpoint")
	}
	s, err := a.OpenSession(ctx, session.Options{
		Endpoint:          a.settings.Endpoint,
		UserPrincipalName: in.user,
		Token:             in.token,
		Transport:         a.settings.Transport,
		Timeout:           a.settings.Timeout,
		Logger:            a.logger,
	})
	if err != nil {
		return nil, nil, err
	}
	a.logger.Info("session opened", zap.String("user", in.user), zap.String("transport", a.settings.Transport))
	return compliance.New(s, a.logger), s, nil
}

func (a *App) closeSession(s session.Session) {
	if err := s.Close(); err != nil {
		a.logger.Warn("failed to close session", zap.Error(err))
	}
}

// formatter returns the output format for the command. An unusable format
// a binary format without --output, or an --output file whose directory
// does not exist is a configuration error, raised before any remote call.
func (a *App) formatter(defaultFormat string) (formatters.Formatter, error) {
	name := a.settings.Format
	if name == "" {
		name = defaultFormat
	}
	f, err := formatters.Lookup(name)
	if err != nil {
		return nil, failure.WrapConfiguration(err, "invalid --format")
	}
	if f.Binary() && a.flags.output == "" {
		return nil, failure.Configuration("format %s writes a binary file; pass --output", f.Name())
	}
	if a.flags.output != "" {
		dir := filepath.Dir(paths.NormalizePath(a.flags.output))
		if !paths.IsDir(dir) {
			return nil, failure.Configuration("output directory %s does not exist", dir)
		}
	}
	return f, nil
}
