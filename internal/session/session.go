// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package session opens the authenticated connection to the compliance
// service and runs cmdlets over it.
package session

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"compliance-tools/internal/failure"
	"compliance-tools/internal/remote"
)

// TokenEnv names the environment variable holding the bearer token.
const TokenEnv = "COMPLIANCE_ACCESS_TOKEN"

// Session is one authenticated connection. It must be closed.
type Session interface {
	// Invoke runs a cmdlet and returns the objects it produced.
	Invoke(ctx context.Context, cmdlet string, params *remote.Object) ([]*remote.Object, error)
	Close() error
}

// Options configure Open.
type Options struct {
	Endpoint          string
	UserPrincipalName string
	Token             string
	Transport         string // "rest" (default) or "grpc"
	Timeout           time.Duration
	Logger            *zap.Logger

	// DialOptions are appended to the gRPC dial options.
	DialOptions []grpc.DialOption
}

// Open validates opts and connects with the requested transport.
func Open(ctx context.Context, opts Options) (Session, error) {
	if strings.TrimSpace(opts.UserPrincipalName) == "" {
		return nil, failure.Configuration("a user principal name is required to open a session")
	}
	if strings.TrimSpace(opts.Endpoint) == "" {
		return nil, failure.Configuration("no service endpoint configured; set endpoint in the config file or pass --endpoint")
	}
	if opts.Token == "" {
		return nil, failure.Configuration("no access token; set %s", TokenEnv)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	switch opts.Transport {
	case "", "rest":
		return newRESTSession(opts), nil
	case "grpc":
		s, err := dialGateway(ctx, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, failure.Configuration("unsupported transport '%s'", opts.Transport)
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
