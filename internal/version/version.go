// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package version carries build metadata stamped in with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Product is the name sent to the service in the user agent.
const Product = "compliance-tools"

// Set with -ldflags "-X compliance-tools/internal/version.Version=...".
var (
	Version   = "0.0.0-development"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info is the one-line version banner.
func Info() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s %s/%s)",
		Product, Version, shortCommit(), BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent identifies this build on every service request.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s; %s)", Product, Version, runtime.GOOS, runtime.GOARCH)
}

// Full returns the build metadata as key/value pairs.
func Full() map[string]string {
	return map[string]string{
		"version":   Version,
		"commit":    GitCommit,
		"buildDate": BuildDate,
		"goVersion": runtime.Version(),
		"platform":  runtime.GOOS + "/" + runtime.GOARCH,
		"userAgent": UserAgent(),
	}
}

func shortCommit() string {
	if len(GitCommit) > 12 {
		return GitCommit[:12]
	}
	return GitCommit
}
