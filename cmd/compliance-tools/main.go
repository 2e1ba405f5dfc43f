// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"compliance-tools/internal/cli"
)

func main() {
	os.Exit(cli.NewApp().Execute(os.Args[1:]))
}
