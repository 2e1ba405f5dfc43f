// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package prompt asks the operator for inputs that were not passed on the
// command line. Without a terminal every missing input is an error.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"compliance-tools/internal/failure"
	"compliance-tools/internal/resolve"
)

// Prompter reads answers from the operator.
type Prompter struct {
	reader      *bufio.Reader
	out         io.Writer
	fd          int
	interactive bool
}

// New prompts on in when it is a terminal.
func New(in *os.File, out io.Writer) *Prompter {
	fd := int(in.Fd())
	return &Prompter{
		reader:      bufio.NewReader(in),
		out:         out,
		fd:          fd,
		interactive: term.IsTerminal(fd),
	}
}

// NewWithReader prompts on an arbitrary reader. Secrets are read as plain
// lines.
func NewWithReader(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{
		reader:      bufio.NewReader(in),
		out:         out,
		fd:          -1,
		interactive: interactive,
	}
}

// Interactive reports whether the operator can be asked.
func (p *Prompter) Interactive() bool {
	return p != nil && p.interactive
}

// Ask reads one non-empty line for a required input.
func (p *Prompter) Ask(label string) (string, error) {
	if !p.Interactive() {
		return "", failure.Configuration("%s is required", label)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", failure.WrapConfiguration(err, "no answer for %s", label)
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return "", failure.Configuration("%s is required", label)
	}
	return answer, nil
}

// Secret reads a value without echoing it.
func (p *Prompter) Secret(label string) (string, error) {
	if !p.Interactive() {
		return "", failure.Configuration("%s is required", label)
	}
	if p.fd < 0 {
		return p.Ask(label)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	raw, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", failure.WrapConfiguration(err, "no answer for %s", label)
	}
	secret := strings.TrimSpace(string(raw))
	if secret == "" {
		return "", failure.Configuration("%s is required", label)
	}
	return secret, nil
}

// Choose lists items and asks for an index or name.
func (p *Prompter) Choose(label string, items []resolve.Item) (string, error) {
	if !p.Interactive() {
		return "", failure.Configuration("%s is required; pass --select with an index or name", label)
	}
	for _, item := range items {
		fmt.Fprintf(p.out, "%3d  %s\n", item.Index, item.Name)
	}
	return p.Ask(label)
}
