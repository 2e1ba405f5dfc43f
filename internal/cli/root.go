// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package cli wires the compliance-tools commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"compliance-tools/internal/config"
	"compliance-tools/internal/failure"
	"compliance-tools/internal/logging"
	"compliance-tools/internal/prompt"
	"compliance-tools/internal/session"

	// Register the output formats
	_ "compliance-tools/internal/formatters/csv"
	_ "compliance-tools/internal/formatters/json"
	_ "compliance-tools/internal/formatters/text"
	_ "compliance-tools/internal/formatters/xlsx"
	_ "compliance-tools/internal/formatters/yaml"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configFile string
	profile    string
	user       string
	endpoint   string
	transport  string
	format     string
	output     string
	noColor    bool
	verbose    bool
	debug      bool
	timeout    time.Duration
}

// App holds the collaborators of one invocation.
type App struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Prompter *prompt.Prompter

	// OpenSession connects to the service; tests replace it.
	OpenSession func(ctx context.Context, opts session.Options) (session.Session, error)
	// Getenv reads the environment; tests replace it.
	Getenv func(string) string
	// NewLogger builds the diagnostic logger.
	NewLogger func(verbose, debug, noColor bool) (*zap.Logger, error)

	flags    globalFlags
	settings config.Settings
	logger   *zap.Logger
}

// NewApp returns an App bound to the process streams.
func NewApp() *App {
	return &App{
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Prompter:    prompt.New(os.Stdin, os.Stderr),
		OpenSession: session.Open,
		Getenv:      os.Getenv,
		NewLogger:   logging.New,
	}
}

// Command builds the command tree.
func (a *App) Command() *cobra.Command {
	root := &cobra.Command{
		Use:   "compliance-tools",
		Short: "Helpers for the compliance service: text extraction, classification, rule packages, dictionaries",
		Long: `compliance-tools calls a small set of compliance service operations and
prints or writes the results.

The access token is read from ` + session.TokenEnv + `; when it is unset and the
terminal is interactive you are asked for it.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return failure.WrapConfiguration(err, "%s", cmd.CommandPath())
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "Path to configuration file (default: search standard locations)")
	pf.StringVar(&a.flags.profile, "profile", "", "Configuration profile to use")
	pf.StringVarP(&a.flags.user, "user", "u", "", "User principal name for the session")
	pf.StringVar(&a.flags.endpoint, "endpoint", "", "Service endpoint URL")
	pf.StringVar(&a.flags.transport, "transport", "", "Session transport: rest or grpc")
	pf.StringVarP(&a.flags.format, "format", "f", "", "Output format: csv, json, text, xlsx, yaml")
	pf.StringVarP(&a.flags.output, "output", "o", "", "Write the output document to this file instead of stdout")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Log progress to stderr")
	pf.BoolVar(&a.flags.debug, "debug", false, "Log debug details to stderr")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "Timeout for each remote call (e.g. 90s)")

	root.AddCommand(
		a.newExtractCommand(),
		a.newRulepackCommand(),
		a.newDictionaryCommand(),
		a.newVersionCommand(),
	)
	return root
}

// Execute runs the command line and returns the process exit code. An
// interrupt cancels the remote call in flight.
func (a *App) Execute(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.ExecuteContext(ctx, args)
}

// ExecuteContext is Execute with a caller-supplied context.
func (a *App) ExecuteContext(ctx context.Context, args []string) int {
	root := a.Command()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		a.reportError(err)
		return failure.KindOf(err).ExitCode()
	}
	return 0
}

// setup resolves the settings for the run: defaults, then the selected
// profile, then explicit flags.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfigOrDefault(a.flags.configFile)
	if err != nil {
		if a.flags.configFile != "" {
			return failure.WrapConfiguration(err, "cannot load %s", a.flags.configFile)
		}
		a.warnf("Warning: Error loading config file: %v\nUsing default configuration\n", err)
	}

	settings, err := cfg.Resolve(a.flags.profile)
	if err != nil {
		return failure.WrapConfiguration(err, "invalid --profile")
	}
	a.applyFlags(cmd, &settings)
	if err := config.ValidateSettings(settings); err != nil {
		return failure.WrapConfiguration(err, "invalid settings")
	}
	a.settings = settings

	newLogger := a.NewLogger
	if newLogger == nil {
		newLogger = logging.New
	}
	logger, err := newLogger(settings.Verbose, settings.Debug, a.noColor())
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug("settings resolved",
		zap.String("profile", a.flags.profile),
		zap.String("transport", settings.Transport),
		zap.String("endpoint", settings.Endpoint),
		zap.Duration("timeout", settings.Timeout))
	return nil
}

func (a *App) applyFlags(cmd *cobra.Command, s *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("user") {
		s.UserPrincipalName = a.flags.user
	}
	if flags.Changed("endpoint") {
		s.Endpoint = a.flags.endpoint
	}
	if flags.Changed("transport") {
		s.Transport = a.flags.transport
	}
	if flags.Changed("format") {
		s.Format = a.flags.format
	}
	if flags.Changed("no-color") {
		s.NoColor = a.flags.noColor
	}
	if flags.Changed("verbose") {
		s.Verbose = a.flags.verbose
	}
	if flags.Changed("debug") {
		s.Debug = a.flags.debug
	}
	if flags.Changed("timeout") {
		s.Timeout = a.flags.timeout
	}
}

// noColor reports whether status and table output must be plain.
func (a *App) noColor() bool {
	if a.settings.NoColor || a.flags.noColor {
		return true
	}
	f, ok := a.Stdout.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}

func (a *App) reportError(err error) {
	red := color.New(color.FgRed, color.Bold)
	if a.noColor() {
		red.DisableColor()
	}
	red.Fprint(a.Stderr, "Error: ")
	fmt.Fprintln(a.Stderr, err)
	if failure.KindOf(err) == failure.KindRemoteService {
		if hint := failure.ClassifyRemote(err).Hint(); hint != "" {
			fmt.Fprintf(a.Stderr, "Hint: %s\n", hint)
		}
	}
}

func (a *App) warnf(format string, args ...any) {
	fmt.Fprintf(a.Stderr, format, args...)
}

// statusf prints a green progress line on stderr.
func (a *App) statusf(format string, args ...any) {
	green := color.New(color.FgGreen)
	if a.noColor() {
		green.DisableColor()
	}
	green.Fprintf(a.Stderr, format+"\n", args...)
}
