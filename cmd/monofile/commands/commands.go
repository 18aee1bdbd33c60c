// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the monofile command tree: edit, run, inspect,
// config, and version.
//
// Every command accepts --config (a configuration file, see lib/config)
// and --verbose. Errors are returned to main, which prints them; a
// program started by "run" that exits non-zero is reported through
// [cli.ExitError] so main exits with the same status and prints nothing.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/monofile-dev/monofile/cmd/monofile/cli"
	"github.com/monofile-dev/monofile/lib/config"
	"github.com/monofile-dev/monofile/lib/materialize"
	"github.com/monofile-dev/monofile/lib/version"
	"github.com/monofile-dev/monofile/lib/workflow"
)

// Environment is what commands need from the outside world. Tests
// replace the workflow factory and streams.
type Environment struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// NewLogger builds the command logger. Nil uses
	// [cli.NewCommandLogger].
	NewLogger func(verbose bool) *slog.Logger

	// NewWorkflow assembles the workflow from configuration. Nil uses
	// [workflow.New].
	NewWorkflow func(cfg *config.Config, stdio materialize.Stdio, logger *slog.Logger) (*workflow.Workflow, error)

	// LoadConfig resolves configuration. Nil uses [config.Load].
	LoadConfig func(flagPath string) (*config.Config, error)
}

// StandardEnvironment returns the process's streams and the real
// collaborators.
func StandardEnvironment() Environment {
	return Environment{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e Environment) stdio() materialize.Stdio {
	return materialize.Stdio{Stdin: e.Stdin, Stdout: e.Stdout, Stderr: e.Stderr}
}

func (e Environment) logger(verbose bool) *slog.Logger {
	if e.NewLogger != nil {
		return e.NewLogger(verbose)
	}
	return cli.NewCommandLogger(verbose)
}

func (e Environment) loadConfig(flagPath string) (*config.Config, error) {
	if e.LoadConfig != nil {
		return e.LoadConfig(flagPath)
	}
	return config.Load(flagPath)
}

func (e Environment) workflow(cfg *config.Config, logger *slog.Logger) (*workflow.Workflow, error) {
	if e.NewWorkflow != nil {
		return e.NewWorkflow(cfg, e.stdio(), logger)
	}
	return workflow.New(cfg, e.stdio(), logger)
}

// globalOptions are accepted by every command.
type globalOptions struct {
	configPath string
	verbose    bool
}

func (g *globalOptions) register(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&g.configPath, "config", "", "configuration file (default: $"+config.EnvironmentVariable+", then "+config.FileName+" next to the executable)")
	flagSet.BoolVarP(&g.verbose, "verbose", "v", false, "log debug detail")
}

// Root builds and returns the monofile command tree.
func Root(env Environment) *cli.Command {
	return &cli.Command{
		Name: "monofile",
		Description: `Monofile: single-file Go programs.

A container (*.mono) holds a program's go.mod, its main.go, and the
executable built from them. "edit" opens it in your editor and rebuilds
it until it compiles; "run" executes the stored build without a
toolchain.`,
		HelpOutput: env.Stderr,
		Subcommands: []*cli.Command{
			editCommand(env),
			runCommand(env),
			inspectCommand(env),
			configCommand(env),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string) error {
					fmt.Fprintf(env.Stdout, "monofile %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
