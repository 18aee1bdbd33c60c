// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/monofile-dev/monofile/cmd/monofile/cli"
	"github.com/monofile-dev/monofile/lib/process"
	"github.com/monofile-dev/monofile/lib/workflow"
)

func runCommand(env Environment) *cli.Command {
	var (
		globals        globalOptions
		checkStaleness bool
		flagSet        *pflag.FlagSet
	)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Summary: "Run the program stored in a container",
		Description: `Write the container's executable next to it, run it with the terminal
attached, and delete it afterwards. monofile exits with the program's
exit code.

With --check-staleness (or check_staleness in the config) the stored
fingerprint is compared against the manifest, source, and platform
first, and the program is rebuilt and repacked once when they differ.`,
		Usage: "monofile run <file> [flags] [-- args...]",
		Examples: []cli.Example{
			{Description: "Run a tool", Command: "monofile run tool.mono"},
			{Description: "Pass arguments to the program", Command: "monofile run tool.mono -- --name world"},
			{Description: "Rebuild first if the container was built elsewhere", Command: "monofile run --check-staleness tool.mono"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = pflag.NewFlagSet("run", pflag.ContinueOnError)
			globals.register(flagSet)
			flagSet.BoolVar(&checkStaleness, "check-staleness", false, "rebuild when the stored fingerprint does not match (overrides config)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return errors.New("run requires a container file argument")
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			cfg, err := env.loadConfig(globals.configPath)
			if err != nil {
				return err
			}
			options := workflow.RunOptions{
				CheckStaleness: cfg.CheckStaleness,
				Args:           args[1:],
			}
			if flagSet != nil && flagSet.Changed("check-staleness") {
				options.CheckStaleness = checkStaleness
			}

			logger := env.logger(globals.verbose).With("command", "run")
			flow, err := env.workflow(cfg, logger)
			if err != nil {
				return err
			}

			result, err := flow.Run(ctx, path, options)
			if err != nil && !workflow.IsCleanupError(err) {
				return err
			}
			if result.ExitCode != 0 {
				return &cli.ExitError{Code: process.ExitStatus(result.ExitCode)}
			}
			return nil
		},
	}
}
