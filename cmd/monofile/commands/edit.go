// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/monofile-dev/monofile/cmd/monofile/cli"
	"github.com/monofile-dev/monofile/lib/workflow"
)

func editCommand(env Environment) *cli.Command {
	var globals globalOptions

	return &cli.Command{
		Name:    "edit",
		Aliases: []string{"e"},
		Summary: "Edit a container and rebuild it",
		Description: `Open a container's go.mod and main.go in the editor, build them, and
pack the result back into the container.

A missing container is created from a hello-world template. When the
build fails the editor opens again; close it without fixing the code
and the build simply fails again, so fix it or interrupt monofile.`,
		Usage: "monofile edit <file> [flags]",
		Examples: []cli.Example{
			{Description: "Create or edit a tool", Command: "monofile edit tool.mono"},
			{Description: "Edit with a specific config", Command: "monofile edit --config ./monofile.yaml tool.mono"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("edit", pflag.ContinueOnError)
			globals.register(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errors.New("edit requires exactly one container file argument")
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			cfg, err := env.loadConfig(globals.configPath)
			if err != nil {
				return err
			}
			logger := env.logger(globals.verbose).With("command", "edit")
			flow, err := env.workflow(cfg, logger)
			if err != nil {
				return err
			}

			result, err := flow.Edit(ctx, path)
			if err != nil && !workflow.IsCleanupError(err) {
				return err
			}
			logger.Info("container updated",
				"container", path,
				"iterations", result.Iterations,
				"payload_bytes", result.PayloadSize,
			)
			return nil
		},
	}
}
