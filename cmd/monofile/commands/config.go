// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/monofile-dev/monofile/cmd/monofile/cli"
	"github.com/monofile-dev/monofile/lib/config"
)

type configParams struct {
	cli.JSONOutput
	globals globalOptions
}

func configCommand(env Environment) *cli.Command {
	var params configParams

	return &cli.Command{
		Name:    "config",
		Aliases: []string{"c"},
		Summary: "Show where configuration comes from and its effective values",
		Description: `Print the configuration file monofile would use and the settings in
effect after defaults, the file, and variable expansion are applied.

The file is found in this order: --config, $` + config.EnvironmentVariable + `, then
` + config.FileName + ` next to the monofile executable. Without any of
them the built-in defaults apply.`,
		Usage: "monofile config [flags]",
		Examples: []cli.Example{
			{Description: "Show the effective configuration", Command: "monofile config"},
			{Description: "Check a file before installing it", Command: "monofile config --config ./monofile.yaml --json"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("config", pflag.ContinueOnError)
			params.globals.register(flagSet)
			params.AddJSONFlag(flagSet)
			return flagSet
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) != 0 {
				return fmt.Errorf("config takes no arguments, got %q", args[0])
			}

			cfg, err := env.loadConfig(params.globals.configPath)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(env.Stdout, cfg); done {
				return err
			}

			if cfg.Path == "" {
				fmt.Fprintln(env.Stdout, "Config file: none, using built-in defaults")
				if expected, err := config.ExecutablePath(); err == nil {
					fmt.Fprintf(env.Stdout, "Looked for: %s\n", expected)
				}
			} else {
				fmt.Fprintf(env.Stdout, "Config file: %s (from %s)\n", cfg.Path, cfg.Source)
			}
			fmt.Fprintln(env.Stdout)

			encoded, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			_, err = env.Stdout.Write(encoded)
			return err
		},
	}
}
