// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Monofile edits and runs single-file Go programs stored in containers.
//
// Usage:
//
//	monofile edit <file>
//	monofile run <file> [-- args...]
//	monofile inspect <file> [--json]
//	monofile config [--json]
//	monofile version
package main

import (
	"context"
	"os"

	"github.com/monofile-dev/monofile/cmd/monofile/commands"
	"github.com/monofile-dev/monofile/lib/process"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		// A program started by "run" has already written its own
		// output; only its exit status is passed on.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		process.Fatal(err)
	}
}

func run(args []string) error {
	return commands.Root(commands.StandardEnvironment()).Execute(context.Background(), args)
}
