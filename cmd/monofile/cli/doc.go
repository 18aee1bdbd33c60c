// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for monofile.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in the commands package
// and dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing (names and aliases), and structured help output with
// examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// [ExitError] carries a non-zero exit status without an error message,
// which is how "monofile run" hands back the exit code of the program it
// ran. [NewCommandLogger] builds the slog logger every command uses, and
// [JSONOutput] adds a --json flag to commands that report data.
package cli
