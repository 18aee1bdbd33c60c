// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads monofile's configuration.
//
// The configuration file is found in a fixed order: the --config flag,
// then the MONOFILE_CONFIG environment variable, then monofile.yaml next
// to the monofile executable. When none of these names a file the
// built-in defaults apply. A path named by the flag or the environment
// must exist; the file beside the executable is optional.
//
// Files are YAML unless they end in .json or .jsonc, which are parsed as
// JSON with comments and trailing commas allowed. Unknown keys are
// rejected so typos surface instead of being silently ignored.
//
// Variable expansion is performed on the editor command line, the go
// binary path, and toolchain environment entries after loading:
// ${HOME}, ${MONOFILE_CONFIG_DIR}, and ${VAR:-default} patterns are
// expanded.
//
// Key exports:
//
//   - [Config] -- the effective settings for edit and run
//   - [Default] -- the built-in defaults
//   - [Load] -- resolve and load, as the CLI does
//   - [LoadFile] -- load one specific file
package config
