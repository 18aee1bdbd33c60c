// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package materialize

// markExecutable is a no-op: the loader decides by file name (.exe),
// not permission bits.
func markExecutable(string) error { return nil }
