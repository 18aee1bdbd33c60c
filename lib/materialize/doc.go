// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Package materialize turns an extracted payload into a transient
// executable, runs it, and removes it.
//
// The executable is placed next to its container and named after the
// container's base name ("tool.mono" runs as "tool", or "tool.exe" on
// Windows). Each operation reports failure as an [*OpError] naming the
// operation and the path; nothing is retried.
//
// [MarkExecutable] sets the owner execute bit on unix through
// golang.org/x/sys/unix and is a no-op where the loader does not look
// at permission bits.
package materialize
