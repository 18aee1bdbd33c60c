// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for monofile packages.
//
// [Script] and [WriteScript] build tiny /bin/sh programs that stand in
// for compiled artifacts, editors and toolchains, so the workflows can
// be exercised end to end without a go toolchain. [RequireShell] skips
// the calling test where /bin/sh is unavailable (Windows).
//
// [UniqueName] generates monotonically increasing names for test
// containers that share a directory.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no monofile-internal dependencies.
package testutil
