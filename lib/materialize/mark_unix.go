// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package materialize

import "golang.org/x/sys/unix"

// executableMode is owner read, write and execute. The artifact is a
// transient private file, so group and other get nothing.
const executableMode = 0700

func markExecutable(path string) error {
	return unix.Chmod(path, executableMode)
}
