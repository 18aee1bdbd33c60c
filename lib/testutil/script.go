// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Script returns a /bin/sh program with the given body.
//
//	payload := testutil.Script("echo hello\nexit 3\n")
func Script(body string) []byte {
	return []byte("#!/bin/sh\n" + body)
}

// RequireShell skips the test when /bin/sh scripts cannot be executed.
func RequireShell(t testing.TB) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skipf("/bin/sh not available: %v", err)
	}
}

// WriteScript writes an executable /bin/sh program named name into
// directory and returns its path.
func WriteScript(t testing.TB, directory, name, body string) string {
	t.Helper()
	RequireShell(t)
	path := filepath.Join(directory, name)
	if err := os.WriteFile(path, Script(body), 0755); err != nil {
		t.Fatalf("writing script %s: %v", path, err)
	}
	return path
}
