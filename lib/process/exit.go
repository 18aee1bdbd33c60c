// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"io"
	"os"
)

// Fatal writes "error: err" to stderr and exits with code 1.
func Fatal(err error) {
	Report(os.Stderr, err)
	os.Exit(1)
}

// Report writes "error: err" to w. Nil errors are ignored.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

// ExitStatus clamps a child exit code to a status this process can
// exit with. Negative codes (killed by a signal) become 1.
func ExitStatus(code int) int {
	switch {
	case code < 0:
		return 1
	case code > 255:
		return code & 0xff
	default:
		return code
	}
}
