// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"errors"
	"fmt"

	"github.com/monofile-dev/monofile/lib/editor"
	"github.com/monofile-dev/monofile/lib/toolchain"
)

// CleanupError reports a failure to remove a build tree or a
// materialized executable after the workflow's main work succeeded.
// The accompanying result is valid.
type CleanupError struct {
	Err error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleanup: %v", e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }

// IsCleanupError reports whether err is or wraps a [*CleanupError].
func IsCleanupError(err error) bool {
	var cleanup *CleanupError
	return errors.As(err, &cleanup)
}

// IsInvocationError reports whether err is an editor or toolchain that
// could not be started.
func IsInvocationError(err error) bool {
	var editorError *editor.InvocationError
	if errors.As(err, &editorError) {
		return true
	}
	var toolchainError *toolchain.InvocationError
	return errors.As(err, &toolchainError)
}

// IsBuildFailure reports whether err is a toolchain that ran and
// failed.
func IsBuildFailure(err error) bool {
	var failure *toolchain.BuildFailure
	return errors.As(err, &failure)
}
