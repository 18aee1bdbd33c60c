// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"errors"
	"fmt"
)

// ErrMalformed matches every [*FormatError] through errors.Is.
var ErrMalformed = errors.New("malformed container")

// FormatError reports container bytes that do not match the expected
// grammar. Offset is the byte position (in the input) where parsing
// stopped. There is no partial result: any FormatError aborts the
// whole decode.
type FormatError struct {
	Reason string
	Offset int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed container: %s (at byte %d)", e.Reason, e.Offset)
}

// Is reports whether target is [ErrMalformed].
func (e *FormatError) Is(target error) bool {
	return target == ErrMalformed
}

func malformed(reason string, offset int) *FormatError {
	return &FormatError{Reason: reason, Offset: offset}
}

// EncodingError reports a structurally valid container whose text
// payload could not be decoded.
type EncodingError struct {
	Encoding Encoding
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("corrupt %s payload: %v", e.Encoding, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// IOError reports a failed filesystem operation on a container file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
