// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package materialize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/monofile-dev/monofile/lib/container"
)

// OpError reports a failed materializer operation.
type OpError struct {
	// Op is one of "write", "mark executable", "execute", "delete".
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Stdio carries the standard streams handed to the executed artifact.
// Nil fields are connected to the null device.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Inherit returns the current process's standard streams.
func Inherit() Stdio {
	return Stdio{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// ExecutableName returns the platform file name of an executable
// called name.
func ExecutableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// ExecutablePath returns where the payload of the container at
// containerPath is materialized. The result never equals containerPath:
// a container without an extension gets a ".bin" suffix.
func ExecutablePath(containerPath string) string {
	directory := filepath.Dir(containerPath)
	name := container.BaseName(containerPath)
	path := filepath.Join(directory, ExecutableName(name))
	if path == filepath.Clean(containerPath) {
		path = filepath.Join(directory, ExecutableName(name+".bin"))
	}
	return path
}

// Write creates path with data. An existing file at path is never
// overwritten: it is reported as an error so that a file the user owns
// is not replaced and later deleted.
func Write(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			err = fmt.Errorf("%w (remove it or rename the container)", err)
		}
		return &OpError{Op: "write", Path: path, Err: err}
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(path)
		return &OpError{Op: "write", Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return &OpError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// MarkExecutable makes path executable by its owner where the platform
// requires it.
func MarkExecutable(path string) error {
	if err := markExecutable(path); err != nil {
		return &OpError{Op: "mark executable", Path: path, Err: err}
	}
	return nil
}

// Execute runs path with args and waits for it to exit. A process that
// ran and exited non-zero is not an error: its exit code is returned.
// The error is reserved for a process that could not be started. A
// process killed by a signal reports exit code -1.
func Execute(ctx context.Context, path string, args []string, stdio Stdio) (int, error) {
	command := exec.CommandContext(ctx, path, args...)
	command.Stdin = stdio.Stdin
	command.Stdout = stdio.Stdout
	command.Stderr = stdio.Stderr

	err := command.Run()
	if err == nil {
		return 0, nil
	}
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		return exitError.ExitCode(), nil
	}
	return 0, &OpError{Op: "execute", Path: path, Err: err}
}

// Delete removes path.
func Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return &OpError{Op: "delete", Path: path, Err: err}
	}
	return nil
}
