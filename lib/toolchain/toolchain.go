// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/monofile-dev/monofile/lib/buildtree"
)

// Toolchain builds a tree into an executable at tree.ArtifactPath.
type Toolchain interface {
	Build(ctx context.Context, tree buildtree.Tree) error
}

// BuildFailure reports a toolchain that started and exited non-zero.
type BuildFailure struct {
	// Step is the command that failed, e.g. "go build".
	Step string

	ExitCode int

	// Output is the tail of the toolchain's stderr.
	Output string
}

func (e *BuildFailure) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s failed (exit code %d): %s", e.Step, e.ExitCode, e.Output)
	}
	return fmt.Sprintf("%s failed (exit code %d)", e.Step, e.ExitCode)
}

// InvocationError reports a toolchain that could not be started.
type InvocationError struct {
	Binary string
	Err    error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("starting toolchain %s: %v", e.Binary, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// outputTailSize bounds how much stderr a BuildFailure carries.
const outputTailSize = 4096

// Go builds trees with the go command.
type Go struct {
	// Binary is the go binary to run. Empty means resolve with
	// [FindBinary].
	Binary string

	// Tidy runs "go mod tidy" before building.
	Tidy bool

	// Flags are passed to "go build" before the package argument.
	Flags []string

	// Env entries ("KEY=value") are appended to the inherited
	// environment.
	Env []string

	// Stdout and Stderr receive the toolchain's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// FindBinary resolves the go binary: configured (a path or a name
// looked up on PATH) when set, otherwise "go" on PATH, then
// $GOROOT/bin/go. Returns the path to run.
func FindBinary(configured string) (string, error) {
	if configured != "" {
		path, err := exec.LookPath(configured)
		if err != nil {
			return "", fmt.Errorf("configured go binary %q: %w", configured, err)
		}
		return path, nil
	}

	if path, err := exec.LookPath("go"); err == nil {
		return path, nil
	}

	if goroot := os.Getenv("GOROOT"); goroot != "" {
		candidate := filepath.Join(goroot, "bin", "go")
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}

	return "", errors.New("go not found on PATH or in $GOROOT/bin (install Go or set toolchain.go in the config)")
}

// Build runs the configured steps in tree.Dir.
func (g *Go) Build(ctx context.Context, tree buildtree.Tree) error {
	binary, err := FindBinary(g.Binary)
	if err != nil {
		return &InvocationError{Binary: g.binaryName(), Err: err}
	}

	if g.Tidy {
		if err := g.run(ctx, binary, tree.Dir, "go mod tidy", "mod", "tidy"); err != nil {
			return err
		}
	}

	artifactPath, err := filepath.Abs(tree.ArtifactPath)
	if err != nil {
		return fmt.Errorf("resolving artifact path: %w", err)
	}
	args := append([]string{"build", "-o", artifactPath}, g.Flags...)
	args = append(args, ".")
	return g.run(ctx, binary, tree.Dir, "go build", args...)
}

// run executes one toolchain step and classifies its failure.
func (g *Go) run(ctx context.Context, binary, directory, step string, args ...string) error {
	var stderrTail tailBuffer
	command := exec.CommandContext(ctx, binary, args...)
	command.Dir = directory
	command.Env = append(append(os.Environ(), "GOWORK=off"), g.Env...)
	command.Stdout = g.Stdout
	if g.Stderr != nil {
		command.Stderr = io.MultiWriter(g.Stderr, &stderrTail)
	} else {
		command.Stderr = &stderrTail
	}

	err := command.Run()
	if err == nil {
		return nil
	}
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		return &BuildFailure{
			Step:     step,
			ExitCode: exitError.ExitCode(),
			Output:   strings.TrimSpace(stderrTail.String()),
		}
	}
	return &InvocationError{Binary: binary, Err: err}
}

func (g *Go) binaryName() string {
	if g.Binary != "" {
		return g.Binary
	}
	return "go"
}

// tailBuffer keeps the last outputTailSize bytes written to it.
type tailBuffer struct {
	buffer bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buffer.Write(p)
	if excess := t.buffer.Len() - outputTailSize; excess > 0 {
		t.buffer.Next(excess)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return t.buffer.String()
}
