// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/monofile-dev/monofile/lib/buildtree"
	"github.com/monofile-dev/monofile/lib/container"
	"github.com/monofile-dev/monofile/lib/fingerprint"
	"github.com/monofile-dev/monofile/lib/materialize"
)

// RunOptions controls a single run.
type RunOptions struct {
	// CheckStaleness rebuilds the payload first when the stored
	// fingerprint does not match the manifest, source, and platform.
	CheckStaleness bool

	// Args are passed to the payload.
	Args []string
}

// RunResult describes a completed run.
type RunResult struct {
	// ExitCode is the payload's exit code, -1 when it was killed by a
	// signal.
	ExitCode int

	// Rebuilt is true when a stale payload was rebuilt and repacked
	// before running.
	Rebuilt bool
}

// Run executes the payload of the container at containerPath.
//
// A non-zero exit code is a result, not an error. A [*CleanupError] is
// returned alongside a valid result when the materialized executable
// could not be deleted afterwards.
func (w *Workflow) Run(ctx context.Context, containerPath string, options RunOptions) (RunResult, error) {
	logger := w.logger().With("container", containerPath)

	data, err := container.ReadFile(containerPath)
	if err != nil {
		return RunResult{}, err
	}
	payload, stored, err := container.DecodePayload(data)
	if err != nil {
		return RunResult{}, err
	}

	var result RunResult
	if options.CheckStaleness {
		manifest, source, err := container.DecodeSource(data, container.BaseName(containerPath))
		if err != nil {
			return RunResult{}, err
		}
		if fingerprint.IsStale(stored, manifest, source, w.platform()) {
			logger.Info("fingerprint changed, rebuilding", "stored", stored)
			payload, err = w.rebuild(ctx, containerPath, manifest, source)
			if err != nil {
				return RunResult{}, fmt.Errorf("rebuilding %s: %w", containerPath, err)
			}
			result.Rebuilt = true
		} else {
			logger.Debug("fingerprint matches, using stored payload")
		}
	}

	executablePath := materialize.ExecutablePath(containerPath)
	if err := materialize.Write(executablePath, payload); err != nil {
		return RunResult{}, err
	}
	if err := materialize.MarkExecutable(executablePath); err != nil {
		if deleteErr := materialize.Delete(executablePath); deleteErr != nil {
			return RunResult{}, errors.Join(err, deleteErr)
		}
		return RunResult{}, err
	}

	logger.Debug("executing payload", "path", executablePath, "args", options.Args)
	exitCode, executeErr := w.execute(ctx, executablePath, options.Args)
	result.ExitCode = exitCode

	deleteErr := materialize.Delete(executablePath)
	if executeErr != nil {
		if deleteErr != nil {
			return RunResult{}, errors.Join(executeErr, deleteErr)
		}
		return RunResult{}, executeErr
	}
	if deleteErr != nil {
		logger.Warn("executable not removed", "path", executablePath, "error", deleteErr)
		return result, &CleanupError{Err: deleteErr}
	}

	logger.Debug("payload exited", "exit_code", exitCode)
	return result, nil
}

// rebuild builds manifest and source once, packs the result into the
// container, and returns the payload as re-read from the container
// just written.
func (w *Workflow) rebuild(ctx context.Context, containerPath, manifest, source string) ([]byte, error) {
	logger := w.logger().With("container", containerPath)

	tree, err := buildtree.Generate(containerPath, manifest, source, w.Layout)
	if err != nil {
		return nil, err
	}

	buildErr := w.Toolchain.Build(ctx, tree)
	if buildErr == nil {
		_, buildErr = w.pack(containerPath, tree)
	}

	logger.Debug("cleaning build tree", "dir", tree.Dir)
	if removeErr := tree.Remove(); removeErr != nil {
		if buildErr != nil {
			return nil, errors.Join(buildErr, fmt.Errorf("cleanup: %w", removeErr))
		}
		// The container is already repacked; a leftover tree does not
		// stop the run.
		logger.Warn("build tree not removed", "dir", tree.Dir, "error", removeErr)
	}
	if buildErr != nil {
		return nil, buildErr
	}

	data, err := container.ReadFile(containerPath)
	if err != nil {
		return nil, err
	}
	payload, _, err := container.DecodePayload(data)
	if err != nil {
		return nil, err
	}
	return payload, nil
}
