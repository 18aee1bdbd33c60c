// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/monofile-dev/monofile/lib/buildtree"
	"github.com/monofile-dev/monofile/lib/container"
)

// EditState is a step of the edit loop.
type EditState int

const (
	StateGenerateTree EditState = iota
	StateEdit
	StateBuild
	StatePack
	StateAbort
	StateDone
)

func (s EditState) String() string {
	switch s {
	case StateGenerateTree:
		return "generate tree"
	case StateEdit:
		return "edit"
	case StateBuild:
		return "build"
	case StatePack:
		return "pack"
	case StateAbort:
		return "abort"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("EditState(%d)", int(s))
	}
}

// EditResult describes a successful edit.
type EditResult struct {
	// Iterations counts editor sessions, one more than the number of
	// failed builds.
	Iterations int

	Fingerprint uint64
	PayloadSize int

	// Created is true when the container did not exist beforehand.
	Created bool
}

// Edit opens the container at containerPath for editing and packs the
// result once it builds. A missing container is created and starts from
// the default manifest and source.
//
// A [*CleanupError] is returned alongside a valid result when the
// container was packed but the build tree could not be removed.
func (w *Workflow) Edit(ctx context.Context, containerPath string) (EditResult, error) {
	logger := w.logger().With("container", containerPath)

	created, err := container.Create(containerPath)
	if err != nil {
		return EditResult{}, err
	}
	if created {
		logger.Info("created new container")
	}

	data, err := container.ReadFile(containerPath)
	if err != nil {
		return EditResult{}, err
	}
	manifest, source, err := container.DecodeSource(data, container.BaseName(containerPath))
	if err != nil {
		return EditResult{}, err
	}

	result := EditResult{Created: created}
	var (
		tree  buildtree.Tree
		cause error
	)

	state := StateGenerateTree
	for state != StateDone && state != StateAbort {
		logger.Debug("edit state", "state", state.String(), "iteration", result.Iterations)

		switch state {
		case StateGenerateTree:
			logger.Info("generating build tree")
			tree, err = buildtree.Generate(containerPath, manifest, source, w.Layout)
			if err != nil {
				// Nothing exists yet, so there is nothing to clean.
				return EditResult{}, err
			}
			logger.Debug("build tree ready", "dir", tree.Dir, "owned", tree.Owned)
			state = StateEdit

		case StateEdit:
			if err := ctx.Err(); err != nil {
				cause = err
				state = StateAbort
				continue
			}
			result.Iterations++
			logger.Info("opening editor", "file", tree.SourcePath)
			if err := w.Editor.Open(ctx, tree); err != nil {
				cause = err
				state = StateAbort
				continue
			}
			state = StateBuild

		case StateBuild:
			logger.Info("building", "dir", tree.Dir)
			err := w.Toolchain.Build(ctx, tree)
			switch {
			case err == nil:
				state = StatePack
			case IsBuildFailure(err):
				logger.Warn("build failed, reopening editor", "error", err)
				state = StateEdit
			default:
				cause = err
				state = StateAbort
			}

		case StatePack:
			logger.Info("packing container")
			packed, err := w.pack(containerPath, tree)
			if err != nil {
				cause = err
				state = StateAbort
				continue
			}
			result.Fingerprint = packed.Fingerprint
			result.PayloadSize = len(packed.Payload)
			state = StateDone
		}
	}

	logger.Info("cleaning build tree", "dir", tree.Dir)
	removeErr := tree.Remove()

	if state == StateAbort {
		if removeErr != nil {
			return EditResult{}, errors.Join(cause, fmt.Errorf("cleanup: %w", removeErr))
		}
		return EditResult{}, cause
	}

	if removeErr != nil {
		logger.Warn("build tree not removed", "dir", tree.Dir, "error", removeErr)
		return result, &CleanupError{Err: removeErr}
	}
	return result, nil
}
