// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/monofile-dev/monofile/lib/buildtree"
	"github.com/monofile-dev/monofile/lib/config"
	"github.com/monofile-dev/monofile/lib/container"
	"github.com/monofile-dev/monofile/lib/editor"
	"github.com/monofile-dev/monofile/lib/fingerprint"
	"github.com/monofile-dev/monofile/lib/materialize"
	"github.com/monofile-dev/monofile/lib/toolchain"
)

// Executor runs a materialized executable and returns its exit code.
// The error is reserved for an executable that could not be started.
type Executor func(ctx context.Context, path string, args []string) (int, error)

// Workflow holds the collaborators shared by Edit and Run.
type Workflow struct {
	Toolchain toolchain.Toolchain
	Editor    editor.Editor

	// Layout places build trees.
	Layout buildtree.Layout

	// Encoding is used when packing a container.
	Encoding container.Encoding

	// Platform is mixed into fingerprints. Empty means the running
	// platform.
	Platform string

	// Execute runs payloads. Nil runs them with [materialize.Execute]
	// and Stdio.
	Execute Executor
	Stdio   materialize.Stdio

	Logger *slog.Logger
}

// New assembles a Workflow from configuration. Tool output and payload
// streams use stdio.
func New(cfg *config.Config, stdio materialize.Stdio, logger *slog.Logger) (*Workflow, error) {
	editorCommand, err := editor.New(cfg.Editor)
	if err != nil {
		return nil, fmt.Errorf("configuring editor: %w", err)
	}

	return &Workflow{
		Toolchain: &toolchain.Go{
			Binary: cfg.Toolchain.Go,
			Tidy:   cfg.Toolchain.Tidy,
			Flags:  cfg.Toolchain.Flags,
			Env:    cfg.Toolchain.Env,
			Stdout: stdio.Stdout,
			Stderr: stdio.Stderr,
		},
		Editor:   editorCommand,
		Layout:   buildtree.Layout{SeparateDirectory: cfg.BuildTree.SeparateDirectory},
		Encoding: cfg.Encoding,
		Stdio:    stdio,
		Logger:   logger,
	}, nil
}

func (w *Workflow) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.Logger
}

func (w *Workflow) platform() string {
	if w.Platform == "" {
		return fingerprint.Platform()
	}
	return w.Platform
}

func (w *Workflow) execute(ctx context.Context, path string, args []string) (int, error) {
	if w.Execute != nil {
		return w.Execute(ctx, path, args)
	}
	return materialize.Execute(ctx, path, args, w.Stdio)
}

// pack fingerprints the tree's current text and writes it, with the
// built artifact, into the container at containerPath.
func (w *Workflow) pack(containerPath string, tree buildtree.Tree) (container.Container, error) {
	manifest, source, err := tree.Read()
	if err != nil {
		return container.Container{}, err
	}
	payload, err := tree.ReadArtifact()
	if err != nil {
		return container.Container{}, err
	}

	packed := container.Container{
		Manifest:    manifest,
		Source:      source,
		Payload:     payload,
		Encoding:    w.Encoding,
		Fingerprint: fingerprint.Compute(manifest, source, w.platform()),
	}
	data, err := container.Encode(packed)
	if err != nil {
		return container.Container{}, fmt.Errorf("packing %s: %w", containerPath, err)
	}
	if err := container.WriteFile(containerPath, data); err != nil {
		return container.Container{}, err
	}

	w.logger().Debug("container packed",
		"path", containerPath,
		"encoding", packed.Encoding.String(),
		"payload_bytes", len(payload),
		"container_bytes", len(data),
	)
	return packed, nil
}
