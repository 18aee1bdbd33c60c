// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Package buildtree projects a container's manifest and source onto the
// filesystem in the shape the go toolchain expects, reads the edited
// files back, and removes the projection afterwards.
//
// A tree lives next to its container. With [Layout].SeparateDirectory
// it is a fresh directory named after the container's base name and is
// removed wholesale; otherwise go.mod and main.go are placed directly
// beside the container and removed file by file, along with go.sum and
// the built executable. Generation never overwrites existing files: a
// collision is an error and nothing is left behind. An inline tree also
// refuses to start when go.sum or the artifact path is already taken,
// so everything Remove deletes was produced for the tree.
package buildtree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/monofile-dev/monofile/lib/container"
	"github.com/monofile-dev/monofile/lib/materialize"
)

// File names inside a tree.
const (
	ManifestFile = "go.mod"
	SourceFile   = "main.go"
	LockFile     = "go.sum"
)

// Layout selects where a tree is placed relative to its container.
type Layout struct {
	// SeparateDirectory places the tree in <dir>/<base name>/ instead
	// of directly in the container's directory. A container without an
	// extension uses <dir>/<base name>.build/ so the two never share a
	// path.
	SeparateDirectory bool
}

// Tree is the on-disk projection of one container for one edit or
// rebuild cycle.
type Tree struct {
	// Name is the container's base name. It names the artifact.
	Name string

	// Dir is the directory the toolchain and editor operate in.
	Dir string

	ManifestPath string
	SourcePath   string

	// LockPath is the go.sum the toolchain may create.
	LockPath string

	// ArtifactPath is where the toolchain writes the executable.
	ArtifactPath string

	// Owned is true when Dir was created for this tree and is removed
	// as a whole.
	Owned bool
}

// Plan returns the tree for containerPath without touching the
// filesystem.
func Plan(containerPath string, layout Layout) Tree {
	name := container.BaseName(containerPath)
	directory := filepath.Dir(containerPath)
	artifact := materialize.ExecutablePath(containerPath)
	if layout.SeparateDirectory {
		directory = filepath.Join(directory, name)
		if directory == filepath.Clean(containerPath) {
			directory += ".build"
		}
		artifact = filepath.Join(directory, materialize.ExecutableName(name))
	}
	return Tree{
		Name:         name,
		Dir:          directory,
		ManifestPath: filepath.Join(directory, ManifestFile),
		SourcePath:   filepath.Join(directory, SourceFile),
		LockPath:     filepath.Join(directory, LockFile),
		ArtifactPath: artifact,
		Owned:        layout.SeparateDirectory,
	}
}

// Generate writes manifest and source into a new tree for
// containerPath. On failure everything Generate created is removed
// again.
func Generate(containerPath, manifest, source string, layout Layout) (Tree, error) {
	tree := Plan(containerPath, layout)

	if tree.Owned {
		if err := os.Mkdir(tree.Dir, 0755); err != nil {
			return Tree{}, fmt.Errorf("creating build directory %s: %w", tree.Dir, err)
		}
	} else {
		// The toolchain writes these itself, and Remove deletes them.
		for _, path := range []string{tree.LockPath, tree.ArtifactPath} {
			if err := checkAbsent(path); err != nil {
				return Tree{}, err
			}
		}
	}

	var created []string
	rollback := func(cause error) (Tree, error) {
		if tree.Owned {
			os.RemoveAll(tree.Dir)
		} else {
			for _, path := range created {
				os.Remove(path)
			}
		}
		return Tree{}, cause
	}

	files := []struct {
		path     string
		contents string
	}{
		{tree.ManifestPath, manifest},
		{tree.SourcePath, source},
	}
	for _, file := range files {
		if err := writeNew(file.path, file.contents); err != nil {
			return rollback(err)
		}
		created = append(created, file.path)
	}
	return tree, nil
}

// Read returns the manifest and source as they currently are on disk,
// including any edits.
func (t Tree) Read() (manifest, source string, err error) {
	manifestBytes, err := os.ReadFile(t.ManifestPath)
	if err != nil {
		return "", "", fmt.Errorf("reading manifest: %w", err)
	}
	sourceBytes, err := os.ReadFile(t.SourcePath)
	if err != nil {
		return "", "", fmt.Errorf("reading source: %w", err)
	}
	return string(manifestBytes), string(sourceBytes), nil
}

// ReadArtifact returns the executable produced by the last build.
func (t Tree) ReadArtifact() ([]byte, error) {
	data, err := os.ReadFile(t.ArtifactPath)
	if err != nil {
		return nil, fmt.Errorf("reading built artifact: %w", err)
	}
	return data, nil
}

// Remove deletes the tree. Files that were never created (go.sum when
// there are no dependencies, the artifact when no build succeeded) are
// not an error. All removal failures are reported together.
func (t Tree) Remove() error {
	if t.Owned {
		if err := os.RemoveAll(t.Dir); err != nil {
			return fmt.Errorf("removing build directory %s: %w", t.Dir, err)
		}
		return nil
	}

	var errs []error
	for _, path := range []string{t.ManifestPath, t.SourcePath, t.LockPath, t.ArtifactPath} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("removing %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

// checkAbsent reports an error wrapping fs.ErrExist when path is
// already present.
func checkAbsent(path string) error {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return fmt.Errorf("%s already exists (move it or use a separate build directory): %w", path, fs.ErrExist)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("checking %s: %w", path, err)
	}
}

// writeNew creates path exclusively and writes contents to it.
func writeNew(path, contents string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := file.WriteString(contents); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
