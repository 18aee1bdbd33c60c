// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// defaultFileMode is used when a container is written for the first
// time. Rewrites keep the existing file's permission bits.
const defaultFileMode fs.FileMode = 0644

// BaseName returns the container's file name without its extension:
// "/work/tool.mono" gives "tool". It names the module in the default
// manifest, the build tree directory, and the materialized executable.
func BaseName(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return base
	}
	return stem
}

// Create makes an empty container at path if nothing exists there yet.
// It reports whether a file was created. An existing regular file is
// left untouched; anything else at path is an error.
func Create(path string) (bool, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, defaultFileMode)
	if err == nil {
		if err := file.Close(); err != nil {
			return true, &IOError{Op: "create", Path: path, Err: err}
		}
		return true, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return false, &IOError{Op: "create", Path: path, Err: err}
	}
	return false, checkRegular(path)
}

// ReadFile reads the raw bytes of the container at path. The path must
// name a regular file.
func ReadFile(path string) ([]byte, error) {
	if err := checkRegular(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}

// WriteFile replaces the container at path with data. The bytes are
// written to a temporary file in the same directory, fsynced, and
// renamed into place, so readers see either the old container or the
// new one, never a mix.
func WriteFile(path string, data []byte) error {
	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	directory := filepath.Dir(path)
	temporary, err := os.CreateTemp(directory, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	temporaryPath := temporary.Name()

	// Write, sync, chmod, close: on any failure remove the temporary
	// file and report the first error.
	fail := func(step string, err error) error {
		temporary.Close()
		os.Remove(temporaryPath)
		return &IOError{Op: "write", Path: path, Err: fmt.Errorf("%s temporary file: %w", step, err)}
	}
	if _, err := temporary.Write(data); err != nil {
		return fail("writing", err)
	}
	if err := temporary.Sync(); err != nil {
		return fail("syncing", err)
	}
	if err := temporary.Chmod(mode); err != nil {
		return fail("setting mode of", err)
	}
	if err := temporary.Close(); err != nil {
		os.Remove(temporaryPath)
		return &IOError{Op: "write", Path: path, Err: fmt.Errorf("closing temporary file: %w", err)}
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return &IOError{Op: "write", Path: path, Err: fmt.Errorf("renaming into place: %w", err)}
	}

	if parent, err := os.Open(directory); err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}

func checkRegular(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &IOError{Op: "stat", Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return &IOError{Op: "open", Path: path, Err: errors.New("not a regular file")}
	}
	return nil
}
