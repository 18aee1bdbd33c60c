// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package container

import "github.com/monofile-dev/monofile/lib/content"

// Default returns the manifest and source synthesized for an empty
// container named baseName. The manifest declares baseName as the
// module path, which also names the built executable.
func Default(baseName string) (manifest, source string, err error) {
	manifest, err = content.Manifest(baseName)
	if err != nil {
		return "", "", err
	}
	source, err = content.Source(baseName)
	if err != nil {
		return "", "", err
	}
	return manifest, source, nil
}
