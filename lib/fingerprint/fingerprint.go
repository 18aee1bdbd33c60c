// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"encoding/binary"
	"runtime"

	"github.com/zeebo/blake3"
)

// domainKey separates fingerprints from any other BLAKE3 use of the
// same bytes. ASCII "monofile.fingerprint", zero-padded to 32 bytes.
var domainKey = [32]byte{
	'm', 'o', 'n', 'o', 'f', 'i', 'l', 'e', '.',
	'f', 'i', 'n', 'g', 'e', 'r', 'p', 'r', 'i', 'n', 't',
}

// Platform returns the tag of the platform this binary runs on, in
// "GOOS/GOARCH" form.
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// Compute returns the fingerprint of manifest and source built for
// platform. Each field is length-prefixed so that moving bytes between
// fields changes the result.
func Compute(manifest, source, platform string) uint64 {
	// NewKeyed only fails for a key that is not 32 bytes.
	hasher, err := blake3.NewKeyed(domainKey[:])
	if err != nil {
		panic("fingerprint: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	for _, field := range []string{manifest, source, platform} {
		var length [8]byte
		binary.LittleEndian.PutUint64(length[:], uint64(len(field)))
		hasher.Write(length[:])
		hasher.WriteString(field)
	}
	var digest [8]byte
	hasher.Digest().Read(digest[:])
	return binary.LittleEndian.Uint64(digest[:])
}

// IsStale reports whether stored differs from the fingerprint of
// manifest and source for platform.
func IsStale(stored uint64, manifest, source, platform string) bool {
	return stored != Compute(manifest, source, platform)
}
