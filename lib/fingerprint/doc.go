// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint computes the staleness fingerprint stored in a
// container trailer and decides whether an embedded artifact must be
// rebuilt before running.
//
// A fingerprint is a 64-bit hash of the manifest, the source, and the
// platform tag ("GOOS/GOARCH") the artifact was built for. It never
// covers the artifact itself, so identical text built on two platforms
// yields two different fingerprints and a container carried to another
// platform is detected as stale instead of running a foreign binary.
//
// The hash is BLAKE3 in keyed mode with a fixed domain key, truncated
// to 64 bits. It detects change; it is not an integrity check, and the
// exact algorithm is not a compatibility surface: fingerprints are only
// compared against containers written by the same monofile version.
//
// There is no caching: [IsStale] recomputes on every call.
package fingerprint
