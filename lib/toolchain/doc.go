// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Package toolchain invokes the go toolchain on a build tree.
//
// The [Toolchain] interface is the seam the workflows depend on. A build
// has three outcomes, and callers treat them differently:
//
//   - nil: the artifact exists at the tree's ArtifactPath
//   - [*BuildFailure]: the toolchain ran and reported failure (compile
//     error, unresolvable import); the edit workflow lets the user fix
//     the source and tries again
//   - [*InvocationError]: the toolchain could not be started at all
//     (no go binary, exec failure); always fatal
//
// [Go] is the production implementation. It resolves the go binary
// the same way every time (configured path, then PATH, then
// $GOROOT/bin), optionally runs "go mod tidy" so imports of third-party
// modules resolve without a stored go.sum, and then runs
// "go build -o <artifact> <flags...> .". Toolchain output is streamed
// to the user and the tail of stderr is kept for error messages.
package toolchain
