// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Package workflow drives the two things a user does with a container:
// edit it and run it.
//
// [Workflow.Edit] projects the container's manifest and source into a
// build tree, hands the tree to the editor, and builds it. A build that
// fails reopens the editor, as many times as it takes; a successful
// build is packed back into the container together with a fingerprint
// of the text it was built from. A tool that cannot be started aborts
// the loop. The build tree is removed on every path once it exists.
//
// [Workflow.Run] extracts the payload, optionally rebuilds it when the
// stored fingerprint no longer matches the manifest, source, and
// platform, writes it next to the container, runs it with the caller's
// arguments and terminal, and deletes it again. The child's exit code is
// the result. Deleting the executable is best effort: a failure is a
// [*CleanupError] and never replaces the exit code.
//
// Both workflows are synchronous and single-goroutine. The only blocking
// points are the editor, the toolchain, and the payload process, each of
// which receives the caller's context.
package workflow
