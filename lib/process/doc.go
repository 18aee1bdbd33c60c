// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the entrypoint helpers for the monofile binary:
// reporting an error to stderr before the structured logger exists, and
// exiting with a status that mirrors a child program's.
package process
