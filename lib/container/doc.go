// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

// Package container encodes and decodes monofile containers: a single
// file holding a go.mod manifest, a main.go source, the compiled
// artifact, and a trailer describing the artifact.
//
// The byte layout is
//
//	"/*" manifest "*/\n" source "\n/*" payload length marker ":" fingerprint "*/"
//
// so that a container opened in a text editor reads as Go source with
// the manifest and the payload commented out. The manifest and source
// are unconstrained text and may contain delimiter-like substrings, so
// [Decode] parses from the tail, where the trailer grammar is fixed:
//
//   - fingerprint: decimal uint64 after the last ':'
//   - marker: one byte, 'b' for [Text], anything else [Raw]
//   - length: 4-byte little-endian uint32 for [Raw], or ':' followed by
//     decimal digits for [Text]
//
// Only the manifest/source boundary is found by a forward scan (the
// first "*/"), which is why a manifest must not contain "*/". That is a
// documented limitation of the format, not something the codec escapes.
//
// Every structural failure is a [*FormatError] (matching [ErrMalformed]
// via errors.Is). A text payload that fails base64 decoding is a
// [*EncodingError] instead, so callers can tell a malformed container
// apart from a corrupt payload.
//
// Two split entry points serve the two workflows: [DecodeSource]
// returns the editable text (synthesizing defaults for an empty
// container), [DecodePayload] returns what is needed to run it.
package container
