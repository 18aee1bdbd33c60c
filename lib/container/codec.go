// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"strconv"
)

// Structural delimiters. They must stay identical between Encode and
// Decode; existing containers depend on them.
var (
	openDelimiter    = []byte("/*")
	closeDelimiter   = []byte("*/")
	sourceSeparator  = []byte("*/\n")
	payloadSeparator = []byte("\n/*")
)

const fieldDelimiter = ':'

// minimumTrailerSize is the smallest possible trailer after the close
// delimiter is stripped: a marker byte, the field delimiter, and one
// fingerprint digit.
const minimumTrailerSize = 3

// Container is the decoded content of a container file.
type Container struct {
	// Manifest is the go.mod text. It must not contain "*/".
	Manifest string

	// Source is the main.go text.
	Source string

	// Payload is the compiled artifact, always in decoded form.
	Payload []byte

	// Encoding selects how Payload is stored on disk.
	Encoding Encoding

	// Fingerprint is the staleness hash of Manifest and Source for the
	// platform Payload was built on.
	Fingerprint uint64
}

// Encode serializes c. The output is a pure function of c. The only
// error is a payload that the selected encoding cannot represent.
func Encode(c Container) ([]byte, error) {
	size := len(openDelimiter) + len(c.Manifest) + len(sourceSeparator) + len(c.Source) +
		len(payloadSeparator) + len(c.Payload)*4/3 + 48
	output := make([]byte, 0, size)

	output = append(output, openDelimiter...)
	output = append(output, c.Manifest...)
	output = append(output, sourceSeparator...)
	output = append(output, c.Source...)
	output = append(output, payloadSeparator...)

	output, err := c.Encoding.appendPayload(output, c.Payload)
	if err != nil {
		return nil, err
	}

	output = append(output, byte(c.Encoding), fieldDelimiter)
	output = strconv.AppendUint(output, c.Fingerprint, 10)
	output = append(output, closeDelimiter...)
	return output, nil
}

// Decode parses a container, payload included. See the package
// documentation for the grammar.
func Decode(data []byte) (Container, error) {
	parsed, err := parse(data)
	if err != nil {
		return Container{}, err
	}
	payload, err := parsed.encoding.decodePayload(parsed.storedPayload)
	if err != nil {
		return Container{}, err
	}
	return Container{
		Manifest:    string(parsed.manifest),
		Source:      string(parsed.source),
		Payload:     payload,
		Encoding:    parsed.encoding,
		Fingerprint: parsed.fingerprint,
	}, nil
}

// DecodeSource returns the manifest and source of a container for
// editing. An empty container is not an error: it yields the default
// project for baseName (see [Default]). The payload is not decoded, so
// a corrupt text payload does not prevent editing.
func DecodeSource(data []byte, baseName string) (manifest, source string, err error) {
	if len(data) == 0 {
		return Default(baseName)
	}
	parsed, err := parse(data)
	if err != nil {
		return "", "", err
	}
	return string(parsed.manifest), string(parsed.source), nil
}

// DecodePayload returns the decoded artifact and the stored fingerprint
// for running. An empty container has nothing to run and is a
// [*FormatError].
func DecodePayload(data []byte) (payload []byte, fingerprint uint64, err error) {
	if len(data) == 0 {
		return nil, 0, malformed("container is empty, edit it first to build an artifact", 0)
	}
	parsed, err := parse(data)
	if err != nil {
		return nil, 0, err
	}
	payload, err = parsed.encoding.decodePayload(parsed.storedPayload)
	if err != nil {
		return nil, 0, err
	}
	return payload, parsed.fingerprint, nil
}

// parsed holds the segments of a container located by parse. All
// slices alias the input.
type parsed struct {
	manifest      []byte
	source        []byte
	storedPayload []byte
	encoding      Encoding
	fingerprint   uint64
}

// parse locates every segment of data, working back from the tail.
func parse(data []byte) (parsed, error) {
	buffer := trimTrailingNewlines(data)

	if !bytes.HasSuffix(buffer, closeDelimiter) {
		return parsed{}, malformed("missing close delimiter", len(buffer))
	}
	buffer = buffer[:len(buffer)-len(closeDelimiter)]
	if len(buffer) < minimumTrailerSize {
		return parsed{}, malformed("too short to hold a trailer", len(buffer))
	}

	index := lastIndex(buffer, fieldDelimiter)
	if index < 0 {
		return parsed{}, malformed("no delimiter before fingerprint", len(buffer))
	}
	fingerprint, ok := parseDecimal(buffer[index+1:])
	if !ok {
		return parsed{}, malformed("fingerprint is not a decimal uint64", index+1)
	}
	buffer = buffer[:index]

	if len(buffer) == 0 {
		return parsed{}, malformed("no encoding marker", 0)
	}
	encoding := markerEncoding(buffer[len(buffer)-1])
	buffer = buffer[:len(buffer)-1]

	buffer, length, err := encoding.trimLength(buffer)
	if err != nil {
		return parsed{}, err
	}
	if length > uint64(len(buffer)) {
		return parsed{}, malformed("payload length "+strconv.FormatUint(length, 10)+" exceeds remaining data", len(buffer))
	}
	split := len(buffer) - int(length)
	storedPayload := buffer[split:]
	buffer = buffer[:split]

	if !bytes.HasSuffix(buffer, payloadSeparator) {
		return parsed{}, malformed("missing separator before payload", len(buffer))
	}
	buffer = buffer[:len(buffer)-len(payloadSeparator)]

	if !bytes.HasPrefix(buffer, openDelimiter) {
		return parsed{}, malformed("missing open delimiter", 0)
	}
	body := buffer[len(openDelimiter):]
	manifestEnd := bytes.Index(body, closeDelimiter)
	if manifestEnd < 0 || !bytes.HasPrefix(body[manifestEnd:], sourceSeparator) {
		return parsed{}, malformed("missing separator after manifest", len(openDelimiter))
	}

	return parsed{
		manifest:      body[:manifestEnd],
		source:        body[manifestEnd+len(sourceSeparator):],
		storedPayload: storedPayload,
		encoding:      encoding,
		fingerprint:   fingerprint,
	}, nil
}

// trimTrailingNewlines drops line endings appended after the close
// delimiter by editors that enforce a final newline.
func trimTrailingNewlines(data []byte) []byte {
	end := len(data)
	for end > 0 && (data[end-1] == '\n' || data[end-1] == '\r') {
		end--
	}
	return data[:end]
}

// lastIndex is bytes.LastIndexByte, kept as a named step so the
// backward scans read the same at each trailer field.
func lastIndex(buffer []byte, delimiter byte) int {
	return bytes.LastIndexByte(buffer, delimiter)
}

// parseDecimal parses a non-empty run of ASCII digits as a uint64.
// Signs, spaces and overflow are rejected.
func parseDecimal(digits []byte) (uint64, bool) {
	if len(digits) == 0 {
		return 0, false
	}
	for _, digit := range digits {
		if digit < '0' || digit > '9' {
			return 0, false
		}
	}
	value, err := strconv.ParseUint(string(digits), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
