// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// Encoding selects how the payload is stored. The value is the marker
// byte written into the trailer. These values are format constants:
// changing them breaks every existing container.
type Encoding uint8

const (
	// Raw stores the artifact bytes verbatim followed by a fixed-width
	// 4-byte little-endian length. Fast to parse, not diffable.
	Raw Encoding = 'r'

	// Text stores the artifact as standard base64 followed by
	// ':' and the decimal length of the base64 text. The container
	// stays printable and line-diffable.
	Text Encoding = 'b'
)

// rawLengthSize is the width of the Raw length field.
const rawLengthSize = 4

// String returns the configuration name of the encoding.
func (e Encoding) String() string {
	switch e {
	case Raw:
		return "raw"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

// ParseEncoding parses an encoding name. "base64" is accepted as an
// alias for "text".
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "raw":
		return Raw, nil
	case "text", "base64":
		return Text, nil
	default:
		return 0, fmt.Errorf("unknown payload encoding %q (want raw or text)", name)
	}
}

// MarshalText implements encoding.TextMarshaler so configuration and
// JSON output carry the name rather than the marker byte.
func (e Encoding) MarshalText() ([]byte, error) {
	switch e {
	case Raw, Text:
		return []byte(e.String()), nil
	default:
		return nil, fmt.Errorf("invalid payload encoding %d", uint8(e))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Encoding) UnmarshalText(text []byte) error {
	parsed, err := ParseEncoding(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// markerEncoding maps a trailer marker byte to its encoding. Anything
// other than the Text marker is Raw.
func markerEncoding(marker byte) Encoding {
	if Encoding(marker) == Text {
		return Text
	}
	return Raw
}

// appendPayload appends the stored form of payload followed by its
// length field.
func (e Encoding) appendPayload(dst, payload []byte) ([]byte, error) {
	switch e {
	case Raw:
		if uint64(len(payload)) > math.MaxUint32 {
			return nil, fmt.Errorf("raw payload is %d bytes, exceeds the %d byte limit of the length field",
				len(payload), uint64(math.MaxUint32))
		}
		dst = append(dst, payload...)
		return binary.LittleEndian.AppendUint32(dst, uint32(len(payload))), nil

	case Text:
		encodedLength := base64.StdEncoding.EncodedLen(len(payload))
		start := len(dst)
		dst = append(dst, make([]byte, encodedLength)...)
		base64.StdEncoding.Encode(dst[start:], payload)
		dst = append(dst, fieldDelimiter)
		return strconv.AppendInt(dst, int64(encodedLength), 10), nil

	default:
		return nil, fmt.Errorf("invalid payload encoding %d", uint8(e))
	}
}

// trimLength removes the length field from the tail of buffer and
// returns the remaining bytes with the stored payload length.
func (e Encoding) trimLength(buffer []byte) ([]byte, uint64, error) {
	switch e {
	case Text:
		index := lastIndex(buffer, fieldDelimiter)
		if index < 0 {
			return nil, 0, malformed("no delimiter before payload length", len(buffer))
		}
		length, ok := parseDecimal(buffer[index+1:])
		if !ok {
			return nil, 0, malformed("payload length is not a decimal integer", index+1)
		}
		return buffer[:index], length, nil

	default:
		if len(buffer) < rawLengthSize {
			return nil, 0, malformed("no room for payload length", len(buffer))
		}
		split := len(buffer) - rawLengthSize
		return buffer[:split], uint64(binary.LittleEndian.Uint32(buffer[split:])), nil
	}
}

// decodePayload turns the stored form back into artifact bytes.
func (e Encoding) decodePayload(stored []byte) ([]byte, error) {
	if e != Text {
		return append([]byte(nil), stored...), nil
	}
	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(stored)))
	written, err := base64.StdEncoding.Decode(decoded, stored)
	if err != nil {
		return nil, &EncodingError{Encoding: e, Err: err}
	}
	return decoded[:written], nil
}
