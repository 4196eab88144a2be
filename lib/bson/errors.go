// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"errors"
	"fmt"
)

// Decode errors
var (
	// ErrIncompleteBuffer indicates a declared document length larger
	// than the bytes available. Checked before any element is parsed.
	ErrIncompleteBuffer = errors.New("bson: declared length exceeds available bytes")

	// ErrUnknownType indicates a tag byte outside the closed kind set.
	// Returned wrapped in an [*UnknownTypeError].
	ErrUnknownType = errors.New("bson: unknown element type")

	// ErrInvalidLength indicates a length field that cannot describe
	// its payload: a document shorter than its own framing, a negative
	// binary length, a missing terminator, or trailing bytes after a
	// document.
	ErrInvalidLength = errors.New("bson: invalid length")

	// ErrInvalidBoolean indicates a boolean payload byte other than
	// 0x00 or 0x01.
	ErrInvalidBoolean = errors.New("bson: invalid boolean byte")
)

// Encode errors
var (
	// ErrUnsupportedType indicates a value outside the closed kind set,
	// a nil value, or a native Go value with no mapping.
	ErrUnsupportedType = errors.New("bson: unsupported value type")
)

// Shared errors
var (
	// ErrTooDeeplyNested indicates nesting beyond [Codec.MaxDepth].
	ErrTooDeeplyNested = errors.New("bson: document nesting exceeds maximum depth")

	// ErrInvalidRegex indicates regex flags outside g, i and m.
	ErrInvalidRegex = errors.New("bson: invalid regular expression flags")

	// ErrInvalidObjectID indicates a string that is not 24 hex digits.
	ErrInvalidObjectID = errors.New("bson: invalid object id")
)

// UnknownTypeError reports an unrecognized tag byte and where it was
// found.
type UnknownTypeError struct {
	Tag    byte
	Offset int
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("bson: unknown element type 0x%02x at offset %d", e.Tag, e.Offset)
}

// Unwrap returns [ErrUnknownType] so callers can test with errors.Is.
func (e *UnknownTypeError) Unwrap() error { return ErrUnknownType }

// pathError prefixes err with the dotted element path. The top-level
// document has an empty path and is returned unchanged.
func pathError(path string, err error) error {
	if path == "" {
		return err
	}
	return fmt.Errorf("element %q: %w", path, err)
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
