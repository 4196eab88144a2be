// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cursor

import (
	"errors"
	"fmt"
)

// Bounds errors
var (
	// ErrOutOfBounds indicates that a read or write would cross the
	// cursor's logical length. Returned wrapped in a [*BoundsError].
	ErrOutOfBounds = errors.New("cursor: out of bounds")

	// ErrTruncatedData indicates that the buffer ended in the middle of
	// a multi-byte UTF-8 sequence or before a string's NUL terminator.
	ErrTruncatedData = errors.New("cursor: truncated data")
)

// Encoding errors
var (
	// ErrInvalidUTF8 indicates a byte sequence that is not a valid 1–3
	// byte UTF-8 encoding.
	ErrInvalidUTF8 = errors.New("cursor: invalid UTF-8 sequence")

	// ErrUnsupportedCodePoint indicates a code point above U+FFFF. The
	// string encoding is restricted to 1–3 byte sequences.
	ErrUnsupportedCodePoint = errors.New("cursor: code point above U+FFFF")

	// ErrEmbeddedNUL indicates a C string containing a NUL byte, which
	// would terminate it early on the wire.
	ErrEmbeddedNUL = errors.New("cursor: embedded NUL in C string")

	// ErrInvalidLength indicates a negative count or a string length
	// prefix that cannot describe a NUL-terminated string.
	ErrInvalidLength = errors.New("cursor: invalid length")
)

// BoundsError describes a read or write that does not fit between the
// cursor's offset and its logical length.
type BoundsError struct {
	// Op names the operation ("read", "write", "seek", "slice").
	Op string

	// Offset is the absolute position the operation started at.
	Offset int

	// Need is the number of bytes the operation required.
	Need int

	// Length is the cursor's logical length.
	Length int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("cursor: %s of %d bytes at offset %d exceeds length %d",
		e.Op, e.Need, e.Offset, e.Length)
}

// Unwrap returns [ErrOutOfBounds] so callers can test with errors.Is.
func (e *BoundsError) Unwrap() error { return ErrOutOfBounds }
