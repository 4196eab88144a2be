// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cursor provides a position-tracked byte buffer with
// primitive-width little-endian reads and writes.
//
// A [Cursor] owns (via [Alloc]) or borrows (via [Wrap] and [WrapAt]) a
// fixed-capacity byte region and carries a mutable offset. Every read
// and write happens at the offset and advances it by exactly the number
// of bytes consumed or produced. A failed operation leaves the offset
// where it was: bounds are checked before any byte is touched.
//
// The primitive set is what the binary document codec in lib/bson
// needs:
//
//   - single bytes, absolute-from-offset ([Cursor.ByteAt], [Cursor.PutAt])
//     or advancing ([Cursor.ReadByte], [Cursor.WriteByte])
//   - raw byte runs ([Cursor.ReadBytes], [Cursor.WriteBytes])
//   - 32-bit integers, and 64-bit integers as a low word followed by a
//     high word
//   - IEEE-754 binary64 doubles, packed by hand from sign, exponent and
//     mantissa so that ±0, ±Inf, subnormals and NaN produce fixed bit
//     patterns
//   - UTF-8 strings restricted to 1–3 byte sequences (code points up to
//     U+FFFF), either bare, NUL-terminated, or length-prefixed
//
// The capacity never grows. Writing past the logical length fails with
// [ErrOutOfBounds]; callers that do not know the output size up front
// compute it first (lib/bson does this with its Size function).
//
// A Cursor is not safe for concurrent use. Use one cursor per encode
// or decode call.
//
// This package has no dependencies on other bindoc packages.
package cursor
