// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cursor

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxCodePoint is the largest code point representable in the 1–3 byte
// subset of UTF-8 this package reads and writes.
const maxCodePoint = 0xFFFF

// WriteUTF8String writes s as UTF-8 using one to three bytes per code
// point and advances by the encoded length. No terminator is written;
// the caller chooses between NUL termination and a length prefix.
// Returns the number of bytes written.
func (c *Cursor) WriteUTF8String(s string) (int, error) {
	size, err := utf8Length(s)
	if err != nil {
		return 0, err
	}
	if err := c.require("write", size); err != nil {
		return 0, err
	}
	c.putUTF8(s)
	return size, nil
}

// ReadUTF8String decodes exactly length bytes as UTF-8 and advances by
// length. NUL bytes inside the range are part of the result.
func (c *Cursor) ReadUTF8String(length int) (string, error) {
	if err := c.require("read", length); err != nil {
		return "", err
	}
	end, err := c.scanUTF8(c.offset+length, false)
	if err != nil {
		return "", err
	}
	result := string(c.buffer[c.offset:end])
	c.offset = end
	return result, nil
}

// ReadUTF8StringToNUL decodes UTF-8 up to (not including) the next NUL
// byte and advances to the NUL. Fails with [ErrTruncatedData] if the
// buffer ends first.
func (c *Cursor) ReadUTF8StringToNUL() (string, error) {
	end, err := c.scanUTF8(c.length, true)
	if err != nil {
		return "", err
	}
	if end == c.length {
		return "", fmt.Errorf("no NUL terminator after offset %d: %w", c.offset, ErrTruncatedData)
	}
	result := string(c.buffer[c.offset:end])
	c.offset = end
	return result, nil
}

// WriteCString writes s followed by a NUL byte. Returns the number of
// bytes written including the terminator.
func (c *Cursor) WriteCString(s string) (int, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return 0, fmt.Errorf("%q: %w", s, ErrEmbeddedNUL)
	}
	size, err := utf8Length(s)
	if err != nil {
		return 0, err
	}
	if err := c.require("write", size+1); err != nil {
		return 0, err
	}
	c.putUTF8(s)
	c.buffer[c.offset] = 0
	c.offset++
	return size + 1, nil
}

// ReadCString reads a NUL-terminated UTF-8 string and advances past the
// terminator.
func (c *Cursor) ReadCString() (string, error) {
	result, err := c.ReadUTF8StringToNUL()
	if err != nil {
		return "", err
	}
	c.offset++
	return result, nil
}

// WriteLengthPrefixedString writes a 4-byte little-endian count
// followed by s and a NUL byte. The count covers the string bytes and
// the terminator but not the count field itself. Returns the total
// number of bytes written.
func (c *Cursor) WriteLengthPrefixedString(s string) (int, error) {
	size, err := utf8Length(s)
	if err != nil {
		return 0, err
	}
	if err := c.require("write", 4+size+1); err != nil {
		return 0, err
	}
	c.putUint32(uint32(size + 1))
	c.putUTF8(s)
	c.buffer[c.offset] = 0
	c.offset++
	return 4 + size + 1, nil
}

// ReadLengthPrefixedString reads a string written by
// [Cursor.WriteLengthPrefixedString]. The count is authoritative: the
// string may contain NUL bytes, and the byte at the end of the counted
// range must be the terminator.
func (c *Cursor) ReadLengthPrefixedString() (string, error) {
	mark := c.Save()

	count, err := c.ReadInt32()
	if err != nil {
		return "", err
	}
	if count < 1 {
		c.offset = mark.offset
		return "", fmt.Errorf("string length %d at offset %d: %w", count, mark.offset, ErrInvalidLength)
	}
	if err := c.require("read", int(count)); err != nil {
		c.offset = mark.offset
		return "", err
	}
	if c.buffer[c.offset+int(count)-1] != 0 {
		c.offset = mark.offset
		return "", fmt.Errorf("string at offset %d is not NUL-terminated: %w", mark.offset, ErrInvalidLength)
	}

	result, err := c.ReadUTF8String(int(count) - 1)
	if err != nil {
		c.offset = mark.offset
		return "", err
	}
	c.offset++
	return result, nil
}

// utf8Length returns the number of bytes s occupies in 1–3 byte UTF-8.
func utf8Length(s string) (int, error) {
	size := 0
	for index := 0; index < len(s); {
		r, width := utf8.DecodeRuneInString(s[index:])
		if r == utf8.RuneError && width == 1 {
			return 0, fmt.Errorf("byte 0x%02x at index %d: %w", s[index], index, ErrInvalidUTF8)
		}
		switch {
		case r < 0x80:
			size++
		case r < 0x800:
			size += 2
		case r <= maxCodePoint:
			size += 3
		default:
			return 0, fmt.Errorf("U+%X at index %d: %w", r, index, ErrUnsupportedCodePoint)
		}
		index += width
	}
	return size, nil
}

// putUTF8 encodes s at the offset one code point at a time and advances
// past it. The caller has validated s with utf8Length and checked
// bounds.
func (c *Cursor) putUTF8(s string) {
	for _, r := range s {
		switch {
		case r < 0x80:
			c.buffer[c.offset] = byte(r)
			c.offset++
		case r < 0x800:
			c.buffer[c.offset] = byte(r>>6) | 0xC0
			c.buffer[c.offset+1] = byte(r&0x3F) | 0x80
			c.offset += 2
		default:
			c.buffer[c.offset] = byte(r>>12) | 0xE0
			c.buffer[c.offset+1] = byte((r>>6)&0x3F) | 0x80
			c.buffer[c.offset+2] = byte(r&0x3F) | 0x80
			c.offset += 3
		}
	}
}

// scanUTF8 validates the UTF-8 sequences from the offset up to limit
// and returns the position where scanning stopped: limit, or the first
// NUL byte when stopAtNUL is set. A sequence that would cross limit is
// [ErrTruncatedData]. The offset is not moved.
func (c *Cursor) scanUTF8(limit int, stopAtNUL bool) (int, error) {
	position := c.offset
	for position < limit {
		lead := c.buffer[position]

		var width int
		var r rune
		switch {
		case lead < 0x80:
			if lead == 0 && stopAtNUL {
				return position, nil
			}
			position++
			continue
		case lead&0xE0 == 0xC0:
			width, r = 2, rune(lead&0x1F)
		case lead&0xF0 == 0xE0:
			width, r = 3, rune(lead&0x0F)
		case lead&0xC0 == 0x80:
			return 0, fmt.Errorf("continuation byte 0x%02x at offset %d: %w", lead, position, ErrInvalidUTF8)
		case lead&0xF8 == 0xF0:
			return 0, fmt.Errorf("4-byte sequence at offset %d: %w", position, ErrUnsupportedCodePoint)
		default:
			return 0, fmt.Errorf("byte 0x%02x at offset %d: %w", lead, position, ErrInvalidUTF8)
		}

		if position+width > limit {
			return 0, fmt.Errorf("%d-byte sequence at offset %d cut off at %d: %w",
				width, position, limit, ErrTruncatedData)
		}
		for i := 1; i < width; i++ {
			next := c.buffer[position+i]
			if next&0xC0 != 0x80 {
				return 0, fmt.Errorf("byte 0x%02x at offset %d is not a continuation byte: %w",
					next, position+i, ErrInvalidUTF8)
			}
			r = r<<6 | rune(next&0x3F)
		}

		switch {
		case width == 2 && r < 0x80, width == 3 && r < 0x800:
			return 0, fmt.Errorf("overlong encoding at offset %d: %w", position, ErrInvalidUTF8)
		case r >= 0xD800 && r <= 0xDFFF:
			return 0, fmt.Errorf("surrogate U+%04X at offset %d: %w", r, position, ErrInvalidUTF8)
		}
		position += width
	}
	return position, nil
}
