// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cursor

import "fmt"

// Cursor is a byte region with a movable read/write offset.
//
// The zero value is an empty cursor: every read and write fails with
// [ErrOutOfBounds].
type Cursor struct {
	buffer []byte
	offset int
	length int
}

// Mark is an opaque saved position returned by [Cursor.Save].
type Mark struct {
	offset int
}

// Alloc returns a cursor that owns a new zeroed buffer of size bytes,
// positioned at offset 0. Panics if size is negative.
func Alloc(size int) *Cursor {
	if size < 0 {
		panic(fmt.Sprintf("cursor.Alloc: negative size %d", size))
	}
	return &Cursor{buffer: make([]byte, size), length: size}
}

// Wrap returns a cursor over buffer without copying it, positioned at
// offset 0 with a logical length of len(buffer). Writes through the
// cursor are visible in buffer and vice versa.
func Wrap(buffer []byte) *Cursor {
	return &Cursor{buffer: buffer, length: len(buffer)}
}

// WrapAt returns a cursor over buffer[:length] without copying it,
// positioned at offset. Requires 0 <= offset <= length <= len(buffer).
func WrapAt(buffer []byte, offset, length int) (*Cursor, error) {
	if length < 0 || length > len(buffer) {
		return nil, &BoundsError{Op: "wrap", Offset: 0, Need: length, Length: len(buffer)}
	}
	if offset < 0 || offset > length {
		return nil, &BoundsError{Op: "wrap", Offset: offset, Need: 0, Length: length}
	}
	return &Cursor{buffer: buffer[:length], offset: offset, length: length}, nil
}

// Offset returns the current read/write position.
func (c *Cursor) Offset() int { return c.offset }

// Len returns the logical length of the cursor.
func (c *Cursor) Len() int { return c.length }

// Remaining returns the number of bytes between the offset and the
// logical length.
func (c *Cursor) Remaining() int { return c.length - c.offset }

// Bytes returns the cursor's bytes from 0 to its logical length. The
// slice aliases the cursor's storage.
func (c *Cursor) Bytes() []byte { return c.buffer[:c.length] }

// String implements fmt.Stringer for debugging output.
func (c *Cursor) String() string {
	return fmt.Sprintf("cursor{offset: %d, length: %d}", c.offset, c.length)
}

// Seek moves the offset to pos and returns the previous offset. pos
// may equal the logical length (the position just past the last byte).
func (c *Cursor) Seek(pos int) (int, error) {
	if pos < 0 || pos > c.length {
		return c.offset, &BoundsError{Op: "seek", Offset: pos, Need: 0, Length: c.length}
	}
	previous := c.offset
	c.offset = pos
	return previous, nil
}

// Reset moves the offset back to 0.
func (c *Cursor) Reset() { c.offset = 0 }

// Save returns the current position for a later [Cursor.Restore].
func (c *Cursor) Save() Mark { return Mark{offset: c.offset} }

// Restore moves the offset back to a position returned by
// [Cursor.Save]. Fails if the mark lies outside this cursor.
func (c *Cursor) Restore(mark Mark) error {
	_, err := c.Seek(mark.offset)
	return err
}

// Slice returns a new cursor owning a copy of the bytes in
// [begin, end), positioned at offset 0. The source offset is saved and
// restored around the copy, so the source cursor is left exactly as it
// was. Later writes to either cursor are not visible in the other.
func (c *Cursor) Slice(begin, end int) (*Cursor, error) {
	if begin < 0 || end < begin || end > c.length {
		return nil, &BoundsError{Op: "slice", Offset: begin, Need: end - begin, Length: c.length}
	}

	mark := c.Save()
	defer c.Restore(mark) //nolint:errcheck // mark came from this cursor

	c.offset = begin
	sliced := Alloc(end - begin)
	for i := range sliced.buffer {
		value, err := c.ByteAt(i)
		if err != nil {
			return nil, err
		}
		sliced.buffer[i] = value
	}
	return sliced, nil
}

// ByteAt returns the byte at offset+idx without moving the offset.
func (c *Cursor) ByteAt(idx int) (byte, error) {
	position := c.offset + idx
	if idx < 0 || position >= c.length {
		return 0, &BoundsError{Op: "read", Offset: position, Need: 1, Length: c.length}
	}
	return c.buffer[position], nil
}

// PutAt stores value at offset+idx without moving the offset.
func (c *Cursor) PutAt(idx int, value byte) error {
	position := c.offset + idx
	if idx < 0 || position >= c.length {
		return &BoundsError{Op: "write", Offset: position, Need: 1, Length: c.length}
	}
	c.buffer[position] = value
	return nil
}

// ReadByte returns the byte at the offset and advances by one.
func (c *Cursor) ReadByte() (byte, error) {
	value, err := c.ByteAt(0)
	if err != nil {
		return 0, err
	}
	c.offset++
	return value, nil
}

// WriteByte stores value at the offset and advances by one.
func (c *Cursor) WriteByte(value byte) error {
	if err := c.PutAt(0, value); err != nil {
		return err
	}
	c.offset++
	return nil
}

// ReadBytes returns a copy of the next count bytes and advances by
// count.
func (c *Cursor) ReadBytes(count int) ([]byte, error) {
	if err := c.require("read", count); err != nil {
		return nil, err
	}
	result := make([]byte, count)
	copy(result, c.buffer[c.offset:])
	c.offset += count
	return result, nil
}

// WriteBytes copies data to the offset and advances by len(data).
// Returns the number of bytes written.
func (c *Cursor) WriteBytes(data []byte) (int, error) {
	if err := c.require("write", len(data)); err != nil {
		return 0, err
	}
	copy(c.buffer[c.offset:], data)
	c.offset += len(data)
	return len(data), nil
}

// require checks that count bytes fit between the offset and the
// logical length.
func (c *Cursor) require(op string, count int) error {
	if count < 0 {
		return fmt.Errorf("%s of %d bytes: %w", op, count, ErrInvalidLength)
	}
	if count > c.length-c.offset {
		return &BoundsError{Op: op, Offset: c.offset, Need: count, Length: c.length}
	}
	return nil
}
