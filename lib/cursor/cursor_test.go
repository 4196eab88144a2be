// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cursor

import (
	"bytes"
	"errors"
	"testing"
)

func TestAlloc(t *testing.T) {
	c := Alloc(10)
	if c.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", c.Offset())
	}
	if c.Len() != 10 {
		t.Errorf("Len() = %d, want 10", c.Len())
	}
	if c.Remaining() != 10 {
		t.Errorf("Remaining() = %d, want 10", c.Remaining())
	}
	if !bytes.Equal(c.Bytes(), make([]byte, 10)) {
		t.Errorf("Bytes() = %x, want ten zero bytes", c.Bytes())
	}
}

func TestWrapAliasesStorage(t *testing.T) {
	storage := []byte{1, 2, 3, 4}
	c := Wrap(storage)

	if err := c.WriteByte(0xAA); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if storage[0] != 0xAA {
		t.Errorf("storage[0] = 0x%02x, want 0xaa (write through wrapped cursor)", storage[0])
	}

	storage[1] = 0xBB
	value, err := c.ReadByte()
	if err != nil {
		t.Fatalf("ReadByte: %v", err)
	}
	if value != 0xBB {
		t.Errorf("ReadByte() = 0x%02x, want 0xbb (write to storage visible)", value)
	}
}

func TestWrapAt(t *testing.T) {
	storage := []byte{0, 1, 2, 3, 4, 5, 6, 7}

	c, err := WrapAt(storage, 2, 6)
	if err != nil {
		t.Fatalf("WrapAt: %v", err)
	}
	if c.Offset() != 2 || c.Len() != 6 || c.Remaining() != 4 {
		t.Errorf("got offset=%d len=%d remaining=%d, want 2, 6, 4", c.Offset(), c.Len(), c.Remaining())
	}
	data, err := c.ReadBytes(4)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(data, []byte{2, 3, 4, 5}) {
		t.Errorf("ReadBytes(4) = %v, want [2 3 4 5]", data)
	}
	if _, err := c.ReadByte(); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("read past logical length: got %v, want ErrOutOfBounds", err)
	}

	invalid := []struct {
		name           string
		offset, length int
	}{
		{"length beyond storage", 0, 9},
		{"negative length", 0, -1},
		{"offset beyond length", 5, 4},
		{"negative offset", -1, 4},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := WrapAt(storage, tt.offset, tt.length); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("WrapAt(%d, %d) error = %v, want ErrOutOfBounds", tt.offset, tt.length, err)
			}
		})
	}
}

func TestSeekResetSaveRestore(t *testing.T) {
	c := Alloc(8)

	previous, err := c.Seek(5)
	if err != nil {
		t.Fatalf("Seek(5): %v", err)
	}
	if previous != 0 {
		t.Errorf("Seek(5) returned %d, want previous offset 0", previous)
	}

	mark := c.Save()

	if _, err := c.Seek(8); err != nil {
		t.Fatalf("Seek to logical length: %v", err)
	}
	if _, err := c.Seek(9); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Seek(9) error = %v, want ErrOutOfBounds", err)
	}
	if c.Offset() != 8 {
		t.Errorf("failed Seek moved offset to %d, want 8", c.Offset())
	}

	if err := c.Restore(mark); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if c.Offset() != 5 {
		t.Errorf("Offset() after Restore = %d, want 5", c.Offset())
	}

	c.Reset()
	if c.Offset() != 0 {
		t.Errorf("Offset() after Reset = %d, want 0", c.Offset())
	}

	other := Alloc(2)
	if err := other.Restore(mark); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Restore of foreign mark beyond length: got %v, want ErrOutOfBounds", err)
	}
}

func TestSliceIsIndependentCopy(t *testing.T) {
	c := Alloc(6)
	if _, err := c.WriteBytes([]byte{10, 11, 12, 13, 14, 15}); err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}
	if _, err := c.Seek(1); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	sliced, err := c.Slice(2, 5)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if c.Offset() != 1 {
		t.Errorf("source offset after Slice = %d, want 1 (restored)", c.Offset())
	}
	if sliced.Offset() != 0 || sliced.Len() != 3 {
		t.Errorf("slice offset=%d len=%d, want 0 and 3", sliced.Offset(), sliced.Len())
	}
	if !bytes.Equal(sliced.Bytes(), []byte{12, 13, 14}) {
		t.Fatalf("slice contents = %v, want [12 13 14]", sliced.Bytes())
	}

	// Mutating the source must not reach the copy, and vice versa.
	if err := c.PutAt(2, 0xFF); err != nil {
		t.Fatalf("PutAt: %v", err)
	}
	if !bytes.Equal(sliced.Bytes(), []byte{12, 13, 14}) {
		t.Errorf("slice changed after source mutation: %v", sliced.Bytes())
	}
	if err := sliced.WriteByte(0xEE); err != nil {
		t.Fatalf("WriteByte on slice: %v", err)
	}
	if c.Bytes()[2] != 0xFF {
		t.Errorf("source changed after slice mutation: %v", c.Bytes())
	}
}

func TestSliceBounds(t *testing.T) {
	c := Alloc(4)
	for _, bounds := range [][2]int{{-1, 2}, {3, 2}, {0, 5}} {
		if _, err := c.Slice(bounds[0], bounds[1]); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Slice(%d, %d) error = %v, want ErrOutOfBounds", bounds[0], bounds[1], err)
		}
	}
	empty, err := c.Slice(4, 4)
	if err != nil {
		t.Fatalf("Slice(4, 4): %v", err)
	}
	if empty.Len() != 0 {
		t.Errorf("empty slice Len() = %d, want 0", empty.Len())
	}
}

func TestByteAtPutAtDoNotAdvance(t *testing.T) {
	c := Alloc(4)
	if _, err := c.Seek(1); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if err := c.PutAt(2, 7); err != nil {
		t.Fatalf("PutAt: %v", err)
	}
	if c.Offset() != 1 {
		t.Errorf("PutAt moved offset to %d", c.Offset())
	}
	if c.Bytes()[3] != 7 {
		t.Errorf("PutAt(2) wrote %v, want byte 3 set (relative to offset)", c.Bytes())
	}
	value, err := c.ByteAt(2)
	if err != nil {
		t.Fatalf("ByteAt: %v", err)
	}
	if value != 7 {
		t.Errorf("ByteAt(2) = %d, want 7", value)
	}
	if _, err := c.ByteAt(3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ByteAt past end: got %v, want ErrOutOfBounds", err)
	}
	if err := c.PutAt(-1, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("PutAt(-1): got %v, want ErrOutOfBounds", err)
	}
}

func TestReadWriteBytes(t *testing.T) {
	c := Alloc(10)

	written, err := c.WriteBytes([]byte{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}
	if written != 4 || c.Offset() != 4 {
		t.Errorf("WriteBytes returned %d with offset %d, want 4 and 4", written, c.Offset())
	}

	c.Reset()
	data, err := c.ReadBytes(4)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(data, []byte{0, 1, 2, 3}) {
		t.Errorf("ReadBytes(4) = %v, want [0 1 2 3]", data)
	}

	// ReadBytes returns a copy.
	data[0] = 0xFF
	if c.Bytes()[0] != 0 {
		t.Error("mutating ReadBytes result changed the cursor")
	}
}

func TestOutOfBoundsLeavesOffset(t *testing.T) {
	c := Alloc(6)
	if _, err := c.Seek(4); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	_, err := c.WriteBytes([]byte{1, 2, 3})
	var boundsError *BoundsError
	if !errors.As(err, &boundsError) {
		t.Fatalf("WriteBytes past end: got %v, want *BoundsError", err)
	}
	if boundsError.Op != "write" || boundsError.Offset != 4 || boundsError.Need != 3 || boundsError.Length != 6 {
		t.Errorf("BoundsError = %+v, want write of 3 at 4 with length 6", boundsError)
	}
	if c.Offset() != 4 {
		t.Errorf("offset after failed write = %d, want 4", c.Offset())
	}
	if !bytes.Equal(c.Bytes(), make([]byte, 6)) {
		t.Errorf("failed write modified buffer: %v", c.Bytes())
	}

	if _, err := c.ReadBytes(3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadBytes past end: got %v, want ErrOutOfBounds", err)
	}
	if _, err := c.ReadBytes(-1); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("ReadBytes(-1): got %v, want ErrInvalidLength", err)
	}
	if c.Offset() != 4 {
		t.Errorf("offset after failed reads = %d, want 4", c.Offset())
	}
}

func TestZeroValueCursor(t *testing.T) {
	var c Cursor
	if _, err := c.ReadByte(); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ReadByte on zero cursor: got %v, want ErrOutOfBounds", err)
	}
	if err := c.WriteByte(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("WriteByte on zero cursor: got %v, want ErrOutOfBounds", err)
	}
}
