// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cursor

import (
	"bytes"
	"errors"
	"testing"
)

func TestCString(t *testing.T) {
	c := Alloc(10)

	written, err := c.WriteCString("test")
	if err != nil {
		t.Fatalf("WriteCString: %v", err)
	}
	if written != 5 || c.Offset() != 5 {
		t.Errorf("WriteCString returned %d with offset %d, want 5 and 5", written, c.Offset())
	}
	if !bytes.Equal(c.Bytes()[:5], []byte("test\x00")) {
		t.Errorf("encoded = %q, want \"test\\x00\"", c.Bytes()[:5])
	}

	c.Reset()
	got, err := c.ReadCString()
	if err != nil {
		t.Fatalf("ReadCString: %v", err)
	}
	if got != "test" || c.Offset() != 5 {
		t.Errorf("ReadCString() = %q at offset %d, want \"test\" at 5", got, c.Offset())
	}
}

func TestCStringRejectsEmbeddedNUL(t *testing.T) {
	c := Alloc(10)
	if _, err := c.WriteCString("a\x00b"); !errors.Is(err, ErrEmbeddedNUL) {
		t.Errorf("WriteCString with NUL: got %v, want ErrEmbeddedNUL", err)
	}
	if c.Offset() != 0 {
		t.Errorf("offset after rejected write = %d, want 0", c.Offset())
	}
}

func TestCStringMissingTerminator(t *testing.T) {
	c := Wrap([]byte("abc"))
	if _, err := c.ReadCString(); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("ReadCString without NUL: got %v, want ErrTruncatedData", err)
	}
	if c.Offset() != 0 {
		t.Errorf("offset after failed read = %d, want 0", c.Offset())
	}
}

func TestLengthPrefixedString(t *testing.T) {
	c := Alloc(10)

	written, err := c.WriteLengthPrefixedString("test")
	if err != nil {
		t.Fatalf("WriteLengthPrefixedString: %v", err)
	}
	if written != 9 || c.Offset() != 9 {
		t.Errorf("WriteLengthPrefixedString returned %d with offset %d, want 9 and 9", written, c.Offset())
	}
	want := []byte{0x05, 0x00, 0x00, 0x00, 't', 'e', 's', 't', 0x00}
	if !bytes.Equal(c.Bytes()[:9], want) {
		t.Errorf("encoded = % x, want % x", c.Bytes()[:9], want)
	}

	c.Reset()
	got, err := c.ReadLengthPrefixedString()
	if err != nil {
		t.Fatalf("ReadLengthPrefixedString: %v", err)
	}
	if got != "test" || c.Offset() != 9 {
		t.Errorf("ReadLengthPrefixedString() = %q at offset %d, want \"test\" at 9", got, c.Offset())
	}
}

func TestLengthPrefixedStringKeepsEmbeddedNUL(t *testing.T) {
	c := Alloc(16)
	if _, err := c.WriteLengthPrefixedString("a\x00b"); err != nil {
		t.Fatalf("WriteLengthPrefixedString: %v", err)
	}
	c.Reset()
	got, err := c.ReadLengthPrefixedString()
	if err != nil {
		t.Fatalf("ReadLengthPrefixedString: %v", err)
	}
	if got != "a\x00b" {
		t.Errorf("got %q, want \"a\\x00b\"", got)
	}
}

func TestLengthPrefixedStringMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{"zero length", []byte{0, 0, 0, 0, 0}, ErrInvalidLength},
		{"negative length", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0}, ErrInvalidLength},
		{"length beyond buffer", []byte{9, 0, 0, 0, 'a', 0}, ErrOutOfBounds},
		{"missing terminator", []byte{2, 0, 0, 0, 'a', 'b'}, ErrInvalidLength},
		{"short count field", []byte{1, 0}, ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Wrap(tt.input)
			if _, err := c.ReadLengthPrefixedString(); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if c.Offset() != 0 {
				t.Errorf("offset after failed read = %d, want 0", c.Offset())
			}
		})
	}
}

func TestUTF8ThreeByteCharacters(t *testing.T) {
	c := Alloc(10)

	written, err := c.WriteUTF8String("测试")
	if err != nil {
		t.Fatalf("WriteUTF8String: %v", err)
	}
	if written != 6 || c.Offset() != 6 {
		t.Errorf("WriteUTF8String returned %d with offset %d, want 6 and 6", written, c.Offset())
	}
	if !bytes.Equal(c.Bytes()[:6], []byte{0xE6, 0xB5, 0x8B, 0xE8, 0xAF, 0x95}) {
		t.Errorf("encoded = % x", c.Bytes()[:6])
	}

	c.Reset()
	got, err := c.ReadUTF8String(6)
	if err != nil {
		t.Fatalf("ReadUTF8String: %v", err)
	}
	if got != "测试" || c.Offset() != 6 {
		t.Errorf("ReadUTF8String(6) = %q at offset %d, want \"测试\" at 6", got, c.Offset())
	}

	// Terminate and read back up to the NUL.
	if err := c.WriteByte(0); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	c.Reset()
	got, err = c.ReadUTF8StringToNUL()
	if err != nil {
		t.Fatalf("ReadUTF8StringToNUL: %v", err)
	}
	if got != "测试" || c.Offset() != 6 {
		t.Errorf("ReadUTF8StringToNUL() = %q at offset %d, want \"测试\" at 6", got, c.Offset())
	}

	sliced, err := c.Slice(3, 7)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	second, err := sliced.ReadUTF8StringToNUL()
	if err != nil {
		t.Fatalf("ReadUTF8StringToNUL on slice: %v", err)
	}
	if second != "试" {
		t.Errorf("slice string = %q, want \"试\"", second)
	}
}

func TestUTF8EncodedWidths(t *testing.T) {
	tests := []struct {
		input string
		want  []byte
	}{
		{"A", []byte{0x41}},
		{"\u007f", []byte{0x7F}},
		{"\u0080", []byte{0xC2, 0x80}},
		{"é", []byte{0xC3, 0xA9}},
		{"߿", []byte{0xDF, 0xBF}},
		{"ࠀ", []byte{0xE0, 0xA0, 0x80}},
		{"￿", []byte{0xEF, 0xBF, 0xBF}},
	}

	for _, tt := range tests {
		c := Alloc(len(tt.want))
		if _, err := c.WriteUTF8String(tt.input); err != nil {
			t.Errorf("WriteUTF8String(%q): %v", tt.input, err)
			continue
		}
		if !bytes.Equal(c.Bytes(), tt.want) {
			t.Errorf("WriteUTF8String(%q) = % x, want % x", tt.input, c.Bytes(), tt.want)
		}
		c.Reset()
		got, err := c.ReadUTF8String(len(tt.want))
		if err != nil {
			t.Errorf("ReadUTF8String(% x): %v", tt.want, err)
			continue
		}
		if got != tt.input {
			t.Errorf("ReadUTF8String(% x) = %q, want %q", tt.want, got, tt.input)
		}
	}
}

func TestUTF8RejectsFourByteCodePoints(t *testing.T) {
	c := Alloc(16)
	if _, err := c.WriteUTF8String("ok \U0001F600"); !errors.Is(err, ErrUnsupportedCodePoint) {
		t.Errorf("WriteUTF8String with U+1F600: got %v, want ErrUnsupportedCodePoint", err)
	}
	if c.Offset() != 0 {
		t.Errorf("offset after rejected write = %d, want 0", c.Offset())
	}

	c = Wrap([]byte{0xF0, 0x9F, 0x98, 0x80})
	if _, err := c.ReadUTF8String(4); !errors.Is(err, ErrUnsupportedCodePoint) {
		t.Errorf("ReadUTF8String of 4-byte sequence: got %v, want ErrUnsupportedCodePoint", err)
	}
}

func TestUTF8WriteRejectsInvalidString(t *testing.T) {
	c := Alloc(8)
	if _, err := c.WriteUTF8String("a\xffb"); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("WriteUTF8String with 0xff: got %v, want ErrInvalidUTF8", err)
	}
}

func TestUTF8ReadMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{"truncated three-byte sequence at tail", []byte{'a', 0xE6, 0xB5}, ErrTruncatedData},
		{"truncated two-byte sequence at tail", []byte{0xC3}, ErrTruncatedData},
		{"stray continuation byte", []byte{0x80}, ErrInvalidUTF8},
		{"lead without continuation", []byte{0xC3, 0x41}, ErrInvalidUTF8},
		{"overlong two-byte", []byte{0xC0, 0x80}, ErrInvalidUTF8},
		{"overlong three-byte", []byte{0xE0, 0x80, 0x80}, ErrInvalidUTF8},
		{"surrogate", []byte{0xED, 0xA0, 0x80}, ErrInvalidUTF8},
		{"invalid lead", []byte{0xFF}, ErrInvalidUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Wrap(tt.input)
			if _, err := c.ReadUTF8String(len(tt.input)); !errors.Is(err, tt.want) {
				t.Errorf("ReadUTF8String: got %v, want %v", err, tt.want)
			}
			if c.Offset() != 0 {
				t.Errorf("offset after failed read = %d, want 0", c.Offset())
			}
		})
	}
}

func TestUTF8TruncatedBeforeNUL(t *testing.T) {
	c := Wrap([]byte{'x', 0xE8, 0xAF})
	if _, err := c.ReadCString(); !errors.Is(err, ErrTruncatedData) {
		t.Errorf("ReadCString over truncated tail: got %v, want ErrTruncatedData", err)
	}
}
