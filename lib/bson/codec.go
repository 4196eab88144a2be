// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"fmt"

	"github.com/bureau-foundation/bindoc/lib/cursor"
)

// DefaultMaxDepth is the nesting limit used when [Codec.MaxDepth] is
// zero. The top-level document is depth 1.
const DefaultMaxDepth = 100

// minDocumentSize is the smallest well-formed document: a length
// prefix and a terminator.
const minDocumentSize = 5

// Codec carries encoding and decoding limits. The zero value uses
// [DefaultMaxDepth]. A Codec holds no state between calls and is safe
// to share between goroutines.
type Codec struct {
	// MaxDepth bounds document and array nesting. Zero or negative
	// selects DefaultMaxDepth.
	MaxDepth int
}

var defaultCodec Codec

func (codec Codec) maxDepth() int {
	if codec.MaxDepth > 0 {
		return codec.MaxDepth
	}
	return DefaultMaxDepth
}

// Serialize writes value, which must be a [Document] or an [Array], at
// the cursor's offset using the default codec. See [Codec.Serialize].
func Serialize(c *cursor.Cursor, value Value) (int, error) {
	return defaultCodec.Serialize(c, value)
}

// Deserialize reads a document or array at the cursor's offset using
// the default codec. See [Codec.Deserialize].
func Deserialize(c *cursor.Cursor, isArray bool) (Value, error) {
	return defaultCodec.Deserialize(c, isArray)
}

// Marshal encodes a document or array into a new byte slice using the
// default codec.
func Marshal(value Value) ([]byte, error) {
	return defaultCodec.Marshal(value)
}

// Unmarshal decodes data, which must hold exactly one document, using
// the default codec.
func Unmarshal(data []byte) (Document, error) {
	return defaultCodec.Unmarshal(data)
}

// UnmarshalArray decodes data, which must hold exactly one document,
// as an array using the default codec.
func UnmarshalArray(data []byte) (Array, error) {
	return defaultCodec.UnmarshalArray(data)
}

// Serialize writes value at the cursor's offset and returns the number
// of bytes written, which equals the length prefix it patches in. On
// error the offset is restored; bytes already written past it are not
// cleared.
func (codec Codec) Serialize(c *cursor.Cursor, value Value) (int, error) {
	start := c.Offset()
	encoder := encoder{cursor: c, maxDepth: codec.maxDepth()}

	var err error
	switch value := value.(type) {
	case Document:
		err = encoder.document(value, 1, "")
	case Array:
		err = encoder.array(value, 1, "")
	default:
		err = fmt.Errorf("top-level value must be a document or array, got %s: %w", describe(value), ErrUnsupportedType)
	}
	if err != nil {
		c.Seek(start) //nolint:errcheck // start was a valid offset
		return 0, err
	}
	return c.Offset() - start, nil
}

// Deserialize reads one document at the cursor's offset and returns it
// as a [Document], or as an [Array] when isArray is set. On success the
// cursor is left just past the document's declared length. On error
// the offset is restored and the returned value is nil.
func (codec Codec) Deserialize(c *cursor.Cursor, isArray bool) (Value, error) {
	start := c.Offset()
	decoder := decoder{maxDepth: codec.maxDepth()}

	value, err := decoder.container(c, isArray, 1, "")
	if err != nil {
		c.Seek(start) //nolint:errcheck // start was a valid offset
		return nil, err
	}
	return value, nil
}

// Marshal encodes a document or array into a new byte slice sized
// exactly by [Codec.Size].
func (codec Codec) Marshal(value Value) ([]byte, error) {
	size, err := codec.Size(value)
	if err != nil {
		return nil, err
	}
	c := cursor.Alloc(size)
	if _, err := codec.Serialize(c, value); err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}

// Unmarshal decodes data as a document. The document's declared length
// must cover all of data.
func (codec Codec) Unmarshal(data []byte) (Document, error) {
	value, err := codec.unmarshal(data, false)
	if err != nil {
		return nil, err
	}
	return value.(Document), nil
}

// UnmarshalArray decodes data as an array. Element names are not
// checked; values are taken in wire order.
func (codec Codec) UnmarshalArray(data []byte) (Array, error) {
	value, err := codec.unmarshal(data, true)
	if err != nil {
		return nil, err
	}
	return value.(Array), nil
}

func (codec Codec) unmarshal(data []byte, isArray bool) (Value, error) {
	c := cursor.Wrap(data)
	value, err := codec.Deserialize(c, isArray)
	if err != nil {
		return nil, err
	}
	if c.Remaining() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after document: %w", c.Remaining(), ErrInvalidLength)
	}
	return value, nil
}

// describe names a value's kind for error messages, including nil and
// values whose dynamic type is not part of the closed set.
func describe(value Value) string {
	if value == nil {
		return "nil"
	}
	return value.Kind().String()
}
