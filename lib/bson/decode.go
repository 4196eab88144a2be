// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"fmt"

	"github.com/bureau-foundation/bindoc/lib/cursor"
)

// minCodeWithScopeSize is the smallest well-formed code-with-scope
// payload: total length, an empty length-prefixed string, and an empty
// document.
const minCodeWithScopeSize = 4 + 5 + minDocumentSize

type decoder struct {
	maxDepth int
}

// container reads a document or array at the cursor's offset. Elements
// are parsed through a view bounded by the declared length, and the
// cursor is then moved to the declared end regardless of how many
// bytes the elements used.
func (d *decoder) container(c *cursor.Cursor, isArray bool, depth int, path string) (Value, error) {
	if depth > d.maxDepth {
		return nil, pathError(path, fmt.Errorf("depth %d exceeds limit %d: %w", depth, d.maxDepth, ErrTooDeeplyNested))
	}

	start := c.Offset()
	end, err := d.declaredEnd(c, minDocumentSize)
	if err != nil {
		return nil, pathError(path, err)
	}

	body, err := cursor.WrapAt(c.Bytes(), start+4, end)
	if err != nil {
		return nil, pathError(path, err)
	}

	var document Document
	var array Array
	for {
		tagOffset := body.Offset()
		tag, err := body.ReadByte()
		if err != nil {
			return nil, pathError(path, fmt.Errorf("document at offset %d has no terminator within %d bytes: %w",
				start, end-start, ErrInvalidLength))
		}
		if tag == 0 {
			break
		}

		name, err := body.ReadCString()
		if err != nil {
			return nil, pathError(path, fmt.Errorf("element name at offset %d: %w", tagOffset+1, err))
		}
		elementPath := joinPath(path, name)

		value, err := d.element(body, Kind(tag), tagOffset, depth, elementPath)
		if err != nil {
			return nil, err
		}
		if isArray {
			array = append(array, value)
		} else {
			document = append(document, Element{Name: name, Value: value})
		}
	}

	if _, err := c.Seek(end); err != nil {
		return nil, pathError(path, err)
	}
	if isArray {
		if array == nil {
			array = Array{}
		}
		return array, nil
	}
	if document == nil {
		document = Document{}
	}
	return document, nil
}

// declaredEnd reads a 4-byte length at the cursor's offset and returns
// the absolute end offset it declares. The length must be at least
// minimum and fit in the bytes remaining from its own start. The
// cursor is left after the length field.
func (d *decoder) declaredEnd(c *cursor.Cursor, minimum int) (int, error) {
	start := c.Offset()
	if c.Remaining() < 4 {
		return 0, fmt.Errorf("length field at offset %d needs 4 bytes, %d available: %w",
			start, c.Remaining(), ErrIncompleteBuffer)
	}
	length, err := c.ReadInt32()
	if err != nil {
		return 0, err
	}
	if int(length) < minimum {
		return 0, fmt.Errorf("declared length %d at offset %d is below minimum %d: %w",
			length, start, minimum, ErrInvalidLength)
	}
	if int(length)-4 > c.Remaining() {
		return 0, fmt.Errorf("declared length %d at offset %d, %d bytes available: %w",
			length, start, c.Remaining()+4, ErrIncompleteBuffer)
	}
	return start + int(length), nil
}

// element reads the payload for tag. Errors from nested documents
// already carry their path and are returned unchanged.
func (d *decoder) element(c *cursor.Cursor, kind Kind, tagOffset, depth int, path string) (Value, error) {
	switch kind {
	case KindDocument:
		return d.container(c, false, depth+1, path)
	case KindArray:
		return d.container(c, true, depth+1, path)
	case KindCodeWithScope:
		return d.codeWithScope(c, depth, path)
	}

	value, err := d.payload(c, kind, tagOffset)
	if err != nil {
		return nil, pathError(path, err)
	}
	return value, nil
}

func (d *decoder) payload(c *cursor.Cursor, kind Kind, tagOffset int) (Value, error) {
	switch kind {
	case KindDouble:
		value, err := c.ReadDouble()
		return Double(value), err
	case KindString:
		value, err := c.ReadLengthPrefixedString()
		return String(value), err
	case KindBinary:
		return readBinary(c)
	case KindUndefined:
		return Undefined{}, nil
	case KindObjectID:
		return readObjectID(c)
	case KindBoolean:
		flag, err := c.ReadByte()
		if err != nil {
			return nil, err
		}
		switch flag {
		case 0:
			return Boolean(false), nil
		case 1:
			return Boolean(true), nil
		}
		return nil, fmt.Errorf("byte 0x%02x at offset %d: %w", flag, c.Offset()-1, ErrInvalidBoolean)
	case KindDateTime:
		value, err := c.ReadInt64()
		return DateTime(value), err
	case KindNull:
		return Null{}, nil
	case KindRegex:
		pattern, err := c.ReadCString()
		if err != nil {
			return nil, err
		}
		letters, err := c.ReadCString()
		if err != nil {
			return nil, err
		}
		flags, err := ParseRegexFlags(letters)
		if err != nil {
			return nil, err
		}
		return Regex{Pattern: pattern, Flags: flags}, nil
	case KindDBPointer:
		collection, err := c.ReadLengthPrefixedString()
		if err != nil {
			return nil, err
		}
		id, err := readObjectID(c)
		if err != nil {
			return nil, err
		}
		return DBPointer{Collection: collection, ID: id.(ObjectID)}, nil
	case KindCode:
		value, err := c.ReadLengthPrefixedString()
		return Code(value), err
	case KindSymbol:
		value, err := c.ReadLengthPrefixedString()
		return Symbol(value), err
	case KindInt32:
		value, err := c.ReadInt32()
		return Int32(value), err
	case KindTimestamp:
		words, err := c.ReadInt32s(2)
		if err != nil {
			return nil, err
		}
		return Timestamp{Steps: uint32(words[0]), Seconds: uint32(words[1])}, nil
	case KindInt64:
		value, err := c.ReadInt64()
		return Int64(value), err
	case KindMinKey:
		return MinKey{}, nil
	case KindMaxKey:
		return MaxKey{}, nil
	}
	return nil, &UnknownTypeError{Tag: byte(kind), Offset: tagOffset}
}

func readBinary(c *cursor.Cursor) (Value, error) {
	start := c.Offset()
	length, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("binary length %d at offset %d: %w", length, start, ErrInvalidLength)
	}
	subtype, err := c.ReadByte()
	if err != nil {
		return nil, err
	}
	data, err := c.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}
	return Binary{Subtype: BinarySubtype(subtype), Data: data}, nil
}

func readObjectID(c *cursor.Cursor) (Value, error) {
	raw, err := c.ReadBytes(len(ObjectID{}))
	if err != nil {
		return nil, err
	}
	var id ObjectID
	copy(id[:], raw)
	return id, nil
}

// codeWithScope reads a total length, a length-prefixed code string and
// a scope document, then moves to the declared end.
func (d *decoder) codeWithScope(c *cursor.Cursor, depth int, path string) (Value, error) {
	start := c.Offset()
	end, err := d.declaredEnd(c, minCodeWithScopeSize)
	if err != nil {
		return nil, pathError(path, err)
	}
	body, err := cursor.WrapAt(c.Bytes(), start+4, end)
	if err != nil {
		return nil, pathError(path, err)
	}

	code, err := body.ReadLengthPrefixedString()
	if err != nil {
		return nil, pathError(path, err)
	}
	scope, err := d.container(body, false, depth+1, path)
	if err != nil {
		return nil, err
	}

	if _, err := c.Seek(end); err != nil {
		return nil, pathError(path, err)
	}
	return CodeWithScope{Code: code, Scope: scope.(Document)}, nil
}
