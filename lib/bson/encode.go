// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"fmt"
	"strconv"

	"github.com/bureau-foundation/bindoc/lib/cursor"
)

// encoder writes values through a single cursor. Every nested document
// reuses the same cursor.
type encoder struct {
	cursor   *cursor.Cursor
	maxDepth int
}

func (e *encoder) document(doc Document, depth int, path string) error {
	start, err := e.open(depth, path)
	if err != nil {
		return err
	}
	for _, element := range doc {
		if err := e.element(element.Name, element.Value, depth, joinPath(path, element.Name)); err != nil {
			return err
		}
	}
	return e.close(start, path)
}

func (e *encoder) array(array Array, depth int, path string) error {
	start, err := e.open(depth, path)
	if err != nil {
		return err
	}
	for index, value := range array {
		name := strconv.Itoa(index)
		if err := e.element(name, value, depth, joinPath(path, name)); err != nil {
			return err
		}
	}
	return e.close(start, path)
}

// open checks the depth limit and writes a placeholder length. Returns
// the document's start offset for close to patch.
func (e *encoder) open(depth int, path string) (int, error) {
	if depth > e.maxDepth {
		return 0, pathError(path, fmt.Errorf("depth %d exceeds limit %d: %w", depth, e.maxDepth, ErrTooDeeplyNested))
	}
	start := e.cursor.Offset()
	if _, err := e.cursor.WriteInt32(0); err != nil {
		return 0, pathError(path, err)
	}
	return start, nil
}

// close writes the terminator and patches the length placeholder at
// start with the document's total size.
func (e *encoder) close(start int, path string) error {
	if err := e.cursor.WriteByte(0); err != nil {
		return pathError(path, err)
	}
	return e.patchLength(start, path)
}

func (e *encoder) patchLength(start int, path string) error {
	end := e.cursor.Offset()
	if _, err := e.cursor.Seek(start); err != nil {
		return pathError(path, err)
	}
	if _, err := e.cursor.WriteInt32(int32(end - start)); err != nil {
		return pathError(path, err)
	}
	if _, err := e.cursor.Seek(end); err != nil {
		return pathError(path, err)
	}
	return nil
}

// element writes one tag, name and payload. Errors from nested
// documents already carry their own path and are returned unchanged.
func (e *encoder) element(name string, value Value, depth int, path string) error {
	if value == nil {
		return pathError(path, fmt.Errorf("nil value: %w", ErrUnsupportedType))
	}
	if err := e.cursor.WriteByte(byte(value.Kind())); err != nil {
		return pathError(path, err)
	}
	if _, err := e.cursor.WriteCString(name); err != nil {
		return pathError(path, fmt.Errorf("element name: %w", err))
	}

	switch value := value.(type) {
	case Document:
		return e.document(value, depth+1, path)
	case Array:
		return e.array(value, depth+1, path)
	case CodeWithScope:
		return e.codeWithScope(value, depth, path)
	}

	if err := e.payload(value); err != nil {
		return pathError(path, err)
	}
	return nil
}

// payload writes the payload of a non-container value.
func (e *encoder) payload(value Value) error {
	c := e.cursor
	var err error
	switch value := value.(type) {
	case Double:
		_, err = c.WriteDouble(float64(value))
	case String:
		_, err = c.WriteLengthPrefixedString(string(value))
	case Binary:
		if _, err = c.WriteInt32(int32(len(value.Data))); err != nil {
			return err
		}
		if err = c.WriteByte(byte(value.Subtype)); err != nil {
			return err
		}
		_, err = c.WriteBytes(value.Data)
	case Undefined, Null, MinKey, MaxKey:
	case ObjectID:
		_, err = c.WriteBytes(value[:])
	case Boolean:
		var flag byte
		if value {
			flag = 1
		}
		err = c.WriteByte(flag)
	case DateTime:
		_, err = c.WriteInt64(int64(value))
	case Regex:
		if !value.Flags.valid() {
			return fmt.Errorf("flags 0x%02x: %w", byte(value.Flags), ErrInvalidRegex)
		}
		if _, err = c.WriteCString(value.Pattern); err != nil {
			return err
		}
		_, err = c.WriteCString(value.Flags.String())
	case DBPointer:
		if _, err = c.WriteLengthPrefixedString(value.Collection); err != nil {
			return err
		}
		_, err = c.WriteBytes(value.ID[:])
	case Code:
		_, err = c.WriteLengthPrefixedString(string(value))
	case Symbol:
		_, err = c.WriteLengthPrefixedString(string(value))
	case Int32:
		_, err = c.WriteInt32(int32(value))
	case Timestamp:
		_, err = c.WriteInt32(int32(value.Steps), int32(value.Seconds))
	case Int64:
		_, err = c.WriteInt64(int64(value))
	default:
		return fmt.Errorf("%T: %w", value, ErrUnsupportedType)
	}
	return err
}

// codeWithScope writes an int32 total length, the code as a
// length-prefixed string, and the scope document.
func (e *encoder) codeWithScope(value CodeWithScope, depth int, path string) error {
	start := e.cursor.Offset()
	if _, err := e.cursor.WriteInt32(0); err != nil {
		return pathError(path, err)
	}
	if _, err := e.cursor.WriteLengthPrefixedString(value.Code); err != nil {
		return pathError(path, err)
	}
	if err := e.document(value.Scope, depth+1, path); err != nil {
		return err
	}
	return e.patchLength(start, path)
}
