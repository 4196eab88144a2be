// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"fmt"
	"strconv"
)

// Size returns the number of bytes [Serialize] writes for value using
// the default codec.
func Size(value Value) (int, error) {
	return defaultCodec.Size(value)
}

// Size returns the exact encoded size of value, which must be a
// [Document] or an [Array]. It fails with the same type and depth
// errors Serialize would. String contents are not validated here.
func (codec Codec) Size(value Value) (int, error) {
	sizer := sizer{maxDepth: codec.maxDepth()}
	switch value := value.(type) {
	case Document:
		return sizer.document(value, 1, "")
	case Array:
		return sizer.array(value, 1, "")
	}
	return 0, fmt.Errorf("top-level value must be a document or array, got %s: %w", describe(value), ErrUnsupportedType)
}

type sizer struct {
	maxDepth int
}

func (s *sizer) document(doc Document, depth int, path string) (int, error) {
	if depth > s.maxDepth {
		return 0, pathError(path, fmt.Errorf("depth %d exceeds limit %d: %w", depth, s.maxDepth, ErrTooDeeplyNested))
	}
	total := minDocumentSize
	for _, element := range doc {
		size, err := s.element(element.Name, element.Value, depth, joinPath(path, element.Name))
		if err != nil {
			return 0, err
		}
		total += size
	}
	return total, nil
}

func (s *sizer) array(array Array, depth int, path string) (int, error) {
	if depth > s.maxDepth {
		return 0, pathError(path, fmt.Errorf("depth %d exceeds limit %d: %w", depth, s.maxDepth, ErrTooDeeplyNested))
	}
	total := minDocumentSize
	for index, value := range array {
		name := strconv.Itoa(index)
		size, err := s.element(name, value, depth, joinPath(path, name))
		if err != nil {
			return 0, err
		}
		total += size
	}
	return total, nil
}

// element returns the size of the tag, the name and the payload.
func (s *sizer) element(name string, value Value, depth int, path string) (int, error) {
	header := 1 + len(name) + 1

	switch value := value.(type) {
	case Document:
		size, err := s.document(value, depth+1, path)
		return header + size, err
	case Array:
		size, err := s.array(value, depth+1, path)
		return header + size, err
	case CodeWithScope:
		size, err := s.document(value.Scope, depth+1, path)
		return header + 4 + stringSize(value.Code) + size, err
	case Double, DateTime, Int64, Timestamp:
		return header + 8, nil
	case String:
		return header + stringSize(string(value)), nil
	case Code:
		return header + stringSize(string(value)), nil
	case Symbol:
		return header + stringSize(string(value)), nil
	case Binary:
		return header + 4 + 1 + len(value.Data), nil
	case Undefined, Null, MinKey, MaxKey:
		return header, nil
	case ObjectID:
		return header + len(value), nil
	case Boolean:
		return header + 1, nil
	case Regex:
		if !value.Flags.valid() {
			return 0, pathError(path, fmt.Errorf("flags 0x%02x: %w", byte(value.Flags), ErrInvalidRegex))
		}
		return header + len(value.Pattern) + 1 + len(value.Flags.String()) + 1, nil
	case DBPointer:
		return header + stringSize(value.Collection) + len(value.ID), nil
	case Int32:
		return header + 4, nil
	}
	return 0, pathError(path, fmt.Errorf("%s: %w", describeUnknown(value), ErrUnsupportedType))
}

// stringSize is the wire size of a length-prefixed string. Go strings
// are UTF-8, so the byte length is the encoded length for every string
// the cursor accepts.
func stringSize(s string) int {
	return 4 + len(s) + 1
}

func describeUnknown(value Value) string {
	if value == nil {
		return "nil value"
	}
	return fmt.Sprintf("%T", value)
}
