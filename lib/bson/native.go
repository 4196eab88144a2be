// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"
)

// maxExactInteger is 2^53, the largest magnitude below which every
// integer is exactly representable as a float64.
const maxExactInteger = 1 << 53

// Integer returns value as an [Int32] when it fits in 32 bits and as an
// [Int64] otherwise.
func Integer(value int64) Value {
	if value >= math.MinInt32 && value <= math.MaxInt32 {
		return Int32(value)
	}
	return Int64(value)
}

// Number applies the numeric policy to a float: an integral value with
// magnitude at most 2^53 becomes an integer via [Integer]; anything
// else, including NaN, the infinities and negative zero, stays a
// [Double].
func Number(value float64) Value {
	if value != math.Trunc(value) || math.Abs(value) > maxExactInteger {
		return Double(value)
	}
	if value == 0 && math.Signbit(value) {
		return Double(value)
	}
	return Integer(int64(value))
}

// FromNative converts a Go value into the value model using the
// default nesting limit. See [Codec.FromNative].
func FromNative(value any) (Value, error) {
	return defaultCodec.FromNative(value)
}

// FromNative converts a Go value into the value model:
//
//   - nil becomes [Null]; a [Value] is returned unchanged
//   - bool and string map to [Boolean] and [String]
//   - integers go through [Integer]; uint64 values above MaxInt64 are
//     [ErrUnsupportedType]
//   - floats go through [Number]
//   - []byte becomes generic [Binary]; time.Time becomes [DateTime]
//   - maps with string keys become a [Document] with keys sorted
//   - other slices and arrays become an [Array]
//
// Anything else, including structs and pointers, is
// [ErrUnsupportedType]. Cyclic input fails with [ErrTooDeeplyNested].
func (codec Codec) FromNative(value any) (Value, error) {
	converter := nativeConverter{maxDepth: codec.maxDepth()}
	return converter.convert(value, 1, "")
}

type nativeConverter struct {
	maxDepth int
}

func (n *nativeConverter) convert(value any, depth int, path string) (Value, error) {
	switch value := value.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return value, nil
	case bool:
		return Boolean(value), nil
	case string:
		return String(value), nil
	case int:
		return Integer(int64(value)), nil
	case int8:
		return Int32(value), nil
	case int16:
		return Int32(value), nil
	case int32:
		return Int32(value), nil
	case int64:
		return Integer(value), nil
	case uint8:
		return Int32(value), nil
	case uint16:
		return Int32(value), nil
	case uint32:
		return Integer(int64(value)), nil
	case uint:
		return unsignedInteger(uint64(value), path)
	case uint64:
		return unsignedInteger(value, path)
	case float32:
		return Number(float64(value)), nil
	case float64:
		return Number(value), nil
	case []byte:
		return Binary{Subtype: SubtypeGeneric, Data: append([]byte(nil), value...)}, nil
	case time.Time:
		return DateTimeOf(value), nil
	case map[string]any:
		return n.stringMap(reflect.ValueOf(value), depth, path)
	case []any:
		return n.slice(reflect.ValueOf(value), depth, path)
	}

	reflected := reflect.ValueOf(value)
	switch reflected.Kind() {
	case reflect.Map:
		if reflected.Type().Key().Kind() == reflect.String {
			return n.stringMap(reflected, depth, path)
		}
	case reflect.Slice, reflect.Array:
		return n.slice(reflected, depth, path)
	}
	return nil, pathError(path, fmt.Errorf("%T: %w", value, ErrUnsupportedType))
}

func unsignedInteger(value uint64, path string) (Value, error) {
	if value > math.MaxInt64 {
		return nil, pathError(path, fmt.Errorf("%d overflows int64: %w", value, ErrUnsupportedType))
	}
	return Integer(int64(value)), nil
}

func (n *nativeConverter) checkDepth(depth int, path string) error {
	if depth > n.maxDepth {
		return pathError(path, fmt.Errorf("depth %d exceeds limit %d: %w", depth, n.maxDepth, ErrTooDeeplyNested))
	}
	return nil
}

func (n *nativeConverter) stringMap(reflected reflect.Value, depth int, path string) (Value, error) {
	if err := n.checkDepth(depth, path); err != nil {
		return nil, err
	}
	keys := make([]string, 0, reflected.Len())
	for _, key := range reflected.MapKeys() {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)

	document := make(Document, 0, len(keys))
	for _, key := range keys {
		entry := reflected.MapIndex(reflect.ValueOf(key).Convert(reflected.Type().Key()))
		child, err := n.convert(entry.Interface(), depth+1, joinPath(path, key))
		if err != nil {
			return nil, err
		}
		document = append(document, Element{Name: key, Value: child})
	}
	return document, nil
}

func (n *nativeConverter) slice(reflected reflect.Value, depth int, path string) (Value, error) {
	if err := n.checkDepth(depth, path); err != nil {
		return nil, err
	}
	array := make(Array, 0, reflected.Len())
	for i := 0; i < reflected.Len(); i++ {
		child, err := n.convert(reflected.Index(i).Interface(), depth+1, joinPath(path, fmt.Sprint(i)))
		if err != nil {
			return nil, err
		}
		array = append(array, child)
	}
	return array, nil
}

// ToNative converts a value into plain Go values where a natural
// mapping exists: [Document] to map[string]any (element order is lost;
// the last duplicate name wins), [Array] to []any, numbers to int32,
// int64 and float64, [String] to string, [Boolean] to bool, [DateTime]
// to a UTC time.Time, generic [Binary] to []byte, and [Null] and
// [Undefined] to nil. Other kinds are returned as themselves.
func ToNative(value Value) any {
	switch value := value.(type) {
	case Document:
		result := make(map[string]any, len(value))
		for _, element := range value {
			result[element.Name] = ToNative(element.Value)
		}
		return result
	case Array:
		result := make([]any, len(value))
		for i, child := range value {
			result[i] = ToNative(child)
		}
		return result
	case Double:
		return float64(value)
	case Int32:
		return int32(value)
	case Int64:
		return int64(value)
	case String:
		return string(value)
	case Boolean:
		return bool(value)
	case DateTime:
		return value.Time()
	case Binary:
		if value.Subtype == SubtypeGeneric {
			return value.Data
		}
		return value
	case Null, Undefined, nil:
		return nil
	}
	return value
}
