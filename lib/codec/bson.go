// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"
	"strconv"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/bindoc/lib/bson"
)

// undefined is the CBOR simple value 23.
const undefined = cbor.SimpleValue(23)

// FromBSON encodes value as deterministic CBOR, bounding nesting at
// [bson.DefaultMaxDepth].
func FromBSON(value bson.Value) ([]byte, error) {
	return FromBSONWithMaxDepth(value, bson.DefaultMaxDepth)
}

// FromBSONWithMaxDepth is [FromBSON] with an explicit nesting limit.
// Nesting beyond maxDepth fails with [bson.ErrTooDeeplyNested].
func FromBSONWithMaxDepth(value bson.Value, maxDepth int) ([]byte, error) {
	tree, err := Transcode(value, maxDepth)
	if err != nil {
		return nil, err
	}
	data, err := Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("codec: encoding CBOR: %w", err)
	}
	return data, nil
}

// Transcode converts value into plain Go values that encode to the
// CBOR form described in the package documentation. Callers streaming
// many documents pass the result to an [Encoder].
func Transcode(value bson.Value, maxDepth int) (any, error) {
	t := transcoder{maxDepth: maxDepth}
	return t.value(value, 1, "")
}

type transcoder struct {
	maxDepth int
}

func (t *transcoder) value(value bson.Value, depth int, path string) (any, error) {
	switch value := value.(type) {
	case nil:
		return nil, pathError(path, fmt.Errorf("nil value: %w", bson.ErrUnsupportedType))
	case bson.Document:
		return t.document(value, depth, path)
	case bson.Array:
		if err := t.checkDepth(depth, path); err != nil {
			return nil, err
		}
		items := make([]any, len(value))
		for i, child := range value {
			item, err := t.value(child, depth+1, joinPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil
	case bson.Double:
		return float64(value), nil
	case bson.String:
		return string(value), nil
	case bson.Binary:
		// A nil slice would encode as null.
		data := value.Data
		if data == nil {
			data = []byte{}
		}
		if value.Subtype == bson.SubtypeGeneric {
			return data, nil
		}
		return map[string]any{"$binary": data, "subType": uint8(value.Subtype)}, nil
	case bson.Undefined:
		return undefined, nil
	case bson.ObjectID:
		return map[string]any{"$oid": value.Hex()}, nil
	case bson.Boolean:
		return bool(value), nil
	case bson.DateTime:
		return map[string]any{"$date": int64(value)}, nil
	case bson.Null:
		return nil, nil
	case bson.Regex:
		return map[string]any{"$regularExpression": map[string]any{
			"pattern": value.Pattern,
			"options": value.Flags.String(),
		}}, nil
	case bson.DBPointer:
		return map[string]any{"$dbPointer": map[string]any{
			"$ref": value.Collection,
			"$id":  map[string]any{"$oid": value.ID.Hex()},
		}}, nil
	case bson.Code:
		return map[string]any{"$code": string(value)}, nil
	case bson.Symbol:
		return map[string]any{"$symbol": string(value)}, nil
	case bson.CodeWithScope:
		scope, err := t.document(value.Scope, depth+1, path)
		if err != nil {
			return nil, err
		}
		return map[string]any{"$code": value.Code, "$scope": scope}, nil
	case bson.Int32:
		return int32(value), nil
	case bson.Timestamp:
		return map[string]any{"$timestamp": map[string]any{"t": value.Seconds, "i": value.Steps}}, nil
	case bson.Int64:
		return int64(value), nil
	case bson.MinKey:
		return map[string]any{"$minKey": 1}, nil
	case bson.MaxKey:
		return map[string]any{"$maxKey": 1}, nil
	}
	return nil, pathError(path, fmt.Errorf("%T: %w", value, bson.ErrUnsupportedType))
}

func (t *transcoder) document(document bson.Document, depth int, path string) (map[string]any, error) {
	if err := t.checkDepth(depth, path); err != nil {
		return nil, err
	}
	result := make(map[string]any, len(document))
	for _, element := range document {
		child, err := t.value(element.Value, depth+1, joinPath(path, element.Name))
		if err != nil {
			return nil, err
		}
		result[element.Name] = child
	}
	return result, nil
}

func (t *transcoder) checkDepth(depth int, path string) error {
	if depth > t.maxDepth {
		return pathError(path, fmt.Errorf("depth %d exceeds limit %d: %w", depth, t.maxDepth, bson.ErrTooDeeplyNested))
	}
	return nil
}

func pathError(path string, err error) error {
	if path == "" {
		return err
	}
	return fmt.Errorf("element %q: %w", path, err)
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
