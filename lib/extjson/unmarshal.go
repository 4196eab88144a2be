// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package extjson

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bureau-foundation/bindoc/lib/bson"
)

// Unmarshal parses an Extended JSON object into a document using
// default options. See [Options.Unmarshal].
func Unmarshal(data []byte) (bson.Document, error) {
	return Options{}.Unmarshal(data)
}

// UnmarshalValue parses any Extended JSON value using default options.
// See [Options.UnmarshalValue].
func UnmarshalValue(data []byte) (bson.Value, error) {
	return Options{}.UnmarshalValue(data)
}

// Unmarshal parses data, which must hold exactly one JSON object that
// is not a type wrapper, into a document. Key order and duplicate keys
// are preserved.
func (o Options) Unmarshal(data []byte) (bson.Document, error) {
	value, err := o.UnmarshalValue(data)
	if err != nil {
		return nil, err
	}
	document, ok := value.(bson.Document)
	if !ok {
		return nil, fmt.Errorf("got %s: %w", value.Kind(), ErrNotDocument)
	}
	return document, nil
}

// UnmarshalValue parses data, which must hold exactly one JSON value.
// Wrapper objects become their kinds, other objects become documents,
// and plain numbers follow [bson.Number]: an integer literal becomes
// Int32 or Int64 by range, anything else is read as a float and
// narrowed when it is integral.
func (o Options) UnmarshalValue(data []byte) (bson.Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	p := parser{decoder: decoder, maxDepth: o.maxDepth()}

	root, err := p.read(1)
	if err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after top-level value at offset %d: %w", decoder.InputOffset(), ErrSyntax)
	}
	return p.convert(root, 1, "")
}

type nodeKind int

const (
	objectNode nodeKind = iota
	arrayNode
	stringNode
	numberNode
	boolNode
	nullNode
)

// node is one parsed JSON value. Objects keep their members in input
// order, which a map would lose.
type node struct {
	kind    nodeKind
	members []member
	items   []*node
	text    string
	boolean bool
}

type member struct {
	name  string
	value *node
}

func (n *node) describe() string {
	switch n.kind {
	case objectNode:
		return "object"
	case arrayNode:
		return "array"
	case stringNode:
		return "string"
	case numberNode:
		return "number"
	case boolNode:
		return "boolean"
	default:
		return "null"
	}
}

func (n *node) member(name string) *node {
	for _, m := range n.members {
		if m.name == name {
			return m.value
		}
	}
	return nil
}

type parser struct {
	decoder  *json.Decoder
	maxDepth int
}

// wrapperSlack is the extra JSON nesting a wrapper adds around a
// value, as in {"$dbPointer": {"$id": {"$oid": ...}}}.
const wrapperSlack = 3

func (p *parser) read(depth int) (*node, error) {
	token, err := p.decoder.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of input: %w", ErrSyntax)
		}
		return nil, fmt.Errorf("%v: %w", err, ErrSyntax)
	}

	switch token := token.(type) {
	case json.Delim:
		if depth > p.maxDepth+wrapperSlack {
			return nil, fmt.Errorf("JSON nesting exceeds limit %d: %w", p.maxDepth, bson.ErrTooDeeplyNested)
		}
		switch token {
		case '{':
			object := &node{kind: objectNode}
			for p.decoder.More() {
				key, err := p.decoder.Token()
				if err != nil {
					return nil, fmt.Errorf("%v: %w", err, ErrSyntax)
				}
				child, err := p.read(depth + 1)
				if err != nil {
					return nil, err
				}
				object.members = append(object.members, member{name: key.(string), value: child})
			}
			if _, err := p.decoder.Token(); err != nil {
				return nil, fmt.Errorf("%v: %w", err, ErrSyntax)
			}
			return object, nil
		case '[':
			array := &node{kind: arrayNode}
			for p.decoder.More() {
				child, err := p.read(depth + 1)
				if err != nil {
					return nil, err
				}
				array.items = append(array.items, child)
			}
			if _, err := p.decoder.Token(); err != nil {
				return nil, fmt.Errorf("%v: %w", err, ErrSyntax)
			}
			return array, nil
		}
		return nil, fmt.Errorf("unexpected %q: %w", token, ErrSyntax)
	case string:
		return &node{kind: stringNode, text: token}, nil
	case json.Number:
		return &node{kind: numberNode, text: token.String()}, nil
	case bool:
		return &node{kind: boolNode, boolean: token}, nil
	case nil:
		return &node{kind: nullNode}, nil
	}
	return nil, fmt.Errorf("unexpected token %v: %w", token, ErrSyntax)
}

func (p *parser) convert(n *node, depth int, path string) (bson.Value, error) {
	switch n.kind {
	case objectNode:
		if shape := wrapperShape(n); shape != "" {
			value, err := p.wrapper(shape, n, depth)
			if err != nil {
				return nil, pathError(path, err)
			}
			return value, nil
		}
		return p.document(n, depth, path)
	case arrayNode:
		if err := p.checkDepth(depth, path); err != nil {
			return nil, err
		}
		array := make(bson.Array, 0, len(n.items))
		for i, item := range n.items {
			child, err := p.convert(item, depth+1, joinPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			array = append(array, child)
		}
		return array, nil
	case stringNode:
		return bson.String(n.text), nil
	case numberNode:
		value, err := plainNumber(n.text)
		if err != nil {
			return nil, pathError(path, err)
		}
		return value, nil
	case boolNode:
		return bson.Boolean(n.boolean), nil
	default:
		return bson.Null{}, nil
	}
}

func (p *parser) document(n *node, depth int, path string) (bson.Document, error) {
	if err := p.checkDepth(depth, path); err != nil {
		return nil, err
	}
	document := make(bson.Document, 0, len(n.members))
	for _, m := range n.members {
		child, err := p.convert(m.value, depth+1, joinPath(path, m.name))
		if err != nil {
			return nil, err
		}
		document = append(document, bson.Element{Name: m.name, Value: child})
	}
	return document, nil
}

func (p *parser) checkDepth(depth int, path string) error {
	if depth > p.maxDepth {
		return pathError(path, fmt.Errorf("depth %d exceeds limit %d: %w", depth, p.maxDepth, bson.ErrTooDeeplyNested))
	}
	return nil
}

func plainNumber(text string) (bson.Value, error) {
	if integer, err := strconv.ParseInt(text, 10, 64); err == nil {
		if integer == 0 && strings.HasPrefix(text, "-") {
			return bson.Double(math.Copysign(0, -1)), nil
		}
		return bson.Integer(integer), nil
	}
	float, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("number %s out of range: %w", text, ErrSyntax)
	}
	return bson.Number(float), nil
}

// wrapperShapes lists the sorted key sets recognized as type wrappers.
// An object is a wrapper only when its keys match one of these sets
// exactly, in any order.
var wrapperShapes = [][]string{
	{"$oid"},
	{"$date"},
	{"$numberInt"},
	{"$numberLong"},
	{"$numberDouble"},
	{"$binary"},
	{"$regularExpression"},
	{"$dbPointer"},
	{"$code"},
	{"$code", "$scope"},
	{"$symbol"},
	{"$timestamp"},
	{"$minKey"},
	{"$maxKey"},
	{"$undefined"},
}

// wrapperShape returns the wrapper name for n ("$code+$scope" for code
// with scope), or "" when n is an ordinary object.
func wrapperShape(n *node) string {
	if len(n.members) == 0 || len(n.members) > 2 {
		return ""
	}
	names := make([]string, len(n.members))
	for i, m := range n.members {
		names[i] = m.name
	}
	slices.Sort(names)
	for _, shape := range wrapperShapes {
		if slices.Equal(names, shape) {
			if len(shape) == 2 {
				return "$code+$scope"
			}
			return shape[0]
		}
	}
	return ""
}

func (p *parser) wrapper(shape string, n *node, depth int) (bson.Value, error) {
	switch shape {
	case "$oid":
		return objectID(n.member("$oid"))
	case "$date":
		return dateTime(n.member("$date"))
	case "$numberInt":
		text, err := wrappedString(n, "$numberInt")
		if err != nil {
			return nil, err
		}
		value, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("$numberInt %q: %w", text, ErrInvalidWrapper)
		}
		return bson.Int32(value), nil
	case "$numberLong":
		value, err := numberLong(n)
		if err != nil {
			return nil, err
		}
		return bson.Int64(value), nil
	case "$numberDouble":
		text, err := wrappedString(n, "$numberDouble")
		if err != nil {
			return nil, err
		}
		return numberDouble(text)
	case "$binary":
		return binary(n.member("$binary"))
	case "$regularExpression":
		return regex(n.member("$regularExpression"))
	case "$dbPointer":
		return dbPointer(n.member("$dbPointer"))
	case "$code":
		text, err := wrappedString(n, "$code")
		if err != nil {
			return nil, err
		}
		return bson.Code(text), nil
	case "$code+$scope":
		text, err := wrappedString(n, "$code")
		if err != nil {
			return nil, err
		}
		scope := n.member("$scope")
		if scope.kind != objectNode || wrapperShape(scope) != "" {
			return nil, fmt.Errorf("$scope is %s, want a document: %w", scope.describe(), ErrInvalidWrapper)
		}
		// Paths inside the scope are relative to it; convert prefixes
		// the path of the code-with-scope value itself.
		document, err := p.document(scope, depth+1, "")
		if err != nil {
			return nil, err
		}
		return bson.CodeWithScope{Code: text, Scope: document}, nil
	case "$symbol":
		text, err := wrappedString(n, "$symbol")
		if err != nil {
			return nil, err
		}
		return bson.Symbol(text), nil
	case "$timestamp":
		return timestamp(n.member("$timestamp"))
	case "$minKey", "$maxKey":
		inner := n.member(shape)
		if inner.kind != numberNode || inner.text != "1" {
			return nil, fmt.Errorf("%s must be 1: %w", shape, ErrInvalidWrapper)
		}
		if shape == "$minKey" {
			return bson.MinKey{}, nil
		}
		return bson.MaxKey{}, nil
	case "$undefined":
		inner := n.member("$undefined")
		if inner.kind != boolNode || !inner.boolean {
			return nil, fmt.Errorf("$undefined must be true: %w", ErrInvalidWrapper)
		}
		return bson.Undefined{}, nil
	}
	return nil, fmt.Errorf("unhandled wrapper %s: %w", shape, ErrInvalidWrapper)
}

func wrappedString(n *node, name string) (string, error) {
	inner := n.member(name)
	if inner.kind != stringNode {
		return "", fmt.Errorf("%s is %s, want string: %w", name, inner.describe(), ErrInvalidWrapper)
	}
	return inner.text, nil
}

// objectMembers checks that n is an object with exactly the given
// keys and returns the member values in that order.
func objectMembers(n *node, wrapper string, names ...string) ([]*node, error) {
	if n.kind != objectNode || len(n.members) != len(names) {
		return nil, fmt.Errorf("%s must be an object with keys %v: %w", wrapper, names, ErrInvalidWrapper)
	}
	values := make([]*node, len(names))
	for i, name := range names {
		values[i] = n.member(name)
		if values[i] == nil {
			return nil, fmt.Errorf("%s is missing %q: %w", wrapper, name, ErrInvalidWrapper)
		}
	}
	return values, nil
}

func objectID(n *node) (bson.ObjectID, error) {
	if n.kind != stringNode {
		return bson.ObjectID{}, fmt.Errorf("$oid is %s, want string: %w", n.describe(), ErrInvalidWrapper)
	}
	id, err := bson.ObjectIDFromHex(n.text)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("$oid: %w: %w", err, ErrInvalidWrapper)
	}
	return id, nil
}

func numberLong(n *node) (int64, error) {
	text, err := wrappedString(n, "$numberLong")
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("$numberLong %q: %w", text, ErrInvalidWrapper)
	}
	return value, nil
}

func numberDouble(text string) (bson.Value, error) {
	switch text {
	case "Infinity":
		return bson.Double(math.Inf(1)), nil
	case "-Infinity":
		return bson.Double(math.Inf(-1)), nil
	case "NaN":
		return bson.Double(math.NaN()), nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("$numberDouble %q: %w", text, ErrInvalidWrapper)
	}
	return bson.Double(value), nil
}

// dateTime accepts an ISO-8601 string, a {"$numberLong": ...} object,
// or an integer literal of milliseconds.
func dateTime(n *node) (bson.Value, error) {
	switch n.kind {
	case stringNode:
		t, err := time.Parse(time.RFC3339Nano, n.text)
		if err != nil {
			return nil, fmt.Errorf("$date %q: %w", n.text, ErrInvalidWrapper)
		}
		return bson.DateTimeOf(t), nil
	case objectNode:
		if wrapperShape(n) != "$numberLong" {
			return nil, fmt.Errorf("$date object must be a $numberLong: %w", ErrInvalidWrapper)
		}
		millis, err := numberLong(n)
		if err != nil {
			return nil, err
		}
		return bson.DateTime(millis), nil
	case numberNode:
		millis, err := strconv.ParseInt(n.text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("$date %s is not an integer: %w", n.text, ErrInvalidWrapper)
		}
		return bson.DateTime(millis), nil
	}
	return nil, fmt.Errorf("$date is %s: %w", n.describe(), ErrInvalidWrapper)
}

func binary(n *node) (bson.Value, error) {
	values, err := objectMembers(n, "$binary", "base64", "subType")
	if err != nil {
		return nil, err
	}
	encoded, subtype := values[0], values[1]
	if encoded.kind != stringNode || subtype.kind != stringNode {
		return nil, fmt.Errorf("$binary fields must be strings: %w", ErrInvalidWrapper)
	}
	data, err := base64.StdEncoding.DecodeString(encoded.text)
	if err != nil {
		return nil, fmt.Errorf("$binary base64: %v: %w", err, ErrInvalidWrapper)
	}
	if len(subtype.text) == 0 || len(subtype.text) > 2 {
		return nil, fmt.Errorf("$binary subType %q: %w", subtype.text, ErrInvalidWrapper)
	}
	code, err := strconv.ParseUint(subtype.text, 16, 8)
	if err != nil {
		return nil, fmt.Errorf("$binary subType %q: %w", subtype.text, ErrInvalidWrapper)
	}
	return bson.Binary{Subtype: bson.BinarySubtype(code), Data: data}, nil
}

func regex(n *node) (bson.Value, error) {
	values, err := objectMembers(n, "$regularExpression", "pattern", "options")
	if err != nil {
		return nil, err
	}
	pattern, options := values[0], values[1]
	if pattern.kind != stringNode || options.kind != stringNode {
		return nil, fmt.Errorf("$regularExpression fields must be strings: %w", ErrInvalidWrapper)
	}
	flags, err := bson.ParseRegexFlags(options.text)
	if err != nil {
		return nil, err
	}
	return bson.Regex{Pattern: pattern.text, Flags: flags}, nil
}

func dbPointer(n *node) (bson.Value, error) {
	values, err := objectMembers(n, "$dbPointer", "$ref", "$id")
	if err != nil {
		return nil, err
	}
	collection, id := values[0], values[1]
	if collection.kind != stringNode {
		return nil, fmt.Errorf("$dbPointer $ref is %s, want string: %w", collection.describe(), ErrInvalidWrapper)
	}
	if wrapperShape(id) != "$oid" {
		return nil, fmt.Errorf("$dbPointer $id must be an $oid: %w", ErrInvalidWrapper)
	}
	pointerID, err := objectID(id.member("$oid"))
	if err != nil {
		return nil, err
	}
	return bson.DBPointer{Collection: collection.text, ID: pointerID}, nil
}

func timestamp(n *node) (bson.Value, error) {
	values, err := objectMembers(n, "$timestamp", "t", "i")
	if err != nil {
		return nil, err
	}
	var words [2]uint32
	for i, value := range values {
		if value.kind != numberNode {
			return nil, fmt.Errorf("$timestamp fields must be numbers: %w", ErrInvalidWrapper)
		}
		word, err := strconv.ParseUint(value.text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("$timestamp field %s is not a uint32: %w", value.text, ErrInvalidWrapper)
		}
		words[i] = uint32(word)
	}
	return bson.Timestamp{Seconds: words[0], Steps: words[1]}, nil
}
