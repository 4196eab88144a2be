// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package extjson

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bureau-foundation/bindoc/lib/bson"
)

// Options controls rendering and parsing.
type Options struct {
	// Canonical selects canonical mode. The zero value is relaxed.
	Canonical bool

	// Indent, when non-empty, pretty-prints the output with one copy
	// of Indent per nesting level. Empty produces compact output.
	Indent string

	// MaxDepth bounds document and array nesting. Zero means
	// [bson.DefaultMaxDepth].
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return bson.DefaultMaxDepth
}

// relaxedDateMin and relaxedDateMax bound the years that relaxed mode
// writes as ISO-8601 strings. Dates outside use the $numberLong form.
const (
	relaxedDateMin = 1970
	relaxedDateMax = 9999
)

// Marshal renders value as Extended JSON. Any [bson.Value] is
// accepted, not only documents.
func Marshal(value bson.Value, options Options) ([]byte, error) {
	w := newWriter(options)
	if err := w.value(value, 1, ""); err != nil {
		return nil, err
	}
	if options.Indent == "" {
		return w.buffer.Bytes(), nil
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, w.buffer.Bytes(), "", options.Indent); err != nil {
		return nil, fmt.Errorf("extjson: indenting output: %w", err)
	}
	return indented.Bytes(), nil
}

type writer struct {
	buffer    bytes.Buffer
	quoter    *json.Encoder
	canonical bool
	maxDepth  int
}

func newWriter(options Options) *writer {
	w := &writer{canonical: options.Canonical, maxDepth: options.maxDepth()}
	w.quoter = json.NewEncoder(&w.buffer)
	w.quoter.SetEscapeHTML(false)
	return w
}

func (w *writer) value(value bson.Value, depth int, path string) error {
	switch value := value.(type) {
	case nil:
		return pathError(path, fmt.Errorf("nil value: %w", bson.ErrUnsupportedType))
	case bson.Document:
		return w.document(value, depth, path)
	case bson.Array:
		if err := w.checkDepth(depth, path); err != nil {
			return err
		}
		w.buffer.WriteByte('[')
		for i, child := range value {
			if i > 0 {
				w.buffer.WriteByte(',')
			}
			if err := w.value(child, depth+1, joinPath(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		w.buffer.WriteByte(']')
	case bson.Double:
		w.double(float64(value))
	case bson.String:
		w.string(string(value))
	case bson.Binary:
		w.buffer.WriteString(`{"$binary":{"base64":`)
		w.string(base64.StdEncoding.EncodeToString(value.Data))
		fmt.Fprintf(&w.buffer, `,"subType":"%02x"}}`, byte(value.Subtype))
	case bson.Undefined:
		w.buffer.WriteString(`{"$undefined":true}`)
	case bson.ObjectID:
		w.objectID(value)
	case bson.Boolean:
		w.buffer.WriteString(strconv.FormatBool(bool(value)))
	case bson.DateTime:
		w.dateTime(value)
	case bson.Null:
		w.buffer.WriteString("null")
	case bson.Regex:
		w.buffer.WriteString(`{"$regularExpression":{"pattern":`)
		w.string(value.Pattern)
		w.buffer.WriteString(`,"options":`)
		w.string(value.Flags.String())
		w.buffer.WriteString("}}")
	case bson.DBPointer:
		w.buffer.WriteString(`{"$dbPointer":{"$ref":`)
		w.string(value.Collection)
		w.buffer.WriteString(`,"$id":`)
		w.objectID(value.ID)
		w.buffer.WriteString("}}")
	case bson.Code:
		w.buffer.WriteString(`{"$code":`)
		w.string(string(value))
		w.buffer.WriteByte('}')
	case bson.Symbol:
		w.buffer.WriteString(`{"$symbol":`)
		w.string(string(value))
		w.buffer.WriteByte('}')
	case bson.CodeWithScope:
		w.buffer.WriteString(`{"$code":`)
		w.string(value.Code)
		w.buffer.WriteString(`,"$scope":`)
		if err := w.document(value.Scope, depth+1, path); err != nil {
			return err
		}
		w.buffer.WriteByte('}')
	case bson.Int32:
		if w.canonical {
			fmt.Fprintf(&w.buffer, `{"$numberInt":"%d"}`, int32(value))
		} else {
			w.buffer.WriteString(strconv.FormatInt(int64(value), 10))
		}
	case bson.Timestamp:
		fmt.Fprintf(&w.buffer, `{"$timestamp":{"t":%d,"i":%d}}`, value.Seconds, value.Steps)
	case bson.Int64:
		if w.canonical {
			fmt.Fprintf(&w.buffer, `{"$numberLong":"%d"}`, int64(value))
		} else {
			w.buffer.WriteString(strconv.FormatInt(int64(value), 10))
		}
	case bson.MinKey:
		w.buffer.WriteString(`{"$minKey":1}`)
	case bson.MaxKey:
		w.buffer.WriteString(`{"$maxKey":1}`)
	default:
		return pathError(path, fmt.Errorf("%T: %w", value, bson.ErrUnsupportedType))
	}
	return nil
}

func (w *writer) document(document bson.Document, depth int, path string) error {
	if err := w.checkDepth(depth, path); err != nil {
		return err
	}
	w.buffer.WriteByte('{')
	for i, element := range document {
		if i > 0 {
			w.buffer.WriteByte(',')
		}
		w.string(element.Name)
		w.buffer.WriteByte(':')
		if err := w.value(element.Value, depth+1, joinPath(path, element.Name)); err != nil {
			return err
		}
	}
	w.buffer.WriteByte('}')
	return nil
}

func (w *writer) checkDepth(depth int, path string) error {
	if depth > w.maxDepth {
		return pathError(path, fmt.Errorf("depth %d exceeds limit %d: %w", depth, w.maxDepth, bson.ErrTooDeeplyNested))
	}
	return nil
}

// string writes s as a JSON string literal. The encoder's trailing
// newline is dropped.
func (w *writer) string(s string) {
	// Encoding a string cannot fail.
	_ = w.quoter.Encode(s)
	w.buffer.Truncate(w.buffer.Len() - 1)
}

func (w *writer) objectID(id bson.ObjectID) {
	fmt.Fprintf(&w.buffer, `{"$oid":"%s"}`, id.Hex())
}

func (w *writer) double(value float64) {
	finite := !math.IsNaN(value) && !math.IsInf(value, 0)
	if finite && !w.canonical {
		w.buffer.WriteString(formatDouble(value))
		return
	}
	fmt.Fprintf(&w.buffer, `{"$numberDouble":"%s"}`, formatDouble(value))
}

func (w *writer) dateTime(value bson.DateTime) {
	if !w.canonical {
		t := value.Time()
		if year := t.Year(); year >= relaxedDateMin && year <= relaxedDateMax {
			fmt.Fprintf(&w.buffer, `{"$date":"%s"}`, t.Format("2006-01-02T15:04:05.000Z"))
			return
		}
	}
	fmt.Fprintf(&w.buffer, `{"$date":{"$numberLong":"%d"}}`, int64(value))
}

// formatDouble returns the shortest decimal form of value that reads
// back as the same float64. Integral values keep a ".0" so they stay
// recognizable as doubles; very large and very small magnitudes use an
// exponent.
func formatDouble(value float64) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	}
	magnitude := math.Abs(value)
	format := byte('f')
	if magnitude != 0 && (magnitude < 1e-6 || magnitude >= 1e21) {
		format = 'e'
	}
	text := strconv.FormatFloat(value, format, -1, 64)
	if !strings.ContainsAny(text, ".e") {
		text += ".0"
	}
	return text
}
