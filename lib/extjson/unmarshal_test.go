// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package extjson

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/bindoc/lib/bson"
)

// everyKind holds one element of each kind. NaN is left out so that
// cmp can compare the result directly.
func everyKind() bson.Document {
	return bson.Document{
		{Name: "double", Value: bson.Double(3.1415926)},
		{Name: "whole", Value: bson.Double(2)},
		{Name: "negativeZero", Value: bson.Double(math.Copysign(0, -1))},
		{Name: "infinity", Value: bson.Double(math.Inf(-1))},
		{Name: "string", Value: bson.String("hello 测试 \"quoted\"")},
		{Name: "document", Value: bson.Document{{Name: "inner", Value: bson.Array{bson.Int32(1), bson.Document{}}}}},
		{Name: "binary", Value: bson.Binary{Subtype: bson.SubtypeMD5, Data: []byte{0xde, 0xad}}},
		{Name: "undefined", Value: bson.Undefined{}},
		{Name: "objectId", Value: sampleID},
		{Name: "boolean", Value: bson.Boolean(false)},
		{Name: "datetime", Value: bson.DateTime(1767225600123)},
		{Name: "ancient", Value: bson.DateTime(-62135596800000)},
		{Name: "null", Value: bson.Null{}},
		{Name: "regex", Value: bson.Regex{Pattern: "^a.*b$", Flags: bson.FlagGlobal | bson.FlagMultiline}},
		{Name: "dbPointer", Value: bson.DBPointer{Collection: "things", ID: referenceID}},
		{Name: "code", Value: bson.Code("function () { return 1; }")},
		{Name: "symbol", Value: bson.Symbol("sym")},
		{Name: "codeWithScope", Value: bson.CodeWithScope{Code: "x + y", Scope: bson.Document{
			{Name: "x", Value: bson.Int32(1)},
			{Name: "y", Value: bson.Int64(2)},
		}}},
		{Name: "int32", Value: bson.Int32(-7)},
		{Name: "timestamp", Value: bson.Timestamp{Steps: 5, Seconds: 1767225600}},
		{Name: "int64", Value: bson.Int64(3)},
		{Name: "minKey", Value: bson.MinKey{}},
		{Name: "maxKey", Value: bson.MaxKey{}},
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	original := everyKind()
	data, err := Marshal(original, Options{Canonical: true, Indent: "\t"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, data)
	}
	if diff := cmp.Diff(original, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if !bson.Equal(original, decoded) {
		t.Error("bson.Equal(original, decoded) = false")
	}
}

func TestRelaxedRoundTripNarrowsNumbers(t *testing.T) {
	original := bson.Document{
		{Name: "small", Value: bson.Int64(5)},
		{Name: "large", Value: bson.Int64(1 << 40)},
		{Name: "whole", Value: bson.Double(2)},
		{Name: "fraction", Value: bson.Double(0.25)},
		{Name: "when", Value: bson.DateTime(1767225600123)},
	}
	data, err := Marshal(original, Options{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := bson.Document{
		{Name: "small", Value: bson.Int32(5)},
		{Name: "large", Value: bson.Int64(1 << 40)},
		{Name: "whole", Value: bson.Int32(2)},
		{Name: "fraction", Value: bson.Double(0.25)},
		{Name: "when", Value: bson.DateTime(1767225600123)},
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("relaxed round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalPreservesOrderAndDuplicates(t *testing.T) {
	decoded, err := Unmarshal([]byte(`{"b": 1, "a": 2, "b": 3}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := bson.Document{
		{Name: "b", Value: bson.Int32(1)},
		{Name: "a", Value: bson.Int32(2)},
		{Name: "b", Value: bson.Int32(3)},
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("Unmarshal mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalNumberPolicy(t *testing.T) {
	tests := []struct {
		literal string
		want    bson.Value
	}{
		{"2147483647", bson.Int32(math.MaxInt32)},
		{"2147483648", bson.Int64(2147483648)},
		{"-2147483649", bson.Int64(-2147483649)},
		{"1.0", bson.Int32(1)},
		{"1e2", bson.Int32(100)},
		{"1.5", bson.Double(1.5)},
		{"9223372036854775808", bson.Double(9223372036854775808)},
		{"1e300", bson.Double(1e300)},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			got, err := UnmarshalValue([]byte(tt.literal))
			if err != nil {
				t.Fatalf("UnmarshalValue: %v", err)
			}
			if !bson.Equal(got, tt.want) {
				t.Errorf("UnmarshalValue(%s) = %#v, want %#v", tt.literal, got, tt.want)
			}
		})
	}

	for _, literal := range []string{"-0.0", "-0", "-0e5"} {
		negativeZero, err := UnmarshalValue([]byte(literal))
		if err != nil {
			t.Fatalf("UnmarshalValue(%s): %v", literal, err)
		}
		if d, ok := negativeZero.(bson.Double); !ok || !math.Signbit(float64(d)) {
			t.Errorf("UnmarshalValue(%s) = %#v, want Double with the sign bit set", literal, negativeZero)
		}
	}
}

func TestUnmarshalDateForms(t *testing.T) {
	decoded, err := Unmarshal([]byte(`{
		"iso": {"$date": "2026-01-01T00:00:00Z"},
		"offset": {"$date": "2026-01-01T01:00:00+01:00"},
		"long": {"$date": {"$numberLong": "-1"}},
		"legacy": {"$date": 1000}
	}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := bson.Document{
		{Name: "iso", Value: bson.DateTime(1767225600000)},
		{Name: "offset", Value: bson.DateTime(1767225600000)},
		{Name: "long", Value: bson.DateTime(-1)},
		{Name: "legacy", Value: bson.DateTime(1000)},
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("Unmarshal mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalNearWrappersArePlainDocuments(t *testing.T) {
	decoded, err := Unmarshal([]byte(`{"a": {"$foo": 1}, "b": {"$oid": "659f1a000102030405060708", "extra": true}}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := bson.Document{
		{Name: "a", Value: bson.Document{{Name: "$foo", Value: bson.Int32(1)}}},
		{Name: "b", Value: bson.Document{
			{Name: "$oid", Value: bson.String("659f1a000102030405060708")},
			{Name: "extra", Value: bson.Boolean(true)},
		}},
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("Unmarshal mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unterminated", `{"a":`, ErrSyntax},
		{"empty input", ``, ErrSyntax},
		{"trailing value", `{} {}`, ErrSyntax},
		{"number out of range", `{"a": 1e400}`, ErrSyntax},
		{"top-level array", `[1]`, ErrNotDocument},
		{"top-level wrapper", `{"$oid": "659f1a000102030405060708"}`, ErrNotDocument},
		{"oid not a string", `{"a": {"$oid": 12}}`, ErrInvalidWrapper},
		{"oid bad hex", `{"a": {"$oid": "xyz"}}`, bson.ErrInvalidObjectID},
		{"numberInt overflow", `{"a": {"$numberInt": "2147483648"}}`, ErrInvalidWrapper},
		{"numberLong not digits", `{"a": {"$numberLong": "ten"}}`, ErrInvalidWrapper},
		{"numberDouble garbage", `{"a": {"$numberDouble": "many"}}`, ErrInvalidWrapper},
		{"binary bad base64", `{"a": {"$binary": {"base64": "!!", "subType": "00"}}}`, ErrInvalidWrapper},
		{"binary bad subtype", `{"a": {"$binary": {"base64": "", "subType": "100"}}}`, ErrInvalidWrapper},
		{"binary missing field", `{"a": {"$binary": {"base64": ""}}}`, ErrInvalidWrapper},
		{"regex bad flag", `{"a": {"$regularExpression": {"pattern": "x", "options": "q"}}}`, bson.ErrInvalidRegex},
		{"db pointer without oid", `{"a": {"$dbPointer": {"$ref": "c", "$id": "x"}}}`, ErrInvalidWrapper},
		{"scope not a document", `{"a": {"$code": "x", "$scope": []}}`, ErrInvalidWrapper},
		{"min key not one", `{"a": {"$minKey": 2}}`, ErrInvalidWrapper},
		{"undefined false", `{"a": {"$undefined": false}}`, ErrInvalidWrapper},
		{"timestamp negative", `{"a": {"$timestamp": {"t": -1, "i": 0}}}`, ErrInvalidWrapper},
		{"date bad string", `{"a": {"$date": "yesterday"}}`, ErrInvalidWrapper},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("Unmarshal(%s): got %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestUnmarshalErrorPath(t *testing.T) {
	_, err := Unmarshal([]byte(`{"outer": {"list": [1, {"$oid": 1}]}}`))
	if err == nil {
		t.Fatal("Unmarshal succeeded, want error")
	}
	if !strings.Contains(err.Error(), `element "outer.list.1"`) {
		t.Errorf("error %q does not name element outer.list.1", err)
	}
}

func TestUnmarshalDepth(t *testing.T) {
	options := Options{MaxDepth: 3}
	if _, err := options.Unmarshal([]byte(`{"a": {"b": {"c": 1}}}`)); err != nil {
		t.Errorf("depth 3 with limit 3: %v", err)
	}
	_, err := options.Unmarshal([]byte(`{"a": {"b": {"c": {}}}}`))
	if !errors.Is(err, bson.ErrTooDeeplyNested) {
		t.Errorf("depth 4 with limit 3: got %v, want ErrTooDeeplyNested", err)
	}

	hostile := strings.Repeat("[", 100000)
	if _, err := UnmarshalValue([]byte(hostile)); !errors.Is(err, bson.ErrTooDeeplyNested) {
		t.Errorf("deeply nested input: got %v, want ErrTooDeeplyNested", err)
	}
}
