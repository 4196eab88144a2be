// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bureau-foundation/bindoc/lib/bson"
	"github.com/bureau-foundation/bindoc/lib/codec"
)

func TestConvertCBOR(t *testing.T) {
	data := mustMarshal(t, widget())

	var output bytes.Buffer
	if err := convertCBOR(data, &output, testLimits, false, false); err != nil {
		t.Fatalf("convertCBOR: %v", err)
	}

	want, err := codec.FromBSON(widget())
	if err != nil {
		t.Fatalf("FromBSON: %v", err)
	}
	if !bytes.Equal(output.Bytes(), want) {
		t.Errorf("convertCBOR = %x, want %x", output.Bytes(), want)
	}
}

func TestConvertCBORDiagnostic(t *testing.T) {
	data := mustMarshal(t, widget())

	var output bytes.Buffer
	if err := convertCBOR(data, &output, testLimits, false, true); err != nil {
		t.Fatalf("convertCBOR: %v", err)
	}
	text := output.String()
	if !strings.Contains(text, `"widget"`) || !strings.Contains(text, `"count": 3`) {
		t.Errorf("diagnostic notation %q does not show the elements", text)
	}
	if strings.Count(text, "\n") != 1 {
		t.Errorf("expected one line of notation, got %q", text)
	}
}

func TestConvertCBORSlurp(t *testing.T) {
	other := bson.Document{{Name: "id", Value: sampleID}}
	data := mustMarshal(t, widget(), other)

	var output bytes.Buffer
	if err := convertCBOR(data, &output, testLimits, true, false); err != nil {
		t.Fatalf("convertCBOR: %v", err)
	}

	decoder := codec.NewDecoder(bytes.NewReader(output.Bytes()))
	var first, second map[string]any
	if err := decoder.Decode(&first); err != nil {
		t.Fatalf("Decode first: %v", err)
	}
	if err := decoder.Decode(&second); err != nil {
		t.Fatalf("Decode second: %v", err)
	}
	if first["name"] != "widget" {
		t.Errorf("first name = %v, want widget", first["name"])
	}
	id, ok := second["id"].(map[string]any)
	if !ok || id["$oid"] != sampleID.Hex() {
		t.Errorf("second id = %v, want {$oid: %s}", second["id"], sampleID.Hex())
	}

	output.Reset()
	if err := convertCBOR(data, &output, testLimits, true, true); err != nil {
		t.Fatalf("convertCBOR diag: %v", err)
	}
	if lines := strings.Count(output.String(), "\n"); lines != 2 {
		t.Errorf("slurped diagnostic has %d lines, want 2:\n%s", lines, output.String())
	}
}

func TestConvertCBORErrors(t *testing.T) {
	deep := mustMarshal(t, bson.Document{{Name: "a", Value: bson.Document{{Name: "b", Value: bson.Document{}}}}})
	shallow := limits{codec: bson.Codec{MaxDepth: 2}, maxSize: testLimits.maxSize}

	tests := []struct {
		name   string
		data   []byte
		bounds limits
		slurp  bool
	}{
		{"truncated", []byte{0x05, 0x00}, testLimits, false},
		{"truncated stream", []byte{0x05, 0x00}, testLimits, true},
		{"too deep", deep, shallow, false},
		{"too deep in stream", deep, shallow, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := convertCBOR(test.data, &bytes.Buffer{}, test.bounds, test.slurp, false); err == nil {
				t.Error("expected error")
			}
		})
	}
}
