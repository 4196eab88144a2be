// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/bureau-foundation/bindoc/cmd/bindoc/cli"
	"github.com/bureau-foundation/bindoc/lib/bson"
	"github.com/bureau-foundation/bindoc/lib/testutil"
)

// expectInvalid checks that err carries exit code 1.
func expectInvalid(t *testing.T, err error) {
	t.Helper()
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want *cli.ExitError", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.ExitCode())
	}
}

func TestValidateDocumentsValid(t *testing.T) {
	data := mustMarshal(t, widget())

	var output bytes.Buffer
	if err := validateDocuments(data, &output, testLimits, false); err != nil {
		t.Fatalf("validateDocuments: %v", err)
	}
	if output.String() != "valid\n" {
		t.Errorf("output = %q, want %q", output.String(), "valid\n")
	}
}

func TestValidateDocumentsArrayKeys(t *testing.T) {
	// {"l": ["x": 1]}: the decoder ignores array element names, the
	// encoder writes "0".
	data := testutil.MustHex(t, `
		14000000          // total length 20
		04 6c00           // array "l"
		  0c000000        //   length 12
		  10 7800 01000000 //  int32 "x" = 1
		  00
		00
	`)

	var output bytes.Buffer
	expectInvalid(t, validateDocuments(data, &output, testLimits, false))

	want := "invalid: re-encoding differs: first difference at byte 12 (original 20 bytes, re-encoded 20 bytes)\n"
	if output.String() != want {
		t.Errorf("output = %q, want %q", output.String(), want)
	}
}

func TestValidateDocumentsDecodeErrors(t *testing.T) {
	valid := mustMarshal(t, widget())

	tests := []struct {
		name string
		data []byte
	}{
		{"trailing byte", append(append([]byte{}, valid...), 0x00)},
		{"truncated", valid[:len(valid)-1]},
		{"bad boolean", testutil.MustHex(t, "09000000 08 6200 07 00")},
		{"unknown kind", testutil.MustHex(t, "08000000 20 6100 00")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var output bytes.Buffer
			expectInvalid(t, validateDocuments(test.data, &output, testLimits, false))
			if !strings.HasPrefix(output.String(), "invalid: ") {
				t.Errorf("output = %q, want an invalid report", output.String())
			}
		})
	}
}

func TestValidateDocumentsStream(t *testing.T) {
	first := mustMarshal(t, widget())
	second := testutil.MustHex(t, "09000000 08 6200 02 00")
	data := append(append([]byte{}, first...), second...)

	var output bytes.Buffer
	if err := validateDocuments(first, &output, testLimits, true); err != nil {
		t.Fatalf("single document stream: %v", err)
	}

	output.Reset()
	expectInvalid(t, validateDocuments(data, &output, testLimits, true))
	prefix := "invalid: document 1 at stream offset " + strconv.Itoa(len(first)) + ": "
	if !strings.HasPrefix(output.String(), prefix) {
		t.Errorf("output = %q, want prefix %q", output.String(), prefix)
	}
}

func TestValidateDocumentsSizeLimit(t *testing.T) {
	data := mustMarshal(t, bson.Document{{Name: "s", Value: bson.String(strings.Repeat("x", 64))}})
	bounds := limits{maxSize: 16}

	var output bytes.Buffer
	expectInvalid(t, validateDocuments(data, &output, bounds, true))
}
