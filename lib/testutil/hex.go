// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/hex"
	"strings"
)

// Fatalf is the part of testing.TB used by the helpers in this
// package.
type Fatalf interface {
	Helper()
	Fatalf(format string, args ...any)
}

// MustHex decodes a hex listing into bytes. Whitespace is ignored and
// anything from "//" to the end of a line is a comment:
//
//	data := testutil.MustHex(t, `
//	    0c000000       // total length
//	    10 6100 01000000 // int32 "a" = 1
//	    00             // terminator
//	`)
func MustHex(t Fatalf, listing string) []byte {
	t.Helper()
	var digits strings.Builder
	for _, line := range strings.Split(listing, "\n") {
		if comment := strings.Index(line, "//"); comment >= 0 {
			line = line[:comment]
		}
		for _, field := range strings.Fields(line) {
			digits.WriteString(field)
		}
	}
	data, err := hex.DecodeString(digits.String())
	if err != nil {
		t.Fatalf("invalid hex listing: %v", err)
		return nil
	}
	return data
}
