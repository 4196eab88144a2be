// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"bytes"
	"math"
)

// Equal reports whether a and b are the same kind with the same
// contents. Documents compare element by element in order. Doubles
// compare by bit pattern except that any two NaNs are equal, so -0 and
// +0 differ.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch a := a.(type) {
	case Double:
		b := b.(Double)
		if math.IsNaN(float64(a)) && math.IsNaN(float64(b)) {
			return true
		}
		return math.Float64bits(float64(a)) == math.Float64bits(float64(b))
	case Document:
		return equalDocuments(a, b.(Document))
	case Array:
		b := b.(Array)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Binary:
		b := b.(Binary)
		return a.Subtype == b.Subtype && bytes.Equal(a.Data, b.Data)
	case CodeWithScope:
		b := b.(CodeWithScope)
		return a.Code == b.Code && equalDocuments(a.Scope, b.Scope)
	}
	// The remaining kinds are comparable structs and scalars.
	return a == b
}

func equalDocuments(a, b Document) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !Equal(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}
