// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// ObjectID is a 12-byte document identifier.
type ObjectID [12]byte

// NewObjectID returns an identifier made of the first 12 bytes of a
// random (version 4) UUID.
func NewObjectID() ObjectID {
	random := uuid.New()
	var id ObjectID
	copy(id[:], random[:len(id)])
	return id
}

// ObjectIDFromHex parses the 24-character hex form produced by
// [ObjectID.Hex]. Upper- and lowercase digits are accepted.
func ObjectIDFromHex(s string) (ObjectID, error) {
	var id ObjectID
	if len(s) != 2*len(id) {
		return id, fmt.Errorf("%q is %d characters, want %d: %w", s, len(s), 2*len(id), ErrInvalidObjectID)
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return ObjectID{}, fmt.Errorf("%q: %v: %w", s, err, ErrInvalidObjectID)
	}
	return id, nil
}

// Hex returns the identifier as 24 lowercase hex digits.
func (id ObjectID) Hex() string {
	return hex.EncodeToString(id[:])
}

// String implements fmt.Stringer.
func (id ObjectID) String() string {
	return id.Hex()
}

// Equal reports whether id and other hold the same bytes.
func (id ObjectID) Equal(other ObjectID) bool {
	return id == other
}

// IsZero reports whether every byte of id is zero.
func (id ObjectID) IsZero() bool {
	return id == ObjectID{}
}
