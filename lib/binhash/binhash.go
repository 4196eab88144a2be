// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/bindoc/lib/bson"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// Key is a 32-byte key for BLAKE3 keyed hashing.
type Key [32]byte

// Hasher digests documents encoded with a particular codec, so the
// nesting limit used for hashing matches the one used for decoding.
// The zero value uses the default codec and unkeyed hashing.
type Hasher struct {
	// Codec encodes documents before hashing.
	Codec bson.Codec

	// Key selects BLAKE3's keyed mode when non-nil.
	Key *Key
}

// Document returns the digest of value's encoding. value must be a
// document or an array.
func (h Hasher) Document(value bson.Value) (Digest, error) {
	data, err := h.Codec.Marshal(value)
	if err != nil {
		return Digest{}, fmt.Errorf("encoding document for hashing: %w", err)
	}
	return h.Bytes(data), nil
}

// Bytes returns the digest of data.
func (h Hasher) Bytes(data []byte) Digest {
	if h.Key != nil {
		return HashBytesKeyed(*h.Key, data)
	}
	return HashBytes(data)
}

// HashDocument returns the digest of value's encoding under the
// default codec.
func HashDocument(value bson.Value) (Digest, error) {
	return Hasher{}.Document(value)
}

// HashDocumentKeyed returns the keyed digest of value's encoding under
// the default codec.
func HashDocumentKeyed(key Key, value bson.Value) (Digest, error) {
	return Hasher{Key: &key}.Document(value)
}

// HashBytes returns the BLAKE3-256 digest of data.
func HashBytes(data []byte) Digest {
	return blake3.Sum256(data)
}

// HashBytesKeyed returns the keyed BLAKE3-256 digest of data.
func HashBytesKeyed(key Key, data []byte) Digest {
	hasher := newKeyed(key)
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// HashFile computes the BLAKE3 digest of the file at path, streaming
// it through the hasher.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

func newKeyed(key Key) *blake3.Hasher {
	// NewKeyed only fails for keys that are not 32 bytes long.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("binhash: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return hasher
}

// FormatDigest returns the hex-encoded form of a digest, as printed by
// the command-line tool.
func FormatDigest(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// ParseDigest parses a 64-character hex string into a Digest.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	if err := decodeHex32(digest[:], hexString); err != nil {
		return digest, fmt.Errorf("parsing hash digest: %w", err)
	}
	return digest, nil
}

// ParseKey parses a 64-character hex string into a Key.
func ParseKey(hexString string) (Key, error) {
	var key Key
	if err := decodeHex32(key[:], hexString); err != nil {
		return key, fmt.Errorf("parsing hash key: %w", err)
	}
	return key, nil
}

func decodeHex32(destination []byte, hexString string) error {
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return err
	}
	if len(decoded) != 32 {
		return fmt.Errorf("got %d bytes, want 32", len(decoded))
	}
	copy(destination, decoded)
	return nil
}
