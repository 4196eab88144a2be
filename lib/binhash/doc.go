// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides BLAKE3 content digests of encoded documents.
//
// A document's digest is the BLAKE3-256 hash of its canonical encoding:
// the bytes [bson.Marshal] produces. Two documents with the same
// elements in the same order always hash the same, and re-encoding a
// decoded file normalizes it before hashing. A keyed variant
// ([HashDocumentKeyed]) uses BLAKE3's keyed mode, so digests from
// different keys never collide and cannot be produced without the key.
//
// The API surface:
//
//   - [HashDocument], [HashDocumentKeyed] -- digest of a value's encoding
//   - [Hasher] -- the same with an explicit codec, for non-default
//     nesting limits
//   - [HashBytes], [HashBytesKeyed] -- digest of raw bytes
//   - [HashFile] -- streams a file through BLAKE3 with constant memory
//   - [FormatDigest], [ParseDigest] -- canonical hex form of a digest
//   - [ParseKey] -- hex form of a 32-byte key
//
// This package depends on lib/bson.
package binhash
