// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec transcodes lib/bson values to CBOR (RFC 8949).
//
// Every encoding goes through one shared mode configured for Core
// Deterministic Encoding (RFC 8949 §4.2): sorted map keys, smallest
// integer encoding, no indefinite-length items. The same document
// always produces identical bytes, so CBOR output can be hashed and
// compared.
//
// [FromBSON] maps the value model onto CBOR's data model. Documents
// become maps and arrays become arrays. Numbers, strings, booleans,
// null and undefined map to their CBOR counterparts, and generic
// binary data becomes a byte string. Kinds with no CBOR counterpart
// become small maps keyed like their Extended JSON wrappers:
//
//	{"$oid": "659f1a000102030405060708"}
//	{"$date": 1767225600000}
//	{"$timestamp": {"t": 1767225600, "i": 1}}
//
// Because CBOR maps are unordered and the encoder sorts keys, element
// order is not preserved, and for duplicate names the last element
// wins.
//
// For buffer-oriented operations:
//
//	data, err := codec.FromBSON(document)
//	notation, err := codec.Diagnose(data)
//
// For sequences of documents:
//
//	encoder := codec.NewEncoder(os.Stdout)
//
// This package depends on lib/bson.
package codec
