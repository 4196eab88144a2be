// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bson implements a self-describing, type-tagged binary
// document format on top of lib/cursor.
//
// A document on the wire is a little-endian int32 total length, a
// sequence of elements, and a zero terminator byte. The total length
// counts the prefix and the terminator. Each element is a tag byte, a
// NUL-terminated name, and a payload whose shape depends on the tag.
// Arrays are documents whose element names are "0", "1", "2" and so on.
//
// The value model is a closed union: [Value] is implemented only by
// the types in this package ([Double], [String], [Document], [Array],
// [Binary], [Undefined], [ObjectID], [Boolean], [DateTime], [Null],
// [Regex], [DBPointer], [Code], [Symbol], [CodeWithScope], [Int32],
// [Timestamp], [Int64], [MinKey], [MaxKey]). Encoders and decoders
// dispatch with type switches over this set.
//
// # Encoding and decoding
//
// [Serialize] writes a [Document] or [Array] at a caller-supplied
// cursor and [Deserialize] reads one back. [Marshal] and [Unmarshal]
// wrap these for byte slices: Marshal computes the exact output size
// with [Size] first because a cursor never grows.
//
//	data, err := bson.Marshal(bson.Document{
//	    {Name: "name", Value: bson.String("widget")},
//	    {Name: "count", Value: bson.Int32(3)},
//	})
//	doc, err := bson.Unmarshal(data)
//
// The declared length of every embedded document, array and
// code-with-scope value is authoritative. The decoder parses inside the
// declared range and then skips to its end, whatever the nested parse
// consumed.
//
// Recursion is bounded by [Codec.MaxDepth] (default
// [DefaultMaxDepth]). Exceeding it fails with [ErrTooDeeplyNested].
//
// [Codec.Walk] reports the same decode as a stream of [Token] values
// with input offsets, for tools that show a document's layout.
//
// # Native values
//
// [FromNative] converts ordinary Go values (maps, slices, numbers,
// strings, time.Time, []byte) into the value model. Numbers follow one
// policy everywhere: integral values that fit in 32 bits become
// [Int32], other integral values become [Int64], and everything else
// becomes [Double]. [ToNative] goes the other way for kinds that have
// a natural Go representation.
//
// # Sequences
//
// [Reader] and [Writer] handle streams of concatenated documents, the
// layout of dump files.
//
// This package depends on lib/cursor and lib/clock.
package bson
