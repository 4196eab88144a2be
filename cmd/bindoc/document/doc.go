// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package document implements the bindoc subcommands that read, write
// and inspect binary documents: decode, encode, diag, validate, cbor,
// hash and oid.
//
// Every command that reads documents takes an optional file path as its
// only positional argument and reads stdin otherwise ("-" also means
// stdin). With --hex, input is hex text rather than raw bytes;
// whitespace between digits is ignored. With --slurp, input is a
// stream of concatenated documents, the layout of dump files.
//
// Limits (nesting depth, largest declared document) and output
// preferences come from the configuration file named by --config or
// BINDOC_CONFIG; see lib/config. Flags override the file.
//
// Each command's Run function resolves its input and settings and
// hands them to an inner function that takes the input bytes and an
// io.Writer, which is what the tests exercise.
package document
