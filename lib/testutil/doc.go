// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for bindoc packages.
//
// [MustHex] turns a readable hex listing (with spaces, newlines and
// "//" comments between bytes) into raw bytes, so wire-format fixtures
// can be written one element per line.
//
// [WriteFile] writes a fixture into a per-test temporary directory and
// returns its path, for CLI tests that read input from files.
//
// [Fatalf] is the subset of testing.TB the helpers need, so they can
// be exercised against a recording fake.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no bindoc-internal dependencies.
package testutil
