// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package extjson renders and parses the lib/bson value model as
// Extended JSON.
//
// Kinds that plain JSON cannot express are written as single-purpose
// wrapper objects whose keys start with "$": {"$oid": "..."},
// {"$date": ...}, {"$binary": {"base64": ..., "subType": ...}} and so
// on. Two output modes exist:
//
//   - Relaxed (the default) writes Int32, Int64 and finite Double values
//     as plain JSON numbers and recent dates as ISO-8601 strings. It is
//     meant for people. Reading relaxed output back applies the numeric
//     policy of [bson.Number], so Int64 and Double kinds may come back
//     as a narrower kind.
//   - Canonical wraps every number in $numberInt, $numberLong or
//     $numberDouble and every date in $numberLong. Canonical output
//     round-trips to an identical value.
//
// Element order is preserved in both directions. Duplicate names in a
// JSON object are kept as duplicate elements.
//
// An object is read as a wrapper only when its key set is exactly one
// of the wrapper shapes. Anything else, including an object with a
// single unrecognized "$" key, is an ordinary document.
//
// This package depends on lib/bson.
package extjson
