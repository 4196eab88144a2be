// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable wall clock for testability.
//
// Production code accepts a Clock interface parameter instead of
// calling time.Now directly. In production, Real() provides the
// standard library behavior. In tests, Fake() provides a clock that
// moves only when Advance or Set is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	ts := bson.NewTimestamp(c, 0)
//	c.Advance(5 * time.Second)
//	ts = ts.Next(c, 1)
//
// This package has no dependencies on other bindoc packages.
package clock
