// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the wall clock for testability. Production code
// injects Real(); tests inject Fake() with a time that only moves when
// told to.
//
// Code that stamps documents with the current time, such as DateTime
// values and Timestamp seconds, takes a Clock instead of calling
// time.Now directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
