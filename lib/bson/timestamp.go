// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"time"

	"github.com/bureau-foundation/bindoc/lib/clock"
)

// NewTimestamp returns a Timestamp with the given steps and the clock's
// current epoch seconds.
func NewTimestamp(c clock.Clock, steps uint32) Timestamp {
	return Timestamp{Steps: steps, Seconds: uint32(c.Now().Unix())}
}

// Next returns t advanced by steps (1 when steps is zero). The seconds
// are refreshed from the clock only when t already carries a non-zero
// time; a zero-seconds Timestamp stays at zero.
func (t Timestamp) Next(c clock.Clock, steps uint32) Timestamp {
	if steps == 0 {
		steps = 1
	}
	next := Timestamp{Steps: t.Steps + steps, Seconds: t.Seconds}
	if t.Seconds > 0 {
		next.Seconds = uint32(c.Now().Unix())
	}
	return next
}

// Now returns the clock's current time as a DateTime.
func Now(c clock.Clock) DateTime {
	return DateTimeOf(c.Now())
}

// DateTimeOf truncates t to milliseconds since the Unix epoch.
func DateTimeOf(t time.Time) DateTime {
	return DateTime(t.UnixMilli())
}

// Time returns d as a UTC time.Time.
func (d DateTime) Time() time.Time {
	return time.UnixMilli(int64(d)).UTC()
}
