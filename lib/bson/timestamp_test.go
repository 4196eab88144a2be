// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"testing"
	"time"

	"github.com/bureau-foundation/bindoc/lib/clock"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTimestampNext(t *testing.T) {
	fake := clock.Fake(epoch)

	stamp := NewTimestamp(fake, 0)
	if stamp.Steps != 0 || stamp.Seconds != uint32(epoch.Unix()) {
		t.Fatalf("NewTimestamp = %+v, want steps 0 and seconds %d", stamp, epoch.Unix())
	}

	fake.Advance(10 * time.Second)
	stamp = stamp.Next(fake, 0)
	if stamp.Steps != 1 {
		t.Errorf("Next(0) steps = %d, want 1", stamp.Steps)
	}
	if want := uint32(epoch.Unix()) + 10; stamp.Seconds != want {
		t.Errorf("Next seconds = %d, want %d", stamp.Seconds, want)
	}
}

func TestTimestampNextKeepsZeroSeconds(t *testing.T) {
	fake := clock.Fake(epoch)

	stamp := Timestamp{Steps: 5}.Next(fake, 3)
	if stamp != (Timestamp{Steps: 8, Seconds: 0}) {
		t.Errorf("Next = %+v, want {Steps:8 Seconds:0}", stamp)
	}
}

func TestDateTimeNow(t *testing.T) {
	fake := clock.Fake(epoch.Add(1500 * time.Millisecond))

	now := Now(fake)
	if int64(now) != epoch.UnixMilli()+1500 {
		t.Errorf("Now() = %d, want %d", now, epoch.UnixMilli()+1500)
	}
	if got := now.Time(); !got.Equal(epoch.Add(1500 * time.Millisecond)) {
		t.Errorf("Time() = %v", got)
	}
	if got := DateTimeOf(epoch.Add(999 * time.Microsecond)); got != DateTime(epoch.UnixMilli()) {
		t.Errorf("DateTimeOf truncation = %d, want %d", got, epoch.UnixMilli())
	}
}
