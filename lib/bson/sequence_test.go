// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"bytes"
	"errors"
	"io"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriterReaderSequence(t *testing.T) {
	documents := []Document{
		{{"n", Int32(1)}},
		{},
		{{"s", String("third")}, {"a", Array{Boolean(true)}}},
	}

	var stream bytes.Buffer
	writer := NewWriter(&stream)
	for _, document := range documents {
		if err := writer.Write(document); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	reader := NewReader(bytes.NewReader(stream.Bytes()))
	var offsets []int64
	for i := range documents {
		offsets = append(offsets, reader.Offset())
		got, err := reader.Next()
		if err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
		if diff := cmp.Diff(documents[i], got); diff != "" {
			t.Errorf("document %d mismatch (-want +got):\n%s", i, diff)
		}
	}
	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("Next at end: got %v, want io.EOF", err)
	}
	if diff := cmp.Diff([]int64{0, 12, 17}, offsets); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
	if reader.Offset() != int64(stream.Len()) {
		t.Errorf("final Offset() = %d, want %d", reader.Offset(), stream.Len())
	}
}

func TestReaderTruncatedStream(t *testing.T) {
	data, err := Marshal(Document{{"n", Int32(1)}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	for _, cut := range []int{2, len(data) - 1} {
		reader := NewReader(bytes.NewReader(data[:cut]))
		if _, err := reader.ReadRaw(); !errors.Is(err, ErrIncompleteBuffer) {
			t.Errorf("ReadRaw of %d bytes: got %v, want ErrIncompleteBuffer", cut, err)
		}
	}
}

func TestReaderHugeDeclaredLength(t *testing.T) {
	// Four bytes claiming a body of almost 2 GiB, with no size limit.
	stream := []byte{0xf0, 0xff, 0xff, 0x7f, 0x00}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := NewReader(bytes.NewReader(stream)).ReadRaw()
	runtime.ReadMemStats(&after)

	if !errors.Is(err, ErrIncompleteBuffer) {
		t.Errorf("ReadRaw: got %v, want ErrIncompleteBuffer", err)
	}
	if allocated := after.TotalAlloc - before.TotalAlloc; allocated > 16<<20 {
		t.Errorf("ReadRaw allocated %d bytes for a 5-byte stream", allocated)
	}
}

func TestReaderLargeDocument(t *testing.T) {
	data, err := Marshal(Document{{"blob", Binary{Data: bytes.Repeat([]byte{0xab}, 3*initialBodySize)}}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	raw, err := NewReader(bytes.NewReader(data)).ReadRaw()
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if !bytes.Equal(raw, data) {
		t.Errorf("ReadRaw returned %d bytes that differ from the %d written", len(raw), len(data))
	}
}

func TestReaderLimits(t *testing.T) {
	data, err := Marshal(Document{{"s", String("a longer string value")}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	reader := Codec{}.NewReader(bytes.NewReader(data), 16)
	if _, err := reader.ReadRaw(); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("ReadRaw over the size limit: got %v, want ErrInvalidLength", err)
	}

	reader = NewReader(bytes.NewReader([]byte{3, 0, 0, 0}))
	if _, err := reader.ReadRaw(); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("ReadRaw with length 3: got %v, want ErrInvalidLength", err)
	}
}

func TestReaderReportsStreamOffset(t *testing.T) {
	good, err := Marshal(Document{{"n", Int32(1)}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	bad := []byte{0x08, 0, 0, 0, 0x7e, 'a', 0, 0}

	reader := NewReader(bytes.NewReader(append(good, bad...)))
	if _, err := reader.Next(); err != nil {
		t.Fatalf("first Next: %v", err)
	}
	_, err = reader.Next()
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("second Next: got %v, want ErrUnknownType", err)
	}
	if want := "document at stream offset 12"; !bytes.Contains([]byte(err.Error()), []byte(want)) {
		t.Errorf("error %q does not contain %q", err, want)
	}
}
