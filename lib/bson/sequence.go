// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/bureau-foundation/bindoc/lib/cursor"
)

// initialBodySize bounds the buffer allocated up front for a document
// body. Larger bodies grow as their bytes arrive, so a length prefix
// alone cannot force a large allocation.
const initialBodySize = 64 << 10

// Reader reads a stream of concatenated documents, each framed by its
// own length prefix.
type Reader struct {
	source  io.Reader
	codec   Codec
	maxSize int
	offset  int64
}

// NewReader returns a Reader over source using the default codec and
// no size limit beyond the int32 length field.
func NewReader(source io.Reader) *Reader {
	return defaultCodec.NewReader(source, 0)
}

// NewReader returns a Reader over source. A positive maxSize rejects
// any document whose declared length exceeds it before reading its
// body.
func (codec Codec) NewReader(source io.Reader, maxSize int) *Reader {
	return &Reader{source: source, codec: codec, maxSize: maxSize}
}

// Offset returns the stream offset at which the next document starts.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ReadRaw returns the bytes of the next document without decoding its
// elements. Returns io.EOF when the stream ends cleanly between
// documents and [ErrIncompleteBuffer] when it ends inside one.
func (r *Reader) ReadRaw() ([]byte, error) {
	var prefix [4]byte
	count, err := io.ReadFull(r.source, prefix[:])
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, r.truncated(count, 4, err)
	}

	length, err := cursor.Wrap(prefix[:]).ReadInt32()
	if err != nil {
		return nil, err
	}
	if length < minDocumentSize {
		return nil, fmt.Errorf("document at stream offset %d declares length %d: %w", r.offset, length, ErrInvalidLength)
	}
	if r.maxSize > 0 && int(length) > r.maxSize {
		return nil, fmt.Errorf("document at stream offset %d declares length %d, limit is %d: %w",
			r.offset, length, r.maxSize, ErrInvalidLength)
	}

	var body bytes.Buffer
	body.Grow(min(int(length), initialBodySize))
	body.Write(prefix[:])
	copied, err := io.CopyN(&body, r.source, int64(length)-4)
	if err != nil {
		return nil, r.truncated(4+int(copied), int(length), err)
	}
	r.offset += int64(length)
	return body.Bytes(), nil
}

// Next reads and decodes the next document. Returns io.EOF at the end
// of the stream.
func (r *Reader) Next() (Document, error) {
	start := r.offset
	raw, err := r.ReadRaw()
	if err != nil {
		return nil, err
	}
	document, err := r.codec.Unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("document at stream offset %d: %w", start, err)
	}
	return document, nil
}

func (r *Reader) truncated(got, want int, err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return fmt.Errorf("document at stream offset %d: stream ended after %d of %d bytes: %w",
			r.offset, got, want, ErrIncompleteBuffer)
	}
	return fmt.Errorf("reading document at stream offset %d: %w", r.offset, err)
}

// Writer writes documents to a stream back to back.
type Writer struct {
	destination io.Writer
	codec       Codec
}

// NewWriter returns a Writer to destination using the default codec.
func NewWriter(destination io.Writer) *Writer {
	return defaultCodec.NewWriter(destination)
}

// NewWriter returns a Writer to destination.
func (codec Codec) NewWriter(destination io.Writer) *Writer {
	return &Writer{destination: destination, codec: codec}
}

// Write encodes value, a document or array, and writes it.
func (w *Writer) Write(value Value) error {
	data, err := w.codec.Marshal(value)
	if err != nil {
		return err
	}
	if _, err := w.destination.Write(data); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}
