// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"fmt"

	"github.com/bureau-foundation/bindoc/lib/cursor"
)

// Token is one step of a [Codec.Walk].
type Token struct {
	// Offset is the position in the input of the element's tag byte,
	// or 0 for the top-level container.
	Offset int

	// Depth is the nesting level of the token. The top-level container
	// is depth 1 and its elements are depth 2.
	Depth int

	// Kind is the element's tag.
	Kind Kind

	// Name is the element name, empty for the top-level container.
	Name string

	// Value is the decoded payload. It is nil for Document and Array
	// tokens, whose elements follow as separate tokens.
	Value Value

	// Length is the declared length of a Document or Array.
	Length int

	// End marks the token that closes a Document or Array. It repeats
	// the opening token's Kind, Name and Depth.
	End bool
}

// Walk decodes data element by element, calling visit for each token in
// wire order. Containers produce an opening token, their elements, and
// a closing token with End set. Walk stops at the first error from
// visit or from decoding; tokens already visited stay valid, which lets
// diagnostic tools show how far a malformed document parsed.
func (codec Codec) Walk(data []byte, isArray bool, visit func(Token) error) error {
	w := walker{decoder: decoder{maxDepth: codec.maxDepth()}, visit: visit}
	kind := KindDocument
	if isArray {
		kind = KindArray
	}

	c := cursor.Wrap(data)
	if err := w.container(c, kind, "", 0, 1, ""); err != nil {
		return err
	}
	if c.Remaining() != 0 {
		return fmt.Errorf("%d trailing bytes after document: %w", c.Remaining(), ErrInvalidLength)
	}
	return nil
}

type walker struct {
	decoder
	visit func(Token) error
}

func (w *walker) container(c *cursor.Cursor, kind Kind, name string, tagOffset, depth int, path string) error {
	if depth > w.maxDepth {
		return pathError(path, fmt.Errorf("depth %d exceeds limit %d: %w", depth, w.maxDepth, ErrTooDeeplyNested))
	}

	start := c.Offset()
	end, err := w.declaredEnd(c, minDocumentSize)
	if err != nil {
		return pathError(path, err)
	}
	opening := Token{Offset: tagOffset, Depth: depth, Kind: kind, Name: name, Length: end - start}
	if err := w.visit(opening); err != nil {
		return err
	}

	body, err := cursor.WrapAt(c.Bytes(), start+4, end)
	if err != nil {
		return pathError(path, err)
	}
	for {
		elementOffset := body.Offset()
		tag, err := body.ReadByte()
		if err != nil {
			return pathError(path, fmt.Errorf("document at offset %d has no terminator within %d bytes: %w",
				start, end-start, ErrInvalidLength))
		}
		if tag == 0 {
			break
		}

		elementName, err := body.ReadCString()
		if err != nil {
			return pathError(path, fmt.Errorf("element name at offset %d: %w", elementOffset+1, err))
		}
		elementPath := joinPath(path, elementName)

		switch elementKind := Kind(tag); elementKind {
		case KindDocument, KindArray:
			if err := w.container(body, elementKind, elementName, elementOffset, depth+1, elementPath); err != nil {
				return err
			}
		default:
			value, err := w.element(body, elementKind, elementOffset, depth, elementPath)
			if err != nil {
				return err
			}
			token := Token{Offset: elementOffset, Depth: depth + 1, Kind: elementKind, Name: elementName, Value: value}
			if err := w.visit(token); err != nil {
				return err
			}
		}
	}

	if _, err := c.Seek(end); err != nil {
		return pathError(path, err)
	}
	opening.End = true
	return w.visit(opening)
}
