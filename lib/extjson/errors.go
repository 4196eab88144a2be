// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package extjson

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax indicates input that is not well-formed JSON.
	ErrSyntax = errors.New("extjson: invalid JSON")

	// ErrInvalidWrapper indicates an object shaped like a type wrapper
	// whose contents are malformed, such as {"$oid": 12} or a
	// $numberInt outside the int32 range.
	ErrInvalidWrapper = errors.New("extjson: malformed type wrapper")

	// ErrNotDocument indicates that the top-level value given to
	// [Unmarshal] is not a JSON object, or is a type wrapper.
	ErrNotDocument = errors.New("extjson: top-level value is not a document")
)

func pathError(path string, err error) error {
	if path == "" {
		return err
	}
	return fmt.Errorf("element %q: %w", path, err)
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
