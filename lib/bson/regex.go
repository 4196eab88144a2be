// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bson

import (
	"fmt"
	"strings"
)

// RegexFlags is the set of flags on a [Regex].
type RegexFlags uint8

const (
	FlagGlobal RegexFlags = 1 << iota
	FlagIgnoreCase
	FlagMultiline

	allRegexFlags = FlagGlobal | FlagIgnoreCase | FlagMultiline
)

// String returns the flag letters in the fixed wire order g, i, m.
func (f RegexFlags) String() string {
	var builder strings.Builder
	if f&FlagGlobal != 0 {
		builder.WriteByte('g')
	}
	if f&FlagIgnoreCase != 0 {
		builder.WriteByte('i')
	}
	if f&FlagMultiline != 0 {
		builder.WriteByte('m')
	}
	return builder.String()
}

// valid reports whether f only contains defined flags.
func (f RegexFlags) valid() bool {
	return f&^allRegexFlags == 0
}

// ParseRegexFlags parses flag letters in any order. Repeated letters
// are accepted; letters other than g, i and m are [ErrInvalidRegex].
func ParseRegexFlags(letters string) (RegexFlags, error) {
	var flags RegexFlags
	for i := 0; i < len(letters); i++ {
		switch letters[i] {
		case 'g':
			flags |= FlagGlobal
		case 'i':
			flags |= FlagIgnoreCase
		case 'm':
			flags |= FlagMultiline
		default:
			return 0, fmt.Errorf("flag %q in %q: %w", letters[i], letters, ErrInvalidRegex)
		}
	}
	return flags, nil
}
