// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1}, // substitution
		{"abc", "ab", 1},  // deletion
		{"ab", "abc", 1},  // insertion
		{"abc", "bac", 2}, // transposition (counted as 2 edits)
		{"kitten", "sitting", 3},
		{"decode", "deocde", 2},
		{"validate", "validat", 1},
	}

	for _, test := range tests {
		t.Run(test.a+"->"+test.b, func(t *testing.T) {
			got := levenshtein(test.a, test.b)
			if got != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
			}
		})
	}
}

func TestLevenshtein_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"abc", "abd"},
		{"hello", "helo"},
		{"encode", "ecnode"},
	}

	for _, pair := range pairs {
		forward := levenshtein(pair[0], pair[1])
		reverse := levenshtein(pair[1], pair[0])
		if forward != reverse {
			t.Errorf("levenshtein(%q, %q) = %d, but reverse = %d",
				pair[0], pair[1], forward, reverse)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "decode"},
		{Name: "encode"},
		{Name: "validate"},
		{Name: "hash"},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"decod", "decode"},
		{"ecnode", "encode"},
		{"valdiate", "validate"},
		{"has", "hash"},
		{"completely-different", ""},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if got := suggestCommand(test.input, commands); got != test.want {
				t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestSuggestFlag(t *testing.T) {
	newFlagSet := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flagSet.Bool("canonical", false, "")
		flagSet.Bool("compact", false, "")
		flagSet.String("color", "auto", "")
		return flagSet
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"transposition", []string{"--canoncial"}, "--canonical"},
		{"with value", []string{"--colour=never"}, "--color"},
		{"after known flag", []string{"--compact", "--colr", "x"}, "--color"},
		{"nothing close", []string{"--recursive"}, ""},
		{"after terminator", []string{"--", "--canoncial"}, ""},
		{"positional only", []string{"file.bson"}, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := suggestFlag(test.args, newFlagSet()); got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}
