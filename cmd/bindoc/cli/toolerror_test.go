// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestToolError_ErrorWithoutHint(t *testing.T) {
	err := Validation("expected at most one file argument")
	if err.Error() != "expected at most one file argument" {
		t.Errorf("Error() = %q, want %q", err.Error(), "expected at most one file argument")
	}
}

func TestToolError_ErrorWithHint(t *testing.T) {
	err := Validation("input is not a document").
		WithHint("Pass --hex if the input is hex text.")

	want := "input is not a document\n\nPass --hex if the input is hex text."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestToolError_WithHintReturnsReceiver(t *testing.T) {
	original := Validation("bad input")
	chained := original.WithHint("fix it")
	if original != chained {
		t.Error("WithHint should return the same pointer")
	}
}

func TestToolError_HintSurvivesErrorsAs(t *testing.T) {
	inner := NotFound("no such file").WithHint("check the path")
	wrapped := fmt.Errorf("decode failed: %w", inner)

	var toolErr *ToolError
	if !errors.As(wrapped, &toolErr) {
		t.Fatal("errors.As should find ToolError in wrapped chain")
	}
	if toolErr.Hint != "check the path" {
		t.Errorf("Hint = %q after unwrap, want %q", toolErr.Hint, "check the path")
	}
}

func TestToolError_UnwrapReachesCause(t *testing.T) {
	err := NotFound("reading input: %w", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}

func TestToolError_EmptyHintNotAppended(t *testing.T) {
	err := Internal("unexpected failure")
	if strings.Contains(err.Error(), "\n\n") {
		t.Error("empty hint should not add blank line to error message")
	}
}

func TestToolError_AllCategories(t *testing.T) {
	tests := []struct {
		name     string
		err      *ToolError
		category ErrorCategory
	}{
		{"Validation", Validation("bad"), CategoryValidation},
		{"NotFound", NotFound("missing"), CategoryNotFound},
		{"Internal", Internal("bug"), CategoryInternal},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.err.Category != test.category {
				t.Errorf("Category = %q, want %q", test.err.Category, test.category)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{Code: 2}
	coder, ok := err.(interface{ ExitCode() int })
	if !ok {
		t.Fatal("ExitError should implement ExitCode")
	}
	if coder.ExitCode() != 2 {
		t.Errorf("ExitCode() = %d, want 2", coder.ExitCode())
	}
	if err.Error() != "exit code 2" {
		t.Errorf("Error() = %q, want %q", err.Error(), "exit code 2")
	}
}
