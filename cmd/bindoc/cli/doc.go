// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for bindoc.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a parameter struct or
// [pflag.FlagSet] factory, and a Run function. Commands are assembled
// into a tree in cmd/bindoc/commands and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing, and
// structured help output with examples.
//
// Parameters are declared as tagged struct fields and bound to flags by
// [BindFlags]:
//
//	type decodeParams struct {
//	    Hex     bool `flag:"hex,x"   desc:"treat input as hex-encoded bytes"`
//	    Compact bool `flag:"compact" desc:"single-line output"`
//	}
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// Failures are classified with [ToolError] (validation, not found,
// internal). [ExitError] carries a non-zero exit status for outcomes
// the command has already reported itself, such as a document that
// fails validation.
package cli
