// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/bindoc/cmd/bindoc/cli"
)

type validateParams struct {
	configParams
	HexInput bool `json:"hex_input" flag:"hex,x"   desc:"treat input as hex-encoded bytes"`
	Slurp    bool `json:"slurp"     flag:"slurp,s" desc:"validate each document in a concatenated stream"`
}

// ValidateCommand returns the "validate" command.
func ValidateCommand() *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check that binary documents decode strictly and re-encode identically",
		Description: `Decode the input strictly and re-encode it, then compare the bytes.
Prints "valid" and exits 0 when they match. Otherwise prints "invalid"
with the reason and exits 1.

Strict decoding rejects truncated input, unknown element kinds,
malformed strings, boolean bytes other than 0 and 1, and trailing
bytes. The byte comparison additionally catches layouts the decoder
tolerates but the encoder never produces: array element names other
than 0, 1, 2..., non-canonical NaN patterns, and padding inside a
declared length.

With -s, each document of a concatenated stream is checked.`,
		Usage: "bindoc validate [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Validate a document file",
				Command:     "bindoc validate record.bson",
			},
			{
				Description: "Validate a dump in a pipeline",
				Command:     "bindoc encode fixtures.yaml | bindoc validate -s",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.load()
			if err != nil {
				return err
			}
			data, err := readInput(args, params.HexInput, os.Stdin)
			if err != nil {
				return err
			}
			logger.Debug("validating", "source", inputSource(args), "bytes", len(data), "slurp", params.Slurp)
			return validateDocuments(data, os.Stdout, limitsOf(cfg), params.Slurp)
		},
	}
}

// validateDocuments prints "valid", or "invalid: <reason>" and returns
// an [cli.ExitError] with code 1.
func validateDocuments(data []byte, w io.Writer, bounds limits, slurp bool) error {
	var problem string
	if slurp {
		problem = validateStream(data, bounds)
	} else {
		problem = validateOne(data, bounds)
	}

	if problem != "" {
		fmt.Fprintf(w, "invalid: %s\n", problem)
		return &cli.ExitError{Code: 1}
	}
	fmt.Fprintln(w, "valid")
	return nil
}

// validateOne returns a description of why data is not a valid
// document, or "" when it is.
func validateOne(data []byte, bounds limits) string {
	document, err := bounds.codec.Unmarshal(data)
	if err != nil {
		return err.Error()
	}
	reencoded, err := bounds.codec.Marshal(document)
	if err != nil {
		return fmt.Sprintf("re-encode: %v", err)
	}
	if !bytes.Equal(data, reencoded) {
		return describeMismatch(data, reencoded)
	}
	return ""
}

func validateStream(data []byte, bounds limits) string {
	reader := bounds.stream(data)
	for index := 0; ; index++ {
		start := reader.Offset()
		raw, err := reader.ReadRaw()
		if errors.Is(err, io.EOF) {
			return ""
		}
		if err != nil {
			return err.Error()
		}
		if problem := validateOne(raw, bounds); problem != "" {
			return fmt.Sprintf("document %d at stream offset %d: %s", index, start, problem)
		}
	}
}

func describeMismatch(original, reencoded []byte) string {
	offset := 0
	minLength := min(len(original), len(reencoded))
	for offset < minLength && original[offset] == reencoded[offset] {
		offset++
	}
	return fmt.Sprintf("re-encoding differs: first difference at byte %d (original %d bytes, re-encoded %d bytes)",
		offset, len(original), len(reencoded))
}
