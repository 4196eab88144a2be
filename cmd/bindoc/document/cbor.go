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
	"github.com/bureau-foundation/bindoc/lib/codec"
)

type cborParams struct {
	configParams
	HexInput bool `json:"hex_input" flag:"hex,x"   desc:"treat input as hex-encoded bytes"`
	Slurp    bool `json:"slurp"     flag:"slurp,s" desc:"convert a concatenated stream to a CBOR sequence"`
	Diag     bool `json:"diag"      flag:"diag,d"  desc:"print CBOR diagnostic notation instead of bytes"`
}

// CBORCommand returns the "cbor" command.
func CBORCommand() *cli.Command {
	var params cborParams

	return &cli.Command{
		Name:    "cbor",
		Summary: "Convert binary documents to deterministic CBOR",
		Description: `Decode a binary document and write it as CBOR using Core Deterministic
Encoding (RFC 8949 section 4.2): map keys sorted, integers and floats
in their shortest form.

Documents become maps and arrays become arrays. Kinds with no CBOR
counterpart are written as single-key maps named after their Extended
JSON wrapper, e.g. {"$oid": "..."} or {"$date": 1767225600000}.
Generic binary becomes a byte string and undefined becomes the CBOR
simple value 23. CBOR maps do not keep element order: the output is
for consumers that look values up by name.

With -d, prints diagnostic notation (RFC 8949 section 8) instead of
the encoded bytes.`,
		Usage: "bindoc cbor [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Convert a document to CBOR",
				Command:     "bindoc cbor record.bson > record.cbor",
			},
			{
				Description: "Show a dump as CBOR diagnostic notation",
				Command:     "bindoc cbor -s -d things.bson",
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
			logger.Debug("converting to CBOR", "source", inputSource(args), "bytes", len(data), "slurp", params.Slurp)
			return convertCBOR(data, os.Stdout, limitsOf(cfg), params.Slurp, params.Diag)
		},
	}
}

// convertCBOR decodes data and writes CBOR, or its diagnostic notation,
// to w.
func convertCBOR(data []byte, w io.Writer, bounds limits, slurp, diag bool) error {
	var encoded []byte
	if slurp {
		var buffer bytes.Buffer
		encoder := codec.NewEncoder(&buffer)
		reader := bounds.stream(data)
		for {
			document, err := reader.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return decodeError(err)
			}
			tree, err := codec.Transcode(document, bounds.maxDepth())
			if err != nil {
				return cli.Validation("converting document: %w", err)
			}
			if err := encoder.Encode(tree); err != nil {
				return cli.Internal("encoding CBOR: %w", err)
			}
		}
		encoded = buffer.Bytes()
	} else {
		document, err := bounds.codec.Unmarshal(data)
		if err != nil {
			return decodeError(err)
		}
		encoded, err = codec.FromBSONWithMaxDepth(document, bounds.maxDepth())
		if err != nil {
			return cli.Validation("converting document: %w", err)
		}
	}

	if !diag {
		if _, err := w.Write(encoded); err != nil {
			return cli.Internal("write output: %w", err)
		}
		return nil
	}

	for remaining := encoded; len(remaining) > 0; {
		notation, rest, err := codec.DiagnoseFirst(remaining)
		if err != nil {
			return cli.Internal("diagnosing CBOR: %w", err)
		}
		if _, err := fmt.Fprintln(w, notation); err != nil {
			return cli.Internal("write output: %w", err)
		}
		remaining = rest
	}
	return nil
}
