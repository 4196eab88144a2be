// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/bindoc/cmd/bindoc/cli"
	"github.com/bureau-foundation/bindoc/lib/bson"
	"github.com/bureau-foundation/bindoc/lib/extjson"
)

type decodeParams struct {
	configParams
	outputParams
	HexInput bool `json:"hex_input" flag:"hex,x"   desc:"treat input as hex-encoded bytes"`
	Slurp    bool `json:"slurp"     flag:"slurp,s" desc:"read a stream of concatenated documents as a JSON array"`
}

// DecodeCommand returns the "decode" command.
func DecodeCommand() *cli.Command {
	var params decodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Convert binary documents to Extended JSON",
		Description: `Read one binary document and write it as Extended JSON.

Relaxed mode (the default) writes numbers as plain JSON numbers and
dates between 1970 and 9999 as ISO-8601 strings. Canonical mode wraps
every number and date in a type wrapper ($numberInt, $numberLong,
$numberDouble, $date) so that "bindoc encode" reproduces the input
exactly.

With -s, the input is a stream of concatenated documents (a dump file)
and the output is a JSON array with one entry per document.

Output is indented per the config file (two spaces by default) and
highlighted when stdout is a terminal.`,
		Usage: "bindoc decode [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Decode a document file",
				Command:     "bindoc decode record.bson",
			},
			{
				Description: "Decode every document in a dump, canonical and compact",
				Command:     "bindoc decode -s --canonical -c < things.bson",
			},
			{
				Description: "Decode a hex listing",
				Command:     "echo '0c000000 10 6100 01000000 00' | bindoc decode --hex",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.load()
			if err != nil {
				return err
			}
			output, err := params.resolve(cfg, os.Stdout)
			if err != nil {
				return err
			}
			data, err := readInput(args, params.HexInput, os.Stdin)
			if err != nil {
				return err
			}
			logger.Debug("decoding", "source", inputSource(args), "bytes", len(data), "slurp", params.Slurp)
			return decodeDocuments(data, os.Stdout, limitsOf(cfg), output, params.Slurp)
		},
	}
}

// decodeDocuments decodes data and writes Extended JSON to w.
func decodeDocuments(data []byte, w io.Writer, bounds limits, output jsonOutput, slurp bool) error {
	var value bson.Value
	if slurp {
		documents, err := readStream(data, bounds)
		if err != nil {
			return err
		}
		value = documents
		// The array holding the documents adds a level of nesting.
		output.options.MaxDepth = bounds.maxDepth() + 1
	} else {
		document, err := bounds.codec.Unmarshal(data)
		if err != nil {
			return decodeError(err)
		}
		value = document
	}

	text, err := extjson.Marshal(value, output.options)
	if err != nil {
		return cli.Internal("rendering Extended JSON: %w", err)
	}
	return writeJSON(w, text, output.color)
}

// readStream decodes every document in a concatenated stream.
func readStream(data []byte, bounds limits) (bson.Array, error) {
	reader := bounds.stream(data)
	documents := bson.Array{}
	for {
		document, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return documents, nil
		}
		if err != nil {
			return nil, decodeError(err)
		}
		documents = append(documents, document)
	}
}
