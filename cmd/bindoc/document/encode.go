// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/bindoc/cmd/bindoc/cli"
	"github.com/bureau-foundation/bindoc/lib/bson"
	"github.com/bureau-foundation/bindoc/lib/extjson"
)

// Input formats accepted by encode.
const (
	formatJSON  = "json"
	formatJSONC = "jsonc"
	formatYAML  = "yaml"
)

type encodeParams struct {
	configParams
	Format    string `json:"format"     flag:"format,f" desc:"input format: json, jsonc or yaml (default: from the file extension, else json)"`
	HexOutput bool   `json:"hex_output" flag:"hex,x"    desc:"write hex text instead of raw bytes"`
}

// EncodeCommand returns the "encode" command.
func EncodeCommand() *cli.Command {
	var params encodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Convert Extended JSON, JSONC or YAML to binary documents",
		Description: `Read Extended JSON (relaxed or canonical), JSON with comments, or YAML
and write the equivalent binary document to stdout.

Member order is preserved, duplicates included. Type wrappers such as
{"$oid": "..."} and {"$date": "..."} are recognised in every input
format. YAML timestamps become dates, !!binary becomes generic binary,
and .nan and .inf become doubles.

A top-level array of objects, or a YAML stream with several documents,
produces a stream of concatenated documents that "bindoc decode -s"
reads back.`,
		Usage: "bindoc encode [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Encode a JSON object",
				Command:     `echo '{"name": "widget", "count": 3}' | bindoc encode > widget.bson`,
			},
			{
				Description: "Encode a YAML fixture file",
				Command:     "bindoc encode fixtures.yaml > fixtures.bson",
			},
			{
				Description: "Round-trip through canonical Extended JSON",
				Command:     "bindoc decode --canonical record.bson | bindoc encode | cmp - record.bson",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.load()
			if err != nil {
				return err
			}
			format, err := inputFormat(params.Format, args)
			if err != nil {
				return err
			}
			data, err := readInput(args, false, os.Stdin)
			if err != nil {
				return err
			}
			logger.Debug("encoding", "source", inputSource(args), "format", format, "bytes", len(data))
			return encodeDocuments(data, format, os.Stdout, limitsOf(cfg), params.HexOutput)
		},
	}
}

// inputFormat picks the format from the flag, then the file extension.
func inputFormat(flag string, args []string) (string, error) {
	switch flag {
	case formatJSON, formatJSONC, formatYAML:
		return flag, nil
	case "":
	default:
		return "", cli.Validation("--format must be json, jsonc or yaml, got %q", flag)
	}

	if len(args) > 0 {
		switch strings.ToLower(filepath.Ext(args[0])) {
		case ".jsonc":
			return formatJSONC, nil
		case ".yaml", ".yml":
			return formatYAML, nil
		}
	}
	return formatJSON, nil
}

// encodeDocuments parses data in format and writes each resulting
// document to w.
func encodeDocuments(data []byte, format string, w io.Writer, bounds limits, hexOutput bool) error {
	parser := extjson.Options{MaxDepth: bounds.maxDepth()}

	var values []bson.Value
	switch format {
	case formatJSON, formatJSONC:
		if format == formatJSONC {
			data = jsonc.ToJSON(data)
		}
		value, err := parser.UnmarshalValue(data)
		if err != nil {
			return cli.Validation("parsing %s: %w", format, err)
		}
		values = append(values, value)
	case formatYAML:
		texts, err := yamlToJSON(data, bounds.maxDepth())
		if err != nil {
			return cli.Validation("parsing yaml: %w", err)
		}
		for i, text := range texts {
			value, err := parser.UnmarshalValue(text)
			if err != nil {
				return cli.Validation("yaml document %d: %w", i, err)
			}
			values = append(values, value)
		}
	default:
		return cli.Validation("unknown input format %q", format)
	}

	var documents []bson.Document
	for _, value := range values {
		flattened, err := topLevelDocuments(value)
		if err != nil {
			return err
		}
		documents = append(documents, flattened...)
	}
	if len(documents) == 0 {
		return cli.Validation("input holds no documents")
	}

	if hexOutput {
		for _, document := range documents {
			encoded, err := bounds.codec.Marshal(document)
			if err != nil {
				return cli.Validation("encoding document: %w", err)
			}
			if _, err := fmt.Fprintln(w, hex.EncodeToString(encoded)); err != nil {
				return cli.Internal("write output: %w", err)
			}
		}
		return nil
	}

	writer := bounds.codec.NewWriter(w)
	for _, document := range documents {
		if err := writer.Write(document); err != nil {
			return cli.Validation("encoding document: %w", err)
		}
	}
	return nil
}

// topLevelDocuments accepts a document, or an array whose every
// element is a document.
func topLevelDocuments(value bson.Value) ([]bson.Document, error) {
	switch value := value.(type) {
	case bson.Document:
		return []bson.Document{value}, nil
	case bson.Array:
		documents := make([]bson.Document, len(value))
		for i, element := range value {
			document, ok := element.(bson.Document)
			if !ok {
				return nil, cli.Validation("element %d of the top-level array is %s, not an object", i, element.Kind())
			}
			documents[i] = document
		}
		return documents, nil
	}
	return nil, cli.Validation("top-level value is %s, want an object or an array of objects", value.Kind())
}
