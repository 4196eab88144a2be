// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/bindoc/cmd/bindoc/cli"
	"github.com/bureau-foundation/bindoc/lib/bson"
	"github.com/bureau-foundation/bindoc/lib/extjson"
)

type oidParams struct {
	Count int    `json:"count" flag:"count,n" desc:"number of identifiers to generate" default:"1"`
	Parse string `json:"parse" flag:"parse"   desc:"check a 24 hex digit identifier and print its canonical form"`
	JSON  bool   `json:"json"  flag:"json"    desc:"print as Extended JSON ({\"$oid\": ...})"`
}

// OIDCommand returns the "oid" command.
func OIDCommand() *cli.Command {
	var params oidParams

	return &cli.Command{
		Name:    "oid",
		Summary: "Generate or check object identifiers",
		Description: `Print new 12-byte object identifiers as 24 lowercase hex digits, one
per line. Identifiers are drawn from random (version 4) UUIDs.

With --parse, checks an existing identifier instead: exits 0 and
prints it in lowercase when it is 24 hex digits, and fails otherwise.`,
		Usage: "bindoc oid [-n count] [--parse hex] [--json]",
		Examples: []cli.Example{
			{
				Description: "Generate three identifiers",
				Command:     "bindoc oid -n 3",
			},
			{
				Description: "Normalize an identifier for a JSON fixture",
				Command:     "bindoc oid --parse 659F1A000102030405060708 --json",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("oid takes no positional arguments, got %q", args[0])
			}
			if params.Parse != "" {
				return parseObjectID(params.Parse, os.Stdout, params.JSON)
			}
			logger.Debug("generating object ids", "count", params.Count)
			return generateObjectIDs(params.Count, os.Stdout, params.JSON, bson.NewObjectID)
		},
	}
}

// generateObjectIDs writes count identifiers from next to w.
func generateObjectIDs(count int, w io.Writer, asJSON bool, next func() bson.ObjectID) error {
	if count < 1 {
		return cli.Validation("--count must be at least 1, got %d", count)
	}
	for range count {
		if err := printObjectID(w, next(), asJSON); err != nil {
			return err
		}
	}
	return nil
}

func parseObjectID(text string, w io.Writer, asJSON bool) error {
	id, err := bson.ObjectIDFromHex(text)
	if err != nil {
		return cli.Validation("%w", err).WithHint("An object identifier is exactly 24 hex digits.")
	}
	return printObjectID(w, id, asJSON)
}

func printObjectID(w io.Writer, id bson.ObjectID, asJSON bool) error {
	line := id.Hex()
	if asJSON {
		text, err := extjson.Marshal(id, extjson.Options{})
		if err != nil {
			return cli.Internal("rendering Extended JSON: %w", err)
		}
		line = string(text)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}
