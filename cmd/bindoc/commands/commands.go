// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete bindoc command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/bindoc/cmd/bindoc/cli"
	"github.com/bureau-foundation/bindoc/cmd/bindoc/document"
	"github.com/bureau-foundation/bindoc/lib/version"
)

// Root builds and returns the complete bindoc command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "bindoc",
		Description: `bindoc: inspect and convert binary documents.

Decode documents to Extended JSON and encode them back, walk their
wire layout, check them for strict validity, convert them to CBOR,
compute content digests, and generate identifiers and timestamps for
fixtures.

Configuration is read from the YAML file named by --config or the
BINDOC_CONFIG environment variable. Set BINDOC_DEBUG to log at debug
level on stderr.`,
		Subcommands: []*cli.Command{
			document.DecodeCommand(),
			document.EncodeCommand(),
			document.DiagCommand(),
			document.ValidateCommand(),
			document.CBORCommand(),
			document.HashCommand(),
			document.OIDCommand(),
			document.NowCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("bindoc %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
