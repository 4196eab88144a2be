// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command bindoc inspects and converts binary documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/bureau-foundation/bindoc/cmd/bindoc/cli"
	"github.com/bureau-foundation/bindoc/cmd/bindoc/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own verdict (like validate) return
		// an ExitError with the desired exit code. Don't print a
		// redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := cli.NewCommandLogger(os.Getenv("BINDOC_DEBUG") != "")
	return commands.Root().Execute(ctx, os.Args[1:], logger)
}
