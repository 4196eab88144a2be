// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/bureau-foundation/bindoc/cmd/bindoc/cli"
	"github.com/bureau-foundation/bindoc/lib/bson"
	"github.com/bureau-foundation/bindoc/lib/clock"
	"github.com/bureau-foundation/bindoc/lib/extjson"
)

type nowParams struct {
	Timestamp bool `json:"timestamp" flag:"timestamp,t" desc:"print a replication timestamp instead of a date"`
	Steps     int  `json:"steps"     flag:"steps"       desc:"increment for --timestamp" default:"1"`
	Canonical bool `json:"canonical" flag:"canonical"   desc:"print canonical Extended JSON"`
}

// NowCommand returns the "now" command.
func NowCommand() *cli.Command {
	var params nowParams

	return &cli.Command{
		Name:    "now",
		Summary: "Print the current time as an Extended JSON date or timestamp",
		Description: `Print the current time as an Extended JSON value for pasting into
fixtures that "bindoc encode" reads.

By default the value is a date with millisecond precision. With
--timestamp it is a replication timestamp holding the current epoch
seconds and the --steps increment.`,
		Usage: "bindoc now [--timestamp [--steps n]] [--canonical]",
		Examples: []cli.Example{
			{
				Description: "Stamp a fixture with the current date",
				Command:     `echo "{\"created\": $(bindoc now)}" | bindoc encode > created.bson`,
			},
			{
				Description: "Print a timestamp with increment 5",
				Command:     "bindoc now -t --steps 5",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("now takes no positional arguments, got %q", args[0])
			}
			return printNow(os.Stdout, clock.Real(), params.Timestamp, params.Steps, params.Canonical)
		},
	}
}

// printNow writes the clock's current time to w as a date or, with
// asTimestamp, as a timestamp with the given increment.
func printNow(w io.Writer, c clock.Clock, asTimestamp bool, steps int, canonical bool) error {
	var value bson.Value = bson.Now(c)
	if asTimestamp {
		if steps < 0 || int64(steps) > math.MaxUint32 {
			return cli.Validation("--steps must be between 0 and %d, got %d", uint32(math.MaxUint32), steps)
		}
		value = bson.NewTimestamp(c, uint32(steps))
	}

	text, err := extjson.Marshal(value, extjson.Options{Canonical: canonical})
	if err != nil {
		return cli.Internal("rendering Extended JSON: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(text)); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}
