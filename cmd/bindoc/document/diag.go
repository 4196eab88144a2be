// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bureau-foundation/bindoc/cmd/bindoc/cli"
	"github.com/bureau-foundation/bindoc/lib/bson"
)

// maxSummaryBytes bounds how much of a string or binary payload a diag
// line shows.
const maxSummaryBytes = 32

type diagParams struct {
	configParams
	HexInput bool `json:"hex_input" flag:"hex,x"   desc:"treat input as hex-encoded bytes"`
	Slurp    bool `json:"slurp"     flag:"slurp,s" desc:"walk every document in a concatenated stream"`
}

// DiagCommand returns the "diag" command.
func DiagCommand() *cli.Command {
	var params diagParams

	return &cli.Command{
		Name:    "diag",
		Summary: "Show the element-by-element layout of binary documents",
		Description: `Walk a binary document and print one line per element: the offset
of its tag byte, the element kind, its name, and a summary of the
payload. Embedded documents and arrays are indented and show their
declared length.

Unlike decode, diag prints everything it parsed before an error, so it
shows where a malformed document goes wrong.`,
		Usage: "bindoc diag [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Inspect a document",
				Command:     "bindoc diag record.bson",
			},
			{
				Description: "Find where a hex fixture breaks",
				Command:     "bindoc diag --hex fixture.hex",
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
			logger.Debug("walking", "source", inputSource(args), "bytes", len(data), "slurp", params.Slurp)
			return diagDocuments(data, os.Stdout, limitsOf(cfg), params.Slurp)
		},
	}
}

// diagDocuments prints the layout of data to w.
func diagDocuments(data []byte, w io.Writer, bounds limits, slurp bool) error {
	if !slurp {
		return diagDocument(data, 0, w, bounds)
	}

	reader := bounds.stream(data)
	for {
		base := reader.Offset()
		raw, err := reader.ReadRaw()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return decodeError(err)
		}
		if err := diagDocument(raw, int(base), w, bounds); err != nil {
			return err
		}
	}
}

func diagDocument(data []byte, base int, w io.Writer, bounds limits) error {
	var writeErr error
	err := bounds.codec.Walk(data, false, func(token bson.Token) error {
		writeErr = writeToken(w, base, token)
		return writeErr
	})
	if writeErr != nil {
		return cli.Internal("write output: %w", writeErr)
	}
	if err != nil {
		return decodeError(err)
	}
	return nil
}

// writeToken prints one line: offset, indentation by depth, kind, name
// and payload summary.
func writeToken(w io.Writer, base int, token bson.Token) error {
	indent := strings.Repeat("  ", token.Depth-1)
	if token.End {
		_, err := fmt.Fprintf(w, "%8s  %s%s\n", "", indent, closer(token.Kind))
		return err
	}

	var line strings.Builder
	fmt.Fprintf(&line, "%08d  %s%s", base+token.Offset, indent, token.Kind)
	if token.Depth > 1 {
		fmt.Fprintf(&line, " %q", token.Name)
	}
	switch token.Kind {
	case bson.KindDocument:
		fmt.Fprintf(&line, " (%d bytes) {", token.Length)
	case bson.KindArray:
		fmt.Fprintf(&line, " (%d bytes) [", token.Length)
	default:
		if summary := summarize(token.Value); summary != "" {
			line.WriteString(" = ")
			line.WriteString(summary)
		}
	}
	line.WriteByte('\n')
	_, err := io.WriteString(w, line.String())
	return err
}

func closer(kind bson.Kind) string {
	if kind == bson.KindArray {
		return "]"
	}
	return "}"
}

// summarize renders a scalar payload on one line. Kinds without a
// payload return "".
func summarize(value bson.Value) string {
	switch value := value.(type) {
	case bson.Double:
		return strconv.FormatFloat(float64(value), 'g', -1, 64)
	case bson.String:
		return quoteTruncated(string(value))
	case bson.Binary:
		data := value.Data
		suffix := ""
		if len(data) > maxSummaryBytes {
			data, suffix = data[:maxSummaryBytes], "..."
		}
		return fmt.Sprintf("subtype 0x%02x, %d bytes: %x%s", byte(value.Subtype), len(value.Data), data, suffix)
	case bson.ObjectID:
		return value.Hex()
	case bson.Boolean:
		return strconv.FormatBool(bool(value))
	case bson.DateTime:
		return fmt.Sprintf("%d (%s)", int64(value), value.Time().UTC().Format(time.RFC3339Nano))
	case bson.Regex:
		return "/" + value.Pattern + "/" + value.Flags.String()
	case bson.DBPointer:
		return fmt.Sprintf("%s %s", quoteTruncated(value.Collection), value.ID.Hex())
	case bson.Code:
		return quoteTruncated(string(value))
	case bson.Symbol:
		return quoteTruncated(string(value))
	case bson.CodeWithScope:
		return fmt.Sprintf("%s with scope of %d elements", quoteTruncated(value.Code), len(value.Scope))
	case bson.Int32:
		return strconv.FormatInt(int64(value), 10)
	case bson.Timestamp:
		return fmt.Sprintf("seconds=%d steps=%d", value.Seconds, value.Steps)
	case bson.Int64:
		return strconv.FormatInt(int64(value), 10)
	}
	return ""
}

func quoteTruncated(s string) string {
	if len(s) <= maxSummaryBytes {
		return strconv.Quote(s)
	}
	// Cut on a rune boundary.
	cut := maxSummaryBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strconv.Quote(s[:cut]) + fmt.Sprintf("... (%d bytes)", len(s))
}

