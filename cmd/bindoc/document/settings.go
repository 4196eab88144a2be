// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"golang.org/x/term"

	"github.com/bureau-foundation/bindoc/cmd/bindoc/cli"
	"github.com/bureau-foundation/bindoc/lib/bson"
	"github.com/bureau-foundation/bindoc/lib/config"
	"github.com/bureau-foundation/bindoc/lib/extjson"
)

// configParams is embedded by every command that reads configuration.
type configParams struct {
	ConfigFile string `json:"config" flag:"config" desc:"path to a bindoc.yaml config file (default: $BINDOC_CONFIG)"`
}

func (p configParams) load() (*config.Config, error) {
	cfg, err := config.Resolve(p.ConfigFile)
	if err != nil {
		return nil, cli.Validation("loading config: %w", err)
	}
	return cfg, nil
}

// limits are the codec bounds from the configuration.
type limits struct {
	codec   bson.Codec
	maxSize int
}

func limitsOf(cfg *config.Config) limits {
	return limits{
		codec:   bson.Codec{MaxDepth: cfg.Codec.MaxDepth},
		maxSize: cfg.Codec.MaxDocumentSize,
	}
}

// maxDepth returns the nesting limit, substituting the default for zero.
func (l limits) maxDepth() int {
	if l.codec.MaxDepth > 0 {
		return l.codec.MaxDepth
	}
	return bson.DefaultMaxDepth
}

// stream returns a reader over concatenated documents in data.
func (l limits) stream(data []byte) *bson.Reader {
	return l.codec.NewReader(bytes.NewReader(data), l.maxSize)
}

// outputParams are the flags shared by commands that print Extended
// JSON.
type outputParams struct {
	Canonical bool   `json:"canonical" flag:"canonical"  desc:"canonical Extended JSON (type wrappers for every number and date)"`
	Compact   bool   `json:"compact"   flag:"compact,c"  desc:"compact output (no indentation)"`
	Color     string `json:"color"     flag:"color"      desc:"syntax highlighting: auto, always or never (default from config)"`
}

// jsonOutput is the resolved form of outputParams.
type jsonOutput struct {
	options extjson.Options
	color   bool
}

// resolve merges the flags over cfg. w is the destination, consulted
// for terminal detection in auto color mode.
func (p outputParams) resolve(cfg *config.Config, w io.Writer) (jsonOutput, error) {
	options := extjson.Options{
		Canonical: cfg.Output.Format == config.Canonical || p.Canonical,
		Indent:    cfg.Output.Indent,
		MaxDepth:  cfg.Codec.MaxDepth,
	}
	if p.Compact {
		options.Indent = ""
	}

	mode := cfg.Output.Color
	if p.Color != "" {
		mode = config.ColorMode(p.Color)
	}
	switch mode {
	case config.ColorAuto, config.ColorAlways, config.ColorNever:
	default:
		return jsonOutput{}, cli.Validation("--color must be auto, always or never, got %q", p.Color)
	}
	return jsonOutput{options: options, color: useColor(mode, w)}, nil
}

// useColor reports whether output to w should be highlighted.
func useColor(mode config.ColorMode, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// writeJSON writes data and a newline to w, highlighted when color is
// set.
func writeJSON(w io.Writer, data []byte, color bool) error {
	if !color {
		if _, err := w.Write(append(data, '\n')); err != nil {
			return cli.Internal("write output: %w", err)
		}
		return nil
	}

	var highlighted bytes.Buffer
	if err := quick.Highlight(&highlighted, string(data)+"\n", "json", "terminal256", "monokai"); err != nil {
		return cli.Internal("highlight output: %w", err)
	}
	if _, err := w.Write(highlighted.Bytes()); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}

// decodeError classifies a document decode failure as bad input.
func decodeError(err error) error {
	return cli.Validation("decoding document: %w", err)
}
