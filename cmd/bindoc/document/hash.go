// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/bureau-foundation/bindoc/cmd/bindoc/cli"
	"github.com/bureau-foundation/bindoc/lib/binhash"
	"github.com/bureau-foundation/bindoc/lib/bson"
)

type hashParams struct {
	configParams
	HexInput bool   `json:"hex_input" flag:"hex,x"   desc:"treat input as hex-encoded bytes"`
	Slurp    bool   `json:"slurp"     flag:"slurp,s" desc:"print one digest per document of a concatenated stream"`
	Raw      bool   `json:"raw"       flag:"raw"     desc:"hash the input bytes as given, without decoding"`
	Key      string `json:"key"       flag:"key,k"   desc:"64 hex digit BLAKE3 key (default: hash.key from config)"`
	Check    string `json:"check"     flag:"check"   desc:"compare the digest with this 64 hex digit value and exit 1 on mismatch"`
}

// hashSettings is the resolved form of hashParams.
type hashSettings struct {
	bounds limits
	key    *binhash.Key
	slurp  bool
	raw    bool
	// check, when set, is compared with the digest instead of printing
	// it.
	check *binhash.Digest
	// label follows each digest when non-empty, like sha256sum.
	label string
}

// HashCommand returns the "hash" command.
func HashCommand() *cli.Command {
	var params hashParams

	return &cli.Command{
		Name:    "hash",
		Summary: "Print BLAKE3 digests of binary documents",
		Description: `Print the BLAKE3-256 digest of a binary document as 64 hex digits.

The document is decoded and re-encoded before hashing, so the digest
identifies the document's content rather than incidental layout such
as padding inside a declared length. Element order is part of the
content: reordering elements changes the digest. With --raw, the input
bytes are hashed as given.

When a key is supplied with --key or the config file's hash section,
digests use BLAKE3's keyed mode. Keyed digests from different keys are
unrelated, which makes them suitable as per-deployment content
identifiers.

With --check, the digest is compared with the given value instead of
printed: "OK" and exit 0 on a match, "FAILED" and exit 1 otherwise.`,
		Usage: "bindoc hash [flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Digest a document",
				Command:     "bindoc hash record.bson",
			},
			{
				Description: "Digest every document in a dump with a key",
				Command:     "bindoc hash -s --key $(cat hash.key) things.bson",
			},
			{
				Description: "Verify a document against a recorded digest",
				Command:     "bindoc hash --check $(cat record.digest) record.bson",
			},
		},
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.load()
			if err != nil {
				return err
			}
			settings := hashSettings{
				bounds: limitsOf(cfg),
				slurp:  params.Slurp,
				raw:    params.Raw,
			}
			if source := inputSource(args); source != "stdin" {
				settings.label = source
			}

			if params.Key != "" {
				key, err := binhash.ParseKey(params.Key)
				if err != nil {
					return cli.Validation("--key: %w", err)
				}
				settings.key = &key
			} else {
				key, ok, err := cfg.HashKey()
				if err != nil {
					return cli.Validation("config: %w", err)
				}
				if ok {
					settings.key = &key
				}
			}
			if params.Check != "" {
				digest, err := binhash.ParseDigest(params.Check)
				if err != nil {
					return cli.Validation("--check: %w", err)
				}
				settings.check = &digest
			}
			logger.Debug("hashing", "source", inputSource(args), "keyed", settings.key != nil, "raw", settings.raw)

			// Unkeyed raw digests of a file stream it from disk.
			if settings.raw && settings.key == nil && !params.HexInput && settings.label != "" && len(args) == 1 {
				return hashFile(args[0], os.Stdout, settings)
			}

			data, err := readInput(args, params.HexInput, os.Stdin)
			if err != nil {
				return err
			}
			return hashInput(data, os.Stdout, settings)
		},
	}
}

func hashFile(path string, w io.Writer, settings hashSettings) error {
	digest, err := binhash.HashFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cli.NotFound("input file %s does not exist", path)
	}
	if err != nil {
		return cli.Internal("%w", err)
	}
	return settings.report(w, digest, path)
}

// hashInput writes the digest of data, or of each document in it, to w.
func hashInput(data []byte, w io.Writer, settings hashSettings) error {
	if settings.check != nil && settings.slurp {
		return cli.Validation("--check compares a single digest and cannot be combined with --slurp")
	}
	if settings.raw {
		return settings.report(w, settings.hasher().Bytes(data), settings.label)
	}

	if !settings.slurp {
		document, err := settings.bounds.codec.Unmarshal(data)
		if err != nil {
			return decodeError(err)
		}
		digest, err := settings.digestDocument(document)
		if err != nil {
			return err
		}
		return settings.report(w, digest, settings.label)
	}

	reader := settings.bounds.stream(data)
	for index := 0; ; index++ {
		document, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return decodeError(err)
		}
		digest, err := settings.digestDocument(document)
		if err != nil {
			return err
		}
		label := fmt.Sprintf("#%d", index)
		if settings.label != "" {
			label = settings.label + label
		}
		if err := settings.report(w, digest, label); err != nil {
			return err
		}
	}
}

func (s hashSettings) hasher() binhash.Hasher {
	return binhash.Hasher{Codec: s.bounds.codec, Key: s.key}
}

func (s hashSettings) digestDocument(document bson.Document) (binhash.Digest, error) {
	digest, err := s.hasher().Document(document)
	if err != nil {
		return binhash.Digest{}, cli.Validation("re-encoding document: %w", err)
	}
	return digest, nil
}

// report prints digest, or compares it with the --check value.
func (s hashSettings) report(w io.Writer, digest binhash.Digest, label string) error {
	if s.check == nil {
		return printDigest(w, digest, label)
	}
	prefix := ""
	if label != "" {
		prefix = label + ": "
	}
	if digest == *s.check {
		if _, err := fmt.Fprintf(w, "%sOK\n", prefix); err != nil {
			return cli.Internal("write output: %w", err)
		}
		return nil
	}
	if _, err := fmt.Fprintf(w, "%sFAILED (digest %s)\n", prefix, binhash.FormatDigest(digest)); err != nil {
		return cli.Internal("write output: %w", err)
	}
	return &cli.ExitError{Code: 1}
}

func printDigest(w io.Writer, digest binhash.Digest, label string) error {
	var err error
	if label == "" {
		_, err = fmt.Fprintln(w, binhash.FormatDigest(digest))
	} else {
		_, err = fmt.Fprintf(w, "%s  %s\n", binhash.FormatDigest(digest), label)
	}
	if err != nil {
		return cli.Internal("write output: %w", err)
	}
	return nil
}
