// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode"

	"github.com/bureau-foundation/bindoc/cmd/bindoc/cli"
)

// inputSource names the input for messages: the file path, or "stdin".
func inputSource(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return "stdin"
	}
	return args[0]
}

// readInput reads the file named by the single positional argument, or
// stdin when there is none. When hexMode is set, the bytes are decoded
// from hex text.
func readInput(args []string, hexMode bool, stdin io.Reader) ([]byte, error) {
	if len(args) > 1 {
		return nil, cli.Validation("expected at most one input file, got %d arguments", len(args))
	}

	var data []byte
	var err error
	if source := inputSource(args); source == "stdin" {
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, cli.Internal("read stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(source)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("input file %s does not exist", source)
		}
		if err != nil {
			return nil, cli.Internal("read %s: %w", source, err)
		}
	}

	if hexMode {
		decoded, err := decodeHexInput(data)
		if err != nil {
			return nil, cli.Validation("%w", err)
		}
		data = decoded
	}
	if len(data) == 0 {
		return nil, cli.Validation("empty input: expected document data")
	}
	return data, nil
}

// decodeHexInput strips whitespace from hex-encoded input and decodes
// it to binary bytes. Whitespace between hex digit pairs is allowed
// (e.g., "05 00 00 00 00" or "0500000000").
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}
