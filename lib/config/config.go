// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/bindoc/lib/binhash"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "BINDOC_CONFIG"

// Format is the Extended JSON output mode.
type Format string

const (
	// Relaxed writes numbers and recent dates as plain JSON.
	Relaxed Format = "relaxed"
	// Canonical wraps every number and date in a type wrapper.
	Canonical Format = "canonical"
)

// ColorMode controls syntax highlighting of JSON output.
type ColorMode string

const (
	// ColorAuto highlights only when stdout is a terminal.
	ColorAuto ColorMode = "auto"
	// ColorAlways highlights unconditionally.
	ColorAlways ColorMode = "always"
	// ColorNever disables highlighting.
	ColorNever ColorMode = "never"
)

// Config is the master configuration for bindoc.
type Config struct {
	// Codec bounds what the encoder and decoder accept.
	Codec CodecConfig `yaml:"codec"`

	// Output configures how decoded documents are printed.
	Output OutputConfig `yaml:"output"`

	// Hash configures the hash command.
	Hash HashConfig `yaml:"hash"`
}

// CodecConfig bounds what the encoder and decoder accept.
type CodecConfig struct {
	// MaxDepth is the nesting limit for documents and arrays.
	// Default: 100
	MaxDepth int `yaml:"max_depth"`

	// MaxDocumentSize is the largest declared document length, in
	// bytes, accepted when reading a document stream.
	// Default: 16777216 (16 MiB)
	MaxDocumentSize int `yaml:"max_document_size"`
}

// OutputConfig configures how decoded documents are printed.
type OutputConfig struct {
	// Format selects relaxed or canonical Extended JSON.
	// Default: relaxed
	Format Format `yaml:"format"`

	// Indent is repeated once per nesting level. Empty means compact
	// output.
	// Default: two spaces
	Indent string `yaml:"indent"`

	// Color controls syntax highlighting.
	// Default: auto
	Color ColorMode `yaml:"color"`
}

// HashConfig configures the hash command. At most one of Key and
// KeyFile may be set; with neither, digests are unkeyed.
type HashConfig struct {
	// Key is a 32-byte BLAKE3 key as 64 hex digits.
	Key string `yaml:"key"`

	// KeyFile is a path to a file holding the key as 64 hex digits.
	// Surrounding whitespace in the file is ignored.
	KeyFile string `yaml:"key_file"`
}

// Default returns the built-in configuration. [LoadFile] starts from
// these values, so a config file only needs the settings it changes.
func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			MaxDepth:        100,
			MaxDocumentSize: 16 * 1024 * 1024,
		},
		Output: OutputConfig{
			Format: Relaxed,
			Indent: "  ",
			Color:  ColorAuto,
		},
	}
}

// Load loads configuration from the file named by BINDOC_CONFIG. It
// fails when the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your bindoc.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path and validates
// it. Keys the file does not mention keep their [Default] values;
// unknown keys are errors.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve picks the configuration for a command invocation: the file
// at flagPath when it is non-empty, otherwise the file named by
// BINDOC_CONFIG when that is set, otherwise [Default].
func Resolve(flagPath string) (*Config, error) {
	if flagPath != "" {
		return LoadFile(flagPath)
	}
	if os.Getenv(EnvironmentVariable) != "" {
		return Load()
	}
	return Default(), nil
}

// loadFile decodes a single configuration file, merging into c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// key file path.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Hash.KeyFile = expandVars(c.Hash.KeyFile, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Codec.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("codec.max_depth must be at least 1, got %d", c.Codec.MaxDepth))
	}
	// The smallest document is five bytes; the length field is an int32.
	if c.Codec.MaxDocumentSize < 5 || c.Codec.MaxDocumentSize > math.MaxInt32 {
		errs = append(errs, fmt.Errorf("codec.max_document_size must be between 5 and %d, got %d",
			math.MaxInt32, c.Codec.MaxDocumentSize))
	}

	if c.Output.Format != Relaxed && c.Output.Format != Canonical {
		errs = append(errs, fmt.Errorf("output.format must be one of: %v", []Format{Relaxed, Canonical}))
	}
	if strings.Trim(c.Output.Indent, " \t") != "" {
		errs = append(errs, fmt.Errorf("output.indent may only contain spaces and tabs, got %q", c.Output.Indent))
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("output.color must be one of: %v", []ColorMode{ColorAuto, ColorAlways, ColorNever}))
	}

	if c.Hash.Key != "" && c.Hash.KeyFile != "" {
		errs = append(errs, fmt.Errorf("hash.key and hash.key_file are mutually exclusive"))
	}
	if c.Hash.Key != "" {
		if _, err := binhash.ParseKey(c.Hash.Key); err != nil {
			errs = append(errs, fmt.Errorf("hash.key: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// HashKey returns the configured BLAKE3 key, reading hash.key_file if
// that is the source. The boolean is false when no key is configured.
func (c *Config) HashKey() (binhash.Key, bool, error) {
	text := c.Hash.Key
	if c.Hash.KeyFile != "" {
		data, err := os.ReadFile(c.Hash.KeyFile)
		if err != nil {
			return binhash.Key{}, false, fmt.Errorf("reading hash.key_file: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		return binhash.Key{}, false, nil
	}
	key, err := binhash.ParseKey(text)
	if err != nil {
		return binhash.Key{}, false, err
	}
	return key, true, nil
}
