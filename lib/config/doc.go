// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the bindoc
// tool.
//
// Configuration is loaded from a single file specified by either the
// BINDOC_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search; with neither set, [Resolve] returns [Default]. No
// environment variable overrides an individual setting.
//
// The file has three sections:
//
//	codec:
//	  max_depth: 100            # nesting limit for every conversion
//	  max_document_size: 16777216  # bytes; larger documents are rejected
//	output:
//	  format: relaxed           # or canonical (Extended JSON mode)
//	  indent: "  "              # empty for compact output
//	  color: auto               # auto, always or never
//	hash:
//	  key: ""                   # 64 hex digits for keyed BLAKE3
//	  key_file: ""              # or a file holding them
//
// Variable expansion is performed on hash.key_file after loading:
// ${HOME} and ${VAR:-default} patterns are expanded.
//
// Key exports:
//
//   - [Config] -- master struct with Codec, Output and Hash sections
//   - [Default] -- returns a Config with the built-in defaults
//   - [Load], [LoadFile] and [Resolve] -- the entry points for loading
//
// This package depends on lib/binhash.
package config
