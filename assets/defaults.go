package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration, written to
// ~/.chatcmd/config.yaml on first run.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte
