package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// DefaultCatalogYAML contains the embedded category catalog.
//
//go:embed defaults/catalog.yaml
var DefaultCatalogYAML []byte
