package catalog

import "embed"

// dataFS embeds the catalog JSON files at build time.
//
//go:embed data/*.json
var dataFS embed.FS
