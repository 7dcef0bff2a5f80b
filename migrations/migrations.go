// Package migrations embeds the versioned schema files so the binary can
// migrate without shipping loose SQL alongside it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
