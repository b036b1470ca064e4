// Package migrations embeds the schema migration files so the migrate CLI
// and tests run without a checkout of the source tree.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
