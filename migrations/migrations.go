// Package migrations embeds the console's SQL schema migrations for the
// iofs migrate source.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
