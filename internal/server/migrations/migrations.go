// Package migrations embeds the goose SQL migrations that are applied
// automatically when the repository manager starts.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
