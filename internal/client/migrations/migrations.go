// Package migrations embeds the CLI's local SQL migrations for goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
