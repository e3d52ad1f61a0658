// Package migrations embeds the goose-formatted SQL migration files
// alongside the cmd/migrate runner.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
