// Package migrations embeds the goose SQL migrations for the chat schema.
// The statements stick to the SQL subset shared by PostgreSQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
