// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import "embed"

// FS holds every *.sql migration in golang-migrate file naming.
//
//go:embed *.sql
var FS embed.FS
