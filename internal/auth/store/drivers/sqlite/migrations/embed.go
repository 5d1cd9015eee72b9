// Package migrations contains the embedded SQL migrations for the SQLite
// driver. Files are applied in lexical order by golang-migrate.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
