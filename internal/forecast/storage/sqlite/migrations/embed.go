package migrations

import "embed"

// FS contains embedded SQLite migrations for forecast storage.
//
//go:embed *.sql
var FS embed.FS
