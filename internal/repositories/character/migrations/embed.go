// Package migrations holds the SQLite schema for character storage.
package migrations

import "embed"

// FS contains embedded SQLite migrations for character storage.
//
//go:embed *.sql
var FS embed.FS
