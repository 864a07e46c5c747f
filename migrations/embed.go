package migrations

import "embed"

// FS holds the goose migrations for the bridge database.
//
//go:embed *.sql
var FS embed.FS

const Dir = "."
