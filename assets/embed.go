// Package assets embeds the SQL migrations applied at startup.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var FS embed.FS

// Migrations returns the migration directory as its own root, so file names
// are the bare "NNN_name.sql" recorded in _migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// sql/ is embedded at build time; Sub only fails on a malformed path
		panic(err)
	}
	return sub
}
