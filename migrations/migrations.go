// Package migrations embeds the SQL schema so the binary can migrate the
// database it is pointed at without shipping loose files.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
