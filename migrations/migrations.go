// Package migrations embeds the SQL schema migrations so they ship inside
// the binary and can be applied with golang-migrate at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
