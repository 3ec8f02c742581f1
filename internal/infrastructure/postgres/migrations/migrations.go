// Package migrations embebe los scripts SQL del esquema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
