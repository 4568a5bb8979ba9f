// Package migrations contiene las migraciones SQL del CRM embebidas en el binario.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
