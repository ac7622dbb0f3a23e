// Package migrations embeds SQL migration files into the binary so the
// run-history schema can be applied without shipping loose SQL files.
package migrations

import (
	"embed"

	"github.com/authlens/authlens-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "." // files sit at the root of the embedded FS
}
