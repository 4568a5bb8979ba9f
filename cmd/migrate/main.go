// migrate aplica con sql-migrate las migraciones SQL embebidas que aún no figuran en schema_migrations.
//
// Uso: go run ./cmd/migrate
package main

import (
	"context"
	"time"

	"github.com/jhoicas/intellicx-crm/internal/infrastructure/postgres"
	"github.com/jhoicas/intellicx-crm/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/intellicx-crm/pkg/config"
	"github.com/jhoicas/intellicx-crm/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool, migrations.FS, log)
	if err != nil {
		log.Fatal().Err(err).Int("applied", applied).Msg("migraciones")
	}
	log.Info().Int("applied", applied).Msg("migraciones al día")
}
