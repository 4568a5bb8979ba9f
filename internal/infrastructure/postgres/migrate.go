package postgres

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/jhoicas/intellicx-crm/pkg/logger"
)

const (
	migrationTable   = "schema_migrations"
	migrationDialect = "postgres"
)

// MigrationSource lee los .sql de fsys con secciones "-- +migrate Up" / "-- +migrate Down".
func MigrationSource(fsys embed.FS) migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{FileSystem: fsys, Root: "."}
}

// Migrate aplica en orden las migraciones de fsys que aún no figuran en schema_migrations.
// Cada archivo corre en su propia transacción. Devuelve cuántas se aplicaron.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys embed.FS, log *logger.Logger) (int, error) {
	// Cerrar db no cierra el pool.
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	set := migrate.MigrationSet{TableName: migrationTable}
	src := MigrationSource(fsys)

	pending, _, err := set.PlanMigration(db, migrationDialect, src, migrate.Up, 0)
	if err != nil {
		return 0, fmt.Errorf("plan migrations: %w", err)
	}
	for _, m := range pending {
		log.Info().Str("migration", m.Id).Msg("Migración pendiente")
	}

	applied, err := set.ExecContext(ctx, db, migrationDialect, src, migrate.Up)
	if err != nil {
		return applied, fmt.Errorf("exec migrations: %w", err)
	}
	return applied, nil
}
