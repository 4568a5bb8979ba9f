// seed carga datos iniciales (usuarios, empresas, clientes, tareas, pipelines de venta y estado de módulos) desde un YAML.
//
// Uso: go run ./cmd/seed [ruta/seed.yaml]
// Por defecto lee config/seed.yaml.
package main

import (
	"context"
	"os"

	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/infrastructure/postgres"
	"github.com/jhoicas/intellicx-crm/pkg/config"
	"github.com/jhoicas/intellicx-crm/pkg/logger"
)

func main() {
	path := "config/seed.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("leer seed")
	}
	f, err := parseSeed(raw)
	if err != nil {
		log.Fatal().Err(err).Msg("seed inválido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	catalog := postgres.NewCatalog()
	repos, err := postgres.NewRepositories(pool, catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("registro de tablas")
	}
	core := usecase.NewCoreService(usecase.CoreStores{
		Users:         repos.Users,
		Companies:     repos.Companies,
		Customers:     repos.Customers,
		Interactions:  repos.Interactions,
		Tasks:         repos.Tasks,
		Notifications: repos.Notifications,
	}, postgres.NewNotificationRepository(pool), postgres.NewAnalyticsRepository(pool, catalog), nil)

	sales := usecase.NewSalesService(usecase.SalesStores{Pipelines: repos.Pipelines}, nil, nil)

	seeder := NewSeeder(core, sales, usecase.NewModuleService(postgres.NewModuleRepository(pool)), log)
	n, err := seeder.Run(ctx, usecase.Caller{Role: entity.RoleAdmin}, f)
	if err != nil {
		log.Fatal().Err(err).Int("created", n).Msg("seed")
	}
	log.Info().Int("created", n).Str("path", path).Msg("seed aplicado")
}
