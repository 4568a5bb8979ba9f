package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/internal/testkit/memstore"
	"github.com/jhoicas/intellicx-crm/pkg/logger"
)

const seedYAML = `
modules:
  ai: false
users:
  - ref: agente
    email: agente@intellicx.test
    password: clave-segura-123
    first_name: Laura
companies:
  - ref: acme
    name: Acme
customers:
  - ref: ana
    first_name: Ana
    last_name: Paz
    email: ana@acme.test
    company: $acme
    assigned_to: $agente
tasks:
  - title: Llamar a Ana
    customer: $ana
pipelines:
  - name: Ventas directas
    is_default: true
    stages: [prospecting, proposal, closed_won]
`

type seedFixture struct {
	seeder    *Seeder
	modules   *memstore.Modules
	users     *memstore.Store[entity.User]
	customers *memstore.Store[entity.Customer]
	tasks     *memstore.Store[entity.Task]
	pipelines *memstore.Store[entity.SalesPipeline]
}

func newSeedFixture() *seedFixture {
	f := &seedFixture{
		modules:   memstore.NewModules(),
		users:     memstore.New[entity.User]("core.users"),
		customers: memstore.New[entity.Customer]("core.customers"),
		tasks:     memstore.New[entity.Task]("core.tasks"),
		pipelines: memstore.New[entity.SalesPipeline]("sales.pipelines"),
	}
	companies := memstore.New[entity.Company]("core.companies")
	notifications := memstore.New[entity.Notification]("core.notifications")
	core := usecase.NewCoreService(usecase.CoreStores{
		Users:         f.users,
		Companies:     companies,
		Customers:     f.customers,
		Tasks:         f.tasks,
		Notifications: notifications,
	}, memstore.Notifications{Store: notifications}, memstore.NewAnalytics(), nil)
	sales := usecase.NewSalesService(usecase.SalesStores{Pipelines: f.pipelines}, nil, nil)
	f.seeder = NewSeeder(core, sales, usecase.NewModuleService(f.modules), logger.Nop())
	return f
}

var seedCaller = usecase.Caller{Role: entity.RoleAdmin}

func TestSeed_CreaRegistrosYResuelveReferencias(t *testing.T) {
	f := newSeedFixture()
	file, err := parseSeed([]byte(seedYAML))
	require.NoError(t, err)

	n, err := f.seeder.Run(context.Background(), seedCaller, file)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.False(t, f.modules.Enabled["ai"])

	users, _, _ := f.users.List(context.Background(), repository.ListQuery{})
	require.Len(t, users, 1)
	assert.NotEmpty(t, users[0].PasswordHash)

	customers, _, _ := f.customers.List(context.Background(), repository.ListQuery{})
	require.Len(t, customers, 1)
	require.NotNil(t, customers[0].AssignedTo)
	assert.Equal(t, users[0].ID, *customers[0].AssignedTo)
	require.NotNil(t, customers[0].CompanyID)

	tasks, _, _ := f.tasks.List(context.Background(), repository.ListQuery{})
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].CustomerID)
	assert.Equal(t, customers[0].ID, *tasks[0].CustomerID)

	pipelines, _, _ := f.pipelines.List(context.Background(), repository.ListQuery{})
	require.Len(t, pipelines, 1)
	assert.True(t, pipelines[0].IsDefault)
	assert.Len(t, pipelines[0].Stages, 3)
}

func TestSeed_ReferenciaNoDeclarada(t *testing.T) {
	f := newSeedFixture()
	file, err := parseSeed([]byte("customers:\n  - first_name: Ana\n    last_name: Paz\n    company: $fantasma\n"))
	require.NoError(t, err)

	_, err = f.seeder.Run(context.Background(), seedCaller, file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$fantasma")
	assert.Equal(t, 0, f.customers.Len())
}

func TestSeed_RegistroInvalidoDetieneLaCarga(t *testing.T) {
	f := newSeedFixture()
	file, err := parseSeed([]byte("users:\n  - email: sin-password@intellicx.test\n    first_name: Eva\n"))
	require.NoError(t, err)

	n, err := f.seeder.Run(context.Background(), seedCaller, file)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, n)
}

func TestSeed_YAMLInvalido(t *testing.T) {
	_, err := parseSeed([]byte("users: [:"))
	assert.Error(t, err)
}
