package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/internal/infrastructure/postgres/migrations"
)

func TestNewRepositories_RegistraTodasLasTablas(t *testing.T) {
	catalog := NewCatalog()

	repos, err := NewRepositories(nil, catalog)
	require.NoError(t, err)
	require.NotNil(t, repos.Tickets)
	require.NotNil(t, repos.ModelPerformance)

	resources := catalog.Resources()
	assert.Contains(t, resources, "core.customers")
	assert.Contains(t, resources, "support.tickets")
	assert.Contains(t, resources, "ai.predictive-scores")
	assert.IsNonDecreasing(t, resources)
}

func TestRegister_RecursoDuplicado(t *testing.T) {
	catalog := NewCatalog()
	_, err := Register(catalog, nil, customerTable())
	require.NoError(t, err)

	_, err = Register(catalog, nil, customerTable())
	assert.Error(t, err)
}

func customerStore(t *testing.T) *Store[entity.Customer] {
	t.Helper()
	st, err := NewStore(nil, customerTable())
	require.NoError(t, err)
	return st
}

func TestResolve_ProyeccionesNoSeEscriben(t *testing.T) {
	st := customerStore(t)

	for _, c := range st.meta.writable {
		assert.NotEqual(t, "full_name", c.name)
		assert.NotEqual(t, "company_name", c.name)
	}
	for _, c := range st.meta.updatable {
		assert.NotEqual(t, "id", c.name)
		assert.NotEqual(t, "created_at", c.name)
	}
	assert.Contains(t, st.meta.selectList, "AS full_name")
}

func TestGetByID_IDNoUUIDNoExiste(t *testing.T) {
	st := customerStore(t)

	rec, err := st.GetByID(context.Background(), "no-es-uuid")
	require.NoError(t, err)
	assert.Nil(t, rec)

	assert.ErrorIs(t, st.Delete(context.Background(), "123"), domain.ErrNotFound)
}

func TestWhere_FiltrosBusquedaYScope(t *testing.T) {
	st := customerStore(t)

	where, args, err := st.where(repository.ListQuery{
		Filters: map[string]string{"status": "lead", "desconocido": "x", "company": "co-1"},
		Search:  "50%_off",
		Scope:   "active",
	})
	require.NoError(t, err)

	assert.Contains(t, where, "t.company_id::text = @f0")
	assert.Contains(t, where, "t.status::text = @f2")
	assert.NotContains(t, where, "desconocido")
	assert.Contains(t, where, "t.first_name ILIKE @search")
	assert.Contains(t, where, "(t.is_active)")
	assert.Equal(t, "co-1", args["f0"])
	assert.Equal(t, "lead", args["f2"])
	assert.Equal(t, `%50\%\_off%`, args["search"])
}

func TestWhere_SinCondiciones(t *testing.T) {
	where, args, err := customerStore(t).where(repository.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestWhere_ScopeDesconocido(t *testing.T) {
	_, _, err := customerStore(t).where(repository.ListQuery{Scope: "vip"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderBy(t *testing.T) {
	st := customerStore(t)

	got, err := st.orderBy("")
	require.NoError(t, err)
	assert.Equal(t, "t.created_at DESC NULLS LAST, t.id", got)

	got, err = st.orderBy("company, -last_name")
	require.NoError(t, err)
	assert.Equal(t, "co.name ASC NULLS LAST, t.last_name DESC NULLS LAST, t.id", got)

	_, err = st.orderBy("password_hash")
	var fe *domain.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "ordering", fe.Field)
}

func TestCatalogLookup(t *testing.T) {
	catalog := NewCatalog()
	_, err := NewRepositories(nil, catalog)
	require.NoError(t, err)

	_, where, err := catalog.lookup("core.customers", "status", "active")
	require.NoError(t, err)
	assert.Equal(t, "WHERE t.is_active", where)

	_, _, err = catalog.lookup("core.customers", "no_existe", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = catalog.lookup("core.inexistente", "", "")
	assert.Error(t, err)

	_, _, err = catalog.lookup("core.tasks", "", "overdue")
	assert.Error(t, err, "los scopes con argumentos no sirven para agregados")
}

func TestMigrationSource_LeeLasMigracionesEmbebidas(t *testing.T) {
	found, err := MigrationSource(migrations.FS).FindMigrations()
	require.NoError(t, err)
	require.Len(t, found, 11)

	assert.Equal(t, "0001_core.sql", found[0].Id)
	assert.Equal(t, "0011_ai.sql", found[len(found)-1].Id)
	for _, m := range found {
		assert.NotEmpty(t, m.Up, m.Id)
		assert.NotEmpty(t, m.Down, m.Id)
	}
}
