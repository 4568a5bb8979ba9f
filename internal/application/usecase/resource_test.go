package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/internal/testkit/memstore"
)

var (
	agent = usecase.Caller{UserID: "user-agent", Role: entity.RoleAgent}
	admin = usecase.Caller{UserID: "user-admin", Role: entity.RoleAdmin}
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTasks() (*usecase.Resource[entity.Task, *entity.Task], *memstore.Store[entity.Task]) {
	store := memstore.New[entity.Task]("core.tasks")
	res := usecase.NewResource[entity.Task]("core.tasks", store, nil, usecase.Options{
		ReadOnly: []string{"completed_at", "assigned_to_name"},
	})
	return res, store
}

func TestResource_CreateAplicaDefaultsYAutor(t *testing.T) {
	res, store := newTasks()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	res.WithClock(fixedClock(now))

	task, err := res.Create(context.Background(), agent, []byte(`{"title":"Llamar al cliente"}`))
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, entity.TaskPending, task.Status)
	assert.Equal(t, "medium", task.Priority)
	require.NotNil(t, task.CreatedBy)
	assert.Equal(t, agent.UserID, *task.CreatedBy)
	assert.Equal(t, now, task.CreatedAt)
	assert.Equal(t, now, task.UpdatedAt)
	assert.Equal(t, 1, store.Len())
}

func TestResource_CreateIgnoraCamposDeSoloLectura(t *testing.T) {
	res, _ := newTasks()

	task, err := res.Create(context.Background(), agent, []byte(`{
		"id": "forzado",
		"title": "Revisar contrato",
		"completed_at": "2020-01-01T00:00:00Z",
		"assigned_to_name": "Otro"
	}`))
	require.NoError(t, err)

	assert.NotEqual(t, "forzado", task.ID)
	assert.Nil(t, task.CompletedAt)
	assert.Empty(t, task.AssignedToName)
}

func TestResource_CreateValidaCampos(t *testing.T) {
	res, store := newTasks()

	_, err := res.Create(context.Background(), agent, []byte(`{"title":"x","priority":"altisima"}`))

	var fe *domain.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "priority", fe.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, store.Len())
}

func TestResource_CreateCuerpoInvalido(t *testing.T) {
	res, _ := newTasks()

	_, err := res.Create(context.Background(), agent, []byte(`["no","es","objeto"]`))
	assert.ErrorIs(t, err, usecase.ErrInvalidBody)

	_, err = res.Create(context.Background(), agent, []byte(`{"title": 42}`))
	assert.ErrorIs(t, err, usecase.ErrInvalidBody)
}

func TestResource_UpdateParcialConservaCampos(t *testing.T) {
	res, _ := newTasks()
	ctx := context.Background()
	created, err := res.Create(ctx, agent, []byte(`{"title":"Enviar propuesta","priority":"high","description":"v1"}`))
	require.NoError(t, err)

	updated, err := res.Update(ctx, agent, created.ID, []byte(`{"description":"v2"}`))
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Enviar propuesta", updated.Title)
	assert.Equal(t, "high", updated.Priority)
	assert.Equal(t, "v2", updated.Description)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestResource_UpdateCompletadaFijaCompletedAt(t *testing.T) {
	res, _ := newTasks()
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	res.WithClock(fixedClock(now))
	created, err := res.Create(ctx, agent, []byte(`{"title":"Cerrar ticket"}`))
	require.NoError(t, err)

	done, err := res.Update(ctx, agent, created.ID, []byte(`{"status":"completed"}`))
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, now, *done.CompletedAt)

	reopened, err := res.Update(ctx, agent, created.ID, []byte(`{"status":"in_progress"}`))
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
}

func TestResource_NoEncontrado(t *testing.T) {
	res, _ := newTasks()
	ctx := context.Background()

	_, err := res.Get(ctx, agent, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = res.Update(ctx, agent, "no-existe", []byte(`{}`))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, res.Delete(ctx, agent, "no-existe"), domain.ErrNotFound)
}

func TestResource_DeleteSinID(t *testing.T) {
	res, _ := newTasks()
	err := res.Delete(context.Background(), agent, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResource_ListFiltraBuscaYOrdena(t *testing.T) {
	res, _ := newTasks()
	ctx := context.Background()
	for _, body := range []string{
		`{"title":"Llamar a Ana","priority":"low"}`,
		`{"title":"Llamar a Bruno","priority":"high"}`,
		`{"title":"Enviar correo","priority":"high"}`,
	} {
		_, err := res.Create(ctx, agent, []byte(body))
		require.NoError(t, err)
	}

	page, err := res.List(ctx, agent, repository.ListQuery{Filters: map[string]string{"priority": "high"}})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Total)

	page, err = res.List(ctx, agent, repository.ListQuery{Search: "llamar", Ordering: "-title"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Llamar a Bruno", page.Items[0].Title)
	assert.Equal(t, "Llamar a Ana", page.Items[1].Title)

	page, err = res.List(ctx, agent, repository.ListQuery{Ordering: "title", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Llamar a Ana", page.Items[0].Title)
	assert.Equal(t, 3, page.Page.Total)
}

func TestResource_ListSinResultadosDevuelveSliceVacio(t *testing.T) {
	res, _ := newTasks()
	page, err := res.List(context.Background(), agent, repository.ListQuery{})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestResource_ListOrdenNoPermitido(t *testing.T) {
	res, _ := newTasks()
	_, err := res.List(context.Background(), agent, repository.ListQuery{Ordering: "inexistente"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResource_ActionNoPersisteSiFalla(t *testing.T) {
	res, store := newTasks()
	ctx := context.Background()
	created, err := res.Create(ctx, agent, []byte(`{"title":"Tarea"}`))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = res.Action(ctx, agent, created.ID, "probar", func(tk *entity.Task, _ time.Time) error {
		tk.Title = "cambiado"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tarea", stored.Title)
}

func TestResource_ErrorDeStorePropaga(t *testing.T) {
	res, store := newTasks()
	store.Err = errors.New("conexión rechazada")

	_, err := res.List(context.Background(), agent, repository.ListQuery{})
	assert.EqualError(t, err, "conexión rechazada")
}

func TestResource_DuplicadoEnStore(t *testing.T) {
	store := memstore.New[entity.Customer]("core.customers").WithUnique(func(a, b *entity.Customer) bool {
		return a.Email == b.Email
	})
	res := usecase.NewResource[entity.Customer]("core.customers", store, nil, usecase.Options{})
	ctx := context.Background()

	_, err := res.Create(ctx, agent, []byte(`{"first_name":"Ana","last_name":"Paz","email":"ana@acme.test"}`))
	require.NoError(t, err)
	_, err = res.Create(ctx, agent, []byte(`{"first_name":"Ana","last_name":"Otra","email":"ANA@acme.test"}`))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
