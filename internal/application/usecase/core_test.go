package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/internal/testkit/memstore"
)

type coreFixture struct {
	svc           *usecase.CoreService
	users         *memstore.Store[entity.User]
	companies     *memstore.Store[entity.Company]
	customers     *memstore.Store[entity.Customer]
	interactions  *memstore.Store[entity.Interaction]
	tasks         *memstore.Store[entity.Task]
	notifications *memstore.Store[entity.Notification]
}

func overdueTask(t *entity.Task, args map[string]any) bool {
	now, _ := args["now"].(time.Time)
	return t.DueDate != nil && t.DueDate.Before(now) &&
		t.Status != entity.TaskCompleted && t.Status != entity.TaskCancelled
}

func newCore() *coreFixture {
	f := &coreFixture{
		users: memstore.New[entity.User]("core.users").WithScope("active", func(u *entity.User, _ map[string]any) bool {
			return u.IsActive
		}).WithUnique(func(a, b *entity.User) bool { return a.Email == b.Email }),
		companies: memstore.New[entity.Company]("core.companies").WithScope("active", func(c *entity.Company, _ map[string]any) bool {
			return c.IsActive
		}),
		customers: memstore.New[entity.Customer]("core.customers").WithScope("active", func(c *entity.Customer, _ map[string]any) bool {
			return c.IsActive
		}),
		interactions:  memstore.New[entity.Interaction]("core.interactions"),
		tasks:         memstore.New[entity.Task]("core.tasks").WithScope("overdue", overdueTask),
		notifications: memstore.New[entity.Notification]("core.notifications"),
	}
	f.svc = usecase.NewCoreService(usecase.CoreStores{
		Users:         f.users,
		Companies:     f.companies,
		Customers:     f.customers,
		Interactions:  f.interactions,
		Tasks:         f.tasks,
		Notifications: f.notifications,
	},
		memstore.Notifications{Store: f.notifications},
		memstore.NewAnalytics(f.users, f.companies, f.customers, f.tasks),
		nil,
	)
	return f
}

func strPtr(s string) *string { return &s }

func TestCore_CrearUsuarioHasheaPassword(t *testing.T) {
	f := newCore()
	ctx := context.Background()

	u, err := f.svc.Users.Create(ctx, admin, []byte(`{
		"email": "Nuevo@Acme.test",
		"first_name": "Nuevo",
		"password": "secreto-largo"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "nuevo@acme.test", u.Email)
	assert.Equal(t, entity.RoleAgent, u.Role)
	assert.Empty(t, u.Password, "el password nunca se devuelve")

	stored, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto-largo")))
}

func TestCore_CrearUsuarioSinPassword(t *testing.T) {
	f := newCore()
	_, err := f.svc.Users.Create(context.Background(), admin, []byte(`{"email":"a@acme.test","first_name":"A"}`))

	var fe *domain.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "password", fe.Field)
}

func TestCore_ActualizarUsuarioSinPasswordConservaHash(t *testing.T) {
	f := newCore()
	ctx := context.Background()
	u, err := f.svc.Users.Create(ctx, admin, []byte(`{"email":"b@acme.test","first_name":"B","password":"secreto-largo"}`))
	require.NoError(t, err)
	before, _ := f.users.GetByID(ctx, u.ID)

	_, err = f.svc.Users.Update(ctx, admin, u.ID, []byte(`{"department":"Ventas"}`))
	require.NoError(t, err)

	after, _ := f.users.GetByID(ctx, u.ID)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
	assert.Equal(t, "Ventas", after.Department)
}

func TestCore_AgenteNoEditaOtroUsuario(t *testing.T) {
	f := newCore()
	ctx := context.Background()
	f.users.Put(&entity.User{Identity: entity.Identity{ID: "otro"}, Email: "otro@acme.test", FirstName: "Otro", Role: entity.RoleAgent, IsActive: true, PasswordHash: "hash"})

	_, err := f.svc.UpdateUser(ctx, agent, "otro", []byte(`{"role":"admin","password":"clave-nueva-123"}`))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, _ := f.users.GetByID(ctx, "otro")
	assert.Equal(t, entity.RoleAgent, stored.Role)
	assert.Equal(t, "hash", stored.PasswordHash)
}

func TestCore_AgenteEditaSuPerfilSinCambiarRolNiEstado(t *testing.T) {
	f := newCore()
	ctx := context.Background()
	f.users.Put(&entity.User{Identity: entity.Identity{ID: agent.UserID}, Email: "agente@acme.test", FirstName: "Agente", Role: entity.RoleAgent, IsActive: true})

	u, err := f.svc.UpdateUser(ctx, agent, agent.UserID, []byte(`{"role":"admin","is_active":false,"department":"Soporte"}`))
	require.NoError(t, err)

	assert.Equal(t, entity.RoleAgent, u.Role)
	assert.True(t, u.IsActive)
	assert.Equal(t, "Soporte", u.Department)
}

func TestCore_AdminCambiaRol(t *testing.T) {
	f := newCore()
	f.users.Put(&entity.User{Identity: entity.Identity{ID: "otro"}, Email: "otro@acme.test", FirstName: "Otro", Role: entity.RoleAgent, IsActive: true})

	u, err := f.svc.UpdateUser(context.Background(), admin, "otro", []byte(`{"role":"manager"}`))
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, u.Role)
}

func TestCore_EmailDeUsuarioDuplicado(t *testing.T) {
	f := newCore()
	ctx := context.Background()

	_, err := f.svc.Users.Create(ctx, admin, []byte(`{"email":"eva@acme.test","first_name":"Eva","password":"secreto-largo"}`))
	require.NoError(t, err)
	_, err = f.svc.Users.Create(ctx, admin, []byte(`{"email":" EVA@acme.test","first_name":"Otra","password":"secreto-largo"}`))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 1, f.users.Len())
}

func TestCore_Me(t *testing.T) {
	f := newCore()
	f.users.Put(&entity.User{Identity: entity.Identity{ID: agent.UserID}, Email: "agente@acme.test", FirstName: "Agente", Role: entity.RoleAgent, IsActive: true})

	me, err := f.svc.Me(context.Background(), agent)
	require.NoError(t, err)
	assert.Equal(t, "agente@acme.test", me.Email)
}

func TestCore_DepartamentosDistintosOrdenados(t *testing.T) {
	f := newCore()
	for i, dep := range []string{"Ventas", "Soporte", "", "Ventas"} {
		f.users.Put(&entity.User{Identity: entity.Identity{ID: string(rune('a' + i))}, Department: dep, IsActive: true})
	}

	deps, err := f.svc.Departments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Soporte", "Ventas"}, deps)
}

func TestCore_DepartamentosSinUsuarios(t *testing.T) {
	deps, err := newCore().svc.Departments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, deps)
	assert.Empty(t, deps)
}

func TestCore_ClientesDeEmpresa(t *testing.T) {
	f := newCore()
	ctx := context.Background()
	f.companies.Put(&entity.Company{Identity: entity.Identity{ID: "acme"}, Name: "Acme", IsActive: true})
	f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c1"}, FirstName: "Ana", CompanyID: strPtr("acme"), IsActive: true})
	f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c2"}, FirstName: "Luis", CompanyID: strPtr("otra"), IsActive: true})
	f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c3"}, FirstName: "Eva", IsActive: true})

	page, err := f.svc.CompanyCustomers(ctx, agent, "acme", repository.ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c1", page.Items[0].ID)

	_, err = f.svc.CompanyCustomers(ctx, agent, "fantasma", repository.ListQuery{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCore_ConteoPorEstado(t *testing.T) {
	f := newCore()
	for i, st := range []string{entity.CustomerLead, entity.CustomerActive, entity.CustomerLead} {
		f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: string(rune('a' + i))}, Status: st, IsActive: true})
	}

	counts, err := f.svc.StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dto.StatusCountDTO{
		{Status: entity.CustomerActive, Count: 1},
		{Status: entity.CustomerLead, Count: 2},
	}, counts)
}

func TestCore_InactivosNoSeListanNiSeEncuentran(t *testing.T) {
	f := newCore()
	ctx := context.Background()
	f.users.Put(&entity.User{Identity: entity.Identity{ID: "activo"}, Email: "a@acme.test", Department: "Ventas", IsActive: true})
	f.users.Put(&entity.User{Identity: entity.Identity{ID: "baja"}, Email: "b@acme.test", Department: "Legal"})
	f.companies.Put(&entity.Company{Identity: entity.Identity{ID: "acme"}, Name: "Acme", Industry: "Retail", IsActive: true})
	f.companies.Put(&entity.Company{Identity: entity.Identity{ID: "cerrada"}, Name: "Cerrada", Industry: "Minería"})
	f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c1"}, FirstName: "Ana", Status: entity.CustomerLead, IsActive: true})
	f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c2"}, FirstName: "Luis", Status: entity.CustomerInactive})

	users, err := f.svc.Users.List(ctx, admin, repository.ListQuery{})
	require.NoError(t, err)
	require.Len(t, users.Items, 1)
	assert.Equal(t, "activo", users.Items[0].ID)
	assert.Equal(t, 1, users.Page.Total)

	companies, err := f.svc.Companies.List(ctx, agent, repository.ListQuery{})
	require.NoError(t, err)
	require.Len(t, companies.Items, 1)
	assert.Equal(t, "acme", companies.Items[0].ID)

	customers, err := f.svc.Customers.List(ctx, agent, repository.ListQuery{})
	require.NoError(t, err)
	require.Len(t, customers.Items, 1)
	assert.Equal(t, "c1", customers.Items[0].ID)

	_, err = f.svc.Users.Get(ctx, admin, "baja")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.Companies.Get(ctx, agent, "cerrada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.Customers.Update(ctx, agent, "c2", []byte(`{"first_name":"Otro"}`))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.Timeline(ctx, agent, "c2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	deps, err := f.svc.Departments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ventas"}, deps)

	industries, err := f.svc.Industries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Retail"}, industries)

	counts, err := f.svc.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dto.StatusCountDTO{{Status: entity.CustomerLead, Count: 1}}, counts)
}

func TestCore_TimelineMezclaYOrdena(t *testing.T) {
	f := newCore()
	ctx := context.Background()
	f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c1"}, FirstName: "Ana", IsActive: true})

	day := func(d int) time.Time { return time.Date(2025, 1, d, 10, 0, 0, 0, time.UTC) }
	f.interactions.Put(&entity.Interaction{Identity: entity.Identity{ID: "i1"}, CustomerID: "c1", Subject: "Llamada", Date: day(1)})
	f.interactions.Put(&entity.Interaction{Identity: entity.Identity{ID: "i2"}, CustomerID: "c1", Type: "meeting", Subject: "Reunión", UserName: "Laura Gómez", Date: day(5)})
	f.interactions.Put(&entity.Interaction{Identity: entity.Identity{ID: "i3"}, CustomerID: "otro", Subject: "Ajena", Date: day(9)})
	f.tasks.Put(&entity.Task{Identity: entity.Identity{ID: "t1"}, CustomerID: strPtr("c1"), Title: "Enviar oferta", Priority: "high", Status: entity.TaskPending, AssignedToName: "Luis Gil", CreatedAt: day(3)})

	items, err := f.svc.Timeline(ctx, agent, "c1")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "i2", items[0].ID)
	assert.Equal(t, "meeting", items[0].InteractionType)
	assert.Equal(t, "Laura Gómez", items[0].User)
	assert.Equal(t, "t1", items[1].ID)
	assert.Equal(t, "task", items[1].Kind)
	assert.Equal(t, entity.TaskPending, items[1].Status)
	assert.Equal(t, "high", items[1].Priority)
	assert.Equal(t, "Luis Gil", items[1].User)
	assert.Equal(t, "i1", items[2].ID)
	assert.Equal(t, "interaction", items[2].Kind)
}

func TestCore_TimelineClienteInexistente(t *testing.T) {
	_, err := newCore().svc.Timeline(context.Background(), agent, "nadie")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCore_TareasVencidas(t *testing.T) {
	f := newCore()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	f.svc.Tasks.WithClock(fixedClock(now))
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	f.tasks.Put(&entity.Task{Identity: entity.Identity{ID: "vencida"}, Title: "a", Status: entity.TaskPending, DueDate: &past})
	f.tasks.Put(&entity.Task{Identity: entity.Identity{ID: "completada"}, Title: "b", Status: entity.TaskCompleted, DueDate: &past})
	f.tasks.Put(&entity.Task{Identity: entity.Identity{ID: "cancelada"}, Title: "c", Status: entity.TaskCancelled, DueDate: &past})
	f.tasks.Put(&entity.Task{Identity: entity.Identity{ID: "futura"}, Title: "d", Status: entity.TaskInProgress, DueDate: &future})
	f.tasks.Put(&entity.Task{Identity: entity.Identity{ID: "sin-fecha"}, Title: "e", Status: entity.TaskPending})

	page, err := f.svc.OverdueTasks(context.Background(), agent, repository.ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "vencida", page.Items[0].ID)
}

func TestCore_CompletarTareaConservaPrimeraFecha(t *testing.T) {
	f := newCore()
	ctx := context.Background()
	first := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	f.svc.Tasks.WithClock(fixedClock(first))
	f.tasks.Put(&entity.Task{Identity: entity.Identity{ID: "t1"}, Title: "Cerrar", Status: entity.TaskPending, Priority: "low"})

	task, err := f.svc.CompleteTask(ctx, agent, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, entity.TaskCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)

	f.svc.Tasks.WithClock(fixedClock(first.Add(time.Hour)))
	_, err = f.svc.CompleteTask(ctx, agent, "t1")
	require.NoError(t, err)

	stored, _ := f.tasks.GetByID(ctx, "t1")
	assert.Equal(t, entity.TaskCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, first, *stored.CompletedAt)
}

func TestCore_NotificacionesSoloDelUsuario(t *testing.T) {
	f := newCore()
	ctx := context.Background()
	f.notifications.Put(&entity.Notification{Identity: entity.Identity{ID: "n1"}, UserID: agent.UserID, Type: "reminder", Title: "Mía"})
	f.notifications.Put(&entity.Notification{Identity: entity.Identity{ID: "n2"}, UserID: admin.UserID, Type: "reminder", Title: "Ajena"})

	page, err := f.svc.Notifications.List(ctx, agent, repository.ListQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "n1", page.Items[0].ID)

	_, err = f.svc.Notifications.Get(ctx, agent, "n2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.MarkRead(ctx, agent, "n2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.Notifications.Delete(ctx, agent, "n2"), domain.ErrNotFound)
}

func TestCore_NotificacionSeAsignaAlUsuarioQueLlama(t *testing.T) {
	f := newCore()
	ctx := context.Background()

	n, err := f.svc.Notifications.Create(ctx, agent, []byte(`{"user":"user-admin","type":"reminder","title":"Intento"}`))
	require.NoError(t, err)
	assert.Equal(t, agent.UserID, n.UserID)

	_, err = f.svc.Notifications.Update(ctx, agent, n.ID, []byte(`{"user":"user-admin"}`))
	require.NoError(t, err)
	stored, _ := f.notifications.GetByID(ctx, n.ID)
	assert.Equal(t, agent.UserID, stored.UserID)

	sent, err := f.svc.Notifications.Create(ctx, admin, []byte(`{"user":"user-agent","type":"system_alert","title":"Aviso"}`))
	require.NoError(t, err)
	assert.Equal(t, agent.UserID, sent.UserID, "un admin puede notificar a otro usuario")
}

func TestCore_MarcarLeidaDevuelveLaNotificacion(t *testing.T) {
	f := newCore()
	f.notifications.Put(&entity.Notification{Identity: entity.Identity{ID: "n1"}, UserID: agent.UserID, Type: "reminder", Title: "Mía"})

	n, err := f.svc.MarkRead(context.Background(), agent, "n1")
	require.NoError(t, err)
	assert.Equal(t, "n1", n.ID)
	assert.True(t, n.IsRead)
}

func TestCore_MarcarTodasLeidas(t *testing.T) {
	f := newCore()
	ctx := context.Background()
	f.notifications.Put(&entity.Notification{Identity: entity.Identity{ID: "n1"}, UserID: agent.UserID, Type: "reminder", Title: "a"})
	f.notifications.Put(&entity.Notification{Identity: entity.Identity{ID: "n2"}, UserID: agent.UserID, Type: "reminder", Title: "b", IsRead: true})
	f.notifications.Put(&entity.Notification{Identity: entity.Identity{ID: "n3"}, UserID: admin.UserID, Type: "reminder", Title: "c"})

	res, err := f.svc.MarkAllRead(ctx, agent)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Updated)

	other, _ := f.notifications.GetByID(ctx, "n3")
	assert.False(t, other.IsRead, "las notificaciones de otros usuarios no cambian")
}
