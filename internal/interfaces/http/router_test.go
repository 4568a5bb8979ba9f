package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/intellicx-crm/internal/application/analytics"
	"github.com/jhoicas/intellicx-crm/internal/application/auth"
	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	apphttp "github.com/jhoicas/intellicx-crm/internal/interfaces/http"
	"github.com/jhoicas/intellicx-crm/internal/testkit/memstore"
	pkgjwt "github.com/jhoicas/intellicx-crm/pkg/jwt"
	"github.com/jhoicas/intellicx-crm/pkg/logger"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: router completo sobre stores en memoria
// ──────────────────────────────────────────────────────────────────────────────

type pdfStub struct{}

func (pdfStub) RenderAnalyticsReport(dto.ReportData) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

type routerFixture struct {
	app           *fiber.App
	users         *memstore.Store[entity.User]
	customers     *memstore.Store[entity.Customer]
	tasks         *memstore.Store[entity.Task]
	conversations *memstore.Store[entity.ChatbotConversation]
}

func openTask(t *entity.Task) bool {
	return t.Status == entity.TaskPending || t.Status == entity.TaskInProgress
}

func newRouterFixture() *routerFixture {
	m := metrics.New("http_test")

	users := memstore.New[entity.User]("core.users").WithScope("active", func(u *entity.User, _ map[string]any) bool {
		return u.IsActive
	}).WithUnique(func(a, b *entity.User) bool { return a.Email == b.Email })
	companies := memstore.New[entity.Company]("core.companies").WithScope("active", func(c *entity.Company, _ map[string]any) bool {
		return c.IsActive
	})
	customers := memstore.New[entity.Customer]("core.customers").WithScope("active", func(c *entity.Customer, _ map[string]any) bool {
		return c.IsActive
	}).WithUnique(func(a, b *entity.Customer) bool { return a.Email == b.Email })
	interactions := memstore.New[entity.Interaction]("core.interactions").WithScope("since", func(i *entity.Interaction, args map[string]any) bool {
		since, _ := args["since"].(time.Time)
		return !i.Date.Before(since)
	})
	tasks := memstore.New[entity.Task]("core.tasks").
		WithScope("open", func(t *entity.Task, _ map[string]any) bool { return openTask(t) }).
		WithScope("upcoming", func(t *entity.Task, args map[string]any) bool {
			at, _ := args["now"].(time.Time)
			return openTask(t) && t.DueDate != nil && !t.DueDate.Before(at)
		})
	notifications := memstore.New[entity.Notification]("core.notifications")
	tags := memstore.New[entity.CustomerTag]("customers.tags").WithUnique(func(a, b *entity.CustomerTag) bool {
		return strings.EqualFold(a.Name, b.Name)
	})
	contacts := memstore.New[entity.Contact]("customers.contacts")
	risks := memstore.New[entity.ChurnRisk]("analytics.churn-risks")
	feedback := memstore.New[entity.ProductFeedback]("analytics.product-feedback")
	nps := memstore.New[entity.NPSScore]("surveys.nps-scores")
	chatbots := memstore.New[entity.Chatbot]("ai.chatbots")
	conversations := memstore.New[entity.ChatbotConversation]("ai.conversations")
	messages := memstore.New[entity.ChatbotMessage]("ai.messages")

	analytics := memstore.NewAnalytics(users, companies, customers, tasks, risks, feedback, nps)
	modules := usecase.NewModuleService(memstore.NewModules())

	authUC := auth.NewAuthUseCase(users, memstore.Users{Store: users}, auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: testExpMin,
		Issuer:     testIssuer,
	}, m)
	core := usecase.NewCoreService(usecase.CoreStores{
		Users:         users,
		Companies:     companies,
		Customers:     customers,
		Interactions:  interactions,
		Tasks:         tasks,
		Notifications: notifications,
	}, memstore.Notifications{Store: notifications}, analytics, m)
	analyticsSvc := usecase.NewAnalyticsService(usecase.AnalyticsStores{ChurnRisks: risks, ProductFeedback: feedback}, analytics, m)
	surveys := usecase.NewSurveyService(usecase.SurveyStores{NPSScores: nps}, analytics, m)
	dashboard := appanalytics.NewDashboardUseCase(appanalytics.DashboardStores{
		Customers:    customers,
		Companies:    companies,
		Tasks:        tasks,
		Interactions: interactions,
	})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		Modules:   modules,
		Core:      core,
		Customers: usecase.NewCustomerService(usecase.CustomerStores{Customers: customers, Contacts: contacts, Tags: tags}, m),
		Sales:     usecase.NewSalesService(usecase.SalesStores{}, analytics, m),
		Marketing: usecase.NewMarketingService(usecase.MarketingStores{}, analytics, m),
		Analytics: analyticsSvc,
		Support:   usecase.NewSupportService(usecase.SupportStores{}, analytics, m),
		Surveys:   surveys,
		Employees: usecase.NewEmployeeService(usecase.EmployeeStores{}, analytics, m),
		Knowledge: usecase.NewKnowledgeService(usecase.KnowledgeStores{}, nil, m),
		Workflows: usecase.NewWorkflowService(usecase.WorkflowStores{}, analytics, m),
		AI: usecase.NewAIService(usecase.AIStores{
			Chatbots:      chatbots,
			Conversations: conversations,
			Messages:      messages,
		}, nil, analytics, m),
		Dashboard: dashboard,
		Report: appanalytics.NewReportUseCase(appanalytics.ReportSources{
			Dashboard: dashboard,
			Analytics: analyticsSvc,
			Surveys:   surveys,
		}, pdfStub{}, "Reporte de analítica"),
		Metrics:   m,
		Log:       logger.Nop(),
		JWTSecret: testJWTSecret,
	})

	return &routerFixture{app: app, users: users, customers: customers, tasks: tasks, conversations: conversations}
}

// call lanza la petición con el rol indicado ("" = sin token).
func (f *routerFixture) call(t *testing.T, method, path, role, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if role != "" {
		req.Header.Set(fiber.HeaderAuthorization, tokenForRole(t, role))
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	return decode[dto.ErrorResponse](t, resp).Code
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_SinToken_Retorna401(t *testing.T) {
	f := newRouterFixture()
	resp := f.call(t, http.MethodGet, "/api/customers", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}

func TestRouter_CicloCRUDDeCliente(t *testing.T) {
	f := newRouterFixture()

	resp := f.call(t, http.MethodPost, "/api/customers", "agent",
		`{"first_name":"Ana","last_name":"Paz","email":"ana@acme.test","id":"forzado"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[entity.Customer](t, resp)
	assert.NotEqual(t, "forzado", created.ID, "id es de solo lectura")
	assert.Equal(t, entity.CustomerLead, created.Status)

	resp = f.call(t, http.MethodPatch, "/api/customers/"+created.ID, "agent", `{"status":"customer"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[entity.Customer](t, resp)
	assert.Equal(t, entity.CustomerActive, updated.Status)
	assert.Equal(t, "Ana", updated.FirstName, "PATCH conserva los campos ausentes")

	resp = f.call(t, http.MethodGet, "/api/customers?status=customer", "agent", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.ListResponse[entity.Customer]](t, resp)
	assert.Equal(t, 1, page.Page.Total)

	resp = f.call(t, http.MethodDelete, "/api/customers/"+created.ID, "agent", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.call(t, http.MethodGet, "/api/customers/"+created.ID, "agent", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestRouter_ErroresDeEntrada(t *testing.T) {
	f := newRouterFixture()

	cases := []struct {
		name, method, path, body string
		status                   int
		code                     string
	}{
		{"validación", http.MethodPost, "/api/customers", `{"first_name":"Ana"}`, http.StatusBadRequest, "VALIDATION"},
		{"cuerpo no objeto", http.MethodPost, "/api/customers", `[1,2]`, http.StatusBadRequest, "INVALID_BODY"},
		{"ordering no permitido", http.MethodGet, "/api/customers?ordering=password_hash_x", "", http.StatusBadRequest, "VALIDATION"},
		{"limit no numérico", http.MethodGet, "/api/customers?limit=muchos", "", http.StatusBadRequest, "VALIDATION"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := f.call(t, tc.method, tc.path, "agent", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
		})
	}
}

func TestRouter_DuplicadoRetorna409(t *testing.T) {
	f := newRouterFixture()

	resp := f.call(t, http.MethodPost, "/api/customers/tags", "agent", `{"name":"VIP"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.call(t, http.MethodPost, "/api/customers/tags", "agent", `{"name":"vip"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errorCode(t, resp))
}

func TestRouter_EmailDeClienteDuplicadoRetorna409(t *testing.T) {
	f := newRouterFixture()

	resp := f.call(t, http.MethodPost, "/api/customers", "agent", `{"first_name":"Ana","last_name":"Paz","email":"ana@acme.test"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.call(t, http.MethodPost, "/api/customers", "agent", `{"first_name":"Otra","last_name":"Ana","email":"Ana@Acme.test"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errorCode(t, resp))
	assert.Equal(t, 1, f.customers.Len())
}

func TestRouter_ClienteInactivoNoSeListaNiSeObtiene(t *testing.T) {
	f := newRouterFixture()
	f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c1"}, FirstName: "Ana", Status: entity.CustomerLead, IsActive: true})
	f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c2"}, FirstName: "Luis", Status: entity.CustomerInactive})

	resp := f.call(t, http.MethodGet, "/api/customers", "agent", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.ListResponse[entity.Customer]](t, resp)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c1", page.Items[0].ID)

	resp = f.call(t, http.MethodGet, "/api/customers/c2", "agent", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_CompletarTarea(t *testing.T) {
	f := newRouterFixture()
	f.tasks.Put(&entity.Task{Identity: entity.Identity{ID: "t1"}, Title: "Llamar", Priority: "high", Status: entity.TaskPending})

	resp := f.call(t, http.MethodPost, "/api/tasks/t1/complete", "agent", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	task := decode[entity.Task](t, resp)
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, entity.TaskCompleted, task.Status)

	stored, _ := f.tasks.GetByID(context.Background(), "t1")
	assert.Equal(t, entity.TaskCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)

	resp = f.call(t, http.MethodPost, "/api/tasks/nada/complete", "agent", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Módulos y roles
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ModuloDesactivadoNoAfectaAlCore(t *testing.T) {
	f := newRouterFixture()
	f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c1"}, FirstName: "Ana", LastName: "Paz", Status: entity.CustomerLead, IsActive: true})

	resp := f.call(t, http.MethodGet, "/api/customers/contacts", "agent", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "contacts no debe caer en /api/customers/:id")
	page := decode[dto.ListResponse[entity.Contact]](t, resp)
	assert.Empty(t, page.Items)

	resp = f.call(t, http.MethodPut, "/api/modules/customers", "admin", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.call(t, http.MethodGet, "/api/customers/contacts", "agent", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "MODULE_DISABLED", errorCode(t, resp))

	resp = f.call(t, http.MethodGet, "/api/customers/c1", "agent", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "el core sigue disponible")

	resp = f.call(t, http.MethodGet, "/api/modules", "agent", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mods := decode[[]struct {
		Name    string `json:"name"`
		Enabled bool   `json:"enabled"`
	}](t, resp)
	for _, m := range mods {
		assert.Equal(t, m.Name != "customers", m.Enabled, m.Name)
	}
}

func TestRouter_ModulosSoloAdmin(t *testing.T) {
	f := newRouterFixture()

	resp := f.call(t, http.MethodPut, "/api/modules/sales", "agent", `{"enabled":false}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.call(t, http.MethodPut, "/api/modules/desconocido", "admin", `{"enabled":false}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_CrearUsuarioRequiereAdmin(t *testing.T) {
	f := newRouterFixture()
	body := `{"email":"luis@acme.test","first_name":"Luis","password":"clave-segura-123"}`

	resp := f.call(t, http.MethodPost, "/api/users", "agent", body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.call(t, http.MethodPost, "/api/users", "admin", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "clave-segura-123")
	assert.NotContains(t, string(raw), "password_hash")
}

func TestRouter_EditarUsuarioAjenoRequiereAdmin(t *testing.T) {
	f := newRouterFixture()
	f.users.Put(&entity.User{Identity: entity.Identity{ID: "u-otro"}, Email: "otro@acme.test", FirstName: "Otro", Role: entity.RoleAgent, IsActive: true})
	f.users.Put(&entity.User{Identity: entity.Identity{ID: testUserID}, Email: testEmail, FirstName: "Yo", Role: entity.RoleAgent, IsActive: true})

	resp := f.call(t, http.MethodPatch, "/api/users/u-otro", "agent", `{"role":"admin","password":"clave-nueva-123"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	otro, _ := f.users.GetByID(context.Background(), "u-otro")
	assert.Equal(t, entity.RoleAgent, otro.Role)
	assert.Empty(t, otro.PasswordHash)

	resp = f.call(t, http.MethodPatch, "/api/users/"+testUserID, "agent", `{"role":"admin","position":"Analista"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[entity.User](t, resp)
	assert.Equal(t, entity.RoleAgent, me.Role)
	assert.Equal(t, "Analista", me.Position)

	resp = f.call(t, http.MethodPut, "/api/users/u-otro", "admin", `{"role":"manager"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.RoleManager, decode[entity.User](t, resp).Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth pública
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_RegistroYLogin(t *testing.T) {
	f := newRouterFixture()
	body := `{"email":"eva@acme.test","password":"clave-segura-123","first_name":"Eva","role":"admin"}`

	resp := f.call(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	registered := decode[entity.User](t, resp)
	assert.Equal(t, entity.RoleAgent, registered.Role, "el registro público ignora el rol solicitado")

	resp = f.call(t, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", errorCode(t, resp))

	resp = f.call(t, http.MethodPost, "/api/auth/login", "", `{"email":"eva@acme.test","password":"clave-segura-123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, login.Token)
	claims, err := pkgjwt.Parse(testJWTSecret, login.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAgent, claims.Role)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+login.Token)
	me, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer me.Body.Close()
	assert.Equal(t, http.StatusOK, me.StatusCode)

	resp = f.call(t, http.MethodPost, "/api/auth/login", "", `{"email":"eva@acme.test","password":"incorrecta"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Analítica, IA y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_DashboardStats(t *testing.T) {
	f := newRouterFixture()
	f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c1"}, IsActive: true})

	resp := f.call(t, http.MethodGet, "/api/dashboard/stats", "agent", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[dto.DashboardStatsDTO](t, resp)
	assert.Equal(t, int64(1), stats.TotalCustomers)
}

func TestRouter_ReportePDF(t *testing.T) {
	f := newRouterFixture()

	resp := f.call(t, http.MethodGet, "/api/analytics/report", "manager", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "reporte-analitica.pdf")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

func TestRouter_RespuestaIASinProveedor_Retorna503(t *testing.T) {
	f := newRouterFixture()
	f.conversations.Put(&entity.ChatbotConversation{Identity: entity.Identity{ID: "conv-1"}, ChatbotID: "bot-1", Status: entity.ConversationActive})

	resp := f.call(t, http.MethodPost, "/api/ai/conversations/conv-1/reply", "agent", `{"message":"hola"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "AI_UNAVAILABLE", errorCode(t, resp))

	resp = f.call(t, http.MethodPost, "/api/ai/conversations/conv-1/reply", "agent", `{"message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_EndpointMetricas(t *testing.T) {
	f := newRouterFixture()
	f.call(t, http.MethodGet, "/api/customers", "agent", "")

	resp := f.call(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "http_test_http_requests_total")
}
