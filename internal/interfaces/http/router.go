package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/intellicx-crm/internal/application/analytics"
	"github.com/jhoicas/intellicx-crm/internal/application/auth"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/pkg/logger"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	Modules   *usecase.ModuleService
	Core      *usecase.CoreService
	Customers *usecase.CustomerService
	Sales     *usecase.SalesService
	Marketing *usecase.MarketingService
	Analytics *usecase.AnalyticsService
	Support   *usecase.SupportService
	Surveys   *usecase.SurveyService
	Employees *usecase.EmployeeService
	Knowledge *usecase.KnowledgeService
	Workflows *usecase.WorkflowService
	AI        *usecase.AIService
	Dashboard *appanalytics.DashboardUseCase
	Report    *appanalytics.ReportUseCase
	Metrics   *metrics.Metrics
	Log       *logger.Logger
	JWTSecret string
}

// section prefijo de rutas. Cada recurso abre su propio grupo con mw para que el
// middleware de un módulo no alcance rutas del core con el mismo prefijo (/api/customers/:id).
type section struct {
	r  fiber.Router
	mw []fiber.Handler
}

func (s section) group(path string) fiber.Router {
	return s.r.Group(path, s.mw...)
}

// Router registra middleware transversal, /metrics y las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	app.Use(RequestLogger(log), MetricsMiddleware(deps.Metrics))
	app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))

	api := app.Group("/api")

	// Auth (público): debe registrarse antes del grupo protegido.
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	core := section{r: protected}

	moduleHandler := NewModuleHandler(deps.Modules)
	protected.Get("/modules", moduleHandler.List)
	protected.Put("/modules/:name", RequireRole(entity.RoleAdmin), moduleHandler.Update)

	protected.Get("/dashboard/stats", NewDashboardHandler(deps.Dashboard).GetStats)

	module := func(name string) section {
		return section{
			r:  protected.Group("/" + name),
			mw: []fiber.Handler{RequireModule(name, deps.Modules, log)},
		}
	}

	// customers antes que core: comparten el prefijo /api/customers.
	registerCustomers(module("customers"), deps.Customers)
	registerCore(core, deps.Core)
	registerSales(module("sales"), deps.Sales)
	registerMarketing(module("marketing"), deps.Marketing)
	registerAnalytics(module("analytics"), deps.Analytics, deps.Report)
	registerSupport(module("support"), deps.Support)
	registerSurveys(module("surveys"), deps.Surveys)
	registerEmployees(module("employees"), deps.Employees)
	registerKnowledge(module("knowledge"), deps.Knowledge)
	registerWorkflows(module("workflows"), deps.Workflows)
	registerAI(module("ai"), deps.AI)
}
