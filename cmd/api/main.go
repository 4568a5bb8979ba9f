// @title                      IntelliCX CRM API
// @version                    1.0
// @description                API REST del CRM: clientes, ventas, marketing, soporte, encuestas, empleados, base de conocimiento, workflows e IA.
// @BasePath                   /
// @securityDefinitions.apikey Bearer
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/intellicx-crm/docs"
	appanalytics "github.com/jhoicas/intellicx-crm/internal/application/analytics"
	"github.com/jhoicas/intellicx-crm/internal/application/auth"
	"github.com/jhoicas/intellicx-crm/internal/application/ports"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	infraai "github.com/jhoicas/intellicx-crm/internal/infrastructure/ai"
	infrapdf "github.com/jhoicas/intellicx-crm/internal/infrastructure/pdf"
	"github.com/jhoicas/intellicx-crm/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/intellicx-crm/internal/interfaces/http"
	"github.com/jhoicas/intellicx-crm/pkg/config"
	"github.com/jhoicas/intellicx-crm/pkg/logger"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

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

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Prefix)
	}

	// Sin API key el endpoint reply responde 503.
	var llm ports.LLMService
	if cfg.AI.AnthropicAPIKey != "" {
		llm = infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	} else {
		log.Warn().Msg("ANTHROPIC_API_KEY vacío: respuestas de chatbot deshabilitadas")
	}

	analyticsRepo := postgres.NewAnalyticsRepository(pool, catalog)
	deps := buildDeps(repos, depsConfig{
		modules:       postgres.NewModuleRepository(pool),
		users:         postgres.NewUserRepository(pool, repos.Users),
		notifications: postgres.NewNotificationRepository(pool),
		tx:            postgres.NewTxRunner(pool, repos),
		analytics:     analyticsRepo,
		llm:           llm,
		renderer:      infrapdf.NewMarotoReportGenerator(),
		reportTitle:   cfg.App.Name + " · Reporte de analítica",
		jwt: auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		metrics: m,
	})
	deps.Log = log
	deps.JWTSecret = cfg.JWT.Secret

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
		Path:        "docs",
		Title:       cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

type depsConfig struct {
	modules       *postgres.ModuleRepo
	users         *postgres.UserRepo
	notifications *postgres.NotificationRepo
	tx            *postgres.TxRunner
	analytics     *postgres.AnalyticsRepo
	llm           ports.LLMService
	renderer      ports.ReportRenderer
	reportTitle   string
	jwt           auth.JWTConfig
	metrics       *metrics.Metrics
}

// buildDeps arma los servicios de cada módulo sobre los stores de PostgreSQL.
func buildDeps(r *postgres.Repositories, c depsConfig) httpRouter.RouterDeps {
	m := c.metrics

	core := usecase.NewCoreService(usecase.CoreStores{
		Users:         r.Users,
		Companies:     r.Companies,
		Customers:     r.Customers,
		Interactions:  r.Interactions,
		Tasks:         r.Tasks,
		Notifications: r.Notifications,
	}, c.notifications, c.analytics, m)

	analytics := usecase.NewAnalyticsService(usecase.AnalyticsStores{
		ChurnRisks:      r.ChurnRisks,
		CustomerMetrics: r.CustomerMetrics,
		Sentiments:      r.Sentiments,
		ProductFeedback: r.ProductFeedback,
	}, c.analytics, m)

	surveys := usecase.NewSurveyService(usecase.SurveyStores{
		Surveys:   r.Surveys,
		Questions: r.Questions,
		Responses: r.SurveyResponses,
		Answers:   r.Answers,
		NPSScores: r.NPSScores,
		Templates: r.SurveyTemplates,
		Metrics:   r.SurveyMetrics,
	}, c.analytics, m)

	dashboard := appanalytics.NewDashboardUseCase(appanalytics.DashboardStores{
		Customers:    r.Customers,
		Companies:    r.Companies,
		Tasks:        r.Tasks,
		Interactions: r.Interactions,
	})

	return httpRouter.RouterDeps{
		AuthUC:  auth.NewAuthUseCase(r.Users, c.users, c.jwt, m),
		Modules: usecase.NewModuleService(c.modules),
		Core:    core,
		Customers: usecase.NewCustomerService(usecase.CustomerStores{
			Customers:   r.Customers,
			Contacts:    r.Contacts,
			Segments:    r.Segments,
			Tags:        r.CustomerTags,
			Activities:  r.CustomerActivities,
			Preferences: r.CustomerPreferences,
			Documents:   r.CustomerDocuments,
		}, m),
		Sales: usecase.NewSalesService(usecase.SalesStores{
			Leads:         r.Leads,
			Opportunities: r.Opportunities,
			Deals:         r.Deals,
			Activities:    r.SalesActivities,
			Pipelines:     r.Pipelines,
			Forecasts:     r.Forecasts,
		}, c.analytics, m),
		Marketing: usecase.NewMarketingService(usecase.MarketingStores{
			Campaigns:       r.Campaigns,
			EmailCampaigns:  r.EmailCampaigns,
			EmailTemplates:  r.EmailTemplates,
			Subscribers:     r.Subscribers,
			EmailSends:      r.EmailSends,
			SocialCampaigns: r.SocialCampaigns,
			Automations:     r.Automations,
			Metrics:         r.MarketingMetrics,
		}, c.analytics, m),
		Analytics: analytics,
		Support: usecase.NewSupportService(usecase.SupportStores{
			Tickets:   r.Tickets,
			Responses: r.TicketResponses,
			SLAs:      r.SLAs,
			Knowledge: r.KnowledgeBase,
			Feedback:  r.CustomerFeedback,
			Team:      r.SupportTeam,
			Metrics:   r.SupportMetrics,
		}, c.analytics, m),
		Surveys: surveys,
		Employees: usecase.NewEmployeeService(usecase.EmployeeStores{
			Employees:   r.Employees,
			Performance: r.Performance,
			Activities:  r.EmployeeActivities,
			Goals:       r.Goals,
			Trainings:   r.Trainings,
			Schedules:   r.Schedules,
			Metrics:     r.EmployeeMetrics,
		}, c.analytics, m),
		Knowledge: usecase.NewKnowledgeService(usecase.KnowledgeStores{
			Categories: r.KnowledgeCategories,
			Articles:   r.KnowledgeArticles,
			Tags:       r.KnowledgeTags,
			Comments:   r.KnowledgeComments,
			Feedback:   r.KnowledgeFeedback,
			Searches:   r.KnowledgeSearches,
			Templates:  r.KnowledgeTemplates,
			Analytics:  r.KnowledgeAnalytics,
			Versions:   r.KnowledgeVersions,
		}, c.tx, m),
		Workflows: usecase.NewWorkflowService(usecase.WorkflowStores{
			Definitions:    r.Definitions,
			Steps:          r.Steps,
			Executions:     r.Executions,
			StepExecutions: r.StepExecutions,
			Templates:      r.WorkflowTemplates,
			Variables:      r.Variables,
			Integrations:   r.Integrations,
			Metrics:        r.WorkflowMetrics,
		}, c.analytics, m),
		AI: usecase.NewAIService(usecase.AIStores{
			Models:           r.AIModels,
			PredictiveScores: r.PredictiveScores,
			Chatbots:         r.Chatbots,
			Conversations:    r.Conversations,
			Messages:         r.Messages,
			Rules:            r.PersonalizationRules,
			Recommendations:  r.Recommendations,
			TrainingData:     r.TrainingData,
			Performance:      r.ModelPerformance,
		}, c.llm, c.analytics, m).WithTx(c.tx),
		Dashboard: dashboard,
		Report: appanalytics.NewReportUseCase(appanalytics.ReportSources{
			Dashboard: dashboard,
			Analytics: analytics,
			Surveys:   surveys,
		}, c.renderer, c.reportTitle),
		Metrics: m,
	}
}
