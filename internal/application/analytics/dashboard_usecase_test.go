package analytics_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/internal/application/analytics"
	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/testkit/memstore"
)

var now = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func openTask(t *entity.Task) bool {
	return t.Status == entity.TaskPending || t.Status == entity.TaskInProgress
}

type dashboardFixture struct {
	uc           *analytics.DashboardUseCase
	customers    *memstore.Store[entity.Customer]
	companies    *memstore.Store[entity.Company]
	tasks        *memstore.Store[entity.Task]
	interactions *memstore.Store[entity.Interaction]
}

func newDashboard() *dashboardFixture {
	f := &dashboardFixture{
		customers: memstore.New[entity.Customer]("core.customers").WithScope("active", func(c *entity.Customer, _ map[string]any) bool {
			return c.IsActive
		}),
		companies: memstore.New[entity.Company]("core.companies").WithScope("active", func(c *entity.Company, _ map[string]any) bool {
			return c.IsActive
		}),
		tasks: memstore.New[entity.Task]("core.tasks").
			WithScope("open", func(t *entity.Task, _ map[string]any) bool { return openTask(t) }).
			WithScope("upcoming", func(t *entity.Task, args map[string]any) bool {
				at, _ := args["now"].(time.Time)
				return openTask(t) && t.DueDate != nil && !t.DueDate.Before(at)
			}),
		interactions: memstore.New[entity.Interaction]("core.interactions").WithScope("since", func(i *entity.Interaction, args map[string]any) bool {
			since, _ := args["since"].(time.Time)
			return !i.Date.Before(since)
		}),
	}
	f.uc = analytics.NewDashboardUseCase(analytics.DashboardStores{
		Customers:    f.customers,
		Companies:    f.companies,
		Tasks:        f.tasks,
		Interactions: f.interactions,
	}).WithClock(func() time.Time { return now })
	return f
}

func ptr[T any](v T) *T { return &v }

func TestDashboard_Estadisticas(t *testing.T) {
	f := newDashboard()
	f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c1"}, IsActive: true})
	f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c2"}, IsActive: true})
	f.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c3"}})
	f.companies.Put(&entity.Company{Identity: entity.Identity{ID: "e1"}, IsActive: true})

	f.tasks.Put(&entity.Task{Identity: entity.Identity{ID: "t1"}, Title: "Pronto", Priority: "high", Status: entity.TaskPending, DueDate: ptr(now.Add(24 * time.Hour))})
	f.tasks.Put(&entity.Task{Identity: entity.Identity{ID: "t2"}, Title: "Más tarde", Status: entity.TaskInProgress, DueDate: ptr(now.Add(72 * time.Hour))})
	f.tasks.Put(&entity.Task{Identity: entity.Identity{ID: "t3"}, Title: "Vencida", Status: entity.TaskPending, DueDate: ptr(now.Add(-time.Hour))})
	f.tasks.Put(&entity.Task{Identity: entity.Identity{ID: "t4"}, Title: "Hecha", Status: entity.TaskCompleted, DueDate: ptr(now.Add(time.Hour))})

	f.interactions.Put(&entity.Interaction{Identity: entity.Identity{ID: "i1"}, Type: "call", CustomerName: "Ana Paz", Date: now.Add(-2 * 24 * time.Hour)})
	f.interactions.Put(&entity.Interaction{Identity: entity.Identity{ID: "i2"}, Type: "meeting", CustomerName: "Luis Gil", UserName: "Laura Gómez", Date: now.Add(-time.Hour)})
	f.interactions.Put(&entity.Interaction{Identity: entity.Identity{ID: "i3"}, Type: "email", CustomerName: "Eva Sol", Date: now.Add(-30 * 24 * time.Hour)})

	stats, err := f.uc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalCustomers)
	assert.Equal(t, int64(1), stats.TotalCompanies)
	assert.Equal(t, int64(3), stats.ActiveTasks)
	assert.Equal(t, int64(2), stats.PendingInteractions)

	require.Len(t, stats.RecentActivities, 3)
	assert.Equal(t, "i2", stats.RecentActivities[0].ID)
	assert.Equal(t, "Meeting with Luis Gil", stats.RecentActivities[0].Title)
	assert.Equal(t, "Laura Gómez", stats.RecentActivities[0].User)
	assert.Equal(t, "i3", stats.RecentActivities[2].ID)

	require.Len(t, stats.UpcomingDeadlines, 2)
	assert.Equal(t, "t1", stats.UpcomingDeadlines[0].ID)
	assert.Equal(t, "t2", stats.UpcomingDeadlines[1].ID)
}

func TestDashboard_LlamadasConcurrentes(t *testing.T) {
	f := newDashboard()
	f.interactions.Put(&entity.Interaction{Identity: entity.Identity{ID: "i1"}, Type: "call", CustomerName: "Ana Paz", Date: now.Add(-time.Hour)})
	f.interactions.Put(&entity.Interaction{Identity: entity.Identity{ID: "i2"}, Type: "meeting", CustomerName: "Luis Gil", Date: now.Add(-2 * time.Hour)})

	var wg sync.WaitGroup
	errs := make(chan error, 16*20)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				stats, err := f.uc.GetStats(context.Background())
				if err == nil && stats.RecentActivities[0].Title != "Call with Ana Paz" {
					err = errors.New("título inesperado: " + stats.RecentActivities[0].Title)
				}
				if err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestDashboard_SinDatos(t *testing.T) {
	stats, err := newDashboard().uc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalCustomers)
	assert.NotNil(t, stats.RecentActivities)
	assert.NotNil(t, stats.UpcomingDeadlines)
}

func TestDashboard_ErrorDeStore(t *testing.T) {
	f := newDashboard()
	f.tasks.Err = errors.New("conexión perdida")

	_, err := f.uc.GetStats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dashboard: tareas activas")
}

// ── Reporte ──────────────────────────────────────────────────────────────────

type captureRenderer struct {
	data dto.ReportData
	err  error
}

func (r *captureRenderer) RenderAnalyticsReport(data dto.ReportData) ([]byte, error) {
	r.data = data
	return []byte("%PDF-1.4"), r.err
}

func newReport(renderer *captureRenderer) *analytics.ReportUseCase {
	d := newDashboard()
	d.customers.Put(&entity.Customer{Identity: entity.Identity{ID: "c1"}, IsActive: true})

	risks := memstore.New[entity.ChurnRisk]("analytics.churn-risks")
	risks.Put(&entity.ChurnRisk{Identity: entity.Identity{ID: "r1"}, RiskLevel: "critical"})
	feedback := memstore.New[entity.ProductFeedback]("analytics.product-feedback")
	nps := memstore.New[entity.NPSScore]("surveys.nps-scores")
	nps.Put(&entity.NPSScore{Identity: entity.Identity{ID: "n1"}, CustomerID: "c1", Score: 10})

	agg := memstore.NewAnalytics(risks, feedback, nps)
	return analytics.NewReportUseCase(analytics.ReportSources{
		Dashboard: d.uc,
		Analytics: usecase.NewAnalyticsService(usecase.AnalyticsStores{ChurnRisks: risks, ProductFeedback: feedback}, agg, nil),
		Surveys:   usecase.NewSurveyService(usecase.SurveyStores{NPSScores: nps}, agg, nil),
	}, renderer, "Reporte de analítica")
}

func TestReporte_ReuneResumenes(t *testing.T) {
	renderer := &captureRenderer{}

	pdf, err := newReport(renderer).Generate(context.Background(), usecase.Caller{UserID: "u1", Role: entity.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, "Reporte de analítica", renderer.data.Title)
	assert.Equal(t, int64(1), renderer.data.Stats.TotalCustomers)
	assert.Equal(t, 1, renderer.data.NPS.Promoters)
	require.Len(t, renderer.data.RiskDistribution, 4)
	assert.Equal(t, int64(1), renderer.data.RiskDistribution[3].Count)
}

func TestReporte_FalloDelRenderer(t *testing.T) {
	renderer := &captureRenderer{err: errors.New("fuente no encontrada")}

	_, err := newReport(renderer).Generate(context.Background(), usecase.Caller{UserID: "u1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generar PDF")
}
