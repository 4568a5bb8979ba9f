// Package analytics contiene los casos de uso del dashboard y del reporte PDF de analítica.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
)

const (
	dashboardRecent   = 10 // interacciones en el widget de actividad reciente
	dashboardUpcoming = 10 // tareas en el widget de vencimientos
	pendingWindow     = 7 * 24 * time.Hour
)

// DashboardStores stores que alimentan el dashboard.
type DashboardStores struct {
	Customers    repository.Store[entity.Customer]
	Companies    repository.Store[entity.Company]
	Tasks        repository.Store[entity.Task]
	Interactions repository.Store[entity.Interaction]
}

// DashboardUseCase genera las estadísticas del dashboard principal.
//
// Usa List con Limit 1 para obtener totales: el store devuelve el total de filas que cumplen el scope.
type DashboardUseCase struct {
	s   DashboardStores
	now func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(s DashboardStores) *DashboardUseCase {
	return &DashboardUseCase{
		s:   s,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetStats construye el DashboardStatsDTO.
//
// Seis consultas en paralelo:
//  1. clientes activos          → TotalCustomers
//  2. empresas activas          → TotalCompanies
//  3. tareas pending|in_progress → ActiveTasks
//  4. interacciones 7 días      → PendingInteractions
//  5. últimas 10 interacciones  → RecentActivities
//  6. próximas 10 tareas        → UpcomingDeadlines
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	now := uc.now()

	type countResult struct {
		n   int64
		err error
	}
	type recentResult struct {
		items []*entity.Interaction
		err   error
	}
	type upcomingResult struct {
		items []*entity.Task
		err   error
	}

	customersCh := make(chan countResult, 1)
	companiesCh := make(chan countResult, 1)
	tasksCh := make(chan countResult, 1)
	pendingCh := make(chan countResult, 1)
	recentCh := make(chan recentResult, 1)
	upcomingCh := make(chan upcomingResult, 1)

	go func() {
		n, err := total(ctx, uc.s.Customers, repository.ListQuery{Scope: "active"})
		customersCh <- countResult{n, err}
	}()
	go func() {
		n, err := total(ctx, uc.s.Companies, repository.ListQuery{Scope: "active"})
		companiesCh <- countResult{n, err}
	}()
	go func() {
		n, err := total(ctx, uc.s.Tasks, repository.ListQuery{Scope: "open"})
		tasksCh <- countResult{n, err}
	}()
	go func() {
		n, err := total(ctx, uc.s.Interactions, repository.ListQuery{
			Scope: "since",
			Args:  map[string]any{"since": now.Add(-pendingWindow)},
		})
		pendingCh <- countResult{n, err}
	}()
	go func() {
		items, _, err := uc.s.Interactions.List(ctx, repository.ListQuery{Ordering: "-date", Limit: dashboardRecent})
		recentCh <- recentResult{items, err}
	}()
	go func() {
		items, _, err := uc.s.Tasks.List(ctx, repository.ListQuery{
			Scope:    "upcoming",
			Args:     map[string]any{"now": now},
			Ordering: "due_date",
			Limit:    dashboardUpcoming,
		})
		upcomingCh <- upcomingResult{items, err}
	}()

	customers := <-customersCh
	companies := <-companiesCh
	tasks := <-tasksCh
	pending := <-pendingCh
	recent := <-recentCh
	upcoming := <-upcomingCh

	for _, r := range []struct {
		what string
		err  error
	}{
		{"clientes", customers.err},
		{"empresas", companies.err},
		{"tareas activas", tasks.err},
		{"interacciones pendientes", pending.err},
		{"actividad reciente", recent.err},
		{"vencimientos", upcoming.err},
	} {
		if r.err != nil {
			return nil, fmt.Errorf("dashboard: %s: %w", r.what, r.err)
		}
	}

	stats := &dto.DashboardStatsDTO{
		TotalCustomers:      customers.n,
		TotalCompanies:      companies.n,
		ActiveTasks:         tasks.n,
		PendingInteractions: pending.n,
		RecentActivities:    make([]dto.RecentActivityDTO, 0, len(recent.items)),
		UpcomingDeadlines:   make([]dto.UpcomingDeadlineDTO, 0, len(upcoming.items)),
	}
	// cases.Caser guarda estado: uno por llamada.
	title := cases.Title(language.English)
	for _, i := range recent.items {
		stats.RecentActivities = append(stats.RecentActivities, dto.RecentActivityDTO{
			ID:           i.ID,
			Title:        fmt.Sprintf("%s with %s", title.String(i.Type), i.CustomerName),
			Type:         i.Type,
			CustomerName: i.CustomerName,
			User:         i.UserName,
			Date:         i.Date,
		})
	}
	for _, t := range upcoming.items {
		stats.UpcomingDeadlines = append(stats.UpcomingDeadlines, dto.UpcomingDeadlineDTO{
			ID:           t.ID,
			Title:        t.Title,
			Priority:     t.Priority,
			DueDate:      t.DueDate,
			CustomerName: t.CustomerName,
		})
	}
	return stats, nil
}

// total cuenta las filas que cumplen q pidiendo una página de un elemento.
func total[T any](ctx context.Context, store repository.Store[T], q repository.ListQuery) (int64, error) {
	q.Limit = 1
	_, n, err := store.List(ctx, q)
	return int64(n), err
}
