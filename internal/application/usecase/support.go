package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/crm"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// SupportStores puertos de persistencia del módulo support.
type SupportStores struct {
	Tickets   repository.Store[entity.SupportTicket]
	Responses repository.Store[entity.TicketResponse]
	SLAs      repository.Store[entity.ServiceLevelAgreement]
	Knowledge repository.Store[entity.KnowledgeBase]
	Feedback  repository.Store[entity.CustomerFeedback]
	Team      repository.Store[entity.SupportTeam]
	Metrics   repository.Store[entity.SupportMetrics]
}

// SupportService recursos y acciones del módulo support.
type SupportService struct {
	Tickets   *Resource[entity.SupportTicket, *entity.SupportTicket]
	Responses *Resource[entity.TicketResponse, *entity.TicketResponse]
	SLAs      *Resource[entity.ServiceLevelAgreement, *entity.ServiceLevelAgreement]
	Knowledge *Resource[entity.KnowledgeBase, *entity.KnowledgeBase]
	Feedback  *Resource[entity.CustomerFeedback, *entity.CustomerFeedback]
	Team      *Resource[entity.SupportTeam, *entity.SupportTeam]
	Metrics   *Resource[entity.SupportMetrics, *entity.SupportMetrics]

	analytics repository.AnalyticsRepository
}

// NewSupportService construye el servicio del módulo support.
func NewSupportService(s SupportStores, analytics repository.AnalyticsRepository, m *metrics.Metrics) *SupportService {
	return &SupportService{
		Tickets: NewResource[entity.SupportTicket]("support.tickets", s.Tickets, m, Options{
			ReadOnly: []string{"ticket_number", "resolved_at", "closed_at", "customer_name", "assigned_to_name", "response_count"},
		}),
		Responses: NewResource[entity.TicketResponse]("support.responses", s.Responses, m, Options{
			ReadOnly: []string{"user_name"},
		}),
		SLAs: NewResource[entity.ServiceLevelAgreement]("support.slas", s.SLAs, m, Options{}),
		Knowledge: NewResource[entity.KnowledgeBase]("support.knowledge", s.Knowledge, m, Options{
			ReadOnly: []string{"view_count", "helpful_count", "not_helpful_count", "author_name"},
		}),
		Feedback: NewResource[entity.CustomerFeedback]("support.feedback", s.Feedback, m, Options{
			ReadOnly: []string{"customer_name"},
		}),
		Team: NewResource[entity.SupportTeam]("support.team", s.Team, m, Options{
			ReadOnly: []string{"user_name"},
		}),
		Metrics:   NewResource[entity.SupportMetrics]("support.metrics", s.Metrics, m, Options{}),
		analytics: analytics,
	}
}

// AssignTicket asigna el ticket a un usuario.
func (s *SupportService) AssignTicket(ctx context.Context, caller Caller, id string, in dto.AssignRequest) (*dto.StatusResponse, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, domain.Invalid("user_id", "es obligatorio")
	}
	_, err := s.Tickets.Action(ctx, caller, id, "assign", func(t *entity.SupportTicket, _ time.Time) error {
		t.AssignedTo = &userID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Ticket asignado"}, nil
}

// ResolveTicket marca el ticket como resuelto.
func (s *SupportService) ResolveTicket(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setTicketStatus(ctx, caller, id, "resolve", entity.TicketResolved); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Ticket resuelto"}, nil
}

// CloseTicket cierra el ticket.
func (s *SupportService) CloseTicket(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setTicketStatus(ctx, caller, id, "close", entity.TicketClosed); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Ticket cerrado"}, nil
}

// setTicketStatus cambia el estado; Prepare fija resolved_at/closed_at.
func (s *SupportService) setTicketStatus(ctx context.Context, caller Caller, id, action, status string) error {
	_, err := s.Tickets.Action(ctx, caller, id, action, func(t *entity.SupportTicket, _ time.Time) error {
		t.Status = status
		return nil
	})
	return err
}

// IncrementView suma una visita al artículo de ayuda.
func (s *SupportService) IncrementView(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Knowledge.Action(ctx, caller, id, "increment_view", func(k *entity.KnowledgeBase, _ time.Time) error {
		k.ViewCount++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Visita registrada"}, nil
}

// MetricsSummary totales de tickets, tasa de resolución y tiempo medio de resolución (horas).
func (s *SupportService) MetricsSummary(ctx context.Context) (*dto.SupportSummaryDTO, error) {
	agg, err := s.analytics.Aggregate(ctx, s.Metrics.Name(), []repository.Aggregation{
		{Name: "total", Func: "sum", Column: "total_tickets"},
		{Name: "resolved", Func: "sum", Column: "resolved_tickets"},
		{Name: "resolution_time", Func: "sum", Column: "avg_resolution_time"},
		{Name: "rows", Func: "count"},
	})
	if err != nil {
		return nil, err
	}
	total := countOf(agg, "total")
	resolved := countOf(agg, "resolved")
	// Media sobre todas las filas de métricas, no solo las que tienen tiempo informado.
	avgTime := decimal.Zero
	if rows := countOf(agg, "rows"); rows > 0 {
		avgTime = decimalOf(agg, "resolution_time").Div(decimal.NewFromInt(rows)).Round(2)
	}
	s.Metrics.Track("summary")
	return &dto.SupportSummaryDTO{
		TotalTickets:           total,
		ResolvedTickets:        resolved,
		ResolutionRate:         crm.PercentageInt(resolved, total),
		AvgResolutionTimeHours: avgTime,
	}, nil
}
