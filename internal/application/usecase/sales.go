package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// SalesStores puertos de persistencia del módulo sales.
type SalesStores struct {
	Leads         repository.Store[entity.Lead]
	Opportunities repository.Store[entity.Opportunity]
	Deals         repository.Store[entity.Deal]
	Activities    repository.Store[entity.SalesActivity]
	Pipelines     repository.Store[entity.SalesPipeline]
	Forecasts     repository.Store[entity.SalesForecast]
}

// SalesService recursos y acciones del módulo sales.
type SalesService struct {
	Leads         *Resource[entity.Lead, *entity.Lead]
	Opportunities *Resource[entity.Opportunity, *entity.Opportunity]
	Deals         *Resource[entity.Deal, *entity.Deal]
	Activities    *Resource[entity.SalesActivity, *entity.SalesActivity]
	Pipelines     *Resource[entity.SalesPipeline, *entity.SalesPipeline]
	Forecasts     *Resource[entity.SalesForecast, *entity.SalesForecast]

	analytics repository.AnalyticsRepository
}

// NewSalesService construye el servicio del módulo sales.
func NewSalesService(s SalesStores, analytics repository.AnalyticsRepository, m *metrics.Metrics) *SalesService {
	return &SalesService{
		Leads: NewResource[entity.Lead]("sales.leads", s.Leads, m, Options{
			ReadOnly: []string{"full_name", "assigned_to_name"},
		}),
		Opportunities: NewResource[entity.Opportunity]("sales.opportunities", s.Opportunities, m, Options{
			ReadOnly: []string{"customer_name", "assigned_to_name"},
		}),
		Deals: NewResource[entity.Deal]("sales.deals", s.Deals, m, Options{
			ReadOnly: []string{"deal_number", "closed_at", "customer_name"},
		}),
		Activities: NewResource[entity.SalesActivity]("sales.sales-activities", s.Activities, m, Options{
			ReadOnly: []string{"completed_at", "user_name"},
		}),
		Pipelines: NewResource[entity.SalesPipeline]("sales.pipelines", s.Pipelines, m, Options{}),
		Forecasts: NewResource[entity.SalesForecast]("sales.forecasts", s.Forecasts, m, Options{
			ReadOnly: []string{"user_name"},
		}),
		analytics: analytics,
	}
}

// QualifyLead pasa el lead a qualified.
func (s *SalesService) QualifyLead(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setLeadStatus(ctx, caller, id, "qualify", entity.LeadQualified); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Lead calificado"}, nil
}

// ConvertLead pasa el lead a converted.
func (s *SalesService) ConvertLead(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setLeadStatus(ctx, caller, id, "convert", entity.LeadConverted); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Lead convertido"}, nil
}

func (s *SalesService) setLeadStatus(ctx context.Context, caller Caller, id, action, status string) error {
	_, err := s.Leads.Action(ctx, caller, id, action, func(l *entity.Lead, _ time.Time) error {
		l.Status = status
		return nil
	})
	return err
}

// AdvanceStage mueve la oportunidad a la siguiente etapa del pipeline.
func (s *SalesService) AdvanceStage(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	opp, err := s.Opportunities.Action(ctx, caller, id, "advance_stage", func(o *entity.Opportunity, now time.Time) error {
		return o.AdvanceStage(now)
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Oportunidad avanzada a " + opp.Stage}, nil
}

// CloseDeal completa el acuerdo.
func (s *SalesService) CloseDeal(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Deals.Action(ctx, caller, id, "close_deal", func(d *entity.Deal, now time.Time) error {
		d.Close(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Acuerdo cerrado"}, nil
}

// CompleteActivity marca la actividad comercial como realizada.
func (s *SalesService) CompleteActivity(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Activities.Action(ctx, caller, id, "complete", func(a *entity.SalesActivity, now time.Time) error {
		a.Complete(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Actividad completada"}, nil
}

// ForecastSummary totaliza los pronósticos de ventas.
func (s *SalesService) ForecastSummary(ctx context.Context) (*dto.ForecastSummaryDTO, error) {
	agg, err := s.analytics.Aggregate(ctx, s.Forecasts.Name(), []repository.Aggregation{
		{Name: "total_forecast", Func: "sum", Column: "forecast_amount"},
		{Name: "total_actual", Func: "sum", Column: "actual_amount"},
		{Name: "count", Func: "count"},
	})
	if err != nil {
		return nil, err
	}
	s.Forecasts.Track("summary")
	return &dto.ForecastSummaryDTO{
		TotalForecast: decimalOf(agg, "total_forecast"),
		TotalActual:   decimalOf(agg, "total_actual"),
		Count:         countOf(agg, "count"),
	}, nil
}
