package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain/crm"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// MarketingStores puertos de persistencia del módulo marketing.
type MarketingStores struct {
	Campaigns       repository.Store[entity.MarketingCampaign]
	EmailCampaigns  repository.Store[entity.EmailCampaign]
	EmailTemplates  repository.Store[entity.EmailTemplate]
	Subscribers     repository.Store[entity.EmailSubscriber]
	EmailSends      repository.Store[entity.EmailSend]
	SocialCampaigns repository.Store[entity.SocialMediaCampaign]
	Automations     repository.Store[entity.MarketingAutomation]
	Metrics         repository.Store[entity.MarketingMetrics]
}

// MarketingService recursos y acciones del módulo marketing.
type MarketingService struct {
	Campaigns       *Resource[entity.MarketingCampaign, *entity.MarketingCampaign]
	EmailCampaigns  *Resource[entity.EmailCampaign, *entity.EmailCampaign]
	EmailTemplates  *Resource[entity.EmailTemplate, *entity.EmailTemplate]
	Subscribers     *Resource[entity.EmailSubscriber, *entity.EmailSubscriber]
	EmailSends      *Resource[entity.EmailSend, *entity.EmailSend]
	SocialCampaigns *Resource[entity.SocialMediaCampaign, *entity.SocialMediaCampaign]
	Automations     *Resource[entity.MarketingAutomation, *entity.MarketingAutomation]
	Metrics         *Resource[entity.MarketingMetrics, *entity.MarketingMetrics]

	analytics repository.AnalyticsRepository
}

// NewMarketingService construye el servicio del módulo marketing.
func NewMarketingService(s MarketingStores, analytics repository.AnalyticsRepository, m *metrics.Metrics) *MarketingService {
	return &MarketingService{
		Campaigns: NewResource[entity.MarketingCampaign]("marketing.campaigns", s.Campaigns, m, Options{
			ReadOnly: []string{"created_by_name", "assigned_to_name"},
		}),
		EmailCampaigns: NewResource[entity.EmailCampaign]("marketing.email-campaigns", s.EmailCampaigns, m, Options{
			ReadOnly: []string{"sent_at", "campaign_name"},
		}),
		EmailTemplates: NewResource[entity.EmailTemplate]("marketing.email-templates", s.EmailTemplates, m, Options{}),
		Subscribers: NewResource[entity.EmailSubscriber]("marketing.subscribers", s.Subscribers, m, Options{
			ReadOnly: []string{"subscribed_at"},
		}),
		EmailSends: NewResource[entity.EmailSend]("marketing.email-sends", s.EmailSends, m, Options{
			ReadOnly: []string{"subscriber_email"},
		}),
		SocialCampaigns: NewResource[entity.SocialMediaCampaign]("marketing.social-campaigns", s.SocialCampaigns, m, Options{}),
		Automations:     NewResource[entity.MarketingAutomation]("marketing.automations", s.Automations, m, Options{}),
		Metrics: NewResource[entity.MarketingMetrics]("marketing.metrics", s.Metrics, m, Options{
			ReadOnly: []string{"campaign_name"},
		}),
		analytics: analytics,
	}
}

// ActivateCampaign pone la campaña en active.
func (s *MarketingService) ActivateCampaign(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setCampaignStatus(ctx, caller, id, "activate", entity.CampaignActive); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Campaña activada"}, nil
}

// PauseCampaign pone la campaña en paused.
func (s *MarketingService) PauseCampaign(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setCampaignStatus(ctx, caller, id, "pause", entity.CampaignPaused); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Campaña pausada"}, nil
}

func (s *MarketingService) setCampaignStatus(ctx context.Context, caller Caller, id, action, status string) error {
	_, err := s.Campaigns.Action(ctx, caller, id, action, func(c *entity.MarketingCampaign, _ time.Time) error {
		c.Status = status
		return nil
	})
	return err
}

// SendEmailCampaign registra el envío de la campaña de email.
func (s *MarketingService) SendEmailCampaign(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.EmailCampaigns.Action(ctx, caller, id, "send", func(e *entity.EmailCampaign, now time.Time) error {
		e.Send(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Campaña de email enviada"}, nil
}

// Unsubscribe da de baja al suscriptor.
func (s *MarketingService) Unsubscribe(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Subscribers.Action(ctx, caller, id, "unsubscribe", func(sub *entity.EmailSubscriber, now time.Time) error {
		sub.Unsubscribe(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Suscriptor dado de baja"}, nil
}

// ActivateAutomation activa la automatización.
func (s *MarketingService) ActivateAutomation(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Automations.Action(ctx, caller, id, "activate", func(a *entity.MarketingAutomation, _ time.Time) error {
		a.IsActive = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Automatización activada"}, nil
}

// MetricsSummary totaliza las métricas de campañas; overall_ctr = clicks / impressions * 100.
func (s *MarketingService) MetricsSummary(ctx context.Context) (*dto.MarketingSummaryDTO, error) {
	agg, err := s.analytics.Aggregate(ctx, s.Metrics.Name(), []repository.Aggregation{
		{Name: "impressions", Func: "sum", Column: "impressions"},
		{Name: "clicks", Func: "sum", Column: "clicks"},
		{Name: "conversions", Func: "sum", Column: "conversions"},
		{Name: "revenue", Func: "sum", Column: "revenue"},
		{Name: "cost", Func: "sum", Column: "cost"},
	})
	if err != nil {
		return nil, err
	}
	impressions := countOf(agg, "impressions")
	clicks := countOf(agg, "clicks")
	s.Metrics.Track("summary")
	return &dto.MarketingSummaryDTO{
		TotalImpressions: impressions,
		TotalClicks:      clicks,
		TotalConversions: countOf(agg, "conversions"),
		TotalRevenue:     decimalOf(agg, "revenue"),
		TotalCost:        decimalOf(agg, "cost"),
		OverallCTR:       crm.PercentageInt(clicks, impressions),
	}, nil
}
