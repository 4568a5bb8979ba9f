package http

import (
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// registerMarketing monta campañas, email marketing, social, automatizaciones y métricas bajo /api/marketing.
func registerMarketing(s section, svc *usecase.MarketingService) {
	NewResourceHandler[entity.MarketingCampaign](svc.Campaigns).Mount(s.group("/campaigns"),
		post("/:id/activate", detail(svc.ActivateCampaign)),
		post("/:id/pause", detail(svc.PauseCampaign)),
	)
	NewResourceHandler[entity.EmailCampaign](svc.EmailCampaigns).Mount(s.group("/email-campaigns"),
		post("/:id/send", detail(svc.SendEmailCampaign)),
	)
	NewResourceHandler[entity.EmailTemplate](svc.EmailTemplates).Mount(s.group("/email-templates"))
	NewResourceHandler[entity.EmailSubscriber](svc.Subscribers).Mount(s.group("/subscribers"),
		post("/:id/unsubscribe", detail(svc.Unsubscribe)),
	)
	NewResourceHandler[entity.EmailSend](svc.EmailSends).Mount(s.group("/email-sends"))
	NewResourceHandler[entity.SocialMediaCampaign](svc.SocialCampaigns).Mount(s.group("/social-campaigns"))
	NewResourceHandler[entity.MarketingAutomation](svc.Automations).Mount(s.group("/automations"),
		post("/:id/activate", detail(svc.ActivateAutomation)),
	)
	NewResourceHandler[entity.MarketingMetrics](svc.Metrics).Mount(s.group("/metrics"),
		get("/summary", summary(svc.MetricsSummary)),
	)
}
