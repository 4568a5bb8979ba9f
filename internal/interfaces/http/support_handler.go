package http

import (
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// registerSupport monta tickets, respuestas, SLAs, base de conocimiento, feedback, equipo y métricas.
func registerSupport(s section, svc *usecase.SupportService) {
	NewResourceHandler[entity.SupportTicket](svc.Tickets).Mount(s.group("/tickets"),
		post("/:id/assign", detailBody(svc.AssignTicket)),
		post("/:id/resolve", detail(svc.ResolveTicket)),
		post("/:id/close", detail(svc.CloseTicket)),
	)
	NewResourceHandler[entity.TicketResponse](svc.Responses).Mount(s.group("/responses"))
	NewResourceHandler[entity.ServiceLevelAgreement](svc.SLAs).Mount(s.group("/slas"))
	NewResourceHandler[entity.KnowledgeBase](svc.Knowledge).Mount(s.group("/knowledge"),
		post("/:id/increment_view", detail(svc.IncrementView)),
	)
	NewResourceHandler[entity.CustomerFeedback](svc.Feedback).Mount(s.group("/feedback"))
	NewResourceHandler[entity.SupportTeam](svc.Team).Mount(s.group("/team"))
	NewResourceHandler[entity.SupportMetrics](svc.Metrics).Mount(s.group("/metrics"),
		get("/summary", summary(svc.MetricsSummary)),
	)
}
