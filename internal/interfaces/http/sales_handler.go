package http

import (
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// registerSales monta leads, oportunidades, deals, actividades, pipelines y forecasts bajo /api/sales.
func registerSales(s section, svc *usecase.SalesService) {
	NewResourceHandler[entity.Lead](svc.Leads).Mount(s.group("/leads"),
		post("/:id/qualify", detail(svc.QualifyLead)),
		post("/:id/convert", detail(svc.ConvertLead)),
	)
	NewResourceHandler[entity.Opportunity](svc.Opportunities).Mount(s.group("/opportunities"),
		post("/:id/advance_stage", detail(svc.AdvanceStage)),
	)
	NewResourceHandler[entity.Deal](svc.Deals).Mount(s.group("/deals"),
		post("/:id/close_deal", detail(svc.CloseDeal)),
	)
	NewResourceHandler[entity.SalesActivity](svc.Activities).Mount(s.group("/sales-activities"),
		post("/:id/complete", detail(svc.CompleteActivity)),
	)
	NewResourceHandler[entity.SalesPipeline](svc.Pipelines).Mount(s.group("/pipelines"))
	NewResourceHandler[entity.SalesForecast](svc.Forecasts).Mount(s.group("/forecasts"),
		get("/summary", summary(svc.ForecastSummary)),
	)
}
