package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/intellicx-crm/internal/application/analytics"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// ReportHandler sirve el reporte PDF de analítica.
type ReportHandler struct {
	uc *appanalytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appanalytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// GetReport godoc
// @Summary      Reporte PDF de analítica
// @Description  Contadores del dashboard, distribución de riesgo de abandono, NPS y feedback de producto.
//               Requiere módulo 'analytics' activo.
// @Tags         analytics
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/analytics/report [get]
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	pdf, err := h.uc.Generate(c.Context(), caller(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="reporte-analitica.pdf"`)
	return c.Send(pdf)
}

// registerAnalytics monta riesgo de abandono, métricas de cliente, sentimiento, feedback y el reporte.
func registerAnalytics(s section, svc *usecase.AnalyticsService, report *appanalytics.ReportUseCase) {
	NewResourceHandler[entity.ChurnRisk](svc.ChurnRisks).Mount(s.group("/churn-risks"),
		get("/high_risk_customers", scoped(svc.HighRiskCustomers)),
		get("/risk_distribution", summary(svc.RiskDistribution)),
	)
	NewResourceHandler[entity.CustomerMetrics](svc.CustomerMetrics).Mount(s.group("/customer-metrics"),
		get("/summary", summary(svc.CustomerMetricsSummary)),
	)
	NewResourceHandler[entity.SentimentAnalysis](svc.Sentiments).Mount(s.group("/sentiment"),
		get("/sentiment_summary", summary(svc.SentimentSummary)),
	)
	NewResourceHandler[entity.ProductFeedback](svc.ProductFeedback).Mount(s.group("/product-feedback"),
		get("/feedback_summary", summary(svc.FeedbackSummary)),
	)
	if report != nil {
		s.group("/report").Get("/", NewReportHandler(report).GetReport)
	}
}
