package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// ── Ventas ────────────────────────────────────────────────────────────────────

// ForecastSummaryDTO respuesta de GET /api/sales/forecasts/summary.
type ForecastSummaryDTO struct {
	TotalForecast decimal.Decimal `json:"total_forecast"`
	TotalActual   decimal.Decimal `json:"total_actual"`
	Count         int64           `json:"count"`
}

// ── Marketing ─────────────────────────────────────────────────────────────────

// MarketingSummaryDTO totales de métricas de campañas.
// OverallCTR = clicks / impressions * 100 (0 sin impresiones).
type MarketingSummaryDTO struct {
	TotalImpressions int64           `json:"total_impressions"`
	TotalClicks      int64           `json:"total_clicks"`
	TotalConversions int64           `json:"total_conversions"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	OverallCTR       decimal.Decimal `json:"overall_ctr"`
}

// ── Analítica de clientes ─────────────────────────────────────────────────────

// RiskLevelCountDTO elemento de GET /api/analytics/churn-risks/risk_distribution.
type RiskLevelCountDTO struct {
	RiskLevel string `json:"risk_level"`
	Count     int64  `json:"count"`
}

// CustomerMetricsSummaryDTO resumen de métricas de uso de clientes.
type CustomerMetricsSummaryDTO struct {
	TotalCustomers      int64           `json:"total_customers"`
	AverageSatisfaction decimal.Decimal `json:"average_satisfaction"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
}

// SentimentSummaryDTO distribución de sentimientos detectados.
type SentimentSummaryDTO struct {
	Total             int64            `json:"total"`
	BySentiment       map[string]int64 `json:"by_sentiment"`
	AverageConfidence decimal.Decimal  `json:"average_confidence"`
}

// FeedbackSummaryDTO resumen de feedback de producto.
type FeedbackSummaryDTO struct {
	Total         int64            `json:"total"`
	ByType        map[string]int64 `json:"by_type"`
	ByPriority    map[string]int64 `json:"by_priority"`
	AverageRating decimal.Decimal  `json:"average_rating"`
}

// ── Soporte ───────────────────────────────────────────────────────────────────

// SupportSummaryDTO resumen de KPIs de soporte.
type SupportSummaryDTO struct {
	TotalTickets           int64           `json:"total_tickets"`
	ResolvedTickets        int64           `json:"resolved_tickets"`
	ResolutionRate         decimal.Decimal `json:"resolution_rate"`
	AvgResolutionTimeHours decimal.Decimal `json:"avg_resolution_time_hours"`
}

// ── Encuestas ─────────────────────────────────────────────────────────────────

// NPSSummaryDTO respuesta de GET /api/surveys/nps-scores/summary.
type NPSSummaryDTO struct {
	TotalResponses int             `json:"total_responses"`
	Promoters      int             `json:"promoters"`
	Passives       int             `json:"passives"`
	Detractors     int             `json:"detractors"`
	NPSScore       decimal.Decimal `json:"nps_score"`
}

// ── Empleados ─────────────────────────────────────────────────────────────────

// EmployeeMetricsSummaryDTO resumen de métricas diarias de empleados.
type EmployeeMetricsSummaryDTO struct {
	TotalEmployees    int64           `json:"total_employees"`
	TotalHoursWorked  decimal.Decimal `json:"total_hours_worked"`
	TasksCompleted    int64           `json:"tasks_completed"`
	AverageEfficiency decimal.Decimal `json:"average_efficiency"`
	AverageQuality    decimal.Decimal `json:"average_quality"`
}

// ── Workflows ─────────────────────────────────────────────────────────────────

// WorkflowSummaryDTO resumen de ejecuciones de workflows.
type WorkflowSummaryDTO struct {
	TotalExecutions      int64           `json:"total_executions"`
	SuccessfulExecutions int64           `json:"successful_executions"`
	FailedExecutions     int64           `json:"failed_executions"`
	SuccessRate          decimal.Decimal `json:"success_rate"`
}

// ── IA ────────────────────────────────────────────────────────────────────────

// AIPerformanceSummaryDTO resumen de rendimiento de modelos.
type AIPerformanceSummaryDTO struct {
	TotalModels     int64           `json:"total_models"`
	AverageAccuracy decimal.Decimal `json:"average_accuracy"`
}

// ── Acciones con cuerpo ───────────────────────────────────────────────────────

// AssignRequest cuerpo de POST tickets/:id/assign.
type AssignRequest struct {
	UserID string `json:"user_id"`
}

// ProgressRequest cuerpo de POST goals/:id/update_progress.
type ProgressRequest struct {
	Progress *decimal.Decimal `json:"progress"`
}

// TrainingCompleteRequest cuerpo opcional de POST trainings/:id/complete.
type TrainingCompleteRequest struct {
	Score *decimal.Decimal `json:"score"`
}

// DownloadResponse respuesta de POST documents/:id/download.
type DownloadResponse struct {
	Status  string `json:"status"`
	FileURL string `json:"file_url"`
}

// ReplyRequest cuerpo de POST conversations/:id/reply.
type ReplyRequest struct {
	Message string `json:"message"`
}

// ReplyResponse mensajes guardados por una respuesta del chatbot.
type ReplyResponse struct {
	UserMessage *entity.ChatbotMessage `json:"user_message"`
	BotMessage  *entity.ChatbotMessage `json:"bot_message"`
}

// ── Reporte ───────────────────────────────────────────────────────────────────

// ReportData datos que alimentan el reporte PDF de analítica.
type ReportData struct {
	Title            string
	Stats            DashboardStatsDTO
	RiskDistribution []RiskLevelCountDTO
	NPS              NPSSummaryDTO
	Feedback         FeedbackSummaryDTO
}
