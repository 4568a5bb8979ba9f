package usecase

import (
	"context"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// riskLevels orden de presentación de la distribución de riesgo.
var riskLevels = []string{"low", "medium", "high", "critical"}

// AnalyticsStores puertos de persistencia del módulo analytics.
type AnalyticsStores struct {
	ChurnRisks      repository.Store[entity.ChurnRisk]
	CustomerMetrics repository.Store[entity.CustomerMetrics]
	Sentiments      repository.Store[entity.SentimentAnalysis]
	ProductFeedback repository.Store[entity.ProductFeedback]
}

// AnalyticsService recursos y resúmenes del módulo analytics (riesgo de abandono, sentimiento, feedback).
type AnalyticsService struct {
	ChurnRisks      *Resource[entity.ChurnRisk, *entity.ChurnRisk]
	CustomerMetrics *Resource[entity.CustomerMetrics, *entity.CustomerMetrics]
	Sentiments      *Resource[entity.SentimentAnalysis, *entity.SentimentAnalysis]
	ProductFeedback *Resource[entity.ProductFeedback, *entity.ProductFeedback]

	analytics repository.AnalyticsRepository
}

// NewAnalyticsService construye el servicio.
func NewAnalyticsService(s AnalyticsStores, analytics repository.AnalyticsRepository, m *metrics.Metrics) *AnalyticsService {
	withCustomer := Options{ReadOnly: []string{"customer_name"}}
	return &AnalyticsService{
		ChurnRisks:      NewResource[entity.ChurnRisk]("analytics.churn-risks", s.ChurnRisks, m, withCustomer),
		CustomerMetrics: NewResource[entity.CustomerMetrics]("analytics.customer-metrics", s.CustomerMetrics, m, withCustomer),
		Sentiments:      NewResource[entity.SentimentAnalysis]("analytics.sentiment", s.Sentiments, m, withCustomer),
		ProductFeedback: NewResource[entity.ProductFeedback]("analytics.product-feedback", s.ProductFeedback, m, withCustomer),
		analytics:       analytics,
	}
}

// HighRiskCustomers lista los riesgos high y critical.
func (s *AnalyticsService) HighRiskCustomers(ctx context.Context, caller Caller, q repository.ListQuery) (*dto.ListResponse[entity.ChurnRisk], error) {
	q.Scope = "high_risk"
	page, err := s.ChurnRisks.List(ctx, caller, q)
	if err != nil {
		return nil, err
	}
	s.ChurnRisks.Track("high_risk_customers")
	return page, nil
}

// RiskDistribution cuenta riesgos por nivel; los niveles sin filas aparecen con 0.
func (s *AnalyticsService) RiskDistribution(ctx context.Context) ([]dto.RiskLevelCountDTO, error) {
	groups, err := s.analytics.CountBy(ctx, s.ChurnRisks.Name(), "risk_level", "")
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(groups))
	for _, g := range groups {
		counts[g.Value] = g.Count
	}
	out := make([]dto.RiskLevelCountDTO, 0, len(riskLevels))
	for _, level := range riskLevels {
		out = append(out, dto.RiskLevelCountDTO{RiskLevel: level, Count: counts[level]})
	}
	s.ChurnRisks.Track("risk_distribution")
	return out, nil
}

// CustomerMetricsSummary clientes distintos, satisfacción media e ingresos totales.
func (s *AnalyticsService) CustomerMetricsSummary(ctx context.Context) (*dto.CustomerMetricsSummaryDTO, error) {
	agg, err := s.analytics.Aggregate(ctx, s.CustomerMetrics.Name(), []repository.Aggregation{
		{Name: "customers", Func: "count_distinct", Column: "customer_id"},
		{Name: "satisfaction", Func: "avg", Column: "satisfaction_score"},
		{Name: "revenue", Func: "sum", Column: "revenue"},
	})
	if err != nil {
		return nil, err
	}
	s.CustomerMetrics.Track("summary")
	return &dto.CustomerMetricsSummaryDTO{
		TotalCustomers:      countOf(agg, "customers"),
		AverageSatisfaction: decimalOf(agg, "satisfaction"),
		TotalRevenue:        decimalOf(agg, "revenue"),
	}, nil
}

// SentimentSummary distribución por sentimiento y confianza media.
func (s *AnalyticsService) SentimentSummary(ctx context.Context) (*dto.SentimentSummaryDTO, error) {
	groups, err := s.analytics.CountBy(ctx, s.Sentiments.Name(), "sentiment", "")
	if err != nil {
		return nil, err
	}
	agg, err := s.analytics.Aggregate(ctx, s.Sentiments.Name(), []repository.Aggregation{
		{Name: "confidence", Func: "avg", Column: "confidence_score"},
	})
	if err != nil {
		return nil, err
	}
	out := &dto.SentimentSummaryDTO{
		BySentiment:       map[string]int64{"positive": 0, "neutral": 0, "negative": 0},
		AverageConfidence: confidenceOf(agg),
	}
	for _, g := range groups {
		out.BySentiment[g.Value] = g.Count
		out.Total += g.Count
	}
	s.Sentiments.Track("sentiment_summary")
	return out, nil
}

// FeedbackSummary feedback de producto por tipo, por prioridad y rating medio.
func (s *AnalyticsService) FeedbackSummary(ctx context.Context) (*dto.FeedbackSummaryDTO, error) {
	byType, err := s.analytics.CountBy(ctx, s.ProductFeedback.Name(), "type", "")
	if err != nil {
		return nil, err
	}
	byPriority, err := s.analytics.CountBy(ctx, s.ProductFeedback.Name(), "priority", "")
	if err != nil {
		return nil, err
	}
	agg, err := s.analytics.Aggregate(ctx, s.ProductFeedback.Name(), []repository.Aggregation{
		{Name: "rating", Func: "avg", Column: "rating"},
	})
	if err != nil {
		return nil, err
	}
	out := &dto.FeedbackSummaryDTO{
		ByType:        make(map[string]int64, len(byType)),
		ByPriority:    make(map[string]int64, len(byPriority)),
		AverageRating: decimalOf(agg, "rating"),
	}
	for _, g := range byType {
		out.ByType[g.Value] = g.Count
		out.Total += g.Count
	}
	for _, g := range byPriority {
		out.ByPriority[g.Value] = g.Count
	}
	s.ProductFeedback.Track("feedback_summary")
	return out, nil
}
