package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/internal/testkit/memstore"
)

type analyticsFixture struct {
	svc       *usecase.AnalyticsService
	risks     *memstore.Store[entity.ChurnRisk]
	metrics   *memstore.Store[entity.CustomerMetrics]
	sentiment *memstore.Store[entity.SentimentAnalysis]
	feedback  *memstore.Store[entity.ProductFeedback]
}

func newAnalytics() *analyticsFixture {
	f := &analyticsFixture{
		risks: memstore.New[entity.ChurnRisk]("analytics.churn-risks").WithScope("high_risk", func(r *entity.ChurnRisk, _ map[string]any) bool {
			return r.RiskLevel == "high" || r.RiskLevel == "critical"
		}),
		metrics:   memstore.New[entity.CustomerMetrics]("analytics.customer-metrics"),
		sentiment: memstore.New[entity.SentimentAnalysis]("analytics.sentiment"),
		feedback:  memstore.New[entity.ProductFeedback]("analytics.product-feedback"),
	}
	f.svc = usecase.NewAnalyticsService(usecase.AnalyticsStores{
		ChurnRisks:      f.risks,
		CustomerMetrics: f.metrics,
		Sentiments:      f.sentiment,
		ProductFeedback: f.feedback,
	}, memstore.NewAnalytics(f.risks, f.metrics, f.sentiment, f.feedback), nil)
	return f
}

func TestAnalytics_DistribucionDeRiesgoIncluyeNivelesVacios(t *testing.T) {
	f := newAnalytics()
	for i, level := range []string{"high", "low", "high"} {
		f.risks.Put(&entity.ChurnRisk{Identity: entity.Identity{ID: string(rune('a' + i))}, CustomerID: "c", RiskLevel: level})
	}

	dist, err := f.svc.RiskDistribution(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []dto.RiskLevelCountDTO{
		{RiskLevel: "low", Count: 1},
		{RiskLevel: "medium", Count: 0},
		{RiskLevel: "high", Count: 2},
		{RiskLevel: "critical", Count: 0},
	}, dist)
}

func TestAnalytics_ClientesDeAltoRiesgo(t *testing.T) {
	f := newAnalytics()
	f.risks.Put(&entity.ChurnRisk{Identity: entity.Identity{ID: "r1"}, RiskLevel: "critical"})
	f.risks.Put(&entity.ChurnRisk{Identity: entity.Identity{ID: "r2"}, RiskLevel: "medium"})
	f.risks.Put(&entity.ChurnRisk{Identity: entity.Identity{ID: "r3"}, RiskLevel: "high"})

	page, err := f.svc.HighRiskCustomers(context.Background(), agent, repository.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Total)
}

func TestAnalytics_ResumenDeSentimiento(t *testing.T) {
	f := newAnalytics()
	f.sentiment.Put(&entity.SentimentAnalysis{Identity: entity.Identity{ID: "s1"}, Sentiment: "positive", ConfidenceScore: decimal.RequireFromString("0.9")})
	f.sentiment.Put(&entity.SentimentAnalysis{Identity: entity.Identity{ID: "s2"}, Sentiment: "positive", ConfidenceScore: decimal.RequireFromString("0.7")})
	f.sentiment.Put(&entity.SentimentAnalysis{Identity: entity.Identity{ID: "s3"}, Sentiment: "negative", ConfidenceScore: decimal.RequireFromString("0.5")})

	sum, err := f.svc.SentimentSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), sum.Total)
	assert.Equal(t, map[string]int64{"positive": 2, "neutral": 0, "negative": 1}, sum.BySentiment)
	assert.Equal(t, "0.7", sum.AverageConfidence.String())
}

func TestAnalytics_ResumenDeFeedback(t *testing.T) {
	f := newAnalytics()
	four, two := 4, 2
	f.feedback.Put(&entity.ProductFeedback{Identity: entity.Identity{ID: "p1"}, Type: "bug", Priority: "high", Rating: &four})
	f.feedback.Put(&entity.ProductFeedback{Identity: entity.Identity{ID: "p2"}, Type: "feature_request", Priority: "high", Rating: &two})
	f.feedback.Put(&entity.ProductFeedback{Identity: entity.Identity{ID: "p3"}, Type: "bug", Priority: "low"})

	sum, err := f.svc.FeedbackSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), sum.Total)
	assert.Equal(t, map[string]int64{"bug": 2, "feature_request": 1}, sum.ByType)
	assert.Equal(t, map[string]int64{"high": 2, "low": 1}, sum.ByPriority)
	assert.Equal(t, "3", sum.AverageRating.String(), "los feedback sin rating no cuentan en la media")
}

func TestAnalytics_ResumenesSinDatos(t *testing.T) {
	f := newAnalytics()
	ctx := context.Background()

	metrics, err := f.svc.CustomerMetricsSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), metrics.TotalCustomers)
	assert.True(t, metrics.AverageSatisfaction.IsZero())
	assert.True(t, metrics.TotalRevenue.IsZero())

	feedback, err := f.svc.FeedbackSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), feedback.Total)
	assert.NotNil(t, feedback.ByType)
}
