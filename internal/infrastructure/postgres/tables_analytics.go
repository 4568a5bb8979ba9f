package postgres

import "github.com/jhoicas/intellicx-crm/internal/domain/entity"

func churnRiskTable() *Table[entity.ChurnRisk] {
	return &Table[entity.ChurnRisk]{
		Resource:     "analytics.churn-risks",
		Name:         "churn_risks",
		Joins:        `LEFT JOIN customers c ON c.id = t.customer_id`,
		Projections:  []Projection{{"customer_name", personName("c")}},
		Filters:      fields("risk_level", "customer=t.customer_id"),
		Search:       []string{"c.first_name", "c.last_name", "c.email"},
		Ordering:     fields("risk_score", "last_calculated", "created_at"),
		DefaultOrder: "-risk_score",
		Scopes: map[string]string{
			"high_risk": "t.risk_level IN ('high', 'critical')",
		},
	}
}

func customerMetricsTable() *Table[entity.CustomerMetrics] {
	return &Table[entity.CustomerMetrics]{
		Resource:     "analytics.customer-metrics",
		Name:         "customer_metrics",
		Joins:        `LEFT JOIN customers c ON c.id = t.customer_id`,
		Projections:  []Projection{{"customer_name", personName("c")}},
		Filters:      fields("customer=t.customer_id", "date"),
		Search:       []string{"c.first_name", "c.last_name"},
		Ordering:     fields("date", "revenue", "satisfaction_score", "login_frequency"),
		DefaultOrder: "-date",
	}
}

func sentimentTable() *Table[entity.SentimentAnalysis] {
	return &Table[entity.SentimentAnalysis]{
		Resource:     "analytics.sentiment",
		Name:         "sentiment_analyses",
		Joins:        `LEFT JOIN customers c ON c.id = t.customer_id`,
		Projections:  []Projection{{"customer_name", personName("c")}},
		Filters:      fields("sentiment", "source", "customer=t.customer_id"),
		Search:       []string{"t.text_content"},
		Ordering:     fields("date", "confidence_score"),
		DefaultOrder: "-date",
	}
}

func productFeedbackTable() *Table[entity.ProductFeedback] {
	return &Table[entity.ProductFeedback]{
		Resource:     "analytics.product-feedback",
		Name:         "product_feedback",
		Joins:        `LEFT JOIN customers c ON c.id = t.customer_id`,
		Projections:  []Projection{{"customer_name", personName("c")}},
		Filters:      fields("type", "priority", "status", "customer=t.customer_id", "assigned_to"),
		Search:       []string{"t.title", "t.description"},
		Ordering:     fields("created_at", "priority", "rating", "status"),
		DefaultOrder: "-created_at",
	}
}
