package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChurnRisk riesgo de abandono calculado para un cliente.
type ChurnRisk struct {
	Identity
	CustomerID     string          `json:"customer" db:"customer_id"`
	RiskLevel      string          `json:"risk_level" db:"risk_level"`
	RiskScore      decimal.Decimal `json:"risk_score" db:"risk_score"`
	Factors        JSONMap         `json:"factors" db:"factors"`
	LastCalculated time.Time       `json:"last_calculated" db:"last_calculated"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`

	CustomerName string `json:"customer_name" db:"customer_name"`
}

func (r *ChurnRisk) Prepare(now time.Time, creating bool) {
	if r.Factors == nil {
		r.Factors = JSONMap{}
	}
	r.LastCalculated = now
	touch(&r.CreatedAt, nil, now, creating)
}

func (r *ChurnRisk) Validate() error {
	return Check(
		RequiredRef("customer", r.CustomerID),
		OneOf("risk_level", r.RiskLevel, "low", "medium", "high", "critical"),
		DecimalRange("risk_score", r.RiskScore, 0, 100),
	)
}

// CustomerMetrics métricas diarias de uso de un cliente.
type CustomerMetrics struct {
	Identity
	CustomerID        string              `json:"customer" db:"customer_id"`
	Date              Date                `json:"date" db:"date"`
	LoginFrequency    int                 `json:"login_frequency" db:"login_frequency"`
	FeatureUsage      JSONMap             `json:"feature_usage" db:"feature_usage"`
	SupportTickets    int                 `json:"support_tickets" db:"support_tickets"`
	SatisfactionScore decimal.NullDecimal `json:"satisfaction_score" db:"satisfaction_score"`
	Revenue           decimal.Decimal     `json:"revenue" db:"revenue"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`

	CustomerName string `json:"customer_name" db:"customer_name"`
}

func (m *CustomerMetrics) Prepare(now time.Time, creating bool) {
	if m.FeatureUsage == nil {
		m.FeatureUsage = JSONMap{}
	}
	touch(&m.CreatedAt, nil, now, creating)
}

func (m *CustomerMetrics) Validate() error {
	var satisfaction error
	if m.SatisfactionScore.Valid {
		satisfaction = DecimalRange("satisfaction_score", m.SatisfactionScore.Decimal, 0, 10)
	}
	return Check(
		RequiredRef("customer", m.CustomerID),
		RequiredDate("date", m.Date),
		NonNegative("login_frequency", m.LoginFrequency),
		NonNegative("support_tickets", m.SupportTickets),
		satisfaction,
	)
}

// SentimentAnalysis resultado de análisis de sentimiento sobre un texto del cliente.
type SentimentAnalysis struct {
	Identity
	CustomerID      string          `json:"customer" db:"customer_id"`
	Source          string          `json:"source" db:"source"`
	Sentiment       string          `json:"sentiment" db:"sentiment"`
	ConfidenceScore decimal.Decimal `json:"confidence_score" db:"confidence_score"`
	TextContent     string          `json:"text_content" db:"text_content"`
	Keywords        []string        `json:"keywords" db:"keywords"`
	Date            time.Time       `json:"date" db:"date"`

	CustomerName string `json:"customer_name" db:"customer_name"`
}

func (s *SentimentAnalysis) Prepare(now time.Time, creating bool) {
	if s.Keywords == nil {
		s.Keywords = []string{}
	}
	if s.Date.IsZero() {
		s.Date = now
	}
}

func (s *SentimentAnalysis) Validate() error {
	return Check(
		RequiredRef("customer", s.CustomerID),
		Required("source", s.Source),
		OneOf("sentiment", s.Sentiment, "positive", "neutral", "negative"),
		UnitInterval("confidence_score", s.ConfidenceScore),
		Required("text_content", s.TextContent),
	)
}

// ProductFeedback comentario de producto (bug, feature request...).
type ProductFeedback struct {
	Identity
	CustomerID  string    `json:"customer" db:"customer_id"`
	Type        string    `json:"type" db:"type"`
	Priority    string    `json:"priority" db:"priority"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Rating      *int      `json:"rating" db:"rating"`
	Status      string    `json:"status" db:"status"`
	AssignedTo  *string   `json:"assigned_to" db:"assigned_to"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	CustomerName string `json:"customer_name" db:"customer_name"`
}

func (f *ProductFeedback) Defaults() {
	f.Priority = "medium"
	f.Status = "open"
}

func (f *ProductFeedback) Prepare(now time.Time, creating bool) {
	defaultString(&f.Priority, "medium")
	defaultString(&f.Status, "open")
	touch(&f.CreatedAt, &f.UpdatedAt, now, creating)
}

func (f *ProductFeedback) Validate() error {
	return Check(
		RequiredRef("customer", f.CustomerID),
		OneOf("type", f.Type, "bug", "feature", "improvement", "compliment", "complaint"),
		OneOf("priority", f.Priority, "low", "medium", "high", "urgent"),
		Required("title", f.Title),
		OptionalIntRange("rating", f.Rating, 1, 5),
		OneOf("status", f.Status, "open", "in_review", "planned", "in_progress", "resolved", "closed"),
	)
}
