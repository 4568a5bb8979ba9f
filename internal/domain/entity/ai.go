package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/intellicx-crm/internal/domain"
)

// Estados de modelo de IA.
const (
	ModelTraining   = "training"
	ModelActive     = "active"
	ModelInactive   = "inactive"
	ModelDeprecated = "deprecated"
	ModelError      = "error"
)

// Estados de conversación.
const (
	ConversationActive    = "active"
	ConversationCompleted = "completed"
	ConversationEscalated = "escalated"
	ConversationAbandoned = "abandoned"
)

// Tipos de mensaje de chatbot.
const (
	MessageUser       = "user"
	MessageBot        = "bot"
	MessageSystem     = "system"
	MessageEscalation = "escalation"
)

// HighRiskScoreThreshold umbral (inclusive) de la consulta high_risk_customers.
const HighRiskScoreThreshold = 80

// AIModel configuración registrada de un modelo predictivo.
type AIModel struct {
	Identity
	Name               string     `json:"name" db:"name"`
	ModelType          string     `json:"model_type" db:"model_type"`
	Description        string     `json:"description" db:"description"`
	Version            string     `json:"version" db:"version"`
	Status             string     `json:"status" db:"status"`
	ModelFilePath      string     `json:"model_file_path" db:"model_file_path"`
	ModelConfig        JSONMap    `json:"model_config" db:"model_config"`
	Hyperparameters    JSONMap    `json:"hyperparameters" db:"hyperparameters"`
	TrainingDataInfo   JSONMap    `json:"training_data_info" db:"training_data_info"`
	PerformanceMetrics JSONMap    `json:"performance_metrics" db:"performance_metrics"`
	CreatedBy          *string    `json:"created_by" db:"created_by"`
	LastTrained        *time.Time `json:"last_trained" db:"last_trained"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

func (m *AIModel) Defaults() {
	m.Version = "1.0.0"
	m.Status = ModelTraining
}

func (m *AIModel) SetAuthor(userID string) { setOptionalAuthor(&m.CreatedBy, userID) }

func (m *AIModel) Prepare(now time.Time, creating bool) {
	defaultString(&m.Version, "1.0.0")
	defaultString(&m.Status, ModelTraining)
	for _, j := range []*JSONMap{&m.ModelConfig, &m.Hyperparameters, &m.TrainingDataInfo, &m.PerformanceMetrics} {
		if *j == nil {
			*j = JSONMap{}
		}
	}
	touch(&m.CreatedAt, &m.UpdatedAt, now, creating)
}

func (m *AIModel) Validate() error {
	return Check(
		Required("name", m.Name),
		OneOf("model_type", m.ModelType,
			"churn_prediction", "lead_scoring", "customer_segmentation", "sentiment_analysis",
			"recommendation_engine", "anomaly_detection", "forecasting", "classification", "regression", "custom"),
		Required("version", m.Version),
		OneOf("status", m.Status, ModelTraining, ModelActive, ModelInactive, ModelDeprecated, ModelError),
	)
}

// Train marca el modelo en entrenamiento.
func (m *AIModel) Train(now time.Time) {
	m.Status = ModelTraining
	m.LastTrained = timePtr(now)
}

// PredictiveScore puntuación predictiva de un cliente.
type PredictiveScore struct {
	Identity
	CustomerID      string          `json:"customer" db:"customer_id"`
	ScoreType       string          `json:"score_type" db:"score_type"`
	ScoreValue      decimal.Decimal `json:"score_value" db:"score_value"`
	ConfidenceLevel decimal.Decimal `json:"confidence_level" db:"confidence_level"`
	Factors         JSONList        `json:"factors" db:"factors"`
	AIModelID       *string         `json:"ai_model" db:"ai_model_id"`
	CalculatedAt    time.Time       `json:"calculated_at" db:"calculated_at"`
	ExpiresAt       *time.Time      `json:"expires_at" db:"expires_at"`

	CustomerName string `json:"customer_name" db:"customer_name"`
	ModelName    string `json:"ai_model_name" db:"ai_model_name"`
}

func (s *PredictiveScore) Prepare(now time.Time, creating bool) {
	if s.Factors == nil {
		s.Factors = JSONList{}
	}
	if creating || s.CalculatedAt.IsZero() {
		s.CalculatedAt = now
	}
}

func (s *PredictiveScore) Validate() error {
	return Check(
		RequiredRef("customer", s.CustomerID),
		OneOf("score_type", s.ScoreType,
			"churn_risk", "lead_score", "customer_lifetime_value", "purchase_probability",
			"upsell_probability", "support_priority", "fraud_risk", "custom"),
		DecimalRange("score_value", s.ScoreValue, 0, 100),
		DecimalRange("confidence_level", s.ConfidenceLevel, 0, 100),
		TimeOrder("expires_at", &s.CalculatedAt, s.ExpiresAt),
	)
}

// Chatbot configuración de un asistente conversacional.
type Chatbot struct {
	Identity
	Name          string    `json:"name" db:"name"`
	BotType       string    `json:"bot_type" db:"bot_type"`
	Platform      string    `json:"platform" db:"platform"`
	Description   string    `json:"description" db:"description"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	Configuration JSONMap   `json:"configuration" db:"configuration"`
	TrainingData  JSONList  `json:"training_data" db:"training_data"`
	AIModelID     *string   `json:"ai_model" db:"ai_model_id"`
	CreatedBy     *string   `json:"created_by" db:"created_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	ConversationCount int `json:"conversation_count" db:"conversation_count"`
}

func (b *Chatbot) Defaults() { b.IsActive = true }

func (b *Chatbot) SetAuthor(userID string) { setOptionalAuthor(&b.CreatedBy, userID) }

func (b *Chatbot) Prepare(now time.Time, creating bool) {
	if b.Configuration == nil {
		b.Configuration = JSONMap{}
	}
	if b.TrainingData == nil {
		b.TrainingData = JSONList{}
	}
	touch(&b.CreatedAt, &b.UpdatedAt, now, creating)
}

func (b *Chatbot) Validate() error {
	return Check(
		Required("name", b.Name),
		OneOf("bot_type", b.BotType,
			"customer_support", "lead_qualification", "sales_assistant", "onboarding", "faq", "custom"),
		OneOf("platform", b.Platform,
			"website", "mobile_app", "messenger", "whatsapp", "slack", "teams", "api", "other"),
	)
}

// SystemPrompt arma las instrucciones del bot a partir de su configuración.
func (b *Chatbot) SystemPrompt() string {
	if p, ok := b.Configuration["system_prompt"].(string); ok && p != "" {
		return p
	}
	prompt := "Eres " + b.Name + ", un asistente de atención al cliente. Responde en español, de forma breve y cordial."
	if b.Description != "" {
		prompt += " Contexto: " + b.Description
	}
	return prompt
}

// ChatbotConversation sesión de conversación con un chatbot.
type ChatbotConversation struct {
	Identity
	ChatbotID  string     `json:"chatbot" db:"chatbot_id"`
	CustomerID *string    `json:"customer" db:"customer_id"`
	SessionID  string     `json:"session_id" db:"session_id"`
	Status     string     `json:"status" db:"status"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	EndedAt    *time.Time `json:"ended_at" db:"ended_at"`
	UserAgent  string     `json:"user_agent" db:"user_agent"`
	IPAddress  string     `json:"ip_address" db:"ip_address"`
	Metadata   JSONMap    `json:"metadata" db:"metadata"`

	ChatbotName  string `json:"chatbot_name" db:"chatbot_name"`
	MessageCount int    `json:"message_count" db:"message_count"`
}

func (c *ChatbotConversation) Defaults() { c.Status = ConversationActive }

func (c *ChatbotConversation) Prepare(now time.Time, creating bool) {
	if creating && c.SessionID == "" {
		c.SessionID = uuid.NewString()
	}
	if creating || c.StartedAt.IsZero() {
		c.StartedAt = now
	}
	defaultString(&c.Status, ConversationActive)
	if c.Status != ConversationActive && c.EndedAt == nil {
		c.EndedAt = timePtr(now)
	}
	if c.Metadata == nil {
		c.Metadata = JSONMap{}
	}
}

func (c *ChatbotConversation) Validate() error {
	return Check(
		RequiredRef("chatbot", c.ChatbotID),
		OneOf("status", c.Status, ConversationActive, ConversationCompleted, ConversationEscalated, ConversationAbandoned),
		OptionalIP("ip_address", c.IPAddress),
	)
}

// EnsureActive devuelve ErrConflict si la conversación ya no admite mensajes.
func (c *ChatbotConversation) EnsureActive() error {
	if c.Status != ConversationActive {
		return domain.Conflict("la conversación no está activa (" + c.Status + ")")
	}
	return nil
}

// ChatbotMessage mensaje dentro de una conversación.
type ChatbotMessage struct {
	Identity
	ConversationID  string              `json:"conversation" db:"conversation_id"`
	MessageType     string              `json:"message_type" db:"message_type"`
	Content         string              `json:"content" db:"content"`
	Timestamp       time.Time           `json:"timestamp" db:"timestamp"`
	IntentDetected  string              `json:"intent_detected" db:"intent_detected"`
	ConfidenceScore decimal.NullDecimal `json:"confidence_score" db:"confidence_score"`
	Entities        JSONList            `json:"entities" db:"entities"`
	Metadata        JSONMap             `json:"metadata" db:"metadata"`
}

// NewChatbotMessage crea un mensaje listo para persistir.
func NewChatbotMessage(conversationID, messageType, content string) *ChatbotMessage {
	return &ChatbotMessage{
		ConversationID: conversationID,
		MessageType:    messageType,
		Content:        content,
	}
}

func (m *ChatbotMessage) Prepare(now time.Time, creating bool) {
	if creating || m.Timestamp.IsZero() {
		m.Timestamp = now
	}
	if m.Entities == nil {
		m.Entities = JSONList{}
	}
	if m.Metadata == nil {
		m.Metadata = JSONMap{}
	}
}

func (m *ChatbotMessage) Validate() error {
	var confidence error
	if m.ConfidenceScore.Valid {
		confidence = UnitInterval("confidence_score", m.ConfidenceScore.Decimal)
	}
	return Check(
		RequiredRef("conversation", m.ConversationID),
		OneOf("message_type", m.MessageType, MessageUser, MessageBot, MessageSystem, MessageEscalation),
		Required("content", m.Content),
		confidence,
	)
}

// PersonalizationRule regla de personalización de contenido u ofertas.
type PersonalizationRule struct {
	Identity
	Name                 string    `json:"name" db:"name"`
	RuleType             string    `json:"rule_type" db:"rule_type"`
	TriggerType          string    `json:"trigger_type" db:"trigger_type"`
	Description          string    `json:"description" db:"description"`
	TriggerConditions    JSONMap   `json:"trigger_conditions" db:"trigger_conditions"`
	PersonalizationLogic JSONMap   `json:"personalization_logic" db:"personalization_logic"`
	TargetAudience       JSONMap   `json:"target_audience" db:"target_audience"`
	IsActive             bool      `json:"is_active" db:"is_active"`
	Priority             int       `json:"priority" db:"priority"`
	CreatedBy            *string   `json:"created_by" db:"created_by"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

func (r *PersonalizationRule) Defaults() { r.IsActive = true }

func (r *PersonalizationRule) SetAuthor(userID string) { setOptionalAuthor(&r.CreatedBy, userID) }

func (r *PersonalizationRule) Prepare(now time.Time, creating bool) {
	for _, j := range []*JSONMap{&r.TriggerConditions, &r.PersonalizationLogic, &r.TargetAudience} {
		if *j == nil {
			*j = JSONMap{}
		}
	}
	touch(&r.CreatedAt, &r.UpdatedAt, now, creating)
}

func (r *PersonalizationRule) Validate() error {
	return Check(
		Required("name", r.Name),
		OneOf("rule_type", r.RuleType,
			"content", "product", "pricing", "communication", "ui_ux", "workflow", "custom"),
		OneOf("trigger_type", r.TriggerType,
			"user_action", "time_based", "location_based", "behavior_based", "segment_based", "ai_prediction", "other"),
	)
}

// AIRecommendation recomendación generada para un cliente.
type AIRecommendation struct {
	Identity
	CustomerID         string          `json:"customer" db:"customer_id"`
	RecommendationType string          `json:"recommendation_type" db:"recommendation_type"`
	Title              string          `json:"title" db:"title"`
	Description        string          `json:"description" db:"description"`
	RecommendationData JSONMap         `json:"recommendation_data" db:"recommendation_data"`
	ConfidenceScore    decimal.Decimal `json:"confidence_score" db:"confidence_score"`
	AIModelID          *string         `json:"ai_model" db:"ai_model_id"`
	IsDelivered        bool            `json:"is_delivered" db:"is_delivered"`
	DeliveredAt        *time.Time      `json:"delivered_at" db:"delivered_at"`
	IsActedUpon        bool            `json:"is_acted_upon" db:"is_acted_upon"`
	ActedUponAt        *time.Time      `json:"acted_upon_at" db:"acted_upon_at"`
	FeedbackScore      *int            `json:"feedback_score" db:"feedback_score"`
	ExpiresAt          *time.Time      `json:"expires_at" db:"expires_at"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`

	CustomerName string `json:"customer_name" db:"customer_name"`
}

func (r *AIRecommendation) Prepare(now time.Time, creating bool) {
	if r.RecommendationData == nil {
		r.RecommendationData = JSONMap{}
	}
	if r.IsDelivered && r.DeliveredAt == nil {
		r.DeliveredAt = timePtr(now)
	}
	if r.IsActedUpon && r.ActedUponAt == nil {
		r.ActedUponAt = timePtr(now)
	}
	touch(&r.CreatedAt, nil, now, creating)
}

func (r *AIRecommendation) Validate() error {
	return Check(
		RequiredRef("customer", r.CustomerID),
		OneOf("recommendation_type", r.RecommendationType,
			"product", "content", "offer", "action", "upsell", "cross_sell", "retention", "custom"),
		Required("title", r.Title),
		Required("description", r.Description),
		UnitInterval("confidence_score", r.ConfidenceScore),
		OptionalIntRange("feedback_score", r.FeedbackScore, 1, 5),
	)
}

// Implement marca la recomendación como aplicada.
func (r *AIRecommendation) Implement(now time.Time) {
	r.IsActedUpon = true
	if r.ActedUponAt == nil {
		r.ActedUponAt = timePtr(now)
	}
}

// AITrainingData conjunto de datos de entrenamiento.
type AITrainingData struct {
	Identity
	DataType     string              `json:"data_type" db:"data_type"`
	Name         string              `json:"name" db:"name"`
	Description  string              `json:"description" db:"description"`
	DataContent  JSONMap             `json:"data_content" db:"data_content"`
	Metadata     JSONMap             `json:"metadata" db:"metadata"`
	QualityScore decimal.NullDecimal `json:"quality_score" db:"quality_score"`
	IsApproved   bool                `json:"is_approved" db:"is_approved"`
	ApprovedBy   *string             `json:"approved_by" db:"approved_by"`
	ApprovedAt   *time.Time          `json:"approved_at" db:"approved_at"`
	CreatedBy    *string             `json:"created_by" db:"created_by"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" db:"updated_at"`
}

func (d *AITrainingData) SetAuthor(userID string) { setOptionalAuthor(&d.CreatedBy, userID) }

func (d *AITrainingData) Prepare(now time.Time, creating bool) {
	if d.DataContent == nil {
		d.DataContent = JSONMap{}
	}
	if d.Metadata == nil {
		d.Metadata = JSONMap{}
	}
	touch(&d.CreatedAt, &d.UpdatedAt, now, creating)
}

func (d *AITrainingData) Validate() error {
	var quality error
	if d.QualityScore.Valid {
		quality = UnitInterval("quality_score", d.QualityScore.Decimal)
	}
	return Check(
		OneOf("data_type", d.DataType, "conversation", "behavior", "feedback", "transaction", "interaction", "custom"),
		Required("name", d.Name),
		quality,
	)
}

// Approve aprueba el conjunto; conserva la primera aprobación.
func (d *AITrainingData) Approve(userID string, now time.Time) {
	d.IsApproved = true
	if d.ApprovedAt == nil {
		d.ApprovedAt = timePtr(now)
		setOptionalAuthor(&d.ApprovedBy, userID)
	}
}

// AIModelPerformance rendimiento diario de un modelo.
type AIModelPerformance struct {
	Identity
	AIModelID           string          `json:"ai_model" db:"ai_model_id"`
	Date                Date            `json:"date" db:"date"`
	TotalPredictions    int             `json:"total_predictions" db:"total_predictions"`
	AccuratePredictions int             `json:"accurate_predictions" db:"accurate_predictions"`
	AccuracyRate        decimal.Decimal `json:"accuracy_rate" db:"accuracy_rate"`
	Precision           decimal.Decimal `json:"precision" db:"precision"`
	Recall              decimal.Decimal `json:"recall" db:"recall"`
	F1Score             decimal.Decimal `json:"f1_score" db:"f1_score"`
	AvgResponseTime     decimal.Decimal `json:"avg_response_time" db:"avg_response_time"`
	ErrorCount          int             `json:"error_count" db:"error_count"`
	ErrorRate           decimal.Decimal `json:"error_rate" db:"error_rate"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`

	ModelName string `json:"ai_model_name" db:"ai_model_name"`
}

// Prepare deriva accuracy_rate de los contadores cuando no viene informado.
func (p *AIModelPerformance) Prepare(now time.Time, creating bool) {
	if p.AccuracyRate.IsZero() && p.TotalPredictions > 0 {
		p.AccuracyRate = decimal.NewFromInt(int64(p.AccuratePredictions)).
			Div(decimal.NewFromInt(int64(p.TotalPredictions))).Round(4)
	}
	touch(&p.CreatedAt, nil, now, creating)
}

func (p *AIModelPerformance) Validate() error {
	var accurate error
	if p.AccuratePredictions > p.TotalPredictions {
		accurate = IntRange("accurate_predictions", p.AccuratePredictions, 0, p.TotalPredictions)
	}
	return Check(
		RequiredRef("ai_model", p.AIModelID),
		RequiredDate("date", p.Date),
		NonNegative("total_predictions", p.TotalPredictions),
		NonNegative("accurate_predictions", p.AccuratePredictions),
		accurate,
		UnitInterval("accuracy_rate", p.AccuracyRate),
		UnitInterval("precision", p.Precision),
		UnitInterval("recall", p.Recall),
		UnitInterval("f1_score", p.F1Score),
		UnitInterval("error_rate", p.ErrorRate),
		NonNegative("error_count", p.ErrorCount),
	)
}
