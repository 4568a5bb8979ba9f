package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

var surveyTypes = []string{"customer_satisfaction", "nps", "product_feedback", "support_quality", "onboarding", "custom"}

// Survey encuesta dirigida a clientes.
type Survey struct {
	Identity
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	SurveyType  string     `json:"survey_type" db:"survey_type"`
	CompanyID   *string    `json:"company" db:"company_id"`
	CreatedBy   *string    `json:"created_by" db:"created_by"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	StartDate   *time.Time `json:"start_date" db:"start_date"`
	EndDate     *time.Time `json:"end_date" db:"end_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	QuestionCount int `json:"question_count" db:"question_count"`
	ResponseCount int `json:"response_count" db:"response_count"`
}

func (s *Survey) Defaults() {
	s.SurveyType = "custom"
	s.IsActive = true
}

func (s *Survey) SetAuthor(userID string) { setOptionalAuthor(&s.CreatedBy, userID) }

func (s *Survey) Prepare(now time.Time, creating bool) {
	touch(&s.CreatedAt, &s.UpdatedAt, now, creating)
}

func (s *Survey) Validate() error {
	return Check(
		Required("title", s.Title),
		OneOf("survey_type", s.SurveyType, surveyTypes...),
		TimeOrder("end_date", s.StartDate, s.EndDate),
	)
}

// SurveyQuestion pregunta de una encuesta.
type SurveyQuestion struct {
	Identity
	SurveyID     string    `json:"survey" db:"survey_id"`
	QuestionText string    `json:"question_text" db:"question_text"`
	QuestionType string    `json:"question_type" db:"question_type"`
	IsRequired   bool      `json:"is_required" db:"is_required"`
	Order        int       `json:"order" db:"sort_order"`
	Options      JSONList  `json:"options" db:"options"`
	MinValue     *int      `json:"min_value" db:"min_value"`
	MaxValue     *int      `json:"max_value" db:"max_value"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (q *SurveyQuestion) Defaults() {
	q.QuestionType = "text"
	q.IsRequired = true
}

func (q *SurveyQuestion) Prepare(now time.Time, creating bool) {
	if q.QuestionType == "nps" {
		lo, hi := 0, 10
		q.MinValue, q.MaxValue = &lo, &hi
	}
	touch(&q.CreatedAt, nil, now, creating)
}

func (q *SurveyQuestion) Validate() error {
	var bounds error
	if q.MinValue != nil && q.MaxValue != nil && *q.MinValue > *q.MaxValue {
		bounds = IntRange("max_value", *q.MaxValue, *q.MinValue, *q.MinValue)
	}
	return Check(
		RequiredRef("survey", q.SurveyID),
		Required("question_text", q.QuestionText),
		OneOf("question_type", q.QuestionType,
			"text", "textarea", "radio", "checkbox", "rating", "nps", "likert", "date", "email"),
		NonNegative("order", q.Order),
		bounds,
	)
}

// SurveyResponse respuesta de un cliente a una encuesta.
type SurveyResponse struct {
	Identity
	SurveyID        string     `json:"survey" db:"survey_id"`
	CustomerID      string     `json:"customer" db:"customer_id"`
	RespondentEmail string     `json:"respondent_email" db:"respondent_email"`
	RespondentName  string     `json:"respondent_name" db:"respondent_name"`
	StartedAt       time.Time  `json:"started_at" db:"started_at"`
	CompletedAt     *time.Time `json:"completed_at" db:"completed_at"`
	IsCompleted     bool       `json:"is_completed" db:"is_completed"`
	IPAddress       string     `json:"ip_address" db:"ip_address"`
	UserAgent       string     `json:"user_agent" db:"user_agent"`

	SurveyTitle  string `json:"survey_title" db:"survey_title"`
	CustomerName string `json:"customer_name" db:"customer_name"`
}

func (r *SurveyResponse) Prepare(now time.Time, creating bool) {
	if creating || r.StartedAt.IsZero() {
		r.StartedAt = now
	}
	if r.IsCompleted && r.CompletedAt == nil {
		r.CompletedAt = timePtr(now)
	}
}

func (r *SurveyResponse) Validate() error {
	return Check(
		RequiredRef("survey", r.SurveyID),
		RequiredRef("customer", r.CustomerID),
		OptionalEmail("respondent_email", r.RespondentEmail),
		OptionalIP("ip_address", r.IPAddress),
	)
}

// Complete marca la respuesta como completada.
func (r *SurveyResponse) Complete(now time.Time) {
	r.IsCompleted = true
	if r.CompletedAt == nil {
		r.CompletedAt = timePtr(now)
	}
}

// SurveyAnswer respuesta a una pregunta concreta.
type SurveyAnswer struct {
	Identity
	ResponseID    string    `json:"response" db:"response_id"`
	QuestionID    string    `json:"question" db:"question_id"`
	AnswerText    string    `json:"answer_text" db:"answer_text"`
	AnswerValue   *int      `json:"answer_value" db:"answer_value"`
	AnswerOptions JSONList  `json:"answer_options" db:"answer_options"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	QuestionText string `json:"question_text" db:"question_text"`
}

func (a *SurveyAnswer) Prepare(now time.Time, creating bool) {
	touch(&a.CreatedAt, nil, now, creating)
}

func (a *SurveyAnswer) Validate() error {
	return Check(RequiredRef("response", a.ResponseID), RequiredRef("question", a.QuestionID))
}

// NPSScore puntuación Net Promoter (0..10).
type NPSScore struct {
	Identity
	CustomerID       string    `json:"customer" db:"customer_id"`
	CompanyID        *string   `json:"company" db:"company_id"`
	Score            int       `json:"score" db:"score"`
	Feedback         string    `json:"feedback" db:"feedback"`
	SurveyResponseID *string   `json:"survey_response" db:"survey_response_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`

	CustomerName string `json:"customer_name" db:"customer_name"`
}

func (n *NPSScore) Prepare(now time.Time, creating bool) {
	touch(&n.CreatedAt, nil, now, creating)
}

func (n *NPSScore) Validate() error {
	return Check(RequiredRef("customer", n.CustomerID), IntRange("score", n.Score, 0, 10))
}

// SurveyTemplate estructura de encuesta reutilizable.
type SurveyTemplate struct {
	Identity
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	SurveyType  string    `json:"survey_type" db:"survey_type"`
	Questions   JSONList  `json:"questions" db:"questions"`
	CompanyID   *string   `json:"company" db:"company_id"`
	CreatedBy   *string   `json:"created_by" db:"created_by"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (t *SurveyTemplate) Defaults() { t.SurveyType = "custom" }

func (t *SurveyTemplate) SetAuthor(userID string) { setOptionalAuthor(&t.CreatedBy, userID) }

func (t *SurveyTemplate) Prepare(now time.Time, creating bool) {
	if t.Questions == nil {
		t.Questions = JSONList{}
	}
	touch(&t.CreatedAt, &t.UpdatedAt, now, creating)
}

func (t *SurveyTemplate) Validate() error {
	return Check(Required("name", t.Name), OneOf("survey_type", t.SurveyType, surveyTypes...))
}

// SurveyMetrics agregados de una encuesta.
type SurveyMetrics struct {
	Identity
	SurveyID       string              `json:"survey" db:"survey_id"`
	TotalSent      int                 `json:"total_sent" db:"total_sent"`
	TotalResponses int                 `json:"total_responses" db:"total_responses"`
	CompletionRate decimal.Decimal     `json:"completion_rate" db:"completion_rate"`
	AverageScore   decimal.NullDecimal `json:"average_score" db:"average_score"`
	NPSScore       decimal.NullDecimal `json:"nps_score" db:"nps_score"`
	LastCalculated time.Time           `json:"last_calculated" db:"last_calculated"`

	SurveyTitle string `json:"survey_title" db:"survey_title"`
}

func (m *SurveyMetrics) Prepare(now time.Time, creating bool) {
	m.LastCalculated = now
}

func (m *SurveyMetrics) Validate() error {
	return Check(
		RequiredRef("survey", m.SurveyID),
		NonNegative("total_sent", m.TotalSent),
		NonNegative("total_responses", m.TotalResponses),
		DecimalRange("completion_rate", m.CompletionRate, 0, 100),
	)
}
