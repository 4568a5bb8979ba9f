package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/intellicx-crm/internal/domain"
)

// Estados de ejecución.
const (
	ExecutionPending   = "pending"
	ExecutionRunning   = "running"
	ExecutionCompleted = "completed"
	ExecutionFailed    = "failed"
	ExecutionCancelled = "cancelled"
	ExecutionPaused    = "paused"
)

// WorkflowDefinition flujo de trabajo configurable.
type WorkflowDefinition struct {
	Identity
	Name              string    `json:"name" db:"name"`
	Description       string    `json:"description" db:"description"`
	WorkflowType      string    `json:"workflow_type" db:"workflow_type"`
	TriggerType       string    `json:"trigger_type" db:"trigger_type"`
	TriggerConditions JSONMap   `json:"trigger_conditions" db:"trigger_conditions"`
	WorkflowSteps     JSONList  `json:"workflow_steps" db:"workflow_steps"`
	Variables         JSONMap   `json:"variables" db:"variables"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	IsTemplate        bool      `json:"is_template" db:"is_template"`
	Version           string    `json:"version" db:"version"`
	CreatedBy         *string   `json:"created_by" db:"created_by"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`

	StepCount      int `json:"step_count" db:"step_count"`
	ExecutionCount int `json:"execution_count" db:"execution_count"`
}

func (w *WorkflowDefinition) Defaults() {
	w.IsActive = true
	w.Version = "1.0.0"
}

func (w *WorkflowDefinition) SetAuthor(userID string) { setOptionalAuthor(&w.CreatedBy, userID) }

func (w *WorkflowDefinition) Prepare(now time.Time, creating bool) {
	defaultString(&w.Version, "1.0.0")
	if w.TriggerConditions == nil {
		w.TriggerConditions = JSONMap{}
	}
	if w.WorkflowSteps == nil {
		w.WorkflowSteps = JSONList{}
	}
	if w.Variables == nil {
		w.Variables = JSONMap{}
	}
	touch(&w.CreatedAt, &w.UpdatedAt, now, creating)
}

func (w *WorkflowDefinition) Validate() error {
	return Check(
		Required("name", w.Name),
		OneOf("workflow_type", w.WorkflowType,
			"customer_onboarding", "lead_nurturing", "support_escalation", "approval_process", "data_sync",
			"notification", "custom"),
		OneOf("trigger_type", w.TriggerType,
			"event_based", "time_based", "manual", "webhook", "api_call", "condition_based"),
	)
}

// WorkflowStep paso individual de un flujo.
type WorkflowStep struct {
	Identity
	WorkflowID     string    `json:"workflow" db:"workflow_id"`
	Name           string    `json:"name" db:"name"`
	StepType       string    `json:"step_type" db:"step_type"`
	Order          int       `json:"order" db:"sort_order"`
	Configuration  JSONMap   `json:"configuration" db:"configuration"`
	Conditions     JSONMap   `json:"conditions" db:"conditions"`
	NextSteps      JSONList  `json:"next_steps" db:"next_steps"`
	IsRequired     bool      `json:"is_required" db:"is_required"`
	TimeoutSeconds *int      `json:"timeout" db:"timeout_seconds"`
	RetryCount     int       `json:"retry_count" db:"retry_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

func (s *WorkflowStep) Defaults() { s.IsRequired = true }

func (s *WorkflowStep) Prepare(now time.Time, creating bool) {
	if s.Configuration == nil {
		s.Configuration = JSONMap{}
	}
	if s.Conditions == nil {
		s.Conditions = JSONMap{}
	}
	if s.NextSteps == nil {
		s.NextSteps = JSONList{}
	}
	touch(&s.CreatedAt, nil, now, creating)
}

func (s *WorkflowStep) Validate() error {
	var timeout error
	if s.TimeoutSeconds != nil {
		timeout = Positive("timeout", *s.TimeoutSeconds)
	}
	return Check(
		RequiredRef("workflow", s.WorkflowID),
		Required("name", s.Name),
		OneOf("step_type", s.StepType,
			"action", "condition", "delay", "webhook", "email", "notification", "task", "data_update",
			"approval", "integration", "custom"),
		NonNegative("order", s.Order),
		NonNegative("retry_count", s.RetryCount),
		timeout,
	)
}

// WorkflowExecution instancia en ejecución de un flujo.
type WorkflowExecution struct {
	Identity
	WorkflowID   string     `json:"workflow" db:"workflow_id"`
	ExecutionID  string     `json:"execution_id" db:"execution_id"`
	Status       string     `json:"status" db:"status"`
	TriggerData  JSONMap    `json:"trigger_data" db:"trigger_data"`
	ContextData  JSONMap    `json:"context_data" db:"context_data"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at" db:"completed_at"`
	ErrorMessage string     `json:"error_message" db:"error_message"`
	CreatedBy    *string    `json:"created_by" db:"created_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`

	WorkflowName string `json:"workflow_name" db:"workflow_name"`
}

func (e *WorkflowExecution) Defaults() { e.Status = ExecutionPending }

func (e *WorkflowExecution) SetAuthor(userID string) { setOptionalAuthor(&e.CreatedBy, userID) }

func (e *WorkflowExecution) Prepare(now time.Time, creating bool) {
	if creating && e.ExecutionID == "" {
		e.ExecutionID = NewExecutionID(now)
	}
	if creating || e.StartedAt.IsZero() {
		e.StartedAt = now
	}
	defaultString(&e.Status, ExecutionPending)
	if e.TriggerData == nil {
		e.TriggerData = JSONMap{}
	}
	if e.ContextData == nil {
		e.ContextData = JSONMap{}
	}
	if e.Finished() && e.CompletedAt == nil {
		e.CompletedAt = timePtr(now)
	}
	touch(&e.CreatedAt, nil, now, creating)
}

func (e *WorkflowExecution) Validate() error {
	return Check(
		RequiredRef("workflow", e.WorkflowID),
		OneOf("status", e.Status, ExecutionPending, ExecutionRunning, ExecutionCompleted, ExecutionFailed,
			ExecutionCancelled, ExecutionPaused),
	)
}

// Finished indica un estado terminal.
func (e *WorkflowExecution) Finished() bool {
	return e.Status == ExecutionCompleted || e.Status == ExecutionFailed || e.Status == ExecutionCancelled
}

// Pause detiene temporalmente una ejecución activa.
func (e *WorkflowExecution) Pause() error {
	if e.Finished() {
		return domain.Conflict(fmt.Sprintf("la ejecución ya terminó (%s)", e.Status))
	}
	e.Status = ExecutionPaused
	return nil
}

// Resume vuelve a poner la ejecución en marcha.
func (e *WorkflowExecution) Resume() error {
	if e.Finished() {
		return domain.Conflict(fmt.Sprintf("no se puede reanudar una ejecución en estado %s", e.Status))
	}
	e.Status = ExecutionRunning
	return nil
}

// Cancel termina la ejecución y fija completed_at. Cancelar dos veces no cambia nada.
func (e *WorkflowExecution) Cancel(now time.Time) error {
	if e.Status == ExecutionCancelled {
		return nil
	}
	if e.Finished() {
		return domain.Conflict(fmt.Sprintf("la ejecución ya terminó (%s)", e.Status))
	}
	e.Status = ExecutionCancelled
	e.CompletedAt = timePtr(now)
	return nil
}

// NewExecutionID genera "EXEC-YYYYMMDDHHMMSS-XXXXXXXX".
func NewExecutionID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("EXEC-%s-%s", now.UTC().Format("20060102150405"), suffix)
}

// WorkflowStepExecution seguimiento de un paso dentro de una ejecución.
type WorkflowStepExecution struct {
	Identity
	WorkflowExecutionID string     `json:"workflow_execution" db:"workflow_execution_id"`
	WorkflowStepID      string     `json:"workflow_step" db:"workflow_step_id"`
	Status              string     `json:"status" db:"status"`
	InputData           JSONMap    `json:"input_data" db:"input_data"`
	OutputData          JSONMap    `json:"output_data" db:"output_data"`
	StartedAt           time.Time  `json:"started_at" db:"started_at"`
	CompletedAt         *time.Time `json:"completed_at" db:"completed_at"`
	DurationSeconds     *int       `json:"duration" db:"duration_seconds"`
	ErrorMessage        string     `json:"error_message" db:"error_message"`
	RetryCount          int        `json:"retry_count" db:"retry_count"`

	StepName string `json:"step_name" db:"step_name"`
}

func (s *WorkflowStepExecution) Defaults() { s.Status = ExecutionPending }

// Prepare calcula la duración cuando el paso termina.
func (s *WorkflowStepExecution) Prepare(now time.Time, creating bool) {
	if creating || s.StartedAt.IsZero() {
		s.StartedAt = now
	}
	defaultString(&s.Status, ExecutionPending)
	if s.InputData == nil {
		s.InputData = JSONMap{}
	}
	if s.OutputData == nil {
		s.OutputData = JSONMap{}
	}
	done := s.Status == ExecutionCompleted || s.Status == ExecutionFailed || s.Status == "skipped" ||
		s.Status == ExecutionCancelled
	if done && s.CompletedAt == nil {
		s.CompletedAt = timePtr(now)
	}
	if s.CompletedAt != nil && s.DurationSeconds == nil {
		d := int(s.CompletedAt.Sub(s.StartedAt).Seconds())
		s.DurationSeconds = &d
	}
}

func (s *WorkflowStepExecution) Validate() error {
	return Check(
		RequiredRef("workflow_execution", s.WorkflowExecutionID),
		RequiredRef("workflow_step", s.WorkflowStepID),
		OneOf("status", s.Status, ExecutionPending, ExecutionRunning, ExecutionCompleted, ExecutionFailed,
			"skipped", ExecutionCancelled),
		NonNegative("retry_count", s.RetryCount),
	)
}

// WorkflowTemplate plantilla de flujo reutilizable.
type WorkflowTemplate struct {
	Identity
	Name         string          `json:"name" db:"name"`
	Description  string          `json:"description" db:"description"`
	Category     string          `json:"category" db:"category"`
	TemplateData JSONMap         `json:"template_data" db:"template_data"`
	IsPublic     bool            `json:"is_public" db:"is_public"`
	UsageCount   int             `json:"usage_count" db:"usage_count"`
	Rating       decimal.Decimal `json:"rating" db:"rating"`
	CreatedBy    *string         `json:"created_by" db:"created_by"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

func (t *WorkflowTemplate) Defaults() { t.IsPublic = true }

func (t *WorkflowTemplate) SetAuthor(userID string) { setOptionalAuthor(&t.CreatedBy, userID) }

func (t *WorkflowTemplate) Prepare(now time.Time, creating bool) {
	if t.TemplateData == nil {
		t.TemplateData = JSONMap{}
	}
	touch(&t.CreatedAt, &t.UpdatedAt, now, creating)
}

func (t *WorkflowTemplate) Validate() error {
	return Check(
		Required("name", t.Name),
		Required("description", t.Description),
		OneOf("category", t.Category,
			"sales", "marketing", "support", "onboarding", "offboarding", "approval", "notification",
			"integration", "other"),
		NonNegative("usage_count", t.UsageCount),
		DecimalRange("rating", t.Rating, 0, 5),
	)
}

// WorkflowVariable variable declarada por un flujo.
type WorkflowVariable struct {
	Identity
	WorkflowID      string    `json:"workflow" db:"workflow_id"`
	Name            string    `json:"name" db:"name"`
	VariableType    string    `json:"variable_type" db:"variable_type"`
	Description     string    `json:"description" db:"description"`
	DefaultValue    string    `json:"default_value" db:"default_value"`
	IsRequired      bool      `json:"is_required" db:"is_required"`
	ValidationRules JSONMap   `json:"validation_rules" db:"validation_rules"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

func (v *WorkflowVariable) Prepare(now time.Time, creating bool) {
	if v.ValidationRules == nil {
		v.ValidationRules = JSONMap{}
	}
	touch(&v.CreatedAt, nil, now, creating)
}

func (v *WorkflowVariable) Validate() error {
	return Check(
		RequiredRef("workflow", v.WorkflowID),
		Required("name", v.Name),
		OneOf("variable_type", v.VariableType,
			"string", "number", "boolean", "date", "datetime", "json", "array", "object"),
	)
}

// WorkflowIntegration conexión con un sistema externo. Las credenciales nunca se devuelven.
type WorkflowIntegration struct {
	Identity
	Name            string     `json:"name" db:"name"`
	IntegrationType string     `json:"integration_type" db:"integration_type"`
	Description     string     `json:"description" db:"description"`
	Configuration   JSONMap    `json:"configuration" db:"configuration"`
	Credentials     JSONMap    `json:"credentials,omitempty" db:"credentials"`
	IsActive        bool       `json:"is_active" db:"is_active"`
	TestStatus      string     `json:"test_status" db:"test_status"`
	LastTested      *time.Time `json:"last_tested" db:"last_tested"`
	CreatedBy       *string    `json:"created_by" db:"created_by"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

func (i *WorkflowIntegration) Defaults() {
	i.IsActive = true
	i.TestStatus = "untested"
}

func (i *WorkflowIntegration) SetAuthor(userID string) { setOptionalAuthor(&i.CreatedBy, userID) }

func (i *WorkflowIntegration) Prepare(now time.Time, creating bool) {
	defaultString(&i.TestStatus, "untested")
	if i.Configuration == nil {
		i.Configuration = JSONMap{}
	}
	if i.Credentials == nil {
		i.Credentials = JSONMap{}
	}
	touch(&i.CreatedAt, &i.UpdatedAt, now, creating)
}

func (i *WorkflowIntegration) Validate() error {
	return Check(
		Required("name", i.Name),
		OneOf("integration_type", i.IntegrationType,
			"api", "webhook", "email", "sms", "slack", "teams", "zapier", "make", "custom"),
	)
}

func (i *WorkflowIntegration) Redact() { i.Credentials = nil }

// WorkflowMetrics métricas diarias de un flujo.
type WorkflowMetrics struct {
	Identity
	WorkflowID           string          `json:"workflow" db:"workflow_id"`
	Date                 Date            `json:"date" db:"date"`
	TotalExecutions      int             `json:"total_executions" db:"total_executions"`
	SuccessfulExecutions int             `json:"successful_executions" db:"successful_executions"`
	FailedExecutions     int             `json:"failed_executions" db:"failed_executions"`
	AvgExecutionTime     decimal.Decimal `json:"avg_execution_time" db:"avg_execution_time"`
	TotalStepsExecuted   int             `json:"total_steps_executed" db:"total_steps_executed"`
	AvgStepsPerExecution decimal.Decimal `json:"avg_steps_per_execution" db:"avg_steps_per_execution"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`

	WorkflowName string `json:"workflow_name" db:"workflow_name"`
}

func (m *WorkflowMetrics) Prepare(now time.Time, creating bool) {
	touch(&m.CreatedAt, nil, now, creating)
}

func (m *WorkflowMetrics) Validate() error {
	var split error
	if m.SuccessfulExecutions+m.FailedExecutions > m.TotalExecutions {
		split = domain.Invalid("total_executions", "no puede ser menor que exitosas + fallidas")
	}
	return Check(
		RequiredRef("workflow", m.WorkflowID),
		RequiredDate("date", m.Date),
		NonNegative("total_executions", m.TotalExecutions),
		NonNegative("successful_executions", m.SuccessfulExecutions),
		NonNegative("failed_executions", m.FailedExecutions),
		split,
	)
}
