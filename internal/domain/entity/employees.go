package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/crm"
)

// Estados de empleado.
const (
	EmployeeActive     = "active"
	EmployeeInactive   = "inactive"
	EmployeeTerminated = "terminated"
	EmployeeOnLeave    = "on_leave"
)

// Employee ficha laboral de un usuario del CRM.
type Employee struct {
	Identity
	UserID           string              `json:"user" db:"user_id"`
	CompanyID        *string             `json:"company" db:"company_id"`
	EmployeeID       string              `json:"employee_id" db:"employee_code"`
	Role             string              `json:"role" db:"role"`
	Department       string              `json:"department" db:"department"`
	ManagerID        *string             `json:"manager" db:"manager_id"`
	HireDate         Date                `json:"hire_date" db:"hire_date"`
	Status           string              `json:"status" db:"status"`
	Salary           decimal.NullDecimal `json:"salary" db:"salary"`
	CommissionRate   decimal.NullDecimal `json:"commission_rate" db:"commission_rate"`
	Phone            string              `json:"phone" db:"phone"`
	Address          string              `json:"address" db:"address"`
	EmergencyContact string              `json:"emergency_contact" db:"emergency_contact"`
	EmergencyPhone   string              `json:"emergency_phone" db:"emergency_phone"`
	CreatedAt        time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" db:"updated_at"`

	FullName    string `json:"full_name" db:"full_name"`
	Email       string `json:"email" db:"email"`
	ManagerName string `json:"manager_name" db:"manager_name"`
}

func (e *Employee) Defaults() { e.Status = EmployeeActive }

func (e *Employee) Prepare(now time.Time, creating bool) {
	defaultString(&e.Status, EmployeeActive)
	touch(&e.CreatedAt, &e.UpdatedAt, now, creating)
}

func (e *Employee) Validate() error {
	var commission, self error
	if e.CommissionRate.Valid {
		commission = DecimalRange("commission_rate", e.CommissionRate.Decimal, 0, 100)
	}
	if e.ManagerID != nil && *e.ManagerID == e.ID && e.ID != "" {
		self = domain.Invalid("manager", "un empleado no puede ser su propio responsable")
	}
	return Check(
		RequiredRef("user", e.UserID),
		Required("employee_id", e.EmployeeID),
		OneOf("role", e.Role,
			"sales_rep", "sales_manager", "support_agent", "support_manager", "marketing_specialist",
			"marketing_manager", "admin", "analyst", "manager", "executive"),
		Required("department", e.Department),
		RequiredDate("hire_date", e.HireDate),
		OneOf("status", e.Status, EmployeeActive, EmployeeInactive, EmployeeTerminated, EmployeeOnLeave),
		commission,
		self,
	)
}

// EmployeePerformance evaluación de desempeño de un período.
type EmployeePerformance struct {
	Identity
	EmployeeID                   string              `json:"employee" db:"employee_id"`
	PeriodStart                  Date                `json:"period_start" db:"period_start"`
	PeriodEnd                    Date                `json:"period_end" db:"period_end"`
	SalesTarget                  decimal.NullDecimal `json:"sales_target" db:"sales_target"`
	SalesAchieved                decimal.NullDecimal `json:"sales_achieved" db:"sales_achieved"`
	SalesConversionRate          decimal.NullDecimal `json:"sales_conversion_rate" db:"sales_conversion_rate"`
	TicketsHandled               int                 `json:"tickets_handled" db:"tickets_handled"`
	TicketsResolved              int                 `json:"tickets_resolved" db:"tickets_resolved"`
	AverageResolutionTimeSeconds *int                `json:"average_resolution_time_seconds" db:"average_resolution_time_seconds"`
	CustomerSatisfactionScore    decimal.NullDecimal `json:"customer_satisfaction_score" db:"customer_satisfaction_score"`
	CampaignsManaged             int                 `json:"campaigns_managed" db:"campaigns_managed"`
	LeadsGenerated               int                 `json:"leads_generated" db:"leads_generated"`
	EmailOpenRate                decimal.NullDecimal `json:"email_open_rate" db:"email_open_rate"`
	EmailClickRate               decimal.NullDecimal `json:"email_click_rate" db:"email_click_rate"`
	ProductivityScore            decimal.NullDecimal `json:"productivity_score" db:"productivity_score"`
	QualityScore                 decimal.NullDecimal `json:"quality_score" db:"quality_score"`
	OverallRating                decimal.NullDecimal `json:"overall_rating" db:"overall_rating"`
	Notes                        string              `json:"notes" db:"notes"`
	ReviewedBy                   *string             `json:"reviewed_by" db:"reviewed_by"`
	ReviewedAt                   *time.Time          `json:"reviewed_at" db:"reviewed_at"`
	CreatedAt                    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt                    time.Time           `json:"updated_at" db:"updated_at"`

	EmployeeName string `json:"employee_name" db:"employee_name"`
}

func (p *EmployeePerformance) Prepare(now time.Time, creating bool) {
	if p.ReviewedBy != nil && p.ReviewedAt == nil {
		p.ReviewedAt = timePtr(now)
	}
	touch(&p.CreatedAt, &p.UpdatedAt, now, creating)
}

func (p *EmployeePerformance) Validate() error {
	var rating error
	if p.OverallRating.Valid {
		rating = DecimalRange("overall_rating", p.OverallRating.Decimal, 0, 10)
	}
	return Check(
		RequiredRef("employee", p.EmployeeID),
		RequiredDate("period_start", p.PeriodStart),
		RequiredDate("period_end", p.PeriodEnd),
		DateOrder("period_end", p.PeriodStart, p.PeriodEnd),
		NonNegative("tickets_handled", p.TicketsHandled),
		NonNegative("tickets_resolved", p.TicketsResolved),
		rating,
	)
}

// EmployeeActivity evento de actividad de un empleado.
type EmployeeActivity struct {
	Identity
	EmployeeID        string    `json:"employee" db:"employee_id"`
	ActivityType      string    `json:"activity_type" db:"activity_type"`
	Description       string    `json:"description" db:"description"`
	RelatedCustomerID *string   `json:"related_customer" db:"related_customer_id"`
	RelatedCompanyID  *string   `json:"related_company" db:"related_company_id"`
	Metadata          JSONMap   `json:"metadata" db:"metadata"`
	Timestamp         time.Time `json:"timestamp" db:"timestamp"`
	DurationSeconds   *int      `json:"duration_seconds" db:"duration_seconds"`

	EmployeeName string `json:"employee_name" db:"employee_name"`
}

func (a *EmployeeActivity) Prepare(now time.Time, creating bool) {
	if a.Timestamp.IsZero() {
		a.Timestamp = now
	}
}

func (a *EmployeeActivity) Validate() error {
	var duration error
	if a.DurationSeconds != nil {
		duration = NonNegative("duration_seconds", *a.DurationSeconds)
	}
	return Check(
		RequiredRef("employee", a.EmployeeID),
		OneOf("activity_type", a.ActivityType,
			"login", "logout", "customer_interaction", "ticket_created", "ticket_resolved", "lead_created",
			"deal_closed", "email_sent", "call_made", "meeting_attended", "training_completed"),
		Required("description", a.Description),
		duration,
	)
}

// EmployeeGoal objetivo individual con porcentaje de avance.
type EmployeeGoal struct {
	Identity
	EmployeeID         string              `json:"employee" db:"employee_id"`
	Title              string              `json:"title" db:"title"`
	Description        string              `json:"description" db:"description"`
	GoalType           string              `json:"goal_type" db:"goal_type"`
	TargetValue        decimal.NullDecimal `json:"target_value" db:"target_value"`
	CurrentValue       decimal.Decimal     `json:"current_value" db:"current_value"`
	TargetDate         Date                `json:"target_date" db:"target_date"`
	StartDate          Date                `json:"start_date" db:"start_date"`
	Status             string              `json:"status" db:"status"`
	ProgressPercentage decimal.Decimal     `json:"progress_percentage" db:"progress_percentage"`
	ManagerNotes       string              `json:"manager_notes" db:"manager_notes"`
	EmployeeNotes      string              `json:"employee_notes" db:"employee_notes"`
	CreatedAt          time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at" db:"updated_at"`

	EmployeeName string `json:"employee_name" db:"employee_name"`
}

func (g *EmployeeGoal) Defaults() { g.Status = crm.GoalNotStarted }

func (g *EmployeeGoal) Prepare(now time.Time, creating bool) {
	defaultString(&g.Status, crm.GoalNotStarted)
	if !g.StartDate.Valid {
		g.StartDate = NewDate(now)
	}
	touch(&g.CreatedAt, &g.UpdatedAt, now, creating)
}

func (g *EmployeeGoal) Validate() error {
	return Check(
		RequiredRef("employee", g.EmployeeID),
		Required("title", g.Title),
		OneOf("goal_type", g.GoalType, "sales", "support", "marketing", "productivity", "quality", "training", "personal"),
		RequiredDate("target_date", g.TargetDate),
		OneOf("status", g.Status, crm.GoalNotStarted, crm.GoalInProgress, "on_track", "at_risk", crm.GoalCompleted, "overdue"),
		DecimalRange("progress_percentage", g.ProgressPercentage, 0, 100),
	)
}

// UpdateProgress fija el avance (acotado a 0..100) y deriva el estado.
func (g *EmployeeGoal) UpdateProgress(progress decimal.Decimal) {
	g.ProgressPercentage = crm.ClampProgress(progress)
	g.Status = crm.GoalStatusForProgress(g.Status, progress)
}

// EmployeeTraining capacitación de un empleado.
type EmployeeTraining struct {
	Identity
	EmployeeID     string              `json:"employee" db:"employee_id"`
	Title          string              `json:"title" db:"title"`
	Description    string              `json:"description" db:"description"`
	TrainingType   string              `json:"training_type" db:"training_type"`
	Provider       string              `json:"provider" db:"provider"`
	StartDate      Date                `json:"start_date" db:"start_date"`
	EndDate        Date                `json:"end_date" db:"end_date"`
	DurationHours  decimal.Decimal     `json:"duration_hours" db:"duration_hours"`
	Status         string              `json:"status" db:"status"`
	Score          decimal.NullDecimal `json:"score" db:"score"`
	CertificateURL string              `json:"certificate_url" db:"certificate_url"`
	Notes          string              `json:"notes" db:"notes"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" db:"updated_at"`

	EmployeeName string `json:"employee_name" db:"employee_name"`
}

func (t *EmployeeTraining) Defaults() { t.Status = "not_started" }

func (t *EmployeeTraining) Prepare(now time.Time, creating bool) {
	defaultString(&t.Status, "not_started")
	touch(&t.CreatedAt, &t.UpdatedAt, now, creating)
}

func (t *EmployeeTraining) Validate() error {
	var score error
	if t.Score.Valid {
		score = DecimalRange("score", t.Score.Decimal, 0, 100)
	}
	return Check(
		RequiredRef("employee", t.EmployeeID),
		Required("title", t.Title),
		OneOf("training_type", t.TrainingType,
			"product", "sales", "support", "marketing", "compliance", "soft_skills", "technical", "leadership"),
		RequiredDate("start_date", t.StartDate),
		RequiredDate("end_date", t.EndDate),
		DateOrder("end_date", t.StartDate, t.EndDate),
		NonNegativeDecimal("duration_hours", t.DurationHours),
		OneOf("status", t.Status, "not_started", "in_progress", "completed", "failed", "expired"),
		score,
	)
}

// Complete cierra la capacitación; score es opcional.
func (t *EmployeeTraining) Complete(score *decimal.Decimal) {
	t.Status = "completed"
	if score != nil {
		t.Score = decimal.NewNullDecimal(*score)
	}
}

// EmployeeSchedule turno de un día (horas "HH:MM").
type EmployeeSchedule struct {
	Identity
	EmployeeID   string    `json:"employee" db:"employee_id"`
	Date         Date      `json:"date" db:"date"`
	StartTime    string    `json:"start_time" db:"start_time"`
	EndTime      string    `json:"end_time" db:"end_time"`
	BreakStart   string    `json:"break_start" db:"break_start"`
	BreakEnd     string    `json:"break_end" db:"break_end"`
	IsWorkingDay bool      `json:"is_working_day" db:"is_working_day"`
	Notes        string    `json:"notes" db:"notes"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	EmployeeName string `json:"employee_name" db:"employee_name"`
}

func (s *EmployeeSchedule) Defaults() { s.IsWorkingDay = true }

func (s *EmployeeSchedule) Prepare(now time.Time, creating bool) {
	touch(&s.CreatedAt, nil, now, creating)
}

// Validate exige HH:MM; con formato fijo las horas se comparan como texto.
func (s *EmployeeSchedule) Validate() error {
	var order, breaks error
	if s.EndTime <= s.StartTime {
		order = domain.Invalid("end_time", "debe ser posterior a start_time")
	}
	if s.BreakStart != "" || s.BreakEnd != "" {
		breaks = Check(ClockTime("break_start", s.BreakStart), ClockTime("break_end", s.BreakEnd))
	}
	return Check(
		RequiredRef("employee", s.EmployeeID),
		RequiredDate("date", s.Date),
		ClockTime("start_time", s.StartTime),
		ClockTime("end_time", s.EndTime),
		order,
		breaks,
	)
}

// EmployeeMetrics métricas diarias de productividad.
type EmployeeMetrics struct {
	Identity
	EmployeeID           string              `json:"employee" db:"employee_id"`
	Date                 Date                `json:"date" db:"date"`
	HoursWorked          decimal.Decimal     `json:"hours_worked" db:"hours_worked"`
	TasksCompleted       int                 `json:"tasks_completed" db:"tasks_completed"`
	CustomerInteractions int                 `json:"customer_interactions" db:"customer_interactions"`
	TicketsHandled       int                 `json:"tickets_handled" db:"tickets_handled"`
	SalesActivities      int                 `json:"sales_activities" db:"sales_activities"`
	EfficiencyScore      decimal.NullDecimal `json:"efficiency_score" db:"efficiency_score"`
	QualityScore         decimal.NullDecimal `json:"quality_score" db:"quality_score"`
	CreatedAt            time.Time           `json:"created_at" db:"created_at"`

	EmployeeName string `json:"employee_name" db:"employee_name"`
}

func (m *EmployeeMetrics) Prepare(now time.Time, creating bool) {
	touch(&m.CreatedAt, nil, now, creating)
}

func (m *EmployeeMetrics) Validate() error {
	return Check(
		RequiredRef("employee", m.EmployeeID),
		RequiredDate("date", m.Date),
		DecimalRange("hours_worked", m.HoursWorked, 0, 24),
		NonNegative("tasks_completed", m.TasksCompleted),
	)
}
