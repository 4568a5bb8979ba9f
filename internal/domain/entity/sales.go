package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/intellicx-crm/internal/domain/crm"
)

// Estados de Lead.
const (
	LeadNew         = "new"
	LeadContacted   = "contacted"
	LeadQualified   = "qualified"
	LeadUnqualified = "unqualified"
	LeadConverted   = "converted"
	LeadLost        = "lost"
)

// Lead es un prospecto comercial aún no convertido en cliente.
type Lead struct {
	Identity
	FirstName      string              `json:"first_name" db:"first_name"`
	LastName       string              `json:"last_name" db:"last_name"`
	Email          string              `json:"email" db:"email"`
	Phone          string              `json:"phone" db:"phone"`
	CompanyName    string              `json:"company_name" db:"company_name"`
	JobTitle       string              `json:"job_title" db:"job_title"`
	Industry       string              `json:"industry" db:"industry"`
	Source         string              `json:"source" db:"source"`
	Status         string              `json:"status" db:"status"`
	LeadScore      int                 `json:"lead_score" db:"lead_score"`
	EstimatedValue decimal.NullDecimal `json:"estimated_value" db:"estimated_value"`
	Notes          string              `json:"notes" db:"notes"`
	AssignedTo     *string             `json:"assigned_to" db:"assigned_to"`
	CustomerID     *string             `json:"customer" db:"customer_id"`
	CreatedBy      *string             `json:"created_by" db:"created_by"`
	LastContacted  *time.Time          `json:"last_contacted" db:"last_contacted"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" db:"updated_at"`

	FullName       string `json:"full_name" db:"full_name"`
	AssignedToName string `json:"assigned_to_name" db:"assigned_to_name"`
}

func (l *Lead) Defaults() {
	l.Status = LeadNew
	l.Source = "other"
}

func (l *Lead) SetAuthor(userID string) { setOptionalAuthor(&l.CreatedBy, userID) }

func (l *Lead) Prepare(now time.Time, creating bool) {
	l.Email = strings.ToLower(strings.TrimSpace(l.Email))
	defaultString(&l.Status, LeadNew)
	touch(&l.CreatedAt, &l.UpdatedAt, now, creating)
}

func (l *Lead) Validate() error {
	var value error
	if l.EstimatedValue.Valid {
		value = NonNegativeDecimal("estimated_value", l.EstimatedValue.Decimal)
	}
	return Check(
		Required("first_name", l.FirstName),
		Required("last_name", l.LastName),
		Email("email", l.Email),
		OneOf("source", l.Source, "website", "referral", "social_media", "email", "cold_call", "event", "advertising", "other"),
		OneOf("status", l.Status, LeadNew, LeadContacted, LeadQualified, LeadUnqualified, LeadConverted, LeadLost),
		IntRange("lead_score", l.LeadScore, 0, 100),
		value,
	)
}

// Opportunity oportunidad de venta dentro del pipeline.
type Opportunity struct {
	Identity
	Name              string          `json:"name" db:"name"`
	CustomerID        string          `json:"customer" db:"customer_id"`
	LeadID            *string         `json:"lead" db:"lead_id"`
	Stage             string          `json:"stage" db:"stage"`
	Amount            decimal.Decimal `json:"amount" db:"amount"`
	Currency          string          `json:"currency" db:"currency"`
	Probability       int             `json:"probability" db:"probability"`
	ExpectedCloseDate Date            `json:"expected_close_date" db:"expected_close_date"`
	ActualCloseDate   Date            `json:"actual_close_date" db:"actual_close_date"`
	Description       string          `json:"description" db:"description"`
	AssignedTo        *string         `json:"assigned_to" db:"assigned_to"`
	CreatedBy         *string         `json:"created_by" db:"created_by"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`

	CustomerName   string `json:"customer_name" db:"customer_name"`
	AssignedToName string `json:"assigned_to_name" db:"assigned_to_name"`
}

func (o *Opportunity) Defaults() {
	o.Stage = crm.StageProspecting
	o.Currency = "USD"
}

func (o *Opportunity) SetAuthor(userID string) { setOptionalAuthor(&o.CreatedBy, userID) }

func (o *Opportunity) Prepare(now time.Time, creating bool) {
	defaultString(&o.Stage, crm.StageProspecting)
	defaultString(&o.Currency, "USD")
	o.Currency = strings.ToUpper(o.Currency)
	touch(&o.CreatedAt, &o.UpdatedAt, now, creating)
}

func (o *Opportunity) Validate() error {
	return Check(
		Required("name", o.Name),
		RequiredRef("customer", o.CustomerID),
		OneOf("stage", o.Stage, append(append([]string{}, crm.OpenStages...), crm.StageClosedWon, crm.StageClosedLost)...),
		NonNegativeDecimal("amount", o.Amount),
		IntRange("probability", o.Probability, 0, 100),
	)
}

// AdvanceStage mueve la oportunidad a la siguiente etapa; al ganar fija la fecha real de cierre.
func (o *Opportunity) AdvanceStage(now time.Time) error {
	next, err := crm.NextStage(o.Stage)
	if err != nil {
		return err
	}
	o.Stage = next
	if crm.IsClosedStage(next) && !o.ActualCloseDate.Valid {
		o.ActualCloseDate = NewDate(now)
	}
	return nil
}

// Deal es un acuerdo cerrado con seguimiento de ingresos.
type Deal struct {
	Identity
	DealNumber    string          `json:"deal_number" db:"deal_number"`
	OpportunityID *string         `json:"opportunity" db:"opportunity_id"`
	CustomerID    string          `json:"customer" db:"customer_id"`
	Title         string          `json:"title" db:"title"`
	Description   string          `json:"description" db:"description"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Currency      string          `json:"currency" db:"currency"`
	Status        string          `json:"status" db:"status"`
	StartDate     Date            `json:"start_date" db:"start_date"`
	EndDate       Date            `json:"end_date" db:"end_date"`
	PaymentTerms  string          `json:"payment_terms" db:"payment_terms"`
	Notes         string          `json:"notes" db:"notes"`
	AssignedTo    *string         `json:"assigned_to" db:"assigned_to"`
	ClosedAt      *time.Time      `json:"closed_at" db:"closed_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	CustomerName string `json:"customer_name" db:"customer_name"`
}

func (d *Deal) Defaults() {
	d.Status = "pending"
	d.Currency = "USD"
}

func (d *Deal) Prepare(now time.Time, creating bool) {
	if creating && d.DealNumber == "" {
		d.DealNumber = NewDealNumber()
	}
	defaultString(&d.Status, "pending")
	defaultString(&d.Currency, "USD")
	touch(&d.CreatedAt, &d.UpdatedAt, now, creating)
}

func (d *Deal) Validate() error {
	return Check(
		RequiredRef("customer", d.CustomerID),
		Required("title", d.Title),
		NonNegativeDecimal("amount", d.Amount),
		OneOf("status", d.Status, "pending", "active", "completed", "cancelled"),
		DateOrder("end_date", d.StartDate, d.EndDate),
	)
}

// Close marca el acuerdo como completado conservando la primera fecha de cierre.
func (d *Deal) Close(now time.Time) {
	d.Status = "completed"
	if d.ClosedAt == nil {
		d.ClosedAt = timePtr(now)
	}
}

// NewDealNumber genera "DEAL-XXXXXXXX".
func NewDealNumber() string {
	return "DEAL-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// SalesActivity actividad comercial (llamada, demo, propuesta...).
type SalesActivity struct {
	Identity
	ActivityType  string     `json:"activity_type" db:"activity_type"`
	Subject       string     `json:"subject" db:"subject"`
	Description   string     `json:"description" db:"description"`
	CustomerID    *string    `json:"customer" db:"customer_id"`
	LeadID        *string    `json:"lead" db:"lead_id"`
	OpportunityID *string    `json:"opportunity" db:"opportunity_id"`
	UserID        *string    `json:"user" db:"user_id"`
	ScheduledAt   *time.Time `json:"scheduled_at" db:"scheduled_at"`
	CompletedAt   *time.Time `json:"completed_at" db:"completed_at"`
	IsCompleted   bool       `json:"is_completed" db:"is_completed"`
	Outcome       string     `json:"outcome" db:"outcome"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	UserName string `json:"user_name" db:"user_name"`
}

func (a *SalesActivity) SetAuthor(userID string) { setOptionalAuthor(&a.UserID, userID) }

func (a *SalesActivity) Prepare(now time.Time, creating bool) {
	if a.IsCompleted && a.CompletedAt == nil {
		a.CompletedAt = timePtr(now)
	}
	touch(&a.CreatedAt, &a.UpdatedAt, now, creating)
}

func (a *SalesActivity) Validate() error {
	return Check(
		OneOf("activity_type", a.ActivityType, "call", "email", "meeting", "demo", "proposal", "follow_up", "other"),
		Required("subject", a.Subject),
	)
}

// Complete marca la actividad como realizada.
func (a *SalesActivity) Complete(now time.Time) {
	a.IsCompleted = true
	if a.CompletedAt == nil {
		a.CompletedAt = timePtr(now)
	}
}

// SalesPipeline configuración de etapas de un pipeline.
type SalesPipeline struct {
	Identity
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Stages      JSONList  `json:"stages" db:"stages"`
	IsDefault   bool      `json:"is_default" db:"is_default"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (p *SalesPipeline) Defaults() { p.IsActive = true }

func (p *SalesPipeline) Prepare(now time.Time, creating bool) {
	if p.Stages == nil {
		p.Stages = JSONList{}
	}
	touch(&p.CreatedAt, &p.UpdatedAt, now, creating)
}

func (p *SalesPipeline) Validate() error { return Required("name", p.Name) }

// SalesForecast proyección de ventas de un usuario para un período.
type SalesForecast struct {
	Identity
	UserID         *string             `json:"user" db:"user_id"`
	Period         string              `json:"period" db:"period"`
	PeriodStart    Date                `json:"period_start" db:"period_start"`
	PeriodEnd      Date                `json:"period_end" db:"period_end"`
	ForecastAmount decimal.Decimal     `json:"forecast_amount" db:"forecast_amount"`
	ActualAmount   decimal.NullDecimal `json:"actual_amount" db:"actual_amount"`
	Confidence     int                 `json:"confidence" db:"confidence"`
	Notes          string              `json:"notes" db:"notes"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" db:"updated_at"`

	UserName string `json:"user_name" db:"user_name"`
}

func (f *SalesForecast) Defaults() { f.Period = "monthly" }

func (f *SalesForecast) SetAuthor(userID string) { setOptionalAuthor(&f.UserID, userID) }

func (f *SalesForecast) Prepare(now time.Time, creating bool) {
	defaultString(&f.Period, "monthly")
	touch(&f.CreatedAt, &f.UpdatedAt, now, creating)
}

func (f *SalesForecast) Validate() error {
	return Check(
		OneOf("period", f.Period, "monthly", "quarterly", "yearly"),
		RequiredDate("period_start", f.PeriodStart),
		RequiredDate("period_end", f.PeriodEnd),
		DateOrder("period_end", f.PeriodStart, f.PeriodEnd),
		NonNegativeDecimal("forecast_amount", f.ForecastAmount),
		IntRange("confidence", f.Confidence, 0, 100),
	)
}
