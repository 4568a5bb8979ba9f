package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de ticket.
const (
	TicketOpen              = "open"
	TicketInProgress        = "in_progress"
	TicketWaitingCustomer   = "waiting_customer"
	TicketWaitingThirdParty = "waiting_third_party"
	TicketResolved          = "resolved"
	TicketClosed            = "closed"
	TicketCancelled         = "cancelled"
)

var supportPriorities = []string{"low", "medium", "high", "urgent", "critical"}

// SupportTicket caso de soporte de un cliente.
type SupportTicket struct {
	Identity
	TicketNumber string     `json:"ticket_number" db:"ticket_number"`
	CustomerID   string     `json:"customer" db:"customer_id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	TicketType   string     `json:"ticket_type" db:"ticket_type"`
	Priority     string     `json:"priority" db:"priority"`
	Status       string     `json:"status" db:"status"`
	AssignedTo   *string    `json:"assigned_to" db:"assigned_to"`
	CreatedBy    *string    `json:"created_by" db:"created_by"`
	ResolvedAt   *time.Time `json:"resolved_at" db:"resolved_at"`
	ClosedAt     *time.Time `json:"closed_at" db:"closed_at"`
	DueDate      *time.Time `json:"due_date" db:"due_date"`
	Tags         []string   `json:"tags" db:"tags"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	CustomerName   string `json:"customer_name" db:"customer_name"`
	AssignedToName string `json:"assigned_to_name" db:"assigned_to_name"`
	ResponseCount  int    `json:"response_count" db:"response_count"`
}

func (t *SupportTicket) Defaults() {
	t.TicketType = "general"
	t.Priority = "medium"
	t.Status = TicketOpen
}

func (t *SupportTicket) SetAuthor(userID string) { setOptionalAuthor(&t.CreatedBy, userID) }

// Prepare fija resolved_at al resolver/cerrar y closed_at al cerrar.
func (t *SupportTicket) Prepare(now time.Time, creating bool) {
	if creating && t.TicketNumber == "" {
		t.TicketNumber = NewTicketNumber(now)
	}
	defaultString(&t.Priority, "medium")
	defaultString(&t.Status, TicketOpen)
	if t.Tags == nil {
		t.Tags = []string{}
	}
	if (t.Status == TicketResolved || t.Status == TicketClosed) && t.ResolvedAt == nil {
		t.ResolvedAt = timePtr(now)
	}
	if t.Status == TicketClosed && t.ClosedAt == nil {
		t.ClosedAt = timePtr(now)
	}
	touch(&t.CreatedAt, &t.UpdatedAt, now, creating)
}

func (t *SupportTicket) Validate() error {
	return Check(
		RequiredRef("customer", t.CustomerID),
		Required("title", t.Title),
		OneOf("ticket_type", t.TicketType,
			"bug", "feature_request", "technical_support", "billing", "account", "general", "other"),
		OneOf("priority", t.Priority, supportPriorities...),
		OneOf("status", t.Status, TicketOpen, TicketInProgress, TicketWaitingCustomer, TicketWaitingThirdParty,
			TicketResolved, TicketClosed, TicketCancelled),
	)
}

// NewTicketNumber genera "TCK-YYYYMMDD-XXXXXX".
func NewTicketNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("TCK-%s-%s", now.UTC().Format("20060102"), suffix)
}

// TicketResponse mensaje o nota interna dentro de un ticket.
type TicketResponse struct {
	Identity
	TicketID    string    `json:"ticket" db:"ticket_id"`
	UserID      *string   `json:"user" db:"user_id"`
	Message     string    `json:"message" db:"message"`
	IsInternal  bool      `json:"is_internal" db:"is_internal"`
	Attachments []string  `json:"attachments" db:"attachments"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	UserName string `json:"user_name" db:"user_name"`
}

func (r *TicketResponse) SetAuthor(userID string) { setOptionalAuthor(&r.UserID, userID) }

func (r *TicketResponse) Prepare(now time.Time, creating bool) {
	if r.Attachments == nil {
		r.Attachments = []string{}
	}
	touch(&r.CreatedAt, nil, now, creating)
}

func (r *TicketResponse) Validate() error {
	return Check(RequiredRef("ticket", r.TicketID), Required("message", r.Message))
}

// ServiceLevelAgreement tiempos comprometidos por prioridad (en horas).
type ServiceLevelAgreement struct {
	Identity
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	Priority       string    `json:"priority" db:"priority"`
	ResponseTime   int       `json:"response_time" db:"response_time"`
	ResolutionTime int       `json:"resolution_time" db:"resolution_time"`
	BusinessHours  JSONMap   `json:"business_hours" db:"business_hours"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func (s *ServiceLevelAgreement) Defaults() { s.IsActive = true }

func (s *ServiceLevelAgreement) Prepare(now time.Time, creating bool) {
	if s.BusinessHours == nil {
		s.BusinessHours = JSONMap{}
	}
	touch(&s.CreatedAt, &s.UpdatedAt, now, creating)
}

func (s *ServiceLevelAgreement) Validate() error {
	return Check(
		Required("name", s.Name),
		OneOf("priority", s.Priority, supportPriorities...),
		Positive("response_time", s.ResponseTime),
		Positive("resolution_time", s.ResolutionTime),
	)
}

// KnowledgeBase artículo de ayuda del módulo de soporte.
type KnowledgeBase struct {
	Identity
	Title           string     `json:"title" db:"title"`
	Content         string     `json:"content" db:"content"`
	ArticleType     string     `json:"article_type" db:"article_type"`
	Category        string     `json:"category" db:"category"`
	Tags            []string   `json:"tags" db:"tags"`
	IsPublished     bool       `json:"is_published" db:"is_published"`
	IsFeatured      bool       `json:"is_featured" db:"is_featured"`
	ViewCount       int        `json:"view_count" db:"view_count"`
	HelpfulCount    int        `json:"helpful_count" db:"helpful_count"`
	NotHelpfulCount int        `json:"not_helpful_count" db:"not_helpful_count"`
	AuthorID        *string    `json:"author" db:"author_id"`
	PublishedAt     *time.Time `json:"published_at" db:"published_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`

	AuthorName string `json:"author_name" db:"author_name"`
}

func (k *KnowledgeBase) Defaults() { k.ArticleType = "how_to" }

func (k *KnowledgeBase) SetAuthor(userID string) { setOptionalAuthor(&k.AuthorID, userID) }

func (k *KnowledgeBase) Prepare(now time.Time, creating bool) {
	if k.Tags == nil {
		k.Tags = []string{}
	}
	if k.IsPublished && k.PublishedAt == nil {
		k.PublishedAt = timePtr(now)
	}
	touch(&k.CreatedAt, &k.UpdatedAt, now, creating)
}

func (k *KnowledgeBase) Validate() error {
	return Check(
		Required("title", k.Title),
		Required("content", k.Content),
		OneOf("article_type", k.ArticleType,
			"how_to", "troubleshooting", "faq", "tutorial", "reference", "announcement", "other"),
	)
}

// CustomerFeedback valoración de satisfacción (1..5).
type CustomerFeedback struct {
	Identity
	CustomerID         string    `json:"customer" db:"customer_id"`
	FeedbackType       string    `json:"feedback_type" db:"feedback_type"`
	Rating             int       `json:"rating" db:"rating"`
	Comment            string    `json:"comment" db:"comment"`
	TicketID           *string   `json:"ticket" db:"ticket_id"`
	KnowledgeArticleID *string   `json:"knowledge_article" db:"knowledge_article_id"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`

	CustomerName string `json:"customer_name" db:"customer_name"`
}

func (f *CustomerFeedback) Prepare(now time.Time, creating bool) {
	touch(&f.CreatedAt, nil, now, creating)
}

func (f *CustomerFeedback) Validate() error {
	return Check(
		RequiredRef("customer", f.CustomerID),
		OneOf("feedback_type", f.FeedbackType, "ticket", "knowledge", "general", "product", "service"),
		IntRange("rating", f.Rating, 1, 5),
	)
}

// SupportTeam perfil de soporte de un usuario.
type SupportTeam struct {
	Identity
	UserID          string    `json:"user" db:"user_id"`
	Skills          []string  `json:"skills" db:"skills"`
	Specializations []string  `json:"specializations" db:"specializations"`
	MaxTickets      int       `json:"max_tickets" db:"max_tickets"`
	IsAvailable     bool      `json:"is_available" db:"is_available"`
	WorkingHours    JSONMap   `json:"working_hours" db:"working_hours"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	UserName string `json:"user_name" db:"user_name"`
}

func (s *SupportTeam) Defaults() {
	s.MaxTickets = 10
	s.IsAvailable = true
}

func (s *SupportTeam) Prepare(now time.Time, creating bool) {
	if s.Skills == nil {
		s.Skills = []string{}
	}
	if s.Specializations == nil {
		s.Specializations = []string{}
	}
	if s.WorkingHours == nil {
		s.WorkingHours = JSONMap{}
	}
	touch(&s.CreatedAt, &s.UpdatedAt, now, creating)
}

func (s *SupportTeam) Validate() error {
	return Check(RequiredRef("user", s.UserID), Positive("max_tickets", s.MaxTickets))
}

// SupportMetrics KPIs diarios de soporte.
type SupportMetrics struct {
	Identity
	Date                 Date            `json:"date" db:"date"`
	TotalTickets         int             `json:"total_tickets" db:"total_tickets"`
	ResolvedTickets      int             `json:"resolved_tickets" db:"resolved_tickets"`
	AvgResponseTime      decimal.Decimal `json:"avg_response_time" db:"avg_response_time"`
	AvgResolutionTime    decimal.Decimal `json:"avg_resolution_time" db:"avg_resolution_time"`
	CustomerSatisfaction decimal.Decimal `json:"customer_satisfaction" db:"customer_satisfaction"`
	FirstCallResolution  decimal.Decimal `json:"first_call_resolution" db:"first_call_resolution"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
}

func (m *SupportMetrics) Prepare(now time.Time, creating bool) {
	touch(&m.CreatedAt, nil, now, creating)
}

func (m *SupportMetrics) Validate() error {
	var resolved error
	if m.ResolvedTickets > m.TotalTickets {
		resolved = IntRange("resolved_tickets", m.ResolvedTickets, 0, m.TotalTickets)
	}
	return Check(
		RequiredDate("date", m.Date),
		NonNegative("total_tickets", m.TotalTickets),
		NonNegative("resolved_tickets", m.ResolvedTickets),
		resolved,
		DecimalRange("first_call_resolution", m.FirstCallResolution, 0, 100),
	)
}
