package entity

import (
	"strings"
	"time"
)

// Contact es una persona de contacto dentro de la cuenta de un cliente.
type Contact struct {
	Identity
	CustomerID  string    `json:"customer" db:"customer_id"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone" db:"phone"`
	Mobile      string    `json:"mobile" db:"mobile"`
	JobTitle    string    `json:"job_title" db:"job_title"`
	Department  string    `json:"department" db:"department"`
	ContactType string    `json:"contact_type" db:"contact_type"`
	IsPrimary   bool      `json:"is_primary" db:"is_primary"`
	SocialMedia JSONMap   `json:"social_media" db:"social_media"`
	Notes       string    `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	FullName     string `json:"full_name" db:"full_name"`
	CustomerName string `json:"customer_name" db:"customer_name"`
}

func (c *Contact) Defaults() { c.ContactType = "primary" }

func (c *Contact) Prepare(now time.Time, creating bool) {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	defaultString(&c.ContactType, "primary")
	touch(&c.CreatedAt, &c.UpdatedAt, now, creating)
}

func (c *Contact) Validate() error {
	return Check(
		RequiredRef("customer", c.CustomerID),
		Required("first_name", c.FirstName),
		Required("last_name", c.LastName),
		Email("email", c.Email),
		OneOf("contact_type", c.ContactType, "primary", "billing", "technical", "decision_maker", "influencer", "other"),
	)
}

// CustomerSegment agrupa clientes por criterios o por lista explícita.
type CustomerSegment struct {
	Identity
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	SegmentType string    `json:"segment_type" db:"segment_type"`
	Criteria    JSONMap   `json:"criteria" db:"criteria"`
	CustomerIDs []string  `json:"customer_ids" db:"customer_ids"`
	Color       string    `json:"color" db:"color"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedBy   *string   `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	CustomerCount int `json:"customer_count" db:"customer_count"`
}

func (s *CustomerSegment) Defaults() {
	s.SegmentType = "custom"
	s.Color = "#3B82F6"
	s.IsActive = true
}

func (s *CustomerSegment) SetAuthor(userID string) { setOptionalAuthor(&s.CreatedBy, userID) }

func (s *CustomerSegment) Prepare(now time.Time, creating bool) {
	defaultString(&s.Color, "#3B82F6")
	if s.CustomerIDs == nil {
		s.CustomerIDs = []string{}
	}
	touch(&s.CreatedAt, &s.UpdatedAt, now, creating)
}

func (s *CustomerSegment) Validate() error {
	return Check(
		Required("name", s.Name),
		OneOf("segment_type", s.SegmentType, "demographic", "behavioral", "geographic", "psychographic", "value_based", "custom"),
		HexColor("color", s.Color),
	)
}

// CustomerTag etiqueta libre para clientes.
type CustomerTag struct {
	Identity
	Name        string    `json:"name" db:"name"`
	Color       string    `json:"color" db:"color"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (t *CustomerTag) Defaults() { t.Color = "#6B7280" }

func (t *CustomerTag) Prepare(now time.Time, creating bool) {
	defaultString(&t.Color, "#6B7280")
	touch(&t.CreatedAt, nil, now, creating)
}

func (t *CustomerTag) Validate() error {
	return Check(Required("name", t.Name), HexColor("color", t.Color))
}

// CustomerActivity registra eventos de comportamiento del cliente (login, compra, soporte...).
type CustomerActivity struct {
	Identity
	CustomerID   string    `json:"customer" db:"customer_id"`
	ActivityType string    `json:"activity_type" db:"activity_type"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Metadata     JSONMap   `json:"metadata" db:"metadata"`
	CreatedBy    *string   `json:"created_by" db:"created_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	CustomerName string `json:"customer_name" db:"customer_name"`
}

func (a *CustomerActivity) SetAuthor(userID string) { setOptionalAuthor(&a.CreatedBy, userID) }

func (a *CustomerActivity) Prepare(now time.Time, creating bool) {
	touch(&a.CreatedAt, nil, now, creating)
}

func (a *CustomerActivity) Validate() error {
	return Check(
		RequiredRef("customer", a.CustomerID),
		OneOf("activity_type", a.ActivityType,
			"login", "purchase", "support", "feedback", "survey", "email", "call", "meeting", "demo", "trial", "other"),
	)
}

// CustomerPreference preferencias de comunicación de un cliente (una por cliente).
type CustomerPreference struct {
	Identity
	CustomerID              string    `json:"customer" db:"customer_id"`
	PreferredContactMethod  string    `json:"preferred_contact_method" db:"preferred_contact_method"`
	Language                string    `json:"language" db:"language"`
	Timezone                string    `json:"timezone" db:"timezone"`
	Currency                string    `json:"currency" db:"currency"`
	CommunicationFrequency  string    `json:"communication_frequency" db:"communication_frequency"`
	MarketingOptIn          bool      `json:"marketing_opt_in" db:"marketing_opt_in"`
	NewsletterOptIn         bool      `json:"newsletter_opt_in" db:"newsletter_opt_in"`
	Interests               []string  `json:"interests" db:"interests"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time `json:"updated_at" db:"updated_at"`

	CustomerName string `json:"customer_name" db:"customer_name"`
}

func (p *CustomerPreference) Defaults() {
	p.PreferredContactMethod = "email"
	p.Language = "es"
	p.Timezone = "UTC"
	p.Currency = "USD"
	p.CommunicationFrequency = "weekly"
}

func (p *CustomerPreference) Prepare(now time.Time, creating bool) {
	defaultString(&p.Language, "es")
	defaultString(&p.Timezone, "UTC")
	defaultString(&p.Currency, "USD")
	if p.Interests == nil {
		p.Interests = []string{}
	}
	touch(&p.CreatedAt, &p.UpdatedAt, now, creating)
}

func (p *CustomerPreference) Validate() error {
	return Check(
		RequiredRef("customer", p.CustomerID),
		OneOf("preferred_contact_method", p.PreferredContactMethod, "email", "phone", "sms", "whatsapp", "mail"),
		OneOf("communication_frequency", p.CommunicationFrequency, "daily", "weekly", "monthly", "quarterly", "never"),
	)
}

// CustomerDocument referencia un archivo asociado al cliente (contrato, propuesta...).
type CustomerDocument struct {
	Identity
	CustomerID   string    `json:"customer" db:"customer_id"`
	Title        string    `json:"title" db:"title"`
	DocumentType string    `json:"document_type" db:"document_type"`
	FileURL      string    `json:"file_url" db:"file_url"`
	FileSize     int64     `json:"file_size" db:"file_size"`
	UploadedBy   *string   `json:"uploaded_by" db:"uploaded_by"`
	Description  string    `json:"description" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	CustomerName   string `json:"customer_name" db:"customer_name"`
	UploadedByName string `json:"uploaded_by_name" db:"uploaded_by_name"`
}

func (d *CustomerDocument) SetAuthor(userID string) { setOptionalAuthor(&d.UploadedBy, userID) }

func (d *CustomerDocument) Prepare(now time.Time, creating bool) {
	touch(&d.CreatedAt, &d.UpdatedAt, now, creating)
}

func (d *CustomerDocument) Validate() error {
	var size error
	if d.FileSize < 0 {
		size = NonNegative("file_size", -1)
	}
	return Check(
		RequiredRef("customer", d.CustomerID),
		Required("title", d.Title),
		OneOf("document_type", d.DocumentType, "contract", "proposal", "invoice", "receipt", "other"),
		Required("file_url", d.FileURL),
		size,
	)
}
