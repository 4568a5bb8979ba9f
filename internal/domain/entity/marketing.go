package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de campaña.
const (
	CampaignDraft     = "draft"
	CampaignScheduled = "scheduled"
	CampaignActive    = "active"
	CampaignPaused    = "paused"
	CampaignCompleted = "completed"
	CampaignCancelled = "cancelled"
)

// MarketingCampaign campaña de marketing multicanal.
type MarketingCampaign struct {
	Identity
	Name           string              `json:"name" db:"name"`
	CampaignType   string              `json:"campaign_type" db:"campaign_type"`
	Status         string              `json:"status" db:"status"`
	Description    string              `json:"description" db:"description"`
	TargetAudience JSONMap             `json:"target_audience" db:"target_audience"`
	StartDate      time.Time           `json:"start_date" db:"start_date"`
	EndDate        time.Time           `json:"end_date" db:"end_date"`
	Budget         decimal.NullDecimal `json:"budget" db:"budget"`
	Currency       string              `json:"currency" db:"currency"`
	Goals          JSONList            `json:"goals" db:"goals"`
	CreatedBy      *string             `json:"created_by" db:"created_by"`
	AssignedTo     *string             `json:"assigned_to" db:"assigned_to"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" db:"updated_at"`

	CreatedByName  string `json:"created_by_name" db:"created_by_name"`
	AssignedToName string `json:"assigned_to_name" db:"assigned_to_name"`
}

func (c *MarketingCampaign) Defaults() {
	c.Status = CampaignDraft
	c.Currency = "USD"
}

func (c *MarketingCampaign) SetAuthor(userID string) { setOptionalAuthor(&c.CreatedBy, userID) }

func (c *MarketingCampaign) Prepare(now time.Time, creating bool) {
	defaultString(&c.Status, CampaignDraft)
	defaultString(&c.Currency, "USD")
	if c.TargetAudience == nil {
		c.TargetAudience = JSONMap{}
	}
	if c.Goals == nil {
		c.Goals = JSONList{}
	}
	touch(&c.CreatedAt, &c.UpdatedAt, now, creating)
}

func (c *MarketingCampaign) Validate() error {
	var dates, budget error
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		dates = Required("start_date", "")
	} else if c.EndDate.Before(c.StartDate) {
		dates = TimeOrder("end_date", &c.StartDate, &c.EndDate)
	}
	if c.Budget.Valid {
		budget = NonNegativeDecimal("budget", c.Budget.Decimal)
	}
	return Check(
		Required("name", c.Name),
		OneOf("campaign_type", c.CampaignType, "email", "social_media", "content", "advertising", "event", "referral", "other"),
		OneOf("status", c.Status, CampaignDraft, CampaignScheduled, CampaignActive, CampaignPaused, CampaignCompleted, CampaignCancelled),
		dates,
		budget,
	)
}

// EmailCampaign pieza de email dentro de una campaña.
type EmailCampaign struct {
	Identity
	CampaignID   string     `json:"campaign" db:"campaign_id"`
	Name         string     `json:"name" db:"name"`
	EmailType    string     `json:"email_type" db:"email_type"`
	SubjectLine  string     `json:"subject_line" db:"subject_line"`
	Preheader    string     `json:"preheader" db:"preheader"`
	HTMLContent  string     `json:"html_content" db:"html_content"`
	TextContent  string     `json:"text_content" db:"text_content"`
	SenderName   string     `json:"sender_name" db:"sender_name"`
	SenderEmail  string     `json:"sender_email" db:"sender_email"`
	ReplyToEmail string     `json:"reply_to_email" db:"reply_to_email"`
	ScheduledAt  *time.Time `json:"scheduled_at" db:"scheduled_at"`
	SentAt       *time.Time `json:"sent_at" db:"sent_at"`
	CreatedBy    *string    `json:"created_by" db:"created_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	CampaignName string `json:"campaign_name" db:"campaign_name"`
}

func (e *EmailCampaign) Defaults() { e.EmailType = "newsletter" }

func (e *EmailCampaign) SetAuthor(userID string) { setOptionalAuthor(&e.CreatedBy, userID) }

func (e *EmailCampaign) Prepare(now time.Time, creating bool) {
	touch(&e.CreatedAt, &e.UpdatedAt, now, creating)
}

func (e *EmailCampaign) Validate() error {
	return Check(
		RequiredRef("campaign", e.CampaignID),
		Required("name", e.Name),
		OneOf("email_type", e.EmailType,
			"newsletter", "promotional", "onboarding", "abandoned_cart", "birthday", "anniversary", "re_engagement", "other"),
		Required("subject_line", e.SubjectLine),
		Required("html_content", e.HTMLContent),
		Required("sender_name", e.SenderName),
		Email("sender_email", e.SenderEmail),
		OptionalEmail("reply_to_email", e.ReplyToEmail),
	)
}

// Send registra el envío; un segundo envío conserva la fecha original.
func (e *EmailCampaign) Send(now time.Time) {
	if e.SentAt == nil {
		e.SentAt = timePtr(now)
	}
}

// EmailTemplate plantilla reutilizable de email.
type EmailTemplate struct {
	Identity
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	SubjectLine string    `json:"subject_line" db:"subject_line"`
	HTMLContent string    `json:"html_content" db:"html_content"`
	TextContent string    `json:"text_content" db:"text_content"`
	Variables   JSONList  `json:"variables" db:"variables"`
	Category    string    `json:"category" db:"category"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedBy   *string   `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (t *EmailTemplate) Defaults() { t.IsActive = true }

func (t *EmailTemplate) SetAuthor(userID string) { setOptionalAuthor(&t.CreatedBy, userID) }

func (t *EmailTemplate) Prepare(now time.Time, creating bool) {
	if t.Variables == nil {
		t.Variables = JSONList{}
	}
	touch(&t.CreatedAt, &t.UpdatedAt, now, creating)
}

func (t *EmailTemplate) Validate() error {
	return Check(
		Required("name", t.Name),
		Required("subject_line", t.SubjectLine),
		Required("html_content", t.HTMLContent),
	)
}

// EmailSubscriber suscriptor de listas de correo.
type EmailSubscriber struct {
	Identity
	Email          string     `json:"email" db:"email"`
	FirstName      string     `json:"first_name" db:"first_name"`
	LastName       string     `json:"last_name" db:"last_name"`
	Status         string     `json:"status" db:"status"`
	Source         string     `json:"source" db:"source"`
	Preferences    JSONMap    `json:"preferences" db:"preferences"`
	Tags           []string   `json:"tags" db:"tags"`
	SubscribedAt   time.Time  `json:"subscribed_at" db:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at" db:"unsubscribed_at"`
	LastEmailSent  *time.Time `json:"last_email_sent" db:"last_email_sent"`
}

func (s *EmailSubscriber) Defaults() { s.Status = "subscribed" }

func (s *EmailSubscriber) Prepare(now time.Time, creating bool) {
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	defaultString(&s.Status, "subscribed")
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if creating || s.SubscribedAt.IsZero() {
		s.SubscribedAt = now
	}
}

func (s *EmailSubscriber) Validate() error {
	return Check(
		Email("email", s.Email),
		OneOf("status", s.Status, "subscribed", "unsubscribed", "pending", "bounced", "spam"),
	)
}

// Unsubscribe da de baja al suscriptor conservando la primera fecha de baja.
func (s *EmailSubscriber) Unsubscribe(now time.Time) {
	s.Status = "unsubscribed"
	if s.UnsubscribedAt == nil {
		s.UnsubscribedAt = timePtr(now)
	}
}

// EmailSend seguimiento de un envío individual.
type EmailSend struct {
	Identity
	EmailCampaignID string     `json:"email_campaign" db:"email_campaign_id"`
	SubscriberID    string     `json:"subscriber" db:"subscriber_id"`
	CustomerID      *string    `json:"customer" db:"customer_id"`
	SentAt          time.Time  `json:"sent_at" db:"sent_at"`
	DeliveredAt     *time.Time `json:"delivered_at" db:"delivered_at"`
	OpenedAt        *time.Time `json:"opened_at" db:"opened_at"`
	ClickedAt       *time.Time `json:"clicked_at" db:"clicked_at"`
	Bounced         bool       `json:"bounced" db:"bounced"`
	BounceReason    string     `json:"bounce_reason" db:"bounce_reason"`
	Unsubscribed    bool       `json:"unsubscribed" db:"unsubscribed"`

	SubscriberEmail string `json:"subscriber_email" db:"subscriber_email"`
}

func (s *EmailSend) Prepare(now time.Time, creating bool) {
	if s.SentAt.IsZero() {
		s.SentAt = now
	}
}

func (s *EmailSend) Validate() error {
	return Check(
		RequiredRef("email_campaign", s.EmailCampaignID),
		RequiredRef("subscriber", s.SubscriberID),
	)
}

// SocialMediaCampaign publicación en redes sociales ligada a una campaña.
type SocialMediaCampaign struct {
	Identity
	CampaignID        string     `json:"campaign" db:"campaign_id"`
	Platform          string     `json:"platform" db:"platform"`
	Content           string     `json:"content" db:"content"`
	MediaFiles        []string   `json:"media_files" db:"media_files"`
	ScheduledAt       *time.Time `json:"scheduled_at" db:"scheduled_at"`
	PublishedAt       *time.Time `json:"published_at" db:"published_at"`
	PostURL           string     `json:"post_url" db:"post_url"`
	EngagementMetrics JSONMap    `json:"engagement_metrics" db:"engagement_metrics"`
	CreatedBy         *string    `json:"created_by" db:"created_by"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

func (s *SocialMediaCampaign) SetAuthor(userID string) { setOptionalAuthor(&s.CreatedBy, userID) }

func (s *SocialMediaCampaign) Prepare(now time.Time, creating bool) {
	if s.MediaFiles == nil {
		s.MediaFiles = []string{}
	}
	if s.EngagementMetrics == nil {
		s.EngagementMetrics = JSONMap{}
	}
	touch(&s.CreatedAt, nil, now, creating)
}

func (s *SocialMediaCampaign) Validate() error {
	return Check(
		RequiredRef("campaign", s.CampaignID),
		OneOf("platform", s.Platform, "facebook", "twitter", "linkedin", "instagram", "youtube", "tiktok", "other"),
		Required("content", s.Content),
	)
}

// MarketingAutomation regla de automatización (configuración almacenada, sin motor de ejecución).
type MarketingAutomation struct {
	Identity
	Name              string    `json:"name" db:"name"`
	Description       string    `json:"description" db:"description"`
	TriggerType       string    `json:"trigger_type" db:"trigger_type"`
	TriggerConditions JSONMap   `json:"trigger_conditions" db:"trigger_conditions"`
	Actions           JSONList  `json:"actions" db:"actions"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	CreatedBy         *string   `json:"created_by" db:"created_by"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

func (a *MarketingAutomation) Defaults() { a.IsActive = true }

func (a *MarketingAutomation) SetAuthor(userID string) { setOptionalAuthor(&a.CreatedBy, userID) }

func (a *MarketingAutomation) Prepare(now time.Time, creating bool) {
	if a.TriggerConditions == nil {
		a.TriggerConditions = JSONMap{}
	}
	if a.Actions == nil {
		a.Actions = JSONList{}
	}
	touch(&a.CreatedAt, &a.UpdatedAt, now, creating)
}

func (a *MarketingAutomation) Validate() error {
	return Check(
		Required("name", a.Name),
		OneOf("trigger_type", a.TriggerType,
			"user_action", "time_based", "email_engagement", "purchase", "website_visit", "form_submission", "other"),
	)
}

// MarketingMetrics KPIs diarios de una campaña.
type MarketingMetrics struct {
	Identity
	CampaignID  string          `json:"campaign" db:"campaign_id"`
	Date        Date            `json:"date" db:"date"`
	Impressions int             `json:"impressions" db:"impressions"`
	Clicks      int             `json:"clicks" db:"clicks"`
	Conversions int             `json:"conversions" db:"conversions"`
	Revenue     decimal.Decimal `json:"revenue" db:"revenue"`
	Cost        decimal.Decimal `json:"cost" db:"cost"`
	ROI         decimal.Decimal `json:"roi" db:"roi"`
	CTR         decimal.Decimal `json:"ctr" db:"ctr"`
	CPC         decimal.Decimal `json:"cpc" db:"cpc"`
	CPA         decimal.Decimal `json:"cpa" db:"cpa"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`

	CampaignName string `json:"campaign_name" db:"campaign_name"`
}

func (m *MarketingMetrics) Prepare(now time.Time, creating bool) {
	touch(&m.CreatedAt, nil, now, creating)
}

func (m *MarketingMetrics) Validate() error {
	return Check(
		RequiredRef("campaign", m.CampaignID),
		RequiredDate("date", m.Date),
		NonNegative("impressions", m.Impressions),
		NonNegative("clicks", m.Clicks),
		NonNegative("conversions", m.Conversions),
	)
}
