package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/intellicx-crm/internal/domain/crm"
)

// Estados de artículo.
const (
	ArticleDraft     = "draft"
	ArticleReview    = "review"
	ArticlePublished = "published"
	ArticleArchived  = "archived"
)

// KnowledgeCategory agrupa artículos; admite jerarquía.
type KnowledgeCategory struct {
	Identity
	Name             string    `json:"name" db:"name"`
	Description      string    `json:"description" db:"description"`
	ParentCategoryID *string   `json:"parent_category" db:"parent_category_id"`
	CompanyID        *string   `json:"company" db:"company_id"`
	Order            int       `json:"order" db:"sort_order"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`

	ArticleCount int `json:"article_count" db:"article_count"`
}

func (c *KnowledgeCategory) Defaults() { c.IsActive = true }

func (c *KnowledgeCategory) Prepare(now time.Time, creating bool) {
	touch(&c.CreatedAt, &c.UpdatedAt, now, creating)
}

func (c *KnowledgeCategory) Validate() error {
	return Check(Required("name", c.Name), NonNegative("order", c.Order))
}

// KnowledgeArticle artículo de la base de conocimiento.
type KnowledgeArticle struct {
	Identity
	Title           string     `json:"title" db:"title"`
	Slug            string     `json:"slug" db:"slug"`
	Content         string     `json:"content" db:"content"`
	Summary         string     `json:"summary" db:"summary"`
	CategoryID      string     `json:"category" db:"category_id"`
	CompanyID       *string    `json:"company" db:"company_id"`
	AuthorID        *string    `json:"author" db:"author_id"`
	Status          string     `json:"status" db:"status"`
	ArticleType     string     `json:"article_type" db:"article_type"`
	MetaDescription string     `json:"meta_description" db:"meta_description"`
	Keywords        string     `json:"keywords" db:"keywords"`
	IsFeatured      bool       `json:"is_featured" db:"is_featured"`
	IsPublic        bool       `json:"is_public" db:"is_public"`
	ViewsCount      int        `json:"views_count" db:"views_count"`
	HelpfulVotes    int        `json:"helpful_votes" db:"helpful_votes"`
	NotHelpfulVotes int        `json:"not_helpful_votes" db:"not_helpful_votes"`
	PublishedAt     *time.Time `json:"published_at" db:"published_at"`
	LastReviewed    *time.Time `json:"last_reviewed" db:"last_reviewed"`
	ReviewedBy      *string    `json:"reviewed_by" db:"reviewed_by"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`

	CategoryName string          `json:"category_name" db:"category_name"`
	AuthorName   string          `json:"author_name" db:"author_name"`
	HelpfulRatio decimal.Decimal `json:"helpful_ratio" db:"-"`
}

func (a *KnowledgeArticle) Defaults() {
	a.Status = ArticleDraft
	a.ArticleType = "how_to"
	a.IsPublic = true
}

func (a *KnowledgeArticle) SetAuthor(userID string) { setOptionalAuthor(&a.AuthorID, userID) }

// Prepare deriva el slug del título cuando no viene informado.
func (a *KnowledgeArticle) Prepare(now time.Time, creating bool) {
	if a.Slug == "" {
		a.Slug = crm.Slugify(a.Title)
	} else {
		a.Slug = crm.Slugify(a.Slug)
	}
	defaultString(&a.Status, ArticleDraft)
	if a.Status == ArticlePublished && a.PublishedAt == nil {
		a.PublishedAt = timePtr(now)
	}
	if a.ReviewedBy != nil && a.LastReviewed == nil {
		a.LastReviewed = timePtr(now)
	}
	touch(&a.CreatedAt, &a.UpdatedAt, now, creating)
}

func (a *KnowledgeArticle) Validate() error {
	return Check(
		Required("title", a.Title),
		Required("slug", a.Slug),
		Required("content", a.Content),
		RequiredRef("category", a.CategoryID),
		OneOf("status", a.Status, ArticleDraft, ArticleReview, ArticlePublished, ArticleArchived),
		OneOf("article_type", a.ArticleType,
			"how_to", "troubleshooting", "faq", "tutorial", "reference", "best_practice", "announcement"),
	)
}

// Redact completa la proyección calculada antes de responder.
func (a *KnowledgeArticle) Redact() {
	a.HelpfulRatio = crm.HelpfulRatio(a.HelpfulVotes, a.NotHelpfulVotes)
}

// Publish marca el artículo como publicado; conserva la primera fecha de publicación.
func (a *KnowledgeArticle) Publish(now time.Time) {
	a.Status = ArticlePublished
	if a.PublishedAt == nil {
		a.PublishedAt = timePtr(now)
	}
}

// Snapshot copia el contenido actual como versión n.
func (a *KnowledgeArticle) Snapshot(n int, authorID string, changes string) *KnowledgeVersion {
	author := authorID
	if author == "" && a.AuthorID != nil {
		author = *a.AuthorID
	}
	return &KnowledgeVersion{
		ArticleID:      a.ID,
		VersionNumber:  n,
		Title:          a.Title,
		Content:        a.Content,
		Summary:        a.Summary,
		ChangesSummary: changes,
		AuthorID:       author,
	}
}

// KnowledgeTag etiqueta de artículos.
type KnowledgeTag struct {
	Identity
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CompanyID   *string   `json:"company" db:"company_id"`
	Color       string    `json:"color" db:"color"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (t *KnowledgeTag) Defaults() { t.Color = "#3B82F6" }

func (t *KnowledgeTag) Prepare(now time.Time, creating bool) {
	defaultString(&t.Color, "#3B82F6")
	touch(&t.CreatedAt, nil, now, creating)
}

func (t *KnowledgeTag) Validate() error {
	return Check(Required("name", t.Name), HexColor("color", t.Color))
}

// KnowledgeComment comentario sobre un artículo; admite respuestas.
type KnowledgeComment struct {
	Identity
	ArticleID       string    `json:"article" db:"article_id"`
	AuthorID        string    `json:"author" db:"author_id"`
	Content         string    `json:"content" db:"content"`
	ParentCommentID *string   `json:"parent_comment" db:"parent_comment_id"`
	IsApproved      bool      `json:"is_approved" db:"is_approved"`
	HelpfulVotes    int       `json:"helpful_votes" db:"helpful_votes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	AuthorName string `json:"author_name" db:"author_name"`
}

func (c *KnowledgeComment) Defaults() { c.IsApproved = true }

func (c *KnowledgeComment) SetAuthor(userID string) { setAuthor(&c.AuthorID, userID) }

func (c *KnowledgeComment) Prepare(now time.Time, creating bool) {
	touch(&c.CreatedAt, &c.UpdatedAt, now, creating)
}

func (c *KnowledgeComment) Validate() error {
	return Check(
		RequiredRef("article", c.ArticleID),
		RequiredRef("author", c.AuthorID),
		Required("content", c.Content),
		NonNegative("helpful_votes", c.HelpfulVotes),
	)
}

// Feedback que mueve los contadores del artículo.
const (
	FeedbackHelpful    = "helpful"
	FeedbackNotHelpful = "not_helpful"
)

// KnowledgeFeedback valoración de un artículo por un usuario.
type KnowledgeFeedback struct {
	Identity
	ArticleID    string    `json:"article" db:"article_id"`
	UserID       string    `json:"user" db:"user_id"`
	FeedbackType string    `json:"feedback_type" db:"feedback_type"`
	Comment      string    `json:"comment" db:"comment"`
	Rating       *int      `json:"rating" db:"rating"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	ArticleTitle string `json:"article_title" db:"article_title"`
}

func (f *KnowledgeFeedback) SetAuthor(userID string) { setAuthor(&f.UserID, userID) }

func (f *KnowledgeFeedback) Prepare(now time.Time, creating bool) {
	touch(&f.CreatedAt, nil, now, creating)
}

func (f *KnowledgeFeedback) Validate() error {
	return Check(
		RequiredRef("article", f.ArticleID),
		RequiredRef("user", f.UserID),
		OneOf("feedback_type", f.FeedbackType, FeedbackHelpful, FeedbackNotHelpful, "suggestion", "error", "praise"),
		OptionalIntRange("rating", f.Rating, 1, 5),
	)
}

// KnowledgeSearch registro de una búsqueda en la base de conocimiento.
type KnowledgeSearch struct {
	Identity
	UserID           *string   `json:"user" db:"user_id"`
	CompanyID        *string   `json:"company" db:"company_id"`
	Query            string    `json:"query" db:"query"`
	ResultsCount     int       `json:"results_count" db:"results_count"`
	ClickedArticleID *string   `json:"clicked_article" db:"clicked_article_id"`
	SearchTime       time.Time `json:"search_time" db:"search_time"`
	IPAddress        string    `json:"ip_address" db:"ip_address"`
	UserAgent        string    `json:"user_agent" db:"user_agent"`
}

func (s *KnowledgeSearch) SetAuthor(userID string) { setOptionalAuthor(&s.UserID, userID) }

func (s *KnowledgeSearch) Prepare(now time.Time, creating bool) {
	if creating || s.SearchTime.IsZero() {
		s.SearchTime = now
	}
}

func (s *KnowledgeSearch) Validate() error {
	return Check(
		Required("query", s.Query),
		NonNegative("results_count", s.ResultsCount),
		OptionalIP("ip_address", s.IPAddress),
	)
}

// KnowledgeTemplate plantilla de contenido para nuevos artículos.
type KnowledgeTemplate struct {
	Identity
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	ContentTemplate string    `json:"content_template" db:"content_template"`
	CategoryID      string    `json:"category" db:"category_id"`
	CompanyID       *string   `json:"company" db:"company_id"`
	CreatedBy       *string   `json:"created_by" db:"created_by"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

func (t *KnowledgeTemplate) Defaults() { t.IsActive = true }

func (t *KnowledgeTemplate) SetAuthor(userID string) { setOptionalAuthor(&t.CreatedBy, userID) }

func (t *KnowledgeTemplate) Prepare(now time.Time, creating bool) {
	touch(&t.CreatedAt, &t.UpdatedAt, now, creating)
}

func (t *KnowledgeTemplate) Validate() error {
	return Check(
		Required("name", t.Name),
		Required("content_template", t.ContentTemplate),
		RequiredRef("category", t.CategoryID),
	)
}

// KnowledgeAnalytics métricas diarias de un artículo.
type KnowledgeAnalytics struct {
	Identity
	ArticleID        string          `json:"article" db:"article_id"`
	Date             Date            `json:"date" db:"date"`
	Views            int             `json:"views" db:"views"`
	UniqueViews      int             `json:"unique_views" db:"unique_views"`
	TimeSpentSeconds int             `json:"time_spent_seconds" db:"time_spent_seconds"`
	Shares           int             `json:"shares" db:"shares"`
	Downloads        int             `json:"downloads" db:"downloads"`
	BounceRate       decimal.Decimal `json:"bounce_rate" db:"bounce_rate"`
	ScrollDepth      decimal.Decimal `json:"scroll_depth" db:"scroll_depth"`

	ArticleTitle string `json:"article_title" db:"article_title"`
}

func (a *KnowledgeAnalytics) Prepare(now time.Time, creating bool) {
	if !a.Date.Valid {
		a.Date = NewDate(now)
	}
}

func (a *KnowledgeAnalytics) Validate() error {
	var unique error
	if a.UniqueViews > a.Views {
		unique = IntRange("unique_views", a.UniqueViews, 0, a.Views)
	}
	return Check(
		RequiredRef("article", a.ArticleID),
		NonNegative("views", a.Views),
		NonNegative("unique_views", a.UniqueViews),
		unique,
		NonNegative("time_spent_seconds", a.TimeSpentSeconds),
		DecimalRange("bounce_rate", a.BounceRate, 0, 100),
		DecimalRange("scroll_depth", a.ScrollDepth, 0, 100),
	)
}

// KnowledgeVersion copia histórica del contenido de un artículo.
type KnowledgeVersion struct {
	Identity
	ArticleID      string    `json:"article" db:"article_id"`
	VersionNumber  int       `json:"version_number" db:"version_number"`
	Title          string    `json:"title" db:"title"`
	Content        string    `json:"content" db:"content"`
	Summary        string    `json:"summary" db:"summary"`
	ChangesSummary string    `json:"changes_summary" db:"changes_summary"`
	AuthorID       string    `json:"author" db:"author_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

func (v *KnowledgeVersion) SetAuthor(userID string) { setAuthor(&v.AuthorID, userID) }

func (v *KnowledgeVersion) Prepare(now time.Time, creating bool) {
	touch(&v.CreatedAt, nil, now, creating)
}

func (v *KnowledgeVersion) Validate() error {
	return Check(
		RequiredRef("article", v.ArticleID),
		Positive("version_number", v.VersionNumber),
		Required("title", v.Title),
		RequiredRef("author", v.AuthorID),
	)
}
