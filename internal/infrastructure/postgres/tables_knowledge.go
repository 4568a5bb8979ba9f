package postgres

import "github.com/jhoicas/intellicx-crm/internal/domain/entity"

func knowledgeCategoryTable() *Table[entity.KnowledgeCategory] {
	return &Table[entity.KnowledgeCategory]{
		Resource:     "knowledge.categories",
		Name:         "knowledge_categories",
		Projections:  []Projection{{"article_count", countOf("knowledge_articles", "category_id")}},
		Filters:      fields("is_active", "company=t.company_id", "parent_category=t.parent_category_id"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("order=t.sort_order", "name", "created_at"),
		DefaultOrder: "order,name",
		Scopes: map[string]string{
			"root": "t.parent_category_id IS NULL",
		},
	}
}

func articleTable() *Table[entity.KnowledgeArticle] {
	return &Table[entity.KnowledgeArticle]{
		Resource: "knowledge.articles",
		Name:     "knowledge_articles",
		Joins: `LEFT JOIN knowledge_categories kc ON kc.id = t.category_id
		LEFT JOIN users a ON a.id = t.author_id`,
		Projections: []Projection{
			{"category_name", "COALESCE(kc.name, '')"},
			{"author_name", personName("a")},
		},
		Filters: fields("status", "article_type", "category=t.category_id", "company=t.company_id",
			"author=t.author_id", "is_featured", "is_public", "slug"),
		Search:       []string{"t.title", "t.content", "t.summary", "t.keywords"},
		Ordering:     fields("title", "created_at", "updated_at", "published_at", "views_count", "helpful_votes"),
		DefaultOrder: "-created_at",
		Scopes: map[string]string{
			"published": "t.status = 'published'",
		},
	}
}

func knowledgeTagTable() *Table[entity.KnowledgeTag] {
	return &Table[entity.KnowledgeTag]{
		Resource:     "knowledge.tags",
		Name:         "knowledge_tags",
		Filters:      fields("company=t.company_id"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "created_at"),
		DefaultOrder: "name",
	}
}

func commentTable() *Table[entity.KnowledgeComment] {
	return &Table[entity.KnowledgeComment]{
		Resource:     "knowledge.comments",
		Name:         "knowledge_comments",
		Joins:        `LEFT JOIN users a ON a.id = t.author_id`,
		Projections:  []Projection{{"author_name", personName("a")}},
		Filters:      fields("article=t.article_id", "author=t.author_id", "is_approved", "parent_comment=t.parent_comment_id"),
		Search:       []string{"t.content"},
		Ordering:     fields("created_at", "helpful_votes"),
		DefaultOrder: "created_at",
	}
}

func knowledgeFeedbackTable() *Table[entity.KnowledgeFeedback] {
	return &Table[entity.KnowledgeFeedback]{
		Resource:     "knowledge.feedback",
		Name:         "knowledge_feedback",
		Joins:        `LEFT JOIN knowledge_articles ka ON ka.id = t.article_id`,
		Projections:  []Projection{{"article_title", "COALESCE(ka.title, '')"}},
		Filters:      fields("article=t.article_id", "user=t.user_id", "feedback_type", "rating"),
		Search:       []string{"t.comment"},
		Ordering:     fields("created_at", "rating"),
		DefaultOrder: "-created_at",
	}
}

func knowledgeSearchTable() *Table[entity.KnowledgeSearch] {
	return &Table[entity.KnowledgeSearch]{
		Resource:     "knowledge.searches",
		Name:         "knowledge_searches",
		Filters:      fields("user=t.user_id", "company=t.company_id", "clicked_article=t.clicked_article_id"),
		Search:       []string{"t.query"},
		Ordering:     fields("search_time", "results_count"),
		DefaultOrder: "-search_time",
	}
}

func knowledgeTemplateTable() *Table[entity.KnowledgeTemplate] {
	return &Table[entity.KnowledgeTemplate]{
		Resource:     "knowledge.templates",
		Name:         "knowledge_templates",
		Filters:      fields("category=t.category_id", "company=t.company_id", "is_active"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "created_at"),
		DefaultOrder: "name",
	}
}

func knowledgeAnalyticsTable() *Table[entity.KnowledgeAnalytics] {
	return &Table[entity.KnowledgeAnalytics]{
		Resource:     "knowledge.analytics",
		Name:         "knowledge_analytics",
		Joins:        `LEFT JOIN knowledge_articles ka ON ka.id = t.article_id`,
		Projections:  []Projection{{"article_title", "COALESCE(ka.title, '')"}},
		Filters:      fields("article=t.article_id", "date"),
		Search:       []string{"ka.title"},
		Ordering:     fields("date", "views", "unique_views", "shares"),
		DefaultOrder: "-date",
	}
}

func versionTable() *Table[entity.KnowledgeVersion] {
	return &Table[entity.KnowledgeVersion]{
		Resource:     "knowledge.versions",
		Name:         "knowledge_versions",
		Filters:      fields("article=t.article_id", "author=t.author_id"),
		Search:       []string{"t.title", "t.changes_summary"},
		Ordering:     fields("version_number", "created_at"),
		DefaultOrder: "-version_number",
	}
}
