package postgres

import "github.com/jhoicas/intellicx-crm/internal/domain/entity"

func ticketTable() *Table[entity.SupportTicket] {
	return &Table[entity.SupportTicket]{
		Resource: "support.tickets",
		Name:     "support_tickets",
		Joins: `LEFT JOIN customers c ON c.id = t.customer_id
		LEFT JOIN users au ON au.id = t.assigned_to`,
		Projections: []Projection{
			{"customer_name", personName("c")},
			{"assigned_to_name", personName("au")},
			{"response_count", countOf("ticket_responses", "ticket_id")},
		},
		Immutable:    []string{"ticket_number"},
		Filters:      fields("status", "priority", "ticket_type", "assigned_to", "customer=t.customer_id", "created_by"),
		Search:       []string{"t.ticket_number", "t.title", "t.description"},
		Ordering:     fields("created_at", "updated_at", "priority", "status", "due_date"),
		DefaultOrder: "-created_at",
		Scopes: map[string]string{
			"open": "t.status NOT IN ('resolved', 'closed', 'cancelled')",
		},
	}
}

func ticketResponseTable() *Table[entity.TicketResponse] {
	return &Table[entity.TicketResponse]{
		Resource:     "support.responses",
		Name:         "ticket_responses",
		Joins:        `LEFT JOIN users u ON u.id = t.user_id`,
		Projections:  []Projection{{"user_name", personName("u")}},
		Filters:      fields("ticket=t.ticket_id", "user=t.user_id", "is_internal"),
		Search:       []string{"t.message"},
		Ordering:     fields("created_at"),
		DefaultOrder: "created_at",
	}
}

func slaTable() *Table[entity.ServiceLevelAgreement] {
	return &Table[entity.ServiceLevelAgreement]{
		Resource:     "support.slas",
		Name:         "service_level_agreements",
		Filters:      fields("priority", "is_active"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "priority", "response_time", "resolution_time"),
		DefaultOrder: "priority",
	}
}

func knowledgeBaseTable() *Table[entity.KnowledgeBase] {
	return &Table[entity.KnowledgeBase]{
		Resource:     "support.knowledge",
		Name:         "knowledge_base",
		Joins:        `LEFT JOIN users a ON a.id = t.author_id`,
		Projections:  []Projection{{"author_name", personName("a")}},
		Filters:      fields("article_type", "category", "is_published", "is_featured", "author=t.author_id"),
		Search:       []string{"t.title", "t.content", "t.category"},
		Ordering:     fields("title", "created_at", "view_count", "helpful_count", "published_at"),
		DefaultOrder: "-created_at",
	}
}

func customerFeedbackTable() *Table[entity.CustomerFeedback] {
	return &Table[entity.CustomerFeedback]{
		Resource:     "support.feedback",
		Name:         "customer_feedback",
		Joins:        `LEFT JOIN customers c ON c.id = t.customer_id`,
		Projections:  []Projection{{"customer_name", personName("c")}},
		Filters:      fields("feedback_type", "rating", "customer=t.customer_id", "ticket=t.ticket_id", "knowledge_article=t.knowledge_article_id"),
		Search:       []string{"t.comment"},
		Ordering:     fields("created_at", "rating"),
		DefaultOrder: "-created_at",
	}
}

func supportTeamTable() *Table[entity.SupportTeam] {
	return &Table[entity.SupportTeam]{
		Resource:     "support.team",
		Name:         "support_team",
		Joins:        `LEFT JOIN users u ON u.id = t.user_id`,
		Projections:  []Projection{{"user_name", personName("u")}},
		Filters:      fields("is_available", "user=t.user_id"),
		Search:       []string{"u.first_name", "u.last_name", "u.email"},
		Ordering:     fields("max_tickets", "created_at", "user=u.first_name"),
		DefaultOrder: "user",
	}
}

func supportMetricsTable() *Table[entity.SupportMetrics] {
	return &Table[entity.SupportMetrics]{
		Resource:     "support.metrics",
		Name:         "support_metrics",
		Filters:      fields("date"),
		Ordering:     fields("date", "total_tickets", "resolved_tickets", "customer_satisfaction"),
		DefaultOrder: "-date",
	}
}
