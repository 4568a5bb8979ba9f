package postgres

import "github.com/jhoicas/intellicx-crm/internal/domain/entity"

func contactTable() *Table[entity.Contact] {
	return &Table[entity.Contact]{
		Resource: "customers.contacts",
		Name:     "contacts",
		Joins:    `LEFT JOIN customers c ON c.id = t.customer_id`,
		Projections: []Projection{
			{"full_name", personName("t")},
			{"customer_name", personName("c")},
		},
		Filters:      fields("customer=t.customer_id", "contact_type", "is_primary", "department"),
		Search:       []string{"t.first_name", "t.last_name", "t.email", "t.job_title"},
		Ordering:     fields("first_name", "last_name", "created_at", "is_primary"),
		DefaultOrder: "-is_primary,first_name",
	}
}

func segmentTable() *Table[entity.CustomerSegment] {
	return &Table[entity.CustomerSegment]{
		Resource:     "customers.segments",
		Name:         "customer_segments",
		Projections:  []Projection{{"customer_count", "jsonb_array_length(COALESCE(t.customer_ids, '[]'::jsonb))"}},
		Filters:      fields("segment_type", "is_active", "created_by"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "created_at", "segment_type"),
		DefaultOrder: "name",
	}
}

func customerTagTable() *Table[entity.CustomerTag] {
	return &Table[entity.CustomerTag]{
		Resource:     "customers.tags",
		Name:         "customer_tags",
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "created_at"),
		DefaultOrder: "name",
	}
}

func customerActivityTable() *Table[entity.CustomerActivity] {
	return &Table[entity.CustomerActivity]{
		Resource:     "customers.activities",
		Name:         "customer_activities",
		Joins:        `LEFT JOIN customers c ON c.id = t.customer_id`,
		Projections:  []Projection{{"customer_name", personName("c")}},
		Filters:      fields("customer=t.customer_id", "activity_type", "created_by"),
		Search:       []string{"t.title", "t.description"},
		Ordering:     fields("created_at", "activity_type"),
		DefaultOrder: "-created_at",
	}
}

func preferenceTable() *Table[entity.CustomerPreference] {
	return &Table[entity.CustomerPreference]{
		Resource:     "customers.preferences",
		Name:         "customer_preferences",
		Joins:        `LEFT JOIN customers c ON c.id = t.customer_id`,
		Projections:  []Projection{{"customer_name", personName("c")}},
		Filters:      fields("customer=t.customer_id", "preferred_contact_method", "language", "marketing_opt_in", "newsletter_opt_in"),
		Search:       []string{"c.first_name", "c.last_name"},
		Ordering:     fields("created_at", "updated_at"),
		DefaultOrder: "-updated_at",
	}
}

func documentTable() *Table[entity.CustomerDocument] {
	return &Table[entity.CustomerDocument]{
		Resource: "customers.documents",
		Name:     "customer_documents",
		Joins: `LEFT JOIN customers c ON c.id = t.customer_id
		LEFT JOIN users ub ON ub.id = t.uploaded_by`,
		Projections: []Projection{
			{"customer_name", personName("c")},
			{"uploaded_by_name", personName("ub")},
		},
		Filters:      fields("customer=t.customer_id", "document_type", "uploaded_by"),
		Search:       []string{"t.title", "t.description"},
		Ordering:     fields("title", "created_at", "file_size"),
		DefaultOrder: "-created_at",
	}
}
