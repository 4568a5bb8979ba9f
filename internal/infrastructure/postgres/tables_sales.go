package postgres

import "github.com/jhoicas/intellicx-crm/internal/domain/entity"

func leadTable() *Table[entity.Lead] {
	return &Table[entity.Lead]{
		Resource: "sales.leads",
		Name:     "leads",
		Joins:    `LEFT JOIN users au ON au.id = t.assigned_to`,
		Projections: []Projection{
			{"full_name", personName("t")},
			{"assigned_to_name", personName("au")},
		},
		Filters:      fields("status", "source", "industry", "assigned_to", "customer=t.customer_id"),
		Search:       []string{"t.first_name", "t.last_name", "t.email", "t.company_name"},
		Ordering:     fields("created_at", "lead_score", "estimated_value", "last_contacted", "status"),
		DefaultOrder: "-created_at",
	}
}

func opportunityTable() *Table[entity.Opportunity] {
	return &Table[entity.Opportunity]{
		Resource: "sales.opportunities",
		Name:     "opportunities",
		Joins: `LEFT JOIN customers c ON c.id = t.customer_id
		LEFT JOIN users au ON au.id = t.assigned_to`,
		Projections: []Projection{
			{"customer_name", personName("c")},
			{"assigned_to_name", personName("au")},
		},
		Filters:      fields("stage", "customer=t.customer_id", "assigned_to", "lead=t.lead_id", "currency"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("created_at", "amount", "probability", "expected_close_date", "name"),
		DefaultOrder: "-created_at",
		Scopes: map[string]string{
			"open": "t.stage NOT IN ('closed_won', 'closed_lost')",
		},
	}
}

func dealTable() *Table[entity.Deal] {
	return &Table[entity.Deal]{
		Resource:     "sales.deals",
		Name:         "deals",
		Joins:        `LEFT JOIN customers c ON c.id = t.customer_id`,
		Projections:  []Projection{{"customer_name", personName("c")}},
		Immutable:    []string{"deal_number"},
		Filters:      fields("status", "customer=t.customer_id", "opportunity=t.opportunity_id", "assigned_to"),
		Search:       []string{"t.deal_number", "t.title", "t.description"},
		Ordering:     fields("created_at", "amount", "start_date", "end_date", "deal_number"),
		DefaultOrder: "-created_at",
	}
}

func salesActivityTable() *Table[entity.SalesActivity] {
	return &Table[entity.SalesActivity]{
		Resource:     "sales.sales-activities",
		Name:         "sales_activities",
		Joins:        `LEFT JOIN users u ON u.id = t.user_id`,
		Projections:  []Projection{{"user_name", personName("u")}},
		Filters:      fields("activity_type", "is_completed", "customer=t.customer_id", "lead=t.lead_id", "opportunity=t.opportunity_id", "user=t.user_id"),
		Search:       []string{"t.subject", "t.description", "t.outcome"},
		Ordering:     fields("scheduled_at", "created_at", "completed_at"),
		DefaultOrder: "-scheduled_at",
	}
}

func pipelineTable() *Table[entity.SalesPipeline] {
	return &Table[entity.SalesPipeline]{
		Resource:     "sales.pipelines",
		Name:         "sales_pipelines",
		Filters:      fields("is_default", "is_active"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "created_at"),
		DefaultOrder: "name",
	}
}

func forecastTable() *Table[entity.SalesForecast] {
	return &Table[entity.SalesForecast]{
		Resource:     "sales.forecasts",
		Name:         "sales_forecasts",
		Joins:        `LEFT JOIN users u ON u.id = t.user_id`,
		Projections:  []Projection{{"user_name", personName("u")}},
		Filters:      fields("period", "user=t.user_id"),
		Search:       []string{"t.notes"},
		Ordering:     fields("period_start", "period_end", "forecast_amount", "created_at"),
		DefaultOrder: "-period_start",
	}
}
