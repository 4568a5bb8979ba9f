package postgres

import (
	"fmt"
	"strings"

	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// fields arma un mapa parámetro -> expresión SQL: "status" equivale a "status=t.status".
func fields(specs ...string) map[string]string {
	out := make(map[string]string, len(specs))
	for _, s := range specs {
		if name, expr, ok := strings.Cut(s, "="); ok {
			out[name] = expr
			continue
		}
		out[s] = "t." + s
	}
	return out
}

// personName nombre completo de la fila unida con alias a ("" si el join no encontró fila).
func personName(a string) string {
	return fmt.Sprintf("TRIM(CONCAT_WS(' ', %[1]s.first_name, %[1]s.last_name))", a)
}

// countOf subconsulta COUNT(*) de hijos que apuntan a t.id.
func countOf(table, fk string) string {
	return fmt.Sprintf("(SELECT COUNT(*) FROM %s x WHERE x.%s = t.id)", table, fk)
}

func userTable() *Table[entity.User] {
	return &Table[entity.User]{
		Resource:     "core.users",
		Name:         "users",
		Projections:  []Projection{{"full_name", personName("t")}},
		Immutable:    []string{"last_login"},
		Filters:      fields("department", "position", "role", "is_active", "email"),
		Search:       []string{"t.first_name", "t.last_name", "t.email"},
		Ordering:     fields("first_name", "last_name", "email", "date_joined=t.created_at", "created_at", "last_login"),
		DefaultOrder: "first_name,last_name",
		Scopes: map[string]string{
			"active": "t.is_active",
		},
	}
}

func companyTable() *Table[entity.Company] {
	return &Table[entity.Company]{
		Resource:     "core.companies",
		Name:         "companies",
		Projections:  []Projection{{"customer_count", "(SELECT COUNT(*) FROM customers x WHERE x.company_id = t.id AND x.is_active)"}},
		Filters:      fields("industry", "size", "is_active", "country", "city"),
		Search:       []string{"t.name", "t.industry", "t.email"},
		Ordering:     fields("name", "created_at", "industry", "size"),
		DefaultOrder: "name",
		Scopes: map[string]string{
			"active": "t.is_active",
		},
	}
}

func customerTable() *Table[entity.Customer] {
	return &Table[entity.Customer]{
		Resource: "core.customers",
		Name:     "customers",
		Joins: `LEFT JOIN companies co ON co.id = t.company_id
		LEFT JOIN users au ON au.id = t.assigned_to`,
		Projections: []Projection{
			{"full_name", personName("t")},
			{"company_name", "COALESCE(co.name, '')"},
			{"assigned_to_name", personName("au")},
		},
		Filters: fields("status", "source", "company=t.company_id", "assigned_to", "is_active", "country"),
		Search:  []string{"t.first_name", "t.last_name", "t.email", "t.phone"},
		Ordering: fields("first_name", "last_name", "email", "created_at", "updated_at", "status",
			"company=co.name"),
		DefaultOrder: "-created_at",
		Scopes: map[string]string{
			"active": "t.is_active",
			"ids":    "t.id::text = ANY(@ids)",
		},
	}
}

func interactionTable() *Table[entity.Interaction] {
	return &Table[entity.Interaction]{
		Resource: "core.interactions",
		Name:     "interactions",
		Joins: `LEFT JOIN customers c ON c.id = t.customer_id
		LEFT JOIN users u ON u.id = t.user_id`,
		Projections: []Projection{
			{"customer_name", personName("c")},
			{"user_name", personName("u")},
		},
		Filters:      fields("type", "customer=t.customer_id", "user=t.user_id", "follow_up_required"),
		Search:       []string{"t.subject", "t.description", "t.outcome"},
		Ordering:     fields("date", "created_at", "type"),
		DefaultOrder: "-date",
		Scopes: map[string]string{
			"since": "t.date >= @since",
		},
	}
}

func taskTable() *Table[entity.Task] {
	return &Table[entity.Task]{
		Resource: "core.tasks",
		Name:     "tasks",
		Joins: `LEFT JOIN users au ON au.id = t.assigned_to
		LEFT JOIN customers c ON c.id = t.customer_id
		LEFT JOIN users cb ON cb.id = t.created_by`,
		Projections: []Projection{
			{"assigned_to_name", personName("au")},
			{"customer_name", personName("c")},
			{"created_by_name", personName("cb")},
		},
		Filters:      fields("status", "priority", "assigned_to", "customer=t.customer_id", "created_by"),
		Search:       []string{"t.title", "t.description"},
		Ordering:     fields("due_date", "priority", "created_at", "status", "title"),
		DefaultOrder: "due_date,-priority",
		Scopes: map[string]string{
			"open":     "t.status IN ('pending', 'in_progress')",
			"overdue":  "t.due_date < @now AND t.status IN ('pending', 'in_progress')",
			"upcoming": "t.due_date >= @now AND t.status IN ('pending', 'in_progress')",
		},
	}
}

func notificationTable() *Table[entity.Notification] {
	return &Table[entity.Notification]{
		Resource:     "core.notifications",
		Name:         "notifications",
		Joins:        `LEFT JOIN users u ON u.id = t.user_id`,
		Projections:  []Projection{{"user_name", personName("u")}},
		Immutable:    []string{"user_id"},
		Filters:      fields("type", "is_read", "user=t.user_id"),
		Search:       []string{"t.title", "t.message"},
		Ordering:     fields("created_at", "is_read"),
		DefaultOrder: "-created_at",
	}
}
