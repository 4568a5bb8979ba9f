package postgres

import "github.com/jhoicas/intellicx-crm/internal/domain/entity"

// employeeJoin une el empleado (e) y su usuario (eu) para proyectar employee_name.
const employeeJoin = `LEFT JOIN employees e ON e.id = t.employee_id
	LEFT JOIN users eu ON eu.id = e.user_id`

func employeeTable() *Table[entity.Employee] {
	return &Table[entity.Employee]{
		Resource: "employees.employees",
		Name:     "employees",
		Joins: `LEFT JOIN users u ON u.id = t.user_id
		LEFT JOIN employees m ON m.id = t.manager_id
		LEFT JOIN users mu ON mu.id = m.user_id`,
		Projections: []Projection{
			{"full_name", personName("u")},
			{"email", "COALESCE(u.email, '')"},
			{"manager_name", personName("mu")},
		},
		Filters: fields("status", "department", "role", "company=t.company_id", "manager=t.manager_id",
			"employee_id=t.employee_code"),
		Search:       []string{"u.first_name", "u.last_name", "u.email", "t.employee_code"},
		Ordering:     fields("hire_date", "created_at", "department", "employee_id=t.employee_code", "full_name=u.first_name"),
		DefaultOrder: "full_name",
	}
}

func performanceTable() *Table[entity.EmployeePerformance] {
	return &Table[entity.EmployeePerformance]{
		Resource:     "employees.performance",
		Name:         "employee_performance",
		Joins:        employeeJoin,
		Projections:  []Projection{{"employee_name", personName("eu")}},
		Filters:      fields("employee=t.employee_id", "reviewed_by"),
		Search:       []string{"t.notes", "eu.first_name", "eu.last_name"},
		Ordering:     fields("period_start", "period_end", "overall_rating", "created_at"),
		DefaultOrder: "-period_start",
	}
}

func employeeActivityTable() *Table[entity.EmployeeActivity] {
	return &Table[entity.EmployeeActivity]{
		Resource:     "employees.activities",
		Name:         "employee_activities",
		Joins:        employeeJoin,
		Projections:  []Projection{{"employee_name", personName("eu")}},
		Filters:      fields("employee=t.employee_id", "activity_type", "related_customer=t.related_customer_id", "related_company=t.related_company_id"),
		Search:       []string{"t.description"},
		Ordering:     fields("timestamp", "duration_seconds"),
		DefaultOrder: "-timestamp",
	}
}

func goalTable() *Table[entity.EmployeeGoal] {
	return &Table[entity.EmployeeGoal]{
		Resource:     "employees.goals",
		Name:         "employee_goals",
		Joins:        employeeJoin,
		Projections:  []Projection{{"employee_name", personName("eu")}},
		Filters:      fields("employee=t.employee_id", "goal_type", "status"),
		Search:       []string{"t.title", "t.description"},
		Ordering:     fields("target_date", "start_date", "progress_percentage", "created_at"),
		DefaultOrder: "-created_at",
	}
}

func trainingTable() *Table[entity.EmployeeTraining] {
	return &Table[entity.EmployeeTraining]{
		Resource:     "employees.trainings",
		Name:         "employee_trainings",
		Joins:        employeeJoin,
		Projections:  []Projection{{"employee_name", personName("eu")}},
		Filters:      fields("employee=t.employee_id", "training_type", "status", "provider"),
		Search:       []string{"t.title", "t.description", "t.provider"},
		Ordering:     fields("start_date", "end_date", "score", "created_at"),
		DefaultOrder: "-start_date",
	}
}

func scheduleTable() *Table[entity.EmployeeSchedule] {
	return &Table[entity.EmployeeSchedule]{
		Resource:     "employees.schedules",
		Name:         "employee_schedules",
		Joins:        employeeJoin,
		Projections:  []Projection{{"employee_name", personName("eu")}},
		Filters:      fields("employee=t.employee_id", "date", "is_working_day"),
		Search:       []string{"t.notes"},
		Ordering:     fields("date", "start_time"),
		DefaultOrder: "-date",
	}
}

func employeeMetricsTable() *Table[entity.EmployeeMetrics] {
	return &Table[entity.EmployeeMetrics]{
		Resource:     "employees.metrics",
		Name:         "employee_metrics",
		Joins:        employeeJoin,
		Projections:  []Projection{{"employee_name", personName("eu")}},
		Filters:      fields("employee=t.employee_id", "date"),
		Search:       []string{"eu.first_name", "eu.last_name"},
		Ordering:     fields("date", "hours_worked", "efficiency_score", "quality_score"),
		DefaultOrder: "-date",
	}
}
