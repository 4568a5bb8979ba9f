package dto

import "time"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	TotalCustomers      int64 `json:"total_customers"`
	TotalCompanies      int64 `json:"total_companies"`
	ActiveTasks         int64 `json:"active_tasks"`
	PendingInteractions int64 `json:"pending_interactions"` // últimos 7 días

	RecentActivities  []RecentActivityDTO   `json:"recent_activities"`
	UpcomingDeadlines []UpcomingDeadlineDTO `json:"upcoming_deadlines"`
}

// RecentActivityDTO interacción reciente para el widget del dashboard.
type RecentActivityDTO struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"` // "<Type> with <customer>"
	Type         string    `json:"type"`
	CustomerName string    `json:"customer_name"`
	User         string    `json:"user"`
	Date         time.Time `json:"date"`
}

// UpcomingDeadlineDTO tarea pendiente con vencimiento próximo.
type UpcomingDeadlineDTO struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	CustomerName string     `json:"customer_name"`
}

// TimelineItemDTO entrada del timeline de un cliente (interacción o tarea).
type TimelineItemDTO struct {
	Kind            string    `json:"kind"` // interaction | task
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	User            string    `json:"user"`
	InteractionType string    `json:"interaction_type,omitempty"`
	Priority        string    `json:"priority,omitempty"`
	Status          string    `json:"status,omitempty"`
	Date            time.Time `json:"date"`
}

// StatusCountDTO conteo de clientes por estado.
type StatusCountDTO struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}
