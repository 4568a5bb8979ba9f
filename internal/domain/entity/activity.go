package entity

import "time"

// Interaction registra un contacto con un cliente (llamada, email, reunión...).
type Interaction struct {
	Identity
	CustomerID       string     `json:"customer" db:"customer_id"`
	UserID           *string    `json:"user" db:"user_id"`
	Type             string     `json:"type" db:"type"`
	Subject          string     `json:"subject" db:"subject"`
	Description      string     `json:"description" db:"description"`
	Date             time.Time  `json:"date" db:"date"`
	DurationMinutes  *int       `json:"duration" db:"duration_minutes"`
	Outcome          string     `json:"outcome" db:"outcome"`
	NextAction       string     `json:"next_action" db:"next_action"`
	FollowUpRequired bool       `json:"follow_up_required" db:"follow_up_required"`
	FollowUpDate     *time.Time `json:"follow_up_date" db:"follow_up_date"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`

	CustomerName string `json:"customer_name" db:"customer_name"`
	UserName     string `json:"user_name" db:"user_name"`
}

func (i *Interaction) SetAuthor(userID string) { setOptionalAuthor(&i.UserID, userID) }

func (i *Interaction) Prepare(now time.Time, creating bool) {
	if i.Date.IsZero() {
		i.Date = now
	}
	touch(&i.CreatedAt, &i.UpdatedAt, now, creating)
}

func (i *Interaction) Validate() error {
	var duration error
	if i.DurationMinutes != nil {
		duration = NonNegative("duration", *i.DurationMinutes)
	}
	return Check(
		RequiredRef("customer", i.CustomerID),
		OneOf("type", i.Type, "call", "email", "meeting", "note", "task"),
		Required("subject", i.Subject),
		duration,
	)
}

// Estados y prioridades de Task.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskCancelled  = "cancelled"
)

// Task es una tarea asignada a un usuario, opcionalmente sobre un cliente.
type Task struct {
	Identity
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	CustomerID  *string    `json:"customer" db:"customer_id"`
	AssignedTo  *string    `json:"assigned_to" db:"assigned_to"`
	CreatedBy   *string    `json:"created_by" db:"created_by"`
	Priority    string     `json:"priority" db:"priority"`
	Status      string     `json:"status" db:"status"`
	DueDate     *time.Time `json:"due_date" db:"due_date"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	AssignedToName string `json:"assigned_to_name" db:"assigned_to_name"`
	CustomerName   string `json:"customer_name" db:"customer_name"`
	CreatedByName  string `json:"created_by_name" db:"created_by_name"`
}

func (t *Task) Defaults() {
	t.Priority = "medium"
	t.Status = TaskPending
}

func (t *Task) SetAuthor(userID string) { setOptionalAuthor(&t.CreatedBy, userID) }

// Prepare mantiene completed_at coherente con el estado.
func (t *Task) Prepare(now time.Time, creating bool) {
	defaultString(&t.Priority, "medium")
	defaultString(&t.Status, TaskPending)
	switch {
	case t.Status == TaskCompleted && t.CompletedAt == nil:
		t.CompletedAt = timePtr(now)
	case t.Status != TaskCompleted:
		t.CompletedAt = nil
	}
	touch(&t.CreatedAt, &t.UpdatedAt, now, creating)
}

func (t *Task) Validate() error {
	return Check(
		Required("title", t.Title),
		OneOf("priority", t.Priority, "low", "medium", "high", "urgent"),
		OneOf("status", t.Status, TaskPending, TaskInProgress, TaskCompleted, TaskCancelled),
	)
}

// Complete marca la tarea como completada conservando la primera fecha de cierre.
func (t *Task) Complete(now time.Time) {
	t.Status = TaskCompleted
	if t.CompletedAt == nil {
		t.CompletedAt = timePtr(now)
	}
}

// Notification es una alerta dirigida a un usuario.
type Notification struct {
	Identity
	UserID           string    `json:"user" db:"user_id"`
	Type             string    `json:"type" db:"type"`
	Title            string    `json:"title" db:"title"`
	Message          string    `json:"message" db:"message"`
	IsRead           bool      `json:"is_read" db:"is_read"`
	RelatedURL       string    `json:"related_url" db:"related_url"`
	RelatedCustomer  *string   `json:"related_customer" db:"related_customer_id"`
	RelatedTask      *string   `json:"related_task" db:"related_task_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`

	UserName string `json:"user_name" db:"user_name"`
}

func (n *Notification) SetAuthor(userID string) { setAuthor(&n.UserID, userID) }
func (n *Notification) OwnerID() string         { return n.UserID }
func (n *Notification) SetOwner(userID string)  { n.UserID = userID }

func (n *Notification) Prepare(now time.Time, creating bool) {
	touch(&n.CreatedAt, nil, now, creating)
}

// MarkRead marca la notificación como leída.
func (n *Notification) MarkRead() { n.IsRead = true }

func (n *Notification) Validate() error {
	return Check(
		RequiredRef("user", n.UserID),
		OneOf("type", n.Type, "task_due", "customer_update", "system_alert", "reminder"),
		Required("title", n.Title),
	)
}
