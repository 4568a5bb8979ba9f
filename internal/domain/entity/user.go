package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleAgent   = "agent"
)

// User representa un usuario interno del CRM (agente, gerente o administrador).
type User struct {
	Identity
	Email        string     `json:"email" db:"email"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Role         string     `json:"role" db:"role"`
	Department   string     `json:"department" db:"department"`
	Position     string     `json:"position" db:"position"`
	Phone        string     `json:"phone" db:"phone"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLogin    *time.Time `json:"last_login" db:"last_login"`
	PasswordHash string     `json:"-" db:"password_hash"` // bcrypt
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	FullName string `json:"full_name" db:"full_name"`

	// Password solo se acepta como entrada; se hashea antes de persistir.
	Password string `json:"password,omitempty" db:"-"`
}

func (u *User) Active() bool { return u.IsActive }

func (u *User) Defaults() {
	u.Role = RoleAgent
	u.IsActive = true
}

func (u *User) Prepare(now time.Time, creating bool) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	defaultString(&u.Role, RoleAgent)
	touch(&u.CreatedAt, &u.UpdatedAt, now, creating)
}

func (u *User) Validate() error {
	return Check(
		Email("email", u.Email),
		Required("first_name", u.FirstName),
		OneOf("role", u.Role, RoleAdmin, RoleManager, RoleAgent),
	)
}

func (u *User) Redact() { u.Password = "" }
