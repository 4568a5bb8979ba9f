package entity

import (
	"strings"
	"time"
)

// Estados del ciclo de vida de un cliente.
const (
	CustomerLead     = "lead"
	CustomerProspect = "prospect"
	CustomerActive   = "customer"
	CustomerChurned  = "churned"
	CustomerInactive = "inactive"
)

// Customer representa a una persona de contacto comercial (lead, prospecto o cliente).
type Customer struct {
	Identity
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone" db:"phone"`
	CompanyID   *string   `json:"company" db:"company_id"`
	JobTitle    string    `json:"job_title" db:"job_title"`
	Status      string    `json:"status" db:"status"`
	Source      string    `json:"source" db:"source"`
	AssignedTo  *string   `json:"assigned_to" db:"assigned_to"`
	Notes       string    `json:"notes" db:"notes"`
	Address     string    `json:"address" db:"address"`
	City        string    `json:"city" db:"city"`
	State       string    `json:"state" db:"state"`
	Country     string    `json:"country" db:"country"`
	PostalCode  string    `json:"postal_code" db:"postal_code"`
	DateOfBirth Date      `json:"date_of_birth" db:"date_of_birth"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	FullName       string `json:"full_name" db:"full_name"`
	CompanyName    string `json:"company_name" db:"company_name"`
	AssignedToName string `json:"assigned_to_name" db:"assigned_to_name"`
}

func (c *Customer) Active() bool { return c.IsActive }

func (c *Customer) Defaults() {
	c.Status = CustomerLead
	c.IsActive = true
}

func (c *Customer) Prepare(now time.Time, creating bool) {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	defaultString(&c.Status, CustomerLead)
	touch(&c.CreatedAt, &c.UpdatedAt, now, creating)
}

func (c *Customer) Validate() error {
	return Check(
		Required("first_name", c.FirstName),
		Required("last_name", c.LastName),
		Email("email", c.Email),
		OneOf("status", c.Status, CustomerLead, CustomerProspect, CustomerActive, CustomerChurned, CustomerInactive),
	)
}
