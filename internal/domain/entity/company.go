package entity

import "time"

// Company representa una organización cliente.
type Company struct {
	Identity
	Name        string    `json:"name" db:"name"`
	Industry    string    `json:"industry" db:"industry"`
	Size        string    `json:"size" db:"size"` // startup, small, medium, large, enterprise
	Website     string    `json:"website" db:"website"`
	Phone       string    `json:"phone" db:"phone"`
	Email       string    `json:"email" db:"email"`
	Address     string    `json:"address" db:"address"`
	City        string    `json:"city" db:"city"`
	State       string    `json:"state" db:"state"`
	Country     string    `json:"country" db:"country"`
	PostalCode  string    `json:"postal_code" db:"postal_code"`
	Description string    `json:"description" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	CustomerCount int `json:"customer_count" db:"customer_count"`
}

func (c *Company) Active() bool { return c.IsActive }

func (c *Company) Defaults() { c.IsActive = true }

func (c *Company) Prepare(now time.Time, creating bool) {
	touch(&c.CreatedAt, &c.UpdatedAt, now, creating)
}

func (c *Company) Validate() error {
	var size error
	if c.Size != "" {
		size = OneOf("size", c.Size, "startup", "small", "medium", "large", "enterprise")
	}
	return Check(Required("name", c.Name), size, OptionalEmail("email", c.Email))
}
