package dto

import "github.com/jhoicas/intellicx-crm/internal/domain/entity"

// RegisterRequest entrada para registro público (auth). El rol no se acepta: siempre agent.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT y el usuario autenticado (sin password).
type LoginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// ModuleUpdateRequest cuerpo de PUT /api/modules/:name.
type ModuleUpdateRequest struct {
	Enabled *bool `json:"enabled"`
}
