package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrReferenceNotFound  = errors.New("referencia inexistente")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrUnavailable        = errors.New("servicio no disponible")
)

// FieldError describe una violación de validación sobre un campo concreto.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *FieldError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un error de validación para el campo dado.
func Invalid(field, msg string) error {
	return &FieldError{Field: field, Message: msg}
}

// Conflict envuelve ErrConflict con un mensaje concreto.
func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}
