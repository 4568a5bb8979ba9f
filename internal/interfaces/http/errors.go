package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain"
)

// LocalError guarda el error interno para el log de la petición (nunca se devuelve al cliente).
const LocalError = "internal_error"

// respondError traduce errores de dominio a dto.ErrorResponse con el status adecuado.
func respondError(c *fiber.Ctx, err error) error {
	var fe *domain.FieldError
	switch {
	case errors.Is(err, usecase.ErrInvalidBody):
		return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
	case errors.As(err, &fe):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", fe.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fail(c, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado")
	case errors.Is(err, domain.ErrDuplicate):
		return fail(c, fiber.StatusConflict, "DUPLICATE", "ya existe un registro con esos valores únicos")
	case errors.Is(err, domain.ErrReferenceNotFound):
		return fail(c, fiber.StatusBadRequest, "INVALID_REFERENCE", "referencia a un registro inexistente")
	case errors.Is(err, domain.ErrConflict):
		return fail(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas")
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado")
	case errors.Is(err, domain.ErrUnavailable):
		c.Locals(LocalError, err)
		return fail(c, fiber.StatusServiceUnavailable, "AI_UNAVAILABLE", "el asistente no está disponible")
	default:
		c.Locals(LocalError, err)
		return fail(c, fiber.StatusInternalServerError, "INTERNAL", "error interno")
	}
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
