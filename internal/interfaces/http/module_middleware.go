package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/pkg/logger"
)

// moduleChecker es el contrato mínimo que necesita el middleware para verificar módulos.
// Lo implementa *usecase.ModuleService.
type moduleChecker interface {
	HasActiveModule(ctx context.Context, moduleName string) (bool, error)
}

// RequireModule devuelve un middleware Fiber que corta las rutas de un módulo desactivado.
//
// Comportamiento:
//   - 403 Forbidden  → módulo desactivado en crm_modules.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireModule(moduleName string, checker moduleChecker, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		active, err := checker.HasActiveModule(c.Context(), moduleName)
		if err != nil {
			log.Error().Err(err).Str("module", moduleName).Msg("verificación de módulo")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "MODULE_CHECK_FAILED",
				Message: "no se pudo verificar el módulo, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MODULE_DISABLED",
				Message: "el módulo '" + moduleName + "' está desactivado",
			})
		}
		return c.Next()
	}
}
