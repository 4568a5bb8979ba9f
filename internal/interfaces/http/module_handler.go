package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
)

// ModuleHandler consulta y activa/desactiva módulos del CRM.
type ModuleHandler struct {
	svc *usecase.ModuleService
}

// NewModuleHandler construye el handler.
func NewModuleHandler(svc *usecase.ModuleService) *ModuleHandler {
	return &ModuleHandler{svc: svc}
}

// List godoc
// @Summary      Listar módulos
// @Tags         modules
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   repository.Module
// @Router       /api/modules [get]
func (h *ModuleHandler) List(c *fiber.Ctx) error {
	mods, err := h.svc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(mods)
}

// Update godoc
// @Summary      Activar o desactivar un módulo (admin)
// @Tags         modules
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string                   true  "customers, sales, marketing..."
// @Param        body  body  dto.ModuleUpdateRequest  true  "enabled"
// @Success      200   {object}  repository.Module
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/modules/{name} [put]
func (h *ModuleHandler) Update(c *fiber.Ctx) error {
	var in dto.ModuleUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mod, err := h.svc.SetEnabled(c.Context(), c.Params("name"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(mod)
}
