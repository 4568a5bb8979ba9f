package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
)

// crudResource operaciones que expone cualquier recurso del CRM.
// Lo implementa *usecase.Resource; un recurso puede sobreescribir Create o Update embebiéndolo.
type crudResource[T any] interface {
	List(ctx context.Context, caller usecase.Caller, q repository.ListQuery) (*dto.ListResponse[T], error)
	Get(ctx context.Context, caller usecase.Caller, id string) (*T, error)
	Create(ctx context.Context, caller usecase.Caller, body []byte) (*T, error)
	Update(ctx context.Context, caller usecase.Caller, id string, body []byte) (*T, error)
	Delete(ctx context.Context, caller usecase.Caller, id string) error
}

// Action ruta adicional de un recurso. Path es relativo al recurso: "/overdue" o "/:id/complete".
type Action struct {
	Method  string
	Path    string
	Handler fiber.Handler
}

// get acción de lectura (GET /<recurso>/<acción> o /<recurso>/:id/<vista>).
func get(path string, h fiber.Handler) Action { return Action{Method: fiber.MethodGet, Path: path, Handler: h} }

// post acción que cambia estado (POST /<recurso>/:id/<acción>).
func post(path string, h fiber.Handler) Action { return Action{Method: fiber.MethodPost, Path: path, Handler: h} }

// ResourceHandler CRUD HTTP genérico: list, create, retrieve, update (PUT y PATCH) y delete.
type ResourceHandler[T any] struct {
	res    crudResource[T]
	guards map[string][]fiber.Handler
}

// NewResourceHandler construye el handler de un recurso.
func NewResourceHandler[T any](res crudResource[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{res: res, guards: map[string][]fiber.Handler{}}
}

// Guard antepone mw a los métodos CRUD indicados (p.ej. RequireRole en POST y DELETE).
func (h *ResourceHandler[T]) Guard(mw fiber.Handler, methods ...string) *ResourceHandler[T] {
	for _, m := range methods {
		h.guards[m] = append(h.guards[m], mw)
	}
	return h
}

// Mount registra el recurso en su grupo g. Las acciones van antes que el CRUD
// para que "/overdue" no caiga en "/:id".
func (h *ResourceHandler[T]) Mount(g fiber.Router, actions ...Action) {
	for _, a := range actions {
		g.Add(a.Method, a.Path, a.Handler)
	}
	h.add(g, fiber.MethodGet, "/", h.List)
	h.add(g, fiber.MethodPost, "/", h.Create)
	h.add(g, fiber.MethodGet, "/:id", h.Get)
	h.add(g, fiber.MethodPut, "/:id", h.Update)
	h.add(g, fiber.MethodPatch, "/:id", h.Update)
	h.add(g, fiber.MethodDelete, "/:id", h.Delete)
}

func (h *ResourceHandler[T]) add(g fiber.Router, method, path string, handler fiber.Handler) {
	chain := append(append([]fiber.Handler{}, h.guards[method]...), handler)
	g.Add(method, path, chain...)
}

// List GET /<recurso>?limit=&offset=&search=&ordering=&<filtro>=
func (h *ResourceHandler[T]) List(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.res.List(c.Context(), caller(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// Create POST /<recurso>
func (h *ResourceHandler[T]) Create(c *fiber.Ctx) error {
	rec, err := h.res.Create(c.Context(), caller(c), c.Body())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// Get GET /<recurso>/:id
func (h *ResourceHandler[T]) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	rec, err := h.res.Get(c.Context(), caller(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

// Update PUT/PATCH /<recurso>/:id. Solo se sobrescriben los campos presentes en el cuerpo.
func (h *ResourceHandler[T]) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	rec, err := h.res.Update(c.Context(), caller(c), id, c.Body())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

// Delete DELETE /<recurso>/:id
func (h *ResourceHandler[T]) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	if err := h.res.Delete(c.Context(), caller(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func missingID(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "MISSING_ID", "id requerido")
}

// ── Adaptadores de acciones ──────────────────────────────────────────────────

// detail acción sobre un registro: POST /<recurso>/:id/<acción> o GET /<recurso>/:id/<vista>.
func detail[R any](fn func(ctx context.Context, caller usecase.Caller, id string) (R, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return missingID(c)
		}
		out, err := fn(c.Context(), caller(c), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// detailBody como detail, con un cuerpo JSON opcional.
func detailBody[In, R any](fn func(ctx context.Context, caller usecase.Caller, id string, in In) (R, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return missingID(c)
		}
		var in In
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&in); err != nil {
				return fail(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
			}
		}
		out, err := fn(c.Context(), caller(c), id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// nested lista paginada colgada de un registro (GET /companies/:id/customers).
func nested[T any](fn func(ctx context.Context, caller usecase.Caller, id string, q repository.ListQuery) (*dto.ListResponse[T], error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return missingID(c)
		}
		q, err := listQuery(c)
		if err != nil {
			return respondError(c, err)
		}
		page, err := fn(c.Context(), caller(c), id, q)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(page)
	}
}

// scoped listado paginado con un predicado fijo (GET /tasks/overdue).
func scoped[T any](fn func(ctx context.Context, caller usecase.Caller, q repository.ListQuery) (*dto.ListResponse[T], error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := listQuery(c)
		if err != nil {
			return respondError(c, err)
		}
		page, err := fn(c.Context(), caller(c), q)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(page)
	}
}

// summary acción de colección sin parámetros (resúmenes, valores distintos).
func summary[R any](fn func(ctx context.Context) (R, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := fn(c.Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}

// own acción de colección que depende del usuario autenticado (users/me, mark_all_read).
func own[R any](fn func(ctx context.Context, caller usecase.Caller) (R, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := fn(c.Context(), caller(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}
