package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
)

// Parámetros de listado que no son filtros.
var listParams = map[string]struct{}{
	"limit":    {},
	"offset":   {},
	"search":   {},
	"ordering": {},
}

// listQuery arma el ListQuery desde el query string: paginación, search, ordering y el resto como filtros.
func listQuery(c *fiber.Ctx) (repository.ListQuery, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return repository.ListQuery{}, domain.Invalid("limit", "limit y offset deben ser numéricos")
	}
	page.DefaultPage()

	q := repository.ListQuery{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	for k, v := range c.Queries() {
		if _, skip := listParams[k]; skip || v == "" {
			continue
		}
		if q.Filters == nil {
			q.Filters = map[string]string{}
		}
		q.Filters[k] = v
	}
	return q, nil
}
