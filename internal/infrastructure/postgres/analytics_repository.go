package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// tableSpec vista no genérica de un Store para las consultas agregadas.
type tableSpec struct {
	name   string
	meta   *tableMeta
	scopes map[string]string
}

// Catalog índice recurso -> tabla que comparten los stores y el repositorio de analítica.
type Catalog struct {
	mu    sync.RWMutex
	specs map[string]tableSpec
}

// NewCatalog crea un catálogo vacío.
func NewCatalog() *Catalog {
	return &Catalog{specs: map[string]tableSpec{}}
}

// Register construye el store de la tabla y lo publica en el catálogo.
func Register[T any](c *Catalog, q Querier, table *Table[T]) (*Store[T], error) {
	st, err := NewStore(q, table)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.specs[table.Resource]; dup {
		return nil, fmt.Errorf("postgres: recurso %q registrado dos veces", table.Resource)
	}
	c.specs[table.Resource] = tableSpec{name: table.Name, meta: st.meta, scopes: table.Scopes}
	return st, nil
}

// Resources nombres registrados, ordenados.
func (c *Catalog) Resources() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.specs))
	for r := range c.specs {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) lookup(resource, col, scope string) (tableSpec, string, error) {
	c.mu.RLock()
	spec, ok := c.specs[resource]
	c.mu.RUnlock()
	if !ok {
		return tableSpec{}, "", fmt.Errorf("analytics: recurso %q desconocido", resource)
	}
	if col != "" && !spec.meta.known[col] {
		return tableSpec{}, "", fmt.Errorf("analytics: columna %q no existe en %s: %w", col, resource, domain.ErrInvalidInput)
	}
	if scope == "" {
		return spec, "", nil
	}
	pred, ok := spec.scopes[scope]
	if !ok {
		return tableSpec{}, "", fmt.Errorf("analytics: scope %q no existe en %s: %w", scope, resource, domain.ErrInvalidInput)
	}
	if strings.Contains(pred, "@") {
		return tableSpec{}, "", fmt.Errorf("analytics: scope %q requiere argumentos", scope)
	}
	return spec, "WHERE " + pred, nil
}

// AnalyticsRepo consultas agregadas de solo lectura sobre las tablas del catálogo.
type AnalyticsRepo struct {
	q       Querier
	catalog *Catalog
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier, catalog *Catalog) *AnalyticsRepo {
	return &AnalyticsRepo{q: q, catalog: catalog}
}

// CountBy cuenta filas agrupadas por el valor textual de column.
func (r *AnalyticsRepo) CountBy(ctx context.Context, resource, col, scope string) ([]repository.GroupCount, error) {
	spec, where, err := r.catalog.lookup(resource, col, scope)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
	SELECT COALESCE(t.%[1]s::text, '') AS value, COUNT(*) AS total
	FROM %[2]s t
	%[3]s
	GROUP BY 1
	ORDER BY 1`, col, spec.name, where)

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, mapErr("analytics.CountBy", err)
	}
	defer rows.Close()

	var out []repository.GroupCount
	for rows.Next() {
		var g repository.GroupCount
		if err := rows.Scan(&g.Value, &g.Count); err != nil {
			return nil, fmt.Errorf("analytics.CountBy scan: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Aggregate calcula SUM/AVG/COUNT en una sola pasada. SUM y COUNT sin filas devuelven 0.
func (r *AnalyticsRepo) Aggregate(ctx context.Context, resource string, aggs []repository.Aggregation) (map[string]decimal.NullDecimal, error) {
	if len(aggs) == 0 {
		return map[string]decimal.NullDecimal{}, nil
	}
	spec, _, err := r.catalog.lookup(resource, "", "")
	if err != nil {
		return nil, err
	}
	exprs := make([]string, len(aggs))
	for i, a := range aggs {
		if a.Func != "count" && !spec.meta.known[a.Column] {
			return nil, fmt.Errorf("analytics: columna %q no existe en %s: %w", a.Column, resource, domain.ErrInvalidInput)
		}
		switch a.Func {
		case "sum":
			exprs[i] = fmt.Sprintf("COALESCE(SUM(t.%s), 0)::numeric", a.Column)
		case "avg":
			exprs[i] = fmt.Sprintf("AVG(t.%s)::numeric", a.Column)
		case "count":
			exprs[i] = "COUNT(*)::numeric"
		case "count_distinct":
			exprs[i] = fmt.Sprintf("COUNT(DISTINCT t.%s)::numeric", a.Column)
		default:
			return nil, fmt.Errorf("analytics: función %q no soportada", a.Func)
		}
	}
	query := fmt.Sprintf("SELECT %s FROM %s t", strings.Join(exprs, ", "), spec.name)

	dest := make([]decimal.NullDecimal, len(aggs))
	ptrs := make([]any, len(aggs))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := r.q.QueryRow(ctx, query).Scan(ptrs...); err != nil {
		return nil, mapErr("analytics.Aggregate", err)
	}
	out := make(map[string]decimal.NullDecimal, len(aggs))
	for i, a := range aggs {
		out[a.Name] = dest[i]
	}
	return out, nil
}

// Distinct valores distintos no vacíos de column.
func (r *AnalyticsRepo) Distinct(ctx context.Context, resource, col, scope string) ([]string, error) {
	spec, where, err := r.catalog.lookup(resource, col, scope)
	if err != nil {
		return nil, err
	}
	cond := fmt.Sprintf("t.%[1]s IS NOT NULL AND t.%[1]s::text <> ''", col)
	if where == "" {
		where = "WHERE " + cond
	} else {
		where += " AND " + cond
	}
	query := fmt.Sprintf("SELECT DISTINCT t.%s::text FROM %s t %s ORDER BY 1", col, spec.name, where)

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, mapErr("analytics.Distinct", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("analytics.Distinct scan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
