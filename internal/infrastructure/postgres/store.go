package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
)

// Store implementación genérica de repository.Store sobre una Table.
type Store[T any] struct {
	q     Querier
	table *Table[T]
	meta  *tableMeta
}

// NewStore valida la descripción de la tabla y construye el store. Pasar pool o tx (Querier).
func NewStore[T any](q Querier, table *Table[T]) (*Store[T], error) {
	meta, err := table.resolve()
	if err != nil {
		return nil, err
	}
	return &Store[T]{q: q, table: table, meta: meta}, nil
}

// WithQuerier devuelve el mismo store atado a otra conexión (típicamente una tx).
func (s *Store[T]) WithQuerier(q Querier) *Store[T] {
	return &Store[T]{q: q, table: s.table, meta: s.meta}
}

func (s *Store[T]) op(name string) string {
	return s.table.Resource + "." + name
}

// Create inserta todas las columnas escribibles.
func (s *Store[T]) Create(ctx context.Context, rec *T) error {
	names := make([]string, len(s.meta.writable))
	params := make([]string, len(s.meta.writable))
	for i, c := range s.meta.writable {
		names[i] = c.name
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.table.Name, strings.Join(names, ", "), strings.Join(params, ", "))
	if _, err := s.q.Exec(ctx, query, values(rec, s.meta.writable)...); err != nil {
		return mapErr(s.op("create"), err)
	}
	return nil
}

// GetByID devuelve (nil, nil) si no existe. Un id que no es UUID no puede existir.
func (s *Store[T]) GetByID(ctx context.Context, id string) (*T, error) {
	if !validID(id) {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s t %s WHERE t.id = $1", s.meta.selectList, s.table.Name, s.table.Joins)
	rows, err := s.q.Query(ctx, query, id)
	if err != nil {
		return nil, mapErr(s.op("get"), err)
	}
	rec, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapErr(s.op("get"), err)
	}
	return rec, nil
}

// Update reescribe las columnas no inmutables.
func (s *Store[T]) Update(ctx context.Context, rec *T) error {
	sets := make([]string, len(s.meta.updatable))
	for i, c := range s.meta.updatable {
		sets[i] = fmt.Sprintf("%s = $%d", c.name, i+2)
	}
	args := append([]any{idOf(rec, s.meta)}, values(rec, s.meta.updatable)...)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", s.table.Name, strings.Join(sets, ", "))
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return mapErr(s.op("update"), err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete devuelve domain.ErrNotFound si no había fila.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := s.q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table.Name), id)
	if err != nil {
		return mapErr(s.op("delete"), err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// validID indica si id es un UUID; todas las tablas usan UUID como clave primaria.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// List aplica filtros, búsqueda, scope y orden; el total ignora limit/offset.
func (s *Store[T]) List(ctx context.Context, q repository.ListQuery) ([]*T, int, error) {
	where, args, err := s.where(q)
	if err != nil {
		return nil, 0, err
	}
	orderBy, err := s.orderBy(q.Ordering)
	if err != nil {
		return nil, 0, err
	}

	from := fmt.Sprintf("FROM %s t %s %s", s.table.Name, s.table.Joins, where)

	var total int
	if err := s.q.QueryRow(ctx, "SELECT COUNT(*) "+from, args).Scan(&total); err != nil {
		return nil, 0, mapErr(s.op("count"), err)
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s", s.meta.selectList, from, orderBy)
	if q.Limit > 0 {
		query += " LIMIT @limit"
		args["limit"] = q.Limit
	}
	if q.Offset > 0 {
		query += " OFFSET @offset"
		args["offset"] = q.Offset
	}

	rows, err := s.q.Query(ctx, query, args)
	if err != nil {
		return nil, 0, mapErr(s.op("list"), err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, 0, mapErr(s.op("list"), err)
	}
	return items, total, nil
}

// where arma la cláusula WHERE con argumentos con nombre.
func (s *Store[T]) where(q repository.ListQuery) (string, pgx.NamedArgs, error) {
	args := pgx.NamedArgs{}
	var conds []string

	// Orden estable de los parámetros para que la SQL generada sea determinista.
	params := make([]string, 0, len(q.Filters))
	for p := range q.Filters {
		params = append(params, p)
	}
	sort.Strings(params)
	for i, p := range params {
		expr, ok := s.table.Filters[p]
		if !ok {
			continue
		}
		name := fmt.Sprintf("f%d", i)
		conds = append(conds, fmt.Sprintf("%s::text = @%s", expr, name))
		args[name] = q.Filters[p]
	}

	if term := strings.TrimSpace(q.Search); term != "" && len(s.table.Search) > 0 {
		ors := make([]string, len(s.table.Search))
		for i, expr := range s.table.Search {
			ors[i] = expr + " ILIKE @search"
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		args["search"] = "%" + escapeLike(term) + "%"
	}

	if q.Scope != "" {
		pred, ok := s.table.Scopes[q.Scope]
		if !ok {
			return "", nil, fmt.Errorf("%s: scope %q: %w", s.op("list"), q.Scope, domain.ErrInvalidInput)
		}
		conds = append(conds, "("+pred+")")
		for k, v := range q.Args {
			args[k] = v
		}
	}

	if len(conds) == 0 {
		return "", args, nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args, nil
}

// orderBy traduce "-a,b" a SQL; campos no declarados son error de validación.
func (s *Store[T]) orderBy(ordering string) (string, error) {
	if strings.TrimSpace(ordering) == "" {
		ordering = s.table.DefaultOrder
	}
	var parts []string
	for _, field := range strings.Split(ordering, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		expr, ok := s.table.Ordering[field]
		if !ok {
			return "", domain.Invalid("ordering", fmt.Sprintf("campo %q no permitido", field))
		}
		parts = append(parts, fmt.Sprintf("%s %s NULLS LAST", expr, dir))
	}
	parts = append(parts, "t.id")
	return strings.Join(parts, ", "), nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func idOf[T any](rec *T, meta *tableMeta) any {
	for _, c := range meta.writable {
		if c.name == "id" {
			return values(rec, []column{c})[0]
		}
	}
	return nil
}

var _ repository.Store[struct{}] = (*Store[struct{}])(nil)
