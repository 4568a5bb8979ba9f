// Package memstore provee implementaciones en memoria de los puertos de persistencia para tests.
//
// Los filtros se resuelven por nombre JSON o columna db del campo, como texto;
// los scopes se registran por store con WithScope.
package memstore

import (
	"context"
	"database/sql/driver"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
)

var _ repository.Store[struct{ ID string }] = (*Store[struct{ ID string }])(nil)

// ScopeFunc predicado con nombre de un store.
type ScopeFunc[T any] func(rec *T, args map[string]any) bool

// Store es un repository.Store[T] en memoria que respeta el orden de inserción.
type Store[T any] struct {
	mu     sync.Mutex
	name   string
	rows   map[string]*T
	order  []string
	scopes map[string]ScopeFunc[T]
	unique []func(a, b *T) bool

	// Err si no es nil, todas las operaciones fallan con Err.
	Err error
}

// New crea un store vacío; name es el nombre del recurso ("support.tickets").
func New[T any](name string) *Store[T] {
	return &Store[T]{name: name, rows: map[string]*T{}, scopes: map[string]ScopeFunc[T]{}}
}

// WithScope registra un predicado con nombre.
func (s *Store[T]) WithScope(name string, fn ScopeFunc[T]) *Store[T] {
	s.scopes[name] = fn
	return s
}

// WithUnique registra una restricción de unicidad: same(a, b) true → ErrDuplicate.
func (s *Store[T]) WithUnique(same func(a, b *T) bool) *Store[T] {
	s.unique = append(s.unique, same)
	return s
}

// Name nombre del recurso.
func (s *Store[T]) Name() string { return s.name }

// Len cantidad de registros guardados.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Put guarda rec tal cual, sin validar (fixtures).
func (s *Store[T]) Put(rec *T) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := idOf(rec)
	if _, ok := s.rows[id]; !ok {
		s.order = append(s.order, id)
	}
	cp := *rec
	s.rows[id] = &cp
	return rec
}

func (s *Store[T]) Create(_ context.Context, rec *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	id := idOf(rec)
	if _, ok := s.rows[id]; ok {
		return domain.ErrDuplicate
	}
	if err := s.checkUnique(rec, id); err != nil {
		return err
	}
	cp := *rec
	s.rows[id] = &cp
	s.order = append(s.order, id)
	return nil
}

func (s *Store[T]) GetByID(_ context.Context, id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	rec, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *Store[T]) Update(_ context.Context, rec *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	id := idOf(rec)
	if _, ok := s.rows[id]; !ok {
		return domain.ErrNotFound
	}
	if err := s.checkUnique(rec, id); err != nil {
		return err
	}
	cp := *rec
	s.rows[id] = &cp
	return nil
}

func (s *Store[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.rows, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List aplica scope, filtros, búsqueda, orden y paginación. Filtros desconocidos se ignoran.
func (s *Store[T]) List(_ context.Context, q repository.ListQuery) ([]*T, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var scope ScopeFunc[T]
	if q.Scope != "" {
		fn, ok := s.scopes[q.Scope]
		if !ok {
			return nil, 0, fmt.Errorf("memstore: scope %q: %w", q.Scope, domain.ErrInvalidInput)
		}
		scope = fn
	}

	var out []*T
	for _, id := range s.order {
		rec := s.rows[id]
		if scope != nil && !scope(rec, q.Args) {
			continue
		}
		if !matchFilters(rec, q.Filters) || !matchSearch(rec, q.Search) {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	if q.Ordering != "" {
		if err := sortBy(out, q.Ordering); err != nil {
			return nil, 0, err
		}
	}

	total := len(out)
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			out = nil
		} else {
			out = out[q.Offset:]
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, total, nil
}

// Rows devuelve los registros como columna db → valor (para Analytics).
func (s *Store[T]) Rows(scope string) ([]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var fn ScopeFunc[T]
	if scope != "" {
		var ok bool
		if fn, ok = s.scopes[scope]; !ok {
			return nil, fmt.Errorf("memstore: scope %q: %w", scope, domain.ErrInvalidInput)
		}
	}
	out := make([]map[string]any, 0, len(s.rows))
	for _, id := range s.order {
		rec := s.rows[id]
		if fn != nil && !fn(rec, nil) {
			continue
		}
		row := map[string]any{}
		for _, f := range fieldsOf(rec) {
			row[f.db] = f.value
		}
		out = append(out, row)
	}
	return out, nil
}

// snapshot y restore permiten el rollback del TxRunner.
func (s *Store[T]) snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make(map[string]*T, len(s.rows))
	for k, v := range s.rows {
		cp := *v
		rows[k] = &cp
	}
	order := append([]string(nil), s.order...)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.rows, s.order = rows, order
	}
}

func (s *Store[T]) checkUnique(rec *T, id string) error {
	for _, same := range s.unique {
		for otherID, other := range s.rows {
			if otherID != id && same(rec, other) {
				return domain.ErrDuplicate
			}
		}
	}
	return nil
}

// ── Reflexión ────────────────────────────────────────────────────────────────

type field struct {
	json  string
	db    string
	value any
}

func idOf[T any](rec *T) string {
	if r, ok := any(rec).(interface{ GetID() string }); ok {
		return r.GetID()
	}
	panic(fmt.Sprintf("memstore: %T no expone GetID", rec))
}

func fieldsOf(rec any) []field {
	var out []field
	collect(reflect.ValueOf(rec).Elem(), &out)
	return out
}

func collect(v reflect.Value, out *[]field) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			collect(v.Field(i), out)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		db := sf.Tag.Get("db")
		if db == "" || db == "-" {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		*out = append(*out, field{json: name, db: db, value: v.Field(i).Interface()})
	}
}

func lookup(rec any, key string) (any, bool) {
	fields := fieldsOf(rec)
	for _, f := range fields {
		if f.json == key || f.db == key {
			return f.value, true
		}
	}
	for _, f := range fields {
		if f.db == key+"_id" {
			return f.value, true
		}
	}
	return nil, false
}

func matchFilters(rec any, filters map[string]string) bool {
	for k, want := range filters {
		v, ok := lookup(rec, k)
		if !ok {
			continue
		}
		if Text(v) != want {
			return false
		}
	}
	return true
}

func matchSearch(rec any, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fieldsOf(rec) {
		if s, ok := f.value.(string); ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func sortBy[T any](recs []*T, ordering string) error {
	keys := strings.Split(ordering, ",")
	for _, k := range keys {
		k = strings.TrimPrefix(strings.TrimSpace(k), "-")
		if k == "" {
			continue
		}
		var zero T
		if _, ok := lookup(&zero, k); !ok {
			return domain.Invalid("ordering", fmt.Sprintf("campo %q no permitido", k))
		}
	}
	sort.SliceStable(recs, func(a, b int) bool {
		for _, k := range keys {
			k = strings.TrimSpace(k)
			desc := strings.HasPrefix(k, "-")
			k = strings.TrimPrefix(k, "-")
			va, _ := lookup(recs[a], k)
			vb, _ := lookup(recs[b], k)
			c := compare(va, vb)
			if c == 0 {
				continue
			}
			if desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return nil
}

func compare(a, b any) int {
	if x, ok := timeOf(a); ok {
		if y, ok := timeOf(b); ok {
			return x.Compare(y)
		}
	}
	ta, tb := Text(a), Text(b)
	if fa, err := strconv.ParseFloat(ta, 64); err == nil {
		if fb, err := strconv.ParseFloat(tb, 64); err == nil {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(ta, tb)
}

func timeOf(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x != nil {
			return *x, true
		}
	}
	return time.Time{}, false
}

// Text representa v como lo haría Postgres con ::text (NULL → "").
func Text(v any) string {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ""
	}
	v = rv.Interface()
	if val, ok := v.(driver.Valuer); ok {
		dv, err := val.Value()
		if err != nil || dv == nil {
			return ""
		}
		v = dv
	}
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
