package postgres

import (
	"fmt"
	"reflect"
	"strings"
)

// Projection columna de solo lectura calculada en el SELECT (joins, subconsultas).
type Projection struct {
	Alias string
	Expr  string
}

// Table describe cómo se persiste un recurso. El alias de la tabla principal es siempre "t".
type Table[T any] struct {
	// Resource nombre público del recurso (tickets, nps-scores...).
	Resource string
	Name     string
	Joins    string
	// Projections se leen pero nunca se escriben.
	Projections []Projection
	// Immutable columnas que Update no toca (created_at siempre lo es).
	Immutable []string
	// Filters parámetro de query -> expresión SQL comparada como texto.
	Filters map[string]string
	// Search expresiones en las que se busca con ILIKE.
	Search []string
	// Ordering campo público -> expresión SQL.
	Ordering     map[string]string
	DefaultOrder string
	// Scopes predicados con nombre; pueden usar argumentos @nombre.
	Scopes map[string]string
}

// column campo persistido de T con su ruta de acceso por reflexión.
type column struct {
	name  string
	index []int
}

// tableMeta columnas resueltas una sola vez por tabla.
type tableMeta struct {
	writable   []column // orden de INSERT (incluye id)
	updatable  []column // sin id ni columnas inmutables
	selectList string
	known      map[string]bool
}

// resolve recorre los tags db de T (incluidos los embebidos) y arma las listas de columnas.
func (t *Table[T]) resolve() (*tableMeta, error) {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("postgres: %s no es un struct", typ)
	}

	projected := make(map[string]bool, len(t.Projections))
	for _, p := range t.Projections {
		projected[p.Alias] = true
	}
	immutable := map[string]bool{"id": true, "created_at": true}
	for _, c := range t.Immutable {
		immutable[c] = true
	}

	meta := &tableMeta{known: map[string]bool{}}
	var walk func(reflect.Type, []int)
	walk = func(rt reflect.Type, prefix []int) {
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			idx := append(append([]int{}, prefix...), i)
			tag := f.Tag.Get("db")
			if f.Anonymous && f.Type.Kind() == reflect.Struct && tag == "" {
				walk(f.Type, idx)
				continue
			}
			if !f.IsExported() || tag == "" || tag == "-" || projected[tag] {
				continue
			}
			col := column{name: tag, index: idx}
			meta.writable = append(meta.writable, col)
			meta.known[tag] = true
			if !immutable[tag] {
				meta.updatable = append(meta.updatable, col)
			}
		}
	}
	walk(typ, nil)

	if !meta.known["id"] {
		return nil, fmt.Errorf("postgres: %s sin columna id", typ)
	}

	parts := make([]string, 0, len(meta.writable)+len(t.Projections))
	for _, c := range meta.writable {
		parts = append(parts, "t."+c.name)
	}
	for _, p := range t.Projections {
		parts = append(parts, fmt.Sprintf("%s AS %s", p.Expr, p.Alias))
	}
	meta.selectList = strings.Join(parts, ", ")
	return meta, nil
}

// values extrae los valores de rec en el orden de cols.
func values[T any](rec *T, cols []column) []any {
	v := reflect.ValueOf(rec).Elem()
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = v.FieldByIndex(c.index).Interface()
	}
	return out
}
