package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// GroupCount conteo agrupado por el valor de una columna.
type GroupCount struct {
	Value string
	Count int64
}

// Aggregation expresión agregada con nombre (SUM, AVG, COUNT DISTINCT...).
type Aggregation struct {
	Name string
	Func string // sum | avg | count | count_distinct
	// Column columna de la tabla del recurso.
	Column string
}

// AnalyticsRepository consultas de solo lectura sobre las tablas de los recursos.
// resource es el nombre del recurso registrado (tickets, nps-scores...), nunca SQL libre.
type AnalyticsRepository interface {
	// CountBy agrupa por column y cuenta; scope es un predicado declarado del recurso ("" = todos).
	CountBy(ctx context.Context, resource, column, scope string) ([]GroupCount, error)
	// Aggregate calcula las agregaciones pedidas; AVG sin filas devuelve Valid=false.
	Aggregate(ctx context.Context, resource string, aggs []Aggregation) (map[string]decimal.NullDecimal, error)
	// Distinct valores distintos y no vacíos de column, ordenados.
	Distinct(ctx context.Context, resource, column, scope string) ([]string, error)
}

// Module estado de activación de un módulo del CRM.
type Module struct {
	Name    string `json:"name" db:"name"`
	Enabled bool   `json:"enabled" db:"enabled"`
}

// ModuleRepository persistencia de la tabla crm_modules.
type ModuleRepository interface {
	List(ctx context.Context) ([]Module, error)
	// IsEnabled devuelve true para módulos sin fila (activos por defecto).
	IsEnabled(ctx context.Context, name string) (bool, error)
	SetEnabled(ctx context.Context, name string, enabled bool) error
}
