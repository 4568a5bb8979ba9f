package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
)

var _ repository.ModuleRepository = (*ModuleRepo)(nil)

// ModuleRepo activación de módulos en crm_modules.
type ModuleRepo struct {
	q Querier
}

// NewModuleRepository construye el adaptador de módulos.
func NewModuleRepository(q Querier) *ModuleRepo {
	return &ModuleRepo{q: q}
}

// List devuelve los módulos con fila en crm_modules.
func (r *ModuleRepo) List(ctx context.Context) ([]repository.Module, error) {
	rows, err := r.q.Query(ctx, `SELECT name, enabled FROM crm_modules ORDER BY name`)
	if err != nil {
		return nil, mapErr("modules.List", err)
	}
	mods, err := pgx.CollectRows(rows, pgx.RowToStructByName[repository.Module])
	if err != nil {
		return nil, fmt.Errorf("modules.List: %w", err)
	}
	return mods, nil
}

// IsEnabled consulta directamente por nombre (clave primaria); sin fila = activo.
func (r *ModuleRepo) IsEnabled(ctx context.Context, name string) (bool, error) {
	var enabled bool
	err := r.q.QueryRow(ctx, `SELECT enabled FROM crm_modules WHERE name = $1`, name).Scan(&enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("check module %s: %w", name, err)
	}
	return enabled, nil
}

// SetEnabled crea o actualiza la fila del módulo.
func (r *ModuleRepo) SetEnabled(ctx context.Context, name string, enabled bool) error {
	const query = `
		INSERT INTO crm_modules (name, enabled, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, name, enabled); err != nil {
		return mapErr("modules.SetEnabled", err)
	}
	return nil
}
