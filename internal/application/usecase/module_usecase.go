package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
)

// Modules módulos del CRM que se pueden desactivar en caliente. core siempre está activo.
var Modules = []string{
	"customers", "sales", "marketing", "analytics", "support",
	"surveys", "employees", "knowledge", "workflows", "ai",
}

// ModuleService es el único punto de la aplicación que conoce la activación de módulos.
type ModuleService struct {
	repo repository.ModuleRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(repo repository.ModuleRepository) *ModuleService {
	return &ModuleService{repo: repo}
}

// HasActiveModule informa si el módulo está activo.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *ModuleService) HasActiveModule(ctx context.Context, moduleName string) (bool, error) {
	if moduleName == "" {
		return false, fmt.Errorf("module: moduleName es obligatorio")
	}
	return s.repo.IsEnabled(ctx, moduleName)
}

// List devuelve todos los módulos conocidos con su estado; los que no tienen fila están activos.
func (s *ModuleService) List(ctx context.Context) ([]repository.Module, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	state := make(map[string]bool, len(stored))
	for _, m := range stored {
		state[m.Name] = m.Enabled
	}
	out := make([]repository.Module, 0, len(Modules))
	for _, name := range Modules {
		enabled, ok := state[name]
		out = append(out, repository.Module{Name: name, Enabled: !ok || enabled})
	}
	return out, nil
}

// SetEnabled activa o desactiva un módulo conocido.
func (s *ModuleService) SetEnabled(ctx context.Context, name string, in dto.ModuleUpdateRequest) (*repository.Module, error) {
	if !knownModule(name) {
		return nil, domain.ErrNotFound
	}
	if in.Enabled == nil {
		return nil, domain.Invalid("enabled", "es obligatorio")
	}
	if err := s.repo.SetEnabled(ctx, name, *in.Enabled); err != nil {
		return nil, err
	}
	return &repository.Module{Name: name, Enabled: *in.Enabled}, nil
}

func knownModule(name string) bool {
	for _, m := range Modules {
		if m == name {
			return true
		}
	}
	return false
}
