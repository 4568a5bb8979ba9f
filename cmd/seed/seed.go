package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/pkg/logger"
)

// seedFile datos iniciales. Cada registro puede declarar "ref: nombre"; los valores "$nombre"
// de registros posteriores se reemplazan por el id creado.
type seedFile struct {
	Modules   map[string]bool  `yaml:"modules"`
	Users     []map[string]any `yaml:"users"`
	Companies []map[string]any `yaml:"companies"`
	Customers []map[string]any `yaml:"customers"`
	Tasks     []map[string]any `yaml:"tasks"`
	Pipelines []map[string]any `yaml:"pipelines"`
}

func parseSeed(raw []byte) (*seedFile, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("seed: yaml: %w", err)
	}
	return &f, nil
}

type creator func(ctx context.Context, caller usecase.Caller, body []byte) (string, error)

func create[T any, PT interface {
	*T
	entity.Record
}](res *usecase.Resource[T, PT]) creator {
	return func(ctx context.Context, caller usecase.Caller, body []byte) (string, error) {
		rec, err := res.Create(ctx, caller, body)
		if err != nil {
			return "", err
		}
		return PT(rec).GetID(), nil
	}
}

// Seeder carga un seedFile usando los mismos casos de uso que la API (validación y hash de password).
type Seeder struct {
	core    *usecase.CoreService
	sales   *usecase.SalesService
	modules *usecase.ModuleService
	log     *logger.Logger
	refs    map[string]string
}

func NewSeeder(core *usecase.CoreService, sales *usecase.SalesService, modules *usecase.ModuleService, log *logger.Logger) *Seeder {
	return &Seeder{core: core, sales: sales, modules: modules, log: log, refs: map[string]string{}}
}

// Run aplica módulos, usuarios, empresas, clientes, tareas y pipelines en ese orden. Se detiene en el primer error.
func (s *Seeder) Run(ctx context.Context, caller usecase.Caller, f *seedFile) (int, error) {
	for name, enabled := range f.Modules {
		on := enabled
		if _, err := s.modules.SetEnabled(ctx, name, dto.ModuleUpdateRequest{Enabled: &on}); err != nil {
			return 0, fmt.Errorf("seed: módulo %s: %w", name, err)
		}
	}

	sections := []struct {
		name    string
		records []map[string]any
		create  creator
	}{
		{"users", f.Users, create(s.core.Users)},
		{"companies", f.Companies, create(s.core.Companies)},
		{"customers", f.Customers, create(s.core.Customers)},
		{"tasks", f.Tasks, create(s.core.Tasks)},
		{"pipelines", f.Pipelines, create(s.sales.Pipelines)},
	}
	created := 0
	for _, sec := range sections {
		for i, rec := range sec.records {
			ref, _ := rec["ref"].(string)
			delete(rec, "ref")
			if err := s.resolve(rec); err != nil {
				return created, fmt.Errorf("seed: %s[%d]: %w", sec.name, i, err)
			}
			body, err := json.Marshal(rec)
			if err != nil {
				return created, fmt.Errorf("seed: %s[%d]: %w", sec.name, i, err)
			}
			id, err := sec.create(ctx, caller, body)
			if err != nil {
				return created, fmt.Errorf("seed: %s[%d]: %w", sec.name, i, err)
			}
			if ref != "" {
				s.refs[ref] = id
			}
			created++
			s.log.Debug().Str("resource", sec.name).Str("id", id).Msg("registro creado")
		}
	}
	return created, nil
}

func (s *Seeder) resolve(rec map[string]any) error {
	for k, v := range rec {
		str, ok := v.(string)
		if !ok || !strings.HasPrefix(str, "$") {
			continue
		}
		id, ok := s.refs[strings.TrimPrefix(str, "$")]
		if !ok {
			return fmt.Errorf("referencia %q no declarada", str)
		}
		rec[k] = id
	}
	return nil
}
