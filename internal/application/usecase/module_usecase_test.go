package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/testkit/memstore"
)

func boolPtr(b bool) *bool { return &b }

func TestModules_SinFilasTodosActivos(t *testing.T) {
	svc := usecase.NewModuleService(memstore.NewModules())

	mods, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, mods, len(usecase.Modules))
	for _, m := range mods {
		assert.True(t, m.Enabled, m.Name)
	}
}

func TestModules_DesactivarYConsultar(t *testing.T) {
	repo := memstore.NewModules()
	svc := usecase.NewModuleService(repo)
	ctx := context.Background()

	m, err := svc.SetEnabled(ctx, "sales", dto.ModuleUpdateRequest{Enabled: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "sales", m.Name)
	assert.False(t, m.Enabled)

	on, err := svc.HasActiveModule(ctx, "sales")
	require.NoError(t, err)
	assert.False(t, on)

	on, err = svc.HasActiveModule(ctx, "support")
	require.NoError(t, err)
	assert.True(t, on)
}

func TestModules_ModuloDesconocido(t *testing.T) {
	svc := usecase.NewModuleService(memstore.NewModules())

	_, err := svc.SetEnabled(context.Background(), "core", dto.ModuleUpdateRequest{Enabled: boolPtr(false)})
	assert.ErrorIs(t, err, domain.ErrNotFound, "core no se puede desactivar")
}

func TestModules_EnabledObligatorio(t *testing.T) {
	svc := usecase.NewModuleService(memstore.NewModules())

	_, err := svc.SetEnabled(context.Background(), "ai", dto.ModuleUpdateRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestModules_FalloDeInfraestructura(t *testing.T) {
	repo := memstore.NewModules()
	repo.Err = errors.New("timeout")
	svc := usecase.NewModuleService(repo)

	_, err := svc.HasActiveModule(context.Background(), "sales")
	assert.EqualError(t, err, "timeout")

	_, err = svc.HasActiveModule(context.Background(), "")
	assert.Error(t, err)
}
