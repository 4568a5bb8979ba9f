package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/testkit/memstore"
)

// ── Sales ────────────────────────────────────────────────────────────────────

func TestSales_CerrarAcuerdoConservaLaFecha(t *testing.T) {
	deals := memstore.New[entity.Deal]("sales.deals")
	svc := usecase.NewSalesService(usecase.SalesStores{Deals: deals}, memstore.NewAnalytics(), nil)
	ctx := context.Background()
	first := time.Date(2025, 5, 2, 11, 0, 0, 0, time.UTC)
	deals.Put(&entity.Deal{
		Identity:   entity.Identity{ID: "d1"},
		DealNumber: "DEAL-0001",
		CustomerID: "c1",
		Title:      "Licencias anuales",
		Amount:     decimal.RequireFromString("12000"),
		Currency:   "USD",
		Status:     "active",
	})

	svc.Deals.WithClock(fixedClock(first))
	res, err := svc.CloseDeal(ctx, agent, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Acuerdo cerrado", res.Status)

	svc.Deals.WithClock(fixedClock(first.Add(48 * time.Hour)))
	_, err = svc.CloseDeal(ctx, agent, "d1")
	require.NoError(t, err)

	got, _ := deals.GetByID(ctx, "d1")
	assert.Equal(t, "completed", got.Status)
	require.NotNil(t, got.ClosedAt)
	assert.Equal(t, first, *got.ClosedAt)

	_, err = svc.CloseDeal(ctx, agent, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Marketing ────────────────────────────────────────────────────────────────

func TestMarketing_ActivarYPausarCampana(t *testing.T) {
	campaigns := memstore.New[entity.MarketingCampaign]("marketing.campaigns")
	svc := usecase.NewMarketingService(usecase.MarketingStores{Campaigns: campaigns}, memstore.NewAnalytics(), nil)
	ctx := context.Background()
	start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	campaigns.Put(&entity.MarketingCampaign{
		Identity:     entity.Identity{ID: "mc1"},
		Name:         "Black Friday",
		CampaignType: "email",
		Status:       entity.CampaignDraft,
		StartDate:    start,
		EndDate:      start.AddDate(0, 1, 0),
		Currency:     "USD",
	})

	res, err := svc.ActivateCampaign(ctx, agent, "mc1")
	require.NoError(t, err)
	assert.Equal(t, "Campaña activada", res.Status)
	_, err = svc.ActivateCampaign(ctx, agent, "mc1")
	require.NoError(t, err)
	got, _ := campaigns.GetByID(ctx, "mc1")
	assert.Equal(t, entity.CampaignActive, got.Status)

	res, err = svc.PauseCampaign(ctx, agent, "mc1")
	require.NoError(t, err)
	assert.Equal(t, "Campaña pausada", res.Status)
	got, _ = campaigns.GetByID(ctx, "mc1")
	assert.Equal(t, entity.CampaignPaused, got.Status)
	assert.Equal(t, "Black Friday", got.Name)

	_, err = svc.PauseCampaign(ctx, agent, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Employees ────────────────────────────────────────────────────────────────

func TestEmployees_ActivarYDesactivarSonIdempotentes(t *testing.T) {
	employees := memstore.New[entity.Employee]("employees.employees")
	svc := usecase.NewEmployeeService(usecase.EmployeeStores{Employees: employees}, memstore.NewAnalytics(), nil)
	ctx := context.Background()
	hired, _ := entity.ParseDate("2024-02-01")
	employees.Put(&entity.Employee{
		Identity:   entity.Identity{ID: "e1"},
		UserID:     "u1",
		EmployeeID: "EMP-001",
		Role:       "support_agent",
		Department: "Soporte",
		HireDate:   hired,
		Status:     entity.EmployeeActive,
	})

	for range 2 {
		res, err := svc.DeactivateEmployee(ctx, agent, "e1")
		require.NoError(t, err)
		assert.Equal(t, "Empleado desactivado", res.Status)
		got, _ := employees.GetByID(ctx, "e1")
		assert.Equal(t, entity.EmployeeInactive, got.Status)
	}

	for range 2 {
		res, err := svc.ActivateEmployee(ctx, agent, "e1")
		require.NoError(t, err)
		assert.Equal(t, "Empleado activado", res.Status)
		got, _ := employees.GetByID(ctx, "e1")
		assert.Equal(t, entity.EmployeeActive, got.Status)
	}
}

// ── AI ───────────────────────────────────────────────────────────────────────

func TestAI_EntrenarYActivarModelo(t *testing.T) {
	models := memstore.New[entity.AIModel]("ai.models")
	svc := usecase.NewAIService(usecase.AIStores{Models: models}, nil, memstore.NewAnalytics(), nil)
	ctx := context.Background()
	trainedAt := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	models.Put(&entity.AIModel{
		Identity:  entity.Identity{ID: "m1"},
		Name:      "Churn v1",
		ModelType: "churn_prediction",
		Version:   "1.0.0",
		Status:    entity.ModelInactive,
	})

	svc.Models.WithClock(fixedClock(trainedAt))
	res, err := svc.TrainModel(ctx, agent, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Entrenamiento iniciado", res.Status)
	got, _ := models.GetByID(ctx, "m1")
	assert.Equal(t, entity.ModelTraining, got.Status)
	require.NotNil(t, got.LastTrained)
	assert.Equal(t, trainedAt, *got.LastTrained)

	for range 2 {
		res, err = svc.ActivateModel(ctx, agent, "m1")
		require.NoError(t, err)
		assert.Equal(t, "Modelo activado", res.Status)
	}
	got, _ = models.GetByID(ctx, "m1")
	assert.Equal(t, entity.ModelActive, got.Status)
	assert.Equal(t, trainedAt, *got.LastTrained, "activar no toca la fecha de entrenamiento")
}

// ── Chatbots y encuestas ─────────────────────────────────────────────────────

func TestAI_DesactivarChatbotDosVeces(t *testing.T) {
	f := newAI(nil)
	ctx := context.Background()

	for range 2 {
		res, err := f.svc.DeactivateChatbot(ctx, agent, "bot-1")
		require.NoError(t, err)
		assert.Equal(t, "Chatbot desactivado", res.Status)
		got, _ := f.chatbots.GetByID(ctx, "bot-1")
		assert.False(t, got.IsActive)
	}

	_, err := f.svc.ActivateChatbot(ctx, agent, "bot-1")
	require.NoError(t, err)
	got, _ := f.chatbots.GetByID(ctx, "bot-1")
	assert.True(t, got.IsActive)
}
