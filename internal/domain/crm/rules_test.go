package crm_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/crm"
)

func TestNextStage(t *testing.T) {
	cases := []struct {
		current string
		want    string
	}{
		{crm.StageProspecting, crm.StageQualification},
		{crm.StageQualification, crm.StageNeedsAnalysis},
		{crm.StageNeedsAnalysis, crm.StageProposal},
		{crm.StageProposal, crm.StageNegotiation},
		{crm.StageNegotiation, crm.StageClosedWon},
	}
	for _, tc := range cases {
		t.Run(tc.current, func(t *testing.T) {
			got, err := crm.NextStage(tc.current)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextStage_EtapaFinalOInvalida(t *testing.T) {
	for _, stage := range []string{crm.StageClosedWon, crm.StageClosedLost, "desconocida"} {
		_, err := crm.NextStage(stage)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "etapa %s debe fallar", stage)
	}
}

func TestNPSBreakdown(t *testing.T) {
	var b crm.NPSBreakdown
	for _, s := range []int{10, 9, 8, 7, 6, 0} {
		b.Add(s)
	}
	assert.Equal(t, 6, b.Total)
	assert.Equal(t, 2, b.Promoters)
	assert.Equal(t, 2, b.Passives)
	assert.Equal(t, 2, b.Detractors)
	assert.True(t, b.Score().IsZero(), "2 promotores y 2 detractores dan NPS 0")

	b = crm.NPSBreakdown{}
	b.Add(10)
	b.Add(10)
	b.Add(3)
	assert.Equal(t, "33.33", b.Score().StringFixed(2))
}

func TestNPSBreakdown_SinRespuestas(t *testing.T) {
	assert.True(t, crm.NPSBreakdown{}.Score().IsZero())
}

func TestPercentage(t *testing.T) {
	assert.True(t, crm.PercentageInt(5, 0).IsZero(), "sin total la tasa es 0")
	assert.Equal(t, "25", crm.PercentageInt(1, 4).String())
	assert.Equal(t, "66.67", crm.PercentageInt(2, 3).String())
	assert.Equal(t, "75", crm.HelpfulRatio(3, 1).String())
}

func TestGoalStatusForProgress(t *testing.T) {
	cases := []struct {
		name     string
		progress int64
		want     string
	}{
		{"completa al llegar a 100", 100, crm.GoalCompleted},
		{"completa al superar 100", 120, crm.GoalCompleted},
		{"en progreso", 40, crm.GoalInProgress},
		{"cero conserva estado", 0, crm.GoalNotStarted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, crm.GoalStatusForProgress(crm.GoalNotStarted, decimal.NewFromInt(tc.progress)))
		})
	}
	assert.Equal(t, "100", crm.ClampProgress(decimal.NewFromInt(140)).String())
	assert.True(t, crm.ClampProgress(decimal.NewFromInt(-3)).IsZero())
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Guía Rápida de Facturación": "guia-rapida-de-facturacion",
		"  Hola,   Mundo!  ":         "hola-mundo",
		"Año 2024 / Q1":              "ano-2024-q1",
		"¿Cómo?":                     "como",
	}
	for in, want := range cases {
		assert.Equal(t, want, crm.Slugify(in), in)
	}
}
