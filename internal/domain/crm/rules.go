// Package crm contiene reglas de negocio puras del CRM (sin I/O).
package crm

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/intellicx-crm/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// ── Oportunidades ────────────────────────────────────────────────────────────

const (
	StageProspecting   = "prospecting"
	StageQualification = "qualification"
	StageNeedsAnalysis = "needs_analysis"
	StageProposal      = "proposal"
	StageNegotiation   = "negotiation"
	StageClosedWon     = "closed_won"
	StageClosedLost    = "closed_lost"
)

// OpenStages es la secuencia de avance; negotiation avanza a closed_won.
var OpenStages = []string{StageProspecting, StageQualification, StageNeedsAnalysis, StageProposal, StageNegotiation}

// NextStage devuelve la etapa siguiente a current.
func NextStage(current string) (string, error) {
	if current == StageClosedWon || current == StageClosedLost {
		return "", fmt.Errorf("%w: la oportunidad ya está en la etapa final", domain.ErrInvalidInput)
	}
	for i, s := range OpenStages {
		if s != current {
			continue
		}
		if i+1 < len(OpenStages) {
			return OpenStages[i+1], nil
		}
		return StageClosedWon, nil
	}
	return "", fmt.Errorf("%w: etapa desconocida %q", domain.ErrInvalidInput, current)
}

// IsClosedStage indica si la etapa es terminal.
func IsClosedStage(stage string) bool {
	return stage == StageClosedWon || stage == StageClosedLost
}

// ── NPS ──────────────────────────────────────────────────────────────────────

// NPSBreakdown resume puntuaciones 0..10.
type NPSBreakdown struct {
	Total      int
	Promoters  int
	Passives   int
	Detractors int
}

// NPSCategory clasifica una puntuación: ≥9 promotor, 7-8 pasivo, ≤6 detractor.
func NPSCategory(score int) string {
	switch {
	case score >= 9:
		return "promoter"
	case score >= 7:
		return "passive"
	default:
		return "detractor"
	}
}

// Add acumula una puntuación.
func (b *NPSBreakdown) Add(score int) { b.AddN(score, 1) }

// AddN acumula n respuestas con la misma puntuación.
func (b *NPSBreakdown) AddN(score, n int) {
	b.Total += n
	switch NPSCategory(score) {
	case "promoter":
		b.Promoters += n
	case "passive":
		b.Passives += n
	default:
		b.Detractors += n
	}
}

// Score = (promotores - detractores) / total * 100, redondeado a 2 decimales. 0 sin respuestas.
func (b NPSBreakdown) Score() decimal.Decimal {
	if b.Total == 0 {
		return decimal.Zero
	}
	diff := decimal.NewFromInt(int64(b.Promoters - b.Detractors))
	return diff.Div(decimal.NewFromInt(int64(b.Total))).Mul(hundred).Round(2)
}

// ── Tasas ────────────────────────────────────────────────────────────────────

// Percentage devuelve part/total*100 con 2 decimales; 0 cuando total es 0.
func Percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}

// PercentageInt es Percentage para contadores enteros.
func PercentageInt(part, total int64) decimal.Decimal {
	return Percentage(decimal.NewFromInt(part), decimal.NewFromInt(total))
}

// HelpfulRatio = helpful / (helpful + not_helpful) * 100.
func HelpfulRatio(helpful, notHelpful int) decimal.Decimal {
	return PercentageInt(int64(helpful), int64(helpful+notHelpful))
}

// ── Metas ────────────────────────────────────────────────────────────────────

const (
	GoalNotStarted = "not_started"
	GoalInProgress = "in_progress"
	GoalCompleted  = "completed"
)

// GoalStatusForProgress: ≥100 completada, >0 en progreso, si no conserva el estado actual.
func GoalStatusForProgress(current string, progress decimal.Decimal) string {
	switch {
	case progress.GreaterThanOrEqual(hundred):
		return GoalCompleted
	case progress.IsPositive():
		return GoalInProgress
	default:
		return current
	}
}

// ClampProgress limita el progreso a 0..100.
func ClampProgress(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// ── Slugs ────────────────────────────────────────────────────────────────────

// Slugify genera un slug ASCII en minúsculas: "Guía Rápida" -> "guia-rapida".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
