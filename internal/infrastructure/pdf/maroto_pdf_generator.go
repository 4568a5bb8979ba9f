// Package pdf genera el reporte PDF de analítica del CRM.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte       │  Fecha de generación    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: Clientes | Empresas | Tareas activas | Interacciones │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RIESGO DE ABANDONO: nivel | clientes                       │
//	│  NPS: promotores / pasivos / detractores / score            │
//	│  FEEDBACK: por tipo + valoración media                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ACTIVIDAD RECIENTE + PRÓXIMOS VENCIMIENTOS                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/application/ports"
)

var _ ports.ReportRenderer = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa ports.ReportRenderer usando Maroto v2.
type MarotoReportGenerator struct {
	now func() time.Time
}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator {
	return &MarotoReportGenerator{now: time.Now}
}

// RenderAnalyticsReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) RenderAnalyticsReport(data dto.ReportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(data.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data.Title, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(kpiRow(data.Stats))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow("RIESGO DE ABANDONO"))
	m.AddRows(tableHeaderRow("Nivel de riesgo", "Clientes"))
	for _, r := range data.RiskDistribution {
		m.AddRows(pairRow(r.RiskLevel, strconv.FormatInt(r.Count, 10)))
	}

	m.AddRows(sectionRow("NET PROMOTER SCORE"))
	m.AddRows(tableHeaderRow("Indicador", "Valor"))
	m.AddRows(
		pairRow("Respuestas", strconv.Itoa(data.NPS.TotalResponses)),
		pairRow("Promotores (9-10)", strconv.Itoa(data.NPS.Promoters)),
		pairRow("Pasivos (7-8)", strconv.Itoa(data.NPS.Passives)),
		pairRow("Detractores (0-6)", strconv.Itoa(data.NPS.Detractors)),
		pairRow("NPS", data.NPS.NPSScore.StringFixed(2)),
	)

	m.AddRows(sectionRow("FEEDBACK DE PRODUCTO"))
	m.AddRows(tableHeaderRow("Tipo", "Cantidad"))
	for _, k := range sortedKeys(data.Feedback.ByType) {
		m.AddRows(pairRow(k, strconv.FormatInt(data.Feedback.ByType[k], 10)))
	}
	m.AddRows(pairRow("Valoración media", data.Feedback.AverageRating.StringFixed(2)))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionRow("ACTIVIDAD RECIENTE"))
	for _, a := range data.Stats.RecentActivities {
		m.AddRows(pairRow(a.Title, a.Date.Format("02/01/2006 15:04")))
	}
	m.AddRows(sectionRow("PRÓXIMOS VENCIMIENTOS"))
	for _, d := range data.Stats.UpcomingDeadlines {
		due := "—"
		if d.DueDate != nil {
			due = d.DueDate.Format("02/01/2006")
		}
		m.AddRows(pairRow(fmt.Sprintf("%s (%s)", d.Title, nonEmpty(d.CustomerName, "sin cliente")), due))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha de generación (der).
func headerRow(title string, at time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// kpiRow: cuatro indicadores del dashboard.
func kpiRow(s dto.DashboardStatsDTO) core.Row {
	kpi := func(label string, v int64) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(formatThousands(v), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Color: colorPrimary, Top: 6,
			}),
		)
	}
	return row.New(16).Add(
		kpi("Clientes activos", s.TotalCustomers),
		kpi("Empresas activas", s.TotalCompanies),
		kpi("Tareas activas", s.ActiveTasks),
		kpi("Interacciones (7 días)", s.PendingInteractions),
	)
}

func sectionRow(title string) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 3}),
	))
}

func tableHeaderRow(left, right string) core.Row {
	return row.New(6).Add(
		col.New(8).Add(text.New(left, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1})),
		col.New(4).Add(text.New(right, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func pairRow(label, value string) core.Row {
	return row.New(5).Add(
		col.New(8).Add(text.New(label, props.Text{Size: 8, Top: 0.5, Left: 1})),
		col.New(4).Add(text.New(value, props.Text{Size: 8, Align: align.Right, Top: 0.5, Right: 1})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatThousands inserta puntos de miles. Ej: 25000 → "25.000".
func formatThousands(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := false
	if v < 0 {
		neg, s = true, s[1:]
	}
	n := len(s)
	buf := make([]byte, 0, n+n/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
