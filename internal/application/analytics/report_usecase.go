package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/application/ports"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
)

// ReportSources resúmenes que componen el reporte.
type ReportSources struct {
	Dashboard *DashboardUseCase
	Analytics *usecase.AnalyticsService
	Surveys   *usecase.SurveyService
}

// ReportUseCase genera el reporte PDF de analítica (GET /api/analytics/report).
type ReportUseCase struct {
	src      ReportSources
	renderer ports.ReportRenderer
	title    string
}

// NewReportUseCase construye el caso de uso; title encabeza el documento.
func NewReportUseCase(src ReportSources, renderer ports.ReportRenderer, title string) *ReportUseCase {
	return &ReportUseCase{src: src, renderer: renderer, title: title}
}

// Generate reúne los resúmenes y los entrega al renderer.
func (uc *ReportUseCase) Generate(ctx context.Context, caller usecase.Caller) ([]byte, error) {
	stats, err := uc.src.Dashboard.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	risks, err := uc.src.Analytics.RiskDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: riesgo de abandono: %w", err)
	}
	nps, err := uc.src.Surveys.NPSSummary(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("reporte: NPS: %w", err)
	}
	feedback, err := uc.src.Analytics.FeedbackSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporte: feedback: %w", err)
	}
	pdf, err := uc.renderer.RenderAnalyticsReport(dto.ReportData{
		Title:            uc.title,
		Stats:            *stats,
		RiskDistribution: risks,
		NPS:              *nps,
		Feedback:         *feedback,
	})
	if err != nil {
		return nil, fmt.Errorf("reporte: generar PDF: %w", err)
	}
	return pdf, nil
}
