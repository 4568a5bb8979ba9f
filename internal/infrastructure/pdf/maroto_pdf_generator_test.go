package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
)

func TestFormatThousands(t *testing.T) {
	cases := map[int64]string{
		0:        "0",
		999:      "999",
		25000:    "25.000",
		1000000:  "1.000.000",
		-1234567: "-1.234.567",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatThousands(in), "entrada %d", in)
	}
}

func TestRenderAnalyticsReport_GeneraPDF(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	data := dto.ReportData{
		Title: "Reporte de analítica",
		Stats: dto.DashboardStatsDTO{
			TotalCustomers: 1200,
			RecentActivities: []dto.RecentActivityDTO{
				{ID: "1", Title: "Call with Ana Pérez", Date: due},
			},
			UpcomingDeadlines: []dto.UpcomingDeadlineDTO{
				{ID: "2", Title: "Enviar propuesta", DueDate: &due},
			},
		},
		RiskDistribution: []dto.RiskLevelCountDTO{{RiskLevel: "high", Count: 3}},
		NPS:              dto.NPSSummaryDTO{TotalResponses: 2, Promoters: 1, Detractors: 1, NPSScore: decimal.Zero},
		Feedback: dto.FeedbackSummaryDTO{
			ByType:        map[string]int64{"bug": 2, "feature_request": 1},
			AverageRating: decimal.NewFromFloat(4.5),
		},
	}

	out, err := NewMarotoReportGenerator().RenderAnalyticsReport(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe empezar con la cabecera PDF")
}
