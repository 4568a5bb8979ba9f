package http

import (
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

func registerSurveys(s section, svc *usecase.SurveyService) {
	NewResourceHandler[entity.Survey](svc.Surveys).Mount(s.group("/surveys"),
		post("/:id/activate", detail(svc.ActivateSurvey)),
		post("/:id/deactivate", detail(svc.DeactivateSurvey)),
	)
	NewResourceHandler[entity.SurveyQuestion](svc.Questions).Mount(s.group("/questions"))
	NewResourceHandler[entity.SurveyResponse](svc.Responses).Mount(s.group("/responses"),
		post("/:id/complete", detail(svc.CompleteResponse)),
	)
	NewResourceHandler[entity.SurveyAnswer](svc.Answers).Mount(s.group("/answers"))
	NewResourceHandler[entity.NPSScore](svc.NPSScores).Mount(s.group("/nps-scores"),
		get("/summary", own(svc.NPSSummary)),
	)
	NewResourceHandler[entity.SurveyTemplate](svc.Templates).Mount(s.group("/templates"))
	NewResourceHandler[entity.SurveyMetrics](svc.Metrics).Mount(s.group("/metrics"))
}
