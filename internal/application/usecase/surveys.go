package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain/crm"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// SurveyStores puertos de persistencia del módulo surveys.
type SurveyStores struct {
	Surveys   repository.Store[entity.Survey]
	Questions repository.Store[entity.SurveyQuestion]
	Responses repository.Store[entity.SurveyResponse]
	Answers   repository.Store[entity.SurveyAnswer]
	NPSScores repository.Store[entity.NPSScore]
	Templates repository.Store[entity.SurveyTemplate]
	Metrics   repository.Store[entity.SurveyMetrics]
}

// SurveyService recursos y acciones del módulo surveys.
type SurveyService struct {
	Surveys   *Resource[entity.Survey, *entity.Survey]
	Questions *Resource[entity.SurveyQuestion, *entity.SurveyQuestion]
	Responses *Resource[entity.SurveyResponse, *entity.SurveyResponse]
	Answers   *Resource[entity.SurveyAnswer, *entity.SurveyAnswer]
	NPSScores *Resource[entity.NPSScore, *entity.NPSScore]
	Templates *Resource[entity.SurveyTemplate, *entity.SurveyTemplate]
	Metrics   *Resource[entity.SurveyMetrics, *entity.SurveyMetrics]

	analytics repository.AnalyticsRepository
}

// NewSurveyService construye el servicio del módulo surveys.
func NewSurveyService(s SurveyStores, analytics repository.AnalyticsRepository, m *metrics.Metrics) *SurveyService {
	return &SurveyService{
		Surveys: NewResource[entity.Survey]("surveys.surveys", s.Surveys, m, Options{
			ReadOnly: []string{"question_count", "response_count"},
		}),
		Questions: NewResource[entity.SurveyQuestion]("surveys.questions", s.Questions, m, Options{}),
		Responses: NewResource[entity.SurveyResponse]("surveys.responses", s.Responses, m, Options{
			ReadOnly: []string{"started_at", "completed_at", "survey_title", "customer_name"},
		}),
		Answers: NewResource[entity.SurveyAnswer]("surveys.answers", s.Answers, m, Options{
			ReadOnly: []string{"question_text"},
		}),
		NPSScores: NewResource[entity.NPSScore]("surveys.nps-scores", s.NPSScores, m, Options{
			ReadOnly: []string{"customer_name"},
		}),
		Templates: NewResource[entity.SurveyTemplate]("surveys.templates", s.Templates, m, Options{}),
		Metrics: NewResource[entity.SurveyMetrics]("surveys.metrics", s.Metrics, m, Options{
			ReadOnly: []string{"survey_title"},
		}),
	}
}

// ActivateSurvey activa la encuesta.
func (s *SurveyService) ActivateSurvey(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setSurveyActive(ctx, caller, id, "activate", true); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Encuesta activada"}, nil
}

// DeactivateSurvey desactiva la encuesta.
func (s *SurveyService) DeactivateSurvey(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setSurveyActive(ctx, caller, id, "deactivate", false); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Encuesta desactivada"}, nil
}

func (s *SurveyService) setSurveyActive(ctx context.Context, caller Caller, id, action string, active bool) error {
	_, err := s.Surveys.Action(ctx, caller, id, action, func(sv *entity.Survey, _ time.Time) error {
		sv.IsActive = active
		return nil
	})
	return err
}

// CompleteResponse marca la respuesta como completada.
func (s *SurveyService) CompleteResponse(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Responses.Action(ctx, caller, id, "complete", func(r *entity.SurveyResponse, now time.Time) error {
		r.Complete(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Respuesta completada"}, nil
}

// NPSSummary cuenta las respuestas por puntuación, las clasifica y calcula el NPS.
func (s *SurveyService) NPSSummary(ctx context.Context, _ Caller) (*dto.NPSSummaryDTO, error) {
	groups, err := s.analytics.CountBy(ctx, s.NPSScores.Name(), "score", "")
	if err != nil {
		return nil, err
	}
	var b crm.NPSBreakdown
	for _, g := range groups {
		score, err := strconv.Atoi(g.Value)
		if err != nil {
			return nil, fmt.Errorf("nps score %q: %w", g.Value, err)
		}
		b.AddN(score, int(g.Count))
	}
	s.NPSScores.Track("summary")
	return &dto.NPSSummaryDTO{
		TotalResponses: b.Total,
		Promoters:      b.Promoters,
		Passives:       b.Passives,
		Detractors:     b.Detractors,
		NPSScore:       b.Score(),
	}, nil
}
