package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain/crm"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// WorkflowStores puertos de persistencia del módulo workflows.
type WorkflowStores struct {
	Definitions    repository.Store[entity.WorkflowDefinition]
	Steps          repository.Store[entity.WorkflowStep]
	Executions     repository.Store[entity.WorkflowExecution]
	StepExecutions repository.Store[entity.WorkflowStepExecution]
	Templates      repository.Store[entity.WorkflowTemplate]
	Variables      repository.Store[entity.WorkflowVariable]
	Integrations   repository.Store[entity.WorkflowIntegration]
	Metrics        repository.Store[entity.WorkflowMetrics]
}

// WorkflowService recursos y acciones del módulo workflows. Las ejecuciones solo cambian de estado: no hay motor.
type WorkflowService struct {
	Definitions    *Resource[entity.WorkflowDefinition, *entity.WorkflowDefinition]
	Steps          *Resource[entity.WorkflowStep, *entity.WorkflowStep]
	Executions     *Resource[entity.WorkflowExecution, *entity.WorkflowExecution]
	StepExecutions *Resource[entity.WorkflowStepExecution, *entity.WorkflowStepExecution]
	Templates      *Resource[entity.WorkflowTemplate, *entity.WorkflowTemplate]
	Variables      *Resource[entity.WorkflowVariable, *entity.WorkflowVariable]
	Integrations   *Resource[entity.WorkflowIntegration, *entity.WorkflowIntegration]
	Metrics        *Resource[entity.WorkflowMetrics, *entity.WorkflowMetrics]

	analytics repository.AnalyticsRepository
}

// NewWorkflowService construye el servicio del módulo workflows.
func NewWorkflowService(s WorkflowStores, analytics repository.AnalyticsRepository, m *metrics.Metrics) *WorkflowService {
	return &WorkflowService{
		Definitions: NewResource[entity.WorkflowDefinition]("workflows.definitions", s.Definitions, m, Options{
			ReadOnly: []string{"step_count", "execution_count"},
		}),
		Steps: NewResource[entity.WorkflowStep]("workflows.steps", s.Steps, m, Options{}),
		Executions: NewResource[entity.WorkflowExecution]("workflows.executions", s.Executions, m, Options{
			ReadOnly: []string{"execution_id", "started_at", "completed_at", "workflow_name"},
		}),
		StepExecutions: NewResource[entity.WorkflowStepExecution]("workflows.step-executions", s.StepExecutions, m, Options{
			ReadOnly: []string{"step_name"},
		}),
		Templates: NewResource[entity.WorkflowTemplate]("workflows.templates", s.Templates, m, Options{
			ReadOnly: []string{"usage_count"},
		}),
		Variables:    NewResource[entity.WorkflowVariable]("workflows.variables", s.Variables, m, Options{}),
		Integrations: NewResource[entity.WorkflowIntegration]("workflows.integrations", s.Integrations, m, Options{}),
		Metrics: NewResource[entity.WorkflowMetrics]("workflows.metrics", s.Metrics, m, Options{
			ReadOnly: []string{"workflow_name"},
		}),
		analytics: analytics,
	}
}

// ActivateDefinition activa el workflow.
func (s *WorkflowService) ActivateDefinition(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setDefinitionActive(ctx, caller, id, "activate", true); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Workflow activado"}, nil
}

// DeactivateDefinition desactiva el workflow.
func (s *WorkflowService) DeactivateDefinition(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setDefinitionActive(ctx, caller, id, "deactivate", false); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Workflow desactivado"}, nil
}

func (s *WorkflowService) setDefinitionActive(ctx context.Context, caller Caller, id, action string, active bool) error {
	_, err := s.Definitions.Action(ctx, caller, id, action, func(w *entity.WorkflowDefinition, _ time.Time) error {
		w.IsActive = active
		return nil
	})
	return err
}

// PauseExecution pausa la ejecución; 409 si ya terminó.
func (s *WorkflowService) PauseExecution(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Executions.Action(ctx, caller, id, "pause", func(e *entity.WorkflowExecution, _ time.Time) error {
		return e.Pause()
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Ejecución pausada"}, nil
}

// ResumeExecution reanuda la ejecución; 409 si ya terminó.
func (s *WorkflowService) ResumeExecution(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Executions.Action(ctx, caller, id, "resume", func(e *entity.WorkflowExecution, _ time.Time) error {
		return e.Resume()
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Ejecución reanudada"}, nil
}

// CancelExecution cancela la ejecución y fija completed_at.
func (s *WorkflowService) CancelExecution(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Executions.Action(ctx, caller, id, "cancel", func(e *entity.WorkflowExecution, now time.Time) error {
		return e.Cancel(now)
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Ejecución cancelada"}, nil
}

// MetricsSummary totales de ejecuciones y tasa de éxito.
func (s *WorkflowService) MetricsSummary(ctx context.Context) (*dto.WorkflowSummaryDTO, error) {
	agg, err := s.analytics.Aggregate(ctx, s.Metrics.Name(), []repository.Aggregation{
		{Name: "total", Func: "sum", Column: "total_executions"},
		{Name: "successful", Func: "sum", Column: "successful_executions"},
		{Name: "failed", Func: "sum", Column: "failed_executions"},
	})
	if err != nil {
		return nil, err
	}
	total := countOf(agg, "total")
	ok := countOf(agg, "successful")
	s.Metrics.Track("summary")
	return &dto.WorkflowSummaryDTO{
		TotalExecutions:      total,
		SuccessfulExecutions: ok,
		FailedExecutions:     countOf(agg, "failed"),
		SuccessRate:          crm.PercentageInt(ok, total),
	}, nil
}
