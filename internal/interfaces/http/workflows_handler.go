package http

import (
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// registerWorkflows monta la configuración de workflows. Las acciones solo cambian estado: no hay motor de ejecución.
func registerWorkflows(s section, svc *usecase.WorkflowService) {
	NewResourceHandler[entity.WorkflowDefinition](svc.Definitions).Mount(s.group("/definitions"),
		post("/:id/activate", detail(svc.ActivateDefinition)),
		post("/:id/deactivate", detail(svc.DeactivateDefinition)),
	)
	NewResourceHandler[entity.WorkflowStep](svc.Steps).Mount(s.group("/steps"))
	NewResourceHandler[entity.WorkflowExecution](svc.Executions).Mount(s.group("/executions"),
		post("/:id/pause", detail(svc.PauseExecution)),
		post("/:id/resume", detail(svc.ResumeExecution)),
		post("/:id/cancel", detail(svc.CancelExecution)),
	)
	NewResourceHandler[entity.WorkflowStepExecution](svc.StepExecutions).Mount(s.group("/step-executions"))
	NewResourceHandler[entity.WorkflowTemplate](svc.Templates).Mount(s.group("/templates"))
	NewResourceHandler[entity.WorkflowVariable](svc.Variables).Mount(s.group("/variables"))
	NewResourceHandler[entity.WorkflowIntegration](svc.Integrations).Mount(s.group("/integrations"))
	NewResourceHandler[entity.WorkflowMetrics](svc.Metrics).Mount(s.group("/metrics"),
		get("/summary", summary(svc.MetricsSummary)),
	)
}
