package http

import (
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

func registerEmployees(s section, svc *usecase.EmployeeService) {
	NewResourceHandler[entity.Employee](svc.Employees).Mount(s.group("/employees"),
		post("/:id/activate", detail(svc.ActivateEmployee)),
		post("/:id/deactivate", detail(svc.DeactivateEmployee)),
	)
	NewResourceHandler[entity.EmployeePerformance](svc.Performance).Mount(s.group("/performance"))
	NewResourceHandler[entity.EmployeeActivity](svc.Activities).Mount(s.group("/activities"))
	NewResourceHandler[entity.EmployeeGoal](svc.Goals).Mount(s.group("/goals"),
		post("/:id/update_progress", detailBody(svc.UpdateGoalProgress)),
	)
	NewResourceHandler[entity.EmployeeTraining](svc.Trainings).Mount(s.group("/trainings"),
		post("/:id/complete", detailBody(svc.CompleteTraining)),
	)
	NewResourceHandler[entity.EmployeeSchedule](svc.Schedules).Mount(s.group("/schedules"))
	NewResourceHandler[entity.EmployeeMetrics](svc.Metrics).Mount(s.group("/metrics"),
		get("/summary", summary(svc.MetricsSummary)),
	)
}
