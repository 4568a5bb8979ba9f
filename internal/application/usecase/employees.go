package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// EmployeeStores puertos de persistencia del módulo employees.
type EmployeeStores struct {
	Employees   repository.Store[entity.Employee]
	Performance repository.Store[entity.EmployeePerformance]
	Activities  repository.Store[entity.EmployeeActivity]
	Goals       repository.Store[entity.EmployeeGoal]
	Trainings   repository.Store[entity.EmployeeTraining]
	Schedules   repository.Store[entity.EmployeeSchedule]
	Metrics     repository.Store[entity.EmployeeMetrics]
}

// EmployeeService recursos y acciones del módulo employees.
type EmployeeService struct {
	Employees   *Resource[entity.Employee, *entity.Employee]
	Performance *Resource[entity.EmployeePerformance, *entity.EmployeePerformance]
	Activities  *Resource[entity.EmployeeActivity, *entity.EmployeeActivity]
	Goals       *Resource[entity.EmployeeGoal, *entity.EmployeeGoal]
	Trainings   *Resource[entity.EmployeeTraining, *entity.EmployeeTraining]
	Schedules   *Resource[entity.EmployeeSchedule, *entity.EmployeeSchedule]
	Metrics     *Resource[entity.EmployeeMetrics, *entity.EmployeeMetrics]

	analytics repository.AnalyticsRepository
}

// NewEmployeeService construye el servicio del módulo employees.
func NewEmployeeService(s EmployeeStores, analytics repository.AnalyticsRepository, m *metrics.Metrics) *EmployeeService {
	byEmployee := Options{ReadOnly: []string{"employee_name"}}
	return &EmployeeService{
		Employees: NewResource[entity.Employee]("employees.employees", s.Employees, m, Options{
			ReadOnly: []string{"full_name", "email", "manager_name"},
		}),
		Performance: NewResource[entity.EmployeePerformance]("employees.performance", s.Performance, m, byEmployee),
		Activities:  NewResource[entity.EmployeeActivity]("employees.activities", s.Activities, m, byEmployee),
		Goals:       NewResource[entity.EmployeeGoal]("employees.goals", s.Goals, m, byEmployee),
		Trainings:   NewResource[entity.EmployeeTraining]("employees.trainings", s.Trainings, m, byEmployee),
		Schedules:   NewResource[entity.EmployeeSchedule]("employees.schedules", s.Schedules, m, byEmployee),
		Metrics:     NewResource[entity.EmployeeMetrics]("employees.metrics", s.Metrics, m, byEmployee),
		analytics:   analytics,
	}
}

// ActivateEmployee pasa el empleado a activo.
func (s *EmployeeService) ActivateEmployee(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setEmployeeStatus(ctx, caller, id, "activate", entity.EmployeeActive); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Empleado activado"}, nil
}

// DeactivateEmployee pasa el empleado a inactivo.
func (s *EmployeeService) DeactivateEmployee(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setEmployeeStatus(ctx, caller, id, "deactivate", entity.EmployeeInactive); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Empleado desactivado"}, nil
}

func (s *EmployeeService) setEmployeeStatus(ctx context.Context, caller Caller, id, action, status string) error {
	_, err := s.Employees.Action(ctx, caller, id, action, func(e *entity.Employee, _ time.Time) error {
		e.Status = status
		return nil
	})
	return err
}

// UpdateGoalProgress fija el avance de la meta y recalcula su estado.
func (s *EmployeeService) UpdateGoalProgress(ctx context.Context, caller Caller, id string, in dto.ProgressRequest) (*dto.StatusResponse, error) {
	if in.Progress == nil {
		return nil, domain.Invalid("progress", "es obligatorio")
	}
	_, err := s.Goals.Action(ctx, caller, id, "update_progress", func(g *entity.EmployeeGoal, _ time.Time) error {
		g.UpdateProgress(*in.Progress)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Progreso actualizado"}, nil
}

// CompleteTraining cierra la capacitación con puntuación opcional.
func (s *EmployeeService) CompleteTraining(ctx context.Context, caller Caller, id string, in dto.TrainingCompleteRequest) (*dto.StatusResponse, error) {
	_, err := s.Trainings.Action(ctx, caller, id, "complete", func(t *entity.EmployeeTraining, _ time.Time) error {
		t.Complete(in.Score)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Capacitación completada"}, nil
}

// MetricsSummary agrega las métricas diarias de productividad.
func (s *EmployeeService) MetricsSummary(ctx context.Context) (*dto.EmployeeMetricsSummaryDTO, error) {
	agg, err := s.analytics.Aggregate(ctx, s.Metrics.Name(), []repository.Aggregation{
		{Name: "employees", Func: "count_distinct", Column: "employee_id"},
		{Name: "hours", Func: "sum", Column: "hours_worked"},
		{Name: "tasks", Func: "sum", Column: "tasks_completed"},
		{Name: "efficiency", Func: "avg", Column: "efficiency_score"},
		{Name: "quality", Func: "avg", Column: "quality_score"},
	})
	if err != nil {
		return nil, err
	}
	s.Metrics.Track("summary")
	return &dto.EmployeeMetricsSummaryDTO{
		TotalEmployees:    countOf(agg, "employees"),
		TotalHoursWorked:  decimalOf(agg, "hours"),
		TasksCompleted:    countOf(agg, "tasks"),
		AverageEfficiency: decimalOf(agg, "efficiency"),
		AverageQuality:    decimalOf(agg, "quality"),
	}, nil
}
