package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/intellicx-crm/internal/application/auth"
	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// CoreStores puertos de persistencia del módulo core.
type CoreStores struct {
	Users         repository.Store[entity.User]
	Companies     repository.Store[entity.Company]
	Customers     repository.Store[entity.Customer]
	Interactions  repository.Store[entity.Interaction]
	Tasks         repository.Store[entity.Task]
	Notifications repository.Store[entity.Notification]
}

// CoreService recursos y acciones del módulo core (usuarios, empresas, clientes, tareas...).
type CoreService struct {
	Users         *Resource[entity.User, *entity.User]
	Companies     *Resource[entity.Company, *entity.Company]
	Customers     *Resource[entity.Customer, *entity.Customer]
	Interactions  *Resource[entity.Interaction, *entity.Interaction]
	Tasks         *Resource[entity.Task, *entity.Task]
	Notifications *Resource[entity.Notification, *entity.Notification]

	notifications repository.NotificationRepository
	analytics     repository.AnalyticsRepository
}

// NewCoreService construye el servicio del módulo core.
func NewCoreService(s CoreStores, notifications repository.NotificationRepository, analytics repository.AnalyticsRepository, m *metrics.Metrics) *CoreService {
	svc := &CoreService{
		Users: NewResource[entity.User]("core.users", s.Users, m, Options{
			ReadOnly:     []string{"last_login", "full_name"},
			ActiveFilter: "is_active",
		}),
		Companies: NewResource[entity.Company]("core.companies", s.Companies, m, Options{
			ReadOnly:     []string{"customer_count"},
			ActiveFilter: "is_active",
		}),
		Customers: NewResource[entity.Customer]("core.customers", s.Customers, m, Options{
			ReadOnly:     []string{"full_name", "company_name", "assigned_to_name"},
			ActiveFilter: "is_active",
		}),
		Interactions: NewResource[entity.Interaction]("core.interactions", s.Interactions, m, Options{
			ReadOnly: []string{"customer_name", "user_name"},
		}),
		Tasks: NewResource[entity.Task]("core.tasks", s.Tasks, m, Options{
			ReadOnly: []string{"completed_at", "assigned_to_name", "customer_name", "created_by_name"},
		}),
		Notifications: NewResource[entity.Notification]("core.notifications", s.Notifications, m, Options{
			ReadOnly:    []string{"user_name"},
			OwnerFilter: "user",
		}),
		notifications: notifications,
		analytics:     analytics,
	}
	svc.Users.BeforeSave(hashUserPassword)
	return svc
}

// hashUserPassword exige password al crear y lo hashea cuando viene informado.
func hashUserPassword(_ context.Context, u *entity.User, creating bool) error {
	if u.Password == "" {
		if creating {
			return domain.Invalid("password", "es obligatorio")
		}
		return nil
	}
	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Password = ""
	return nil
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

// userAdminFields campos de un usuario que solo un admin puede cambiar.
var userAdminFields = []string{"role", "is_active"}

// activeScope predicado declarado de usuarios, empresas y clientes activos.
const activeScope = "active"

// UpdateUser actualiza un usuario (PUT y PATCH). Un admin edita a cualquiera; el resto solo
// su propio perfil, sin cambiar rol ni estado.
func (s *CoreService) UpdateUser(ctx context.Context, caller Caller, id string, body []byte) (*entity.User, error) {
	if !caller.IsAdmin() {
		if id != caller.UserID {
			return nil, domain.ErrForbidden
		}
		var err error
		if body, err = dropKeys(body, userAdminFields...); err != nil {
			return nil, err
		}
	}
	return s.Users.Update(ctx, caller, id, body)
}

// Me devuelve el usuario autenticado.
func (s *CoreService) Me(ctx context.Context, caller Caller) (*entity.User, error) {
	return s.Users.Get(ctx, caller, caller.UserID)
}

// Departments lista los departamentos distintos y no vacíos, ordenados.
func (s *CoreService) Departments(ctx context.Context) ([]string, error) {
	deps, err := s.analytics.Distinct(ctx, s.Users.Name(), "department", activeScope)
	if err != nil {
		return nil, err
	}
	s.Users.Track("departments")
	return nonNil(deps), nil
}

// ── Empresas ─────────────────────────────────────────────────────────────────

// CompanyCustomers lista los clientes de una empresa.
func (s *CoreService) CompanyCustomers(ctx context.Context, caller Caller, companyID string, q repository.ListQuery) (*dto.ListResponse[entity.Customer], error) {
	if _, err := s.Companies.Get(ctx, caller, companyID); err != nil {
		return nil, err
	}
	s.Companies.Track("customers")
	return s.Customers.List(ctx, caller, q.WithFilter("company", companyID))
}

// Industries lista las industrias distintas de las empresas.
func (s *CoreService) Industries(ctx context.Context) ([]string, error) {
	out, err := s.analytics.Distinct(ctx, s.Companies.Name(), "industry", activeScope)
	if err != nil {
		return nil, err
	}
	s.Companies.Track("industries")
	return nonNil(out), nil
}

// ── Clientes ─────────────────────────────────────────────────────────────────

// CustomerInteractions lista las interacciones de un cliente.
func (s *CoreService) CustomerInteractions(ctx context.Context, caller Caller, customerID string, q repository.ListQuery) (*dto.ListResponse[entity.Interaction], error) {
	if _, err := s.Customers.Get(ctx, caller, customerID); err != nil {
		return nil, err
	}
	s.Customers.Track("interactions")
	return s.Interactions.List(ctx, caller, q.WithFilter("customer", customerID))
}

// Timeline mezcla interacciones y tareas del cliente, más recientes primero.
func (s *CoreService) Timeline(ctx context.Context, caller Caller, customerID string) ([]dto.TimelineItemDTO, error) {
	if _, err := s.Customers.Get(ctx, caller, customerID); err != nil {
		return nil, err
	}
	byCustomer := repository.ListQuery{}.WithFilter("customer", customerID)
	interactions, err := s.Interactions.Find(ctx, caller, byCustomer)
	if err != nil {
		return nil, err
	}
	tasks, err := s.Tasks.Find(ctx, caller, byCustomer)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TimelineItemDTO, 0, len(interactions)+len(tasks))
	for _, i := range interactions {
		items = append(items, dto.TimelineItemDTO{
			Kind:            "interaction",
			ID:              i.ID,
			Title:           i.Subject,
			Description:     i.Description,
			User:            i.UserName,
			InteractionType: i.Type,
			Date:            i.Date,
		})
	}
	for _, t := range tasks {
		items = append(items, dto.TimelineItemDTO{
			Kind:        "task",
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			User:        t.AssignedToName,
			Priority:    t.Priority,
			Status:      t.Status,
			Date:        t.CreatedAt,
		})
	}
	sort.SliceStable(items, func(a, b int) bool { return items[a].Date.After(items[b].Date) })
	s.Customers.Track("timeline")
	return items, nil
}

// StatusCounts cuenta clientes por estado.
func (s *CoreService) StatusCounts(ctx context.Context) ([]dto.StatusCountDTO, error) {
	groups, err := s.analytics.CountBy(ctx, s.Customers.Name(), "status", activeScope)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StatusCountDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.StatusCountDTO{Status: g.Value, Count: g.Count})
	}
	s.Customers.Track("status_counts")
	return out, nil
}

// ── Tareas ───────────────────────────────────────────────────────────────────

// CompleteTask marca la tarea como completada y la devuelve.
func (s *CoreService) CompleteTask(ctx context.Context, caller Caller, id string) (*entity.Task, error) {
	return s.Tasks.Action(ctx, caller, id, "complete", func(t *entity.Task, now time.Time) error {
		t.Complete(now)
		return nil
	})
}

// OverdueTasks lista las tareas vencidas sin completar ni cancelar.
func (s *CoreService) OverdueTasks(ctx context.Context, caller Caller, q repository.ListQuery) (*dto.ListResponse[entity.Task], error) {
	q.Scope = "overdue"
	q.Args = map[string]any{"now": s.Tasks.Now()}
	page, err := s.Tasks.List(ctx, caller, q)
	if err != nil {
		return nil, err
	}
	s.Tasks.Track("overdue")
	return page, nil
}

// ── Notificaciones ───────────────────────────────────────────────────────────

// MarkRead marca una notificación del usuario como leída y la devuelve.
func (s *CoreService) MarkRead(ctx context.Context, caller Caller, id string) (*entity.Notification, error) {
	return s.Notifications.Action(ctx, caller, id, "mark_read", func(n *entity.Notification, _ time.Time) error {
		n.MarkRead()
		return nil
	})
}

// MarkAllRead marca como leídas todas las notificaciones pendientes del usuario.
func (s *CoreService) MarkAllRead(ctx context.Context, caller Caller) (*dto.CountResponse, error) {
	n, err := s.notifications.MarkAllRead(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	s.Notifications.Track("mark_all_read")
	return &dto.CountResponse{Status: "success", Updated: n}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
