package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// userResource restringe la edición de usuarios: perfil propio o admin.
type userResource struct {
	*usecase.Resource[entity.User, *entity.User]
	svc *usecase.CoreService
}

func (r userResource) Update(ctx context.Context, caller usecase.Caller, id string, body []byte) (*entity.User, error) {
	return r.svc.UpdateUser(ctx, caller, id, body)
}

// registerCore monta usuarios, empresas, clientes, interacciones, tareas y notificaciones bajo /api.
func registerCore(s section, svc *usecase.CoreService) {
	NewResourceHandler[entity.User](userResource{Resource: svc.Users, svc: svc}).
		Guard(RequireRole(entity.RoleAdmin), fiber.MethodPost, fiber.MethodDelete).
		Mount(s.group("/users"),
			get("/me", own(svc.Me)),
			get("/departments", summary(svc.Departments)),
		)

	NewResourceHandler[entity.Company](svc.Companies).Mount(s.group("/companies"),
		get("/industries", summary(svc.Industries)),
		get("/:id/customers", nested(svc.CompanyCustomers)),
	)

	NewResourceHandler[entity.Customer](svc.Customers).Mount(s.group("/customers"),
		get("/status_counts", summary(svc.StatusCounts)),
		get("/:id/interactions", nested(svc.CustomerInteractions)),
		get("/:id/timeline", detail(svc.Timeline)),
	)

	NewResourceHandler[entity.Interaction](svc.Interactions).Mount(s.group("/interactions"))

	NewResourceHandler[entity.Task](svc.Tasks).Mount(s.group("/tasks"),
		get("/overdue", scoped(svc.OverdueTasks)),
		post("/:id/complete", detail(svc.CompleteTask)),
	)

	NewResourceHandler[entity.Notification](svc.Notifications).Mount(s.group("/notifications"),
		post("/mark_all_read", own(svc.MarkAllRead)),
		post("/:id/mark_read", detail(svc.MarkRead)),
	)
}
