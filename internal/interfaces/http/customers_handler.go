package http

import (
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// registerCustomers monta /api/customers/{contacts,segments,tags,activities,preferences,documents}.
// Debe registrarse antes que el core: /api/customers/:id capturaría "contacts" como id.
func registerCustomers(s section, svc *usecase.CustomerService) {
	NewResourceHandler[entity.Contact](svc.Contacts).Mount(s.group("/contacts"))
	NewResourceHandler[entity.CustomerSegment](svc.Segments).Mount(s.group("/segments"),
		get("/:id/customers", nested(svc.SegmentCustomers)),
	)
	NewResourceHandler[entity.CustomerTag](svc.Tags).Mount(s.group("/tags"))
	NewResourceHandler[entity.CustomerActivity](svc.Activities).Mount(s.group("/activities"))
	NewResourceHandler[entity.CustomerPreference](svc.Preferences).Mount(s.group("/preferences"))
	NewResourceHandler[entity.CustomerDocument](svc.Documents).Mount(s.group("/documents"),
		post("/:id/download", detail(svc.DownloadDocument)),
	)
}
