package usecase

import (
	"context"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// CustomerStores puertos de persistencia del módulo customers.
type CustomerStores struct {
	Customers   repository.Store[entity.Customer]
	Contacts    repository.Store[entity.Contact]
	Segments    repository.Store[entity.CustomerSegment]
	Tags        repository.Store[entity.CustomerTag]
	Activities  repository.Store[entity.CustomerActivity]
	Preferences repository.Store[entity.CustomerPreference]
	Documents   repository.Store[entity.CustomerDocument]
}

// CustomerService recursos del módulo customers.
type CustomerService struct {
	Contacts    *Resource[entity.Contact, *entity.Contact]
	Segments    *Resource[entity.CustomerSegment, *entity.CustomerSegment]
	Tags        *Resource[entity.CustomerTag, *entity.CustomerTag]
	Activities  *Resource[entity.CustomerActivity, *entity.CustomerActivity]
	Preferences *Resource[entity.CustomerPreference, *entity.CustomerPreference]
	Documents   *Resource[entity.CustomerDocument, *entity.CustomerDocument]

	customers *Resource[entity.Customer, *entity.Customer]
}

// NewCustomerService construye el servicio del módulo customers.
func NewCustomerService(s CustomerStores, m *metrics.Metrics) *CustomerService {
	return &CustomerService{
		Contacts: NewResource[entity.Contact]("customers.contacts", s.Contacts, m, Options{
			ReadOnly: []string{"full_name", "customer_name"},
		}),
		Segments: NewResource[entity.CustomerSegment]("customers.segments", s.Segments, m, Options{
			ReadOnly: []string{"customer_count"},
		}),
		Tags: NewResource[entity.CustomerTag]("customers.tags", s.Tags, m, Options{}),
		Activities: NewResource[entity.CustomerActivity]("customers.activities", s.Activities, m, Options{
			ReadOnly: []string{"customer_name"},
		}),
		Preferences: NewResource[entity.CustomerPreference]("customers.preferences", s.Preferences, m, Options{
			ReadOnly: []string{"customer_name"},
		}),
		Documents: NewResource[entity.CustomerDocument]("customers.documents", s.Documents, m, Options{
			ReadOnly: []string{"customer_name", "uploaded_by_name"},
		}),
		customers: NewResource[entity.Customer]("core.customers", s.Customers, m, Options{}),
	}
}

// SegmentCustomers lista los clientes incluidos en el segmento.
func (s *CustomerService) SegmentCustomers(ctx context.Context, caller Caller, id string, q repository.ListQuery) (*dto.ListResponse[entity.Customer], error) {
	seg, err := s.Segments.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	s.Segments.Track("customers")
	if len(seg.CustomerIDs) == 0 {
		return &dto.ListResponse[entity.Customer]{
			Items: []*entity.Customer{},
			Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
		}, nil
	}
	q.Scope = "ids"
	q.Args = map[string]any{"ids": seg.CustomerIDs}
	return s.customers.List(ctx, caller, q)
}

// DownloadDocument devuelve la URL del archivo del documento.
func (s *CustomerService) DownloadDocument(ctx context.Context, caller Caller, id string) (*dto.DownloadResponse, error) {
	doc, err := s.Documents.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	s.Documents.Track("download")
	return &dto.DownloadResponse{Status: "Descargando " + doc.Title, FileURL: doc.FileURL}, nil
}
