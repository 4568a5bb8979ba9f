package repository

import (
	"context"

	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// ListQuery parámetros de listado de un recurso.
type ListQuery struct {
	// Filters igualdad exacta por parámetro declarado (?status=open).
	Filters map[string]string
	// Search subcadena sin distinguir mayúsculas sobre las columnas declaradas.
	Search string
	// Ordering lista separada por comas; "-" delante invierte el orden.
	Ordering string
	// Scope predicado con nombre declarado por el recurso (overdue, high_risk...).
	Scope string
	// Args valores con nombre que usa el scope.
	Args map[string]any
	// Limit 0 significa sin límite.
	Limit  int
	Offset int
}

// WithFilter devuelve una copia de q con el filtro añadido.
func (q ListQuery) WithFilter(param, value string) ListQuery {
	filters := make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters[param] = value
	q.Filters = filters
	return q
}

// Store es el puerto de persistencia genérico de un recurso del CRM.
// GetByID devuelve (nil, nil) cuando no existe; Delete devuelve domain.ErrNotFound.
type Store[T any] interface {
	Create(ctx context.Context, rec *T) error
	GetByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, rec *T) error
	Delete(ctx context.Context, id string) error
	// List devuelve la página pedida y el total de registros que cumplen la consulta.
	List(ctx context.Context, q ListQuery) ([]*T, int, error)
}

// KnowledgeTx stores de conocimiento atados a una misma transacción.
type KnowledgeTx struct {
	Articles Store[entity.KnowledgeArticle]
	Versions Store[entity.KnowledgeVersion]
	Feedback Store[entity.KnowledgeFeedback]
}

// KnowledgeTxRunner ejecuta fn en una transacción: commit si devuelve nil, rollback si no.
type KnowledgeTxRunner interface {
	RunKnowledge(ctx context.Context, fn func(tx KnowledgeTx) error) error
}

// ChatTxRunner ejecuta fn con el store de mensajes de chatbot atado a una transacción.
type ChatTxRunner interface {
	RunChat(ctx context.Context, fn func(messages Store[entity.ChatbotMessage]) error) error
}
