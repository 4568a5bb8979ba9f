package dto

const (
	defaultLimit = 20
	maxLimit     = 100
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto y acota Limit a 1..100.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ListResponse página de registros de un recurso.
type ListResponse[T any] struct {
	Items []*T         `json:"items"`
	Page  PageResponse `json:"page"`
}

// StatusResponse respuesta de las acciones que solo cambian estado.
type StatusResponse struct {
	Status string `json:"status"`
}

// CountResponse respuesta de acciones masivas.
type CountResponse struct {
	Status  string `json:"status"`
	Updated int64  `json:"updated"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
