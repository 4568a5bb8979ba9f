package ports

import (
	"context"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
)

// ChatTurn mensaje previo de la conversación que se envía como contexto.
type ChatTurn struct {
	Role    string // user | assistant
	Content string
}

// LLMService define el puerto de salida hacia el proveedor de lenguaje que responde por los chatbots.
// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
type LLMService interface {
	// Reply devuelve la respuesta del bot al último mensaje del usuario.
	Reply(ctx context.Context, systemPrompt string, history []ChatTurn, message string) (string, error)
}

// ReportRenderer genera el reporte PDF de analítica.
type ReportRenderer interface {
	RenderAnalyticsReport(data dto.ReportData) ([]byte, error)
}
