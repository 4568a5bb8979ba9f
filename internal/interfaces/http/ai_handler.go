package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// AIHandler maneja la conversación con los chatbots; el resto del módulo es CRUD genérico.
type AIHandler struct {
	uc *usecase.AIService
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.AIService) *AIHandler {
	return &AIHandler{uc: uc}
}

// Reply godoc
// @Summary      Responder en una conversación de chatbot
// @Description  Guarda el mensaje del usuario, pide la respuesta al LLM configurado y la guarda
//               como mensaje del bot. Timeout interno de 10 s.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID de la conversación"
// @Param        body  body  dto.ReplyRequest  true  "message"
// @Success      200   {object}  dto.ReplyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ai/conversations/{id}/reply [post]
func (h *AIHandler) Reply(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo de la petición inválido",
		})
	}
	out, err := h.uc.Reply(c.Context(), caller(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func registerAI(s section, svc *usecase.AIService) {
	h := NewAIHandler(svc)

	NewResourceHandler[entity.AIModel](svc.Models).Mount(s.group("/models"),
		post("/:id/train", detail(svc.TrainModel)),
		post("/:id/activate", detail(svc.ActivateModel)),
	)
	NewResourceHandler[entity.PredictiveScore](svc.PredictiveScores).Mount(s.group("/predictive-scores"),
		get("/high_risk_customers", scoped(svc.HighRiskCustomers)),
	)
	NewResourceHandler[entity.Chatbot](svc.Chatbots).Mount(s.group("/chatbots"),
		post("/:id/activate", detail(svc.ActivateChatbot)),
		post("/:id/deactivate", detail(svc.DeactivateChatbot)),
	)
	NewResourceHandler[entity.ChatbotConversation](svc.Conversations).Mount(s.group("/conversations"),
		post("/:id/reply", h.Reply),
	)
	NewResourceHandler[entity.ChatbotMessage](svc.Messages).Mount(s.group("/messages"))
	NewResourceHandler[entity.PersonalizationRule](svc.Rules).Mount(s.group("/personalization-rules"),
		post("/:id/activate", detail(svc.ActivateRule)),
	)
	NewResourceHandler[entity.AIRecommendation](svc.Recommendations).Mount(s.group("/recommendations"),
		post("/:id/implement", detail(svc.ImplementRecommendation)),
	)
	NewResourceHandler[entity.AITrainingData](svc.TrainingData).Mount(s.group("/training-data"),
		post("/:id/approve", detail(svc.ApproveTrainingData)),
	)
	NewResourceHandler[entity.AIModelPerformance](svc.Performance).Mount(s.group("/performance"),
		get("/summary", summary(svc.PerformanceSummary)),
	)
}
