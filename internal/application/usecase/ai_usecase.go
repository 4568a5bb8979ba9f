package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/application/ports"
	"github.com/jhoicas/intellicx-crm/internal/domain"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// llmTimeout límite de cada llamada al proveedor de lenguaje.
const llmTimeout = 10 * time.Second

// historyTurns mensajes previos que se envían como contexto.
const historyTurns = 20

// AIStores puertos de persistencia del módulo ai.
type AIStores struct {
	Models           repository.Store[entity.AIModel]
	PredictiveScores repository.Store[entity.PredictiveScore]
	Chatbots         repository.Store[entity.Chatbot]
	Conversations    repository.Store[entity.ChatbotConversation]
	Messages         repository.Store[entity.ChatbotMessage]
	Rules            repository.Store[entity.PersonalizationRule]
	Recommendations  repository.Store[entity.AIRecommendation]
	TrainingData     repository.Store[entity.AITrainingData]
	Performance      repository.Store[entity.AIModelPerformance]
}

// AIService recursos y acciones del módulo ai. Los modelos son configuración guardada; no se entrena nada.
type AIService struct {
	Models           *Resource[entity.AIModel, *entity.AIModel]
	PredictiveScores *Resource[entity.PredictiveScore, *entity.PredictiveScore]
	Chatbots         *Resource[entity.Chatbot, *entity.Chatbot]
	Conversations    *Resource[entity.ChatbotConversation, *entity.ChatbotConversation]
	Messages         *Resource[entity.ChatbotMessage, *entity.ChatbotMessage]
	Rules            *Resource[entity.PersonalizationRule, *entity.PersonalizationRule]
	Recommendations  *Resource[entity.AIRecommendation, *entity.AIRecommendation]
	TrainingData     *Resource[entity.AITrainingData, *entity.AITrainingData]
	Performance      *Resource[entity.AIModelPerformance, *entity.AIModelPerformance]

	llm       ports.LLMService
	analytics repository.AnalyticsRepository
	tx        repository.ChatTxRunner
}

// NewAIService construye el servicio; llm puede ser nil (reply responde ErrUnavailable).
func NewAIService(s AIStores, llm ports.LLMService, analytics repository.AnalyticsRepository, m *metrics.Metrics) *AIService {
	return &AIService{
		Models: NewResource[entity.AIModel]("ai.models", s.Models, m, Options{
			ReadOnly: []string{"last_trained"},
		}),
		PredictiveScores: NewResource[entity.PredictiveScore]("ai.predictive-scores", s.PredictiveScores, m, Options{
			ReadOnly: []string{"customer_name", "ai_model_name"},
		}),
		Chatbots: NewResource[entity.Chatbot]("ai.chatbots", s.Chatbots, m, Options{
			ReadOnly: []string{"conversation_count"},
		}),
		Conversations: NewResource[entity.ChatbotConversation]("ai.conversations", s.Conversations, m, Options{
			ReadOnly: []string{"session_id", "started_at", "chatbot_name", "message_count"},
		}),
		Messages: NewResource[entity.ChatbotMessage]("ai.messages", s.Messages, m, Options{}),
		Rules:    NewResource[entity.PersonalizationRule]("ai.personalization-rules", s.Rules, m, Options{}),
		Recommendations: NewResource[entity.AIRecommendation]("ai.recommendations", s.Recommendations, m, Options{
			ReadOnly: []string{"customer_name"},
		}),
		TrainingData: NewResource[entity.AITrainingData]("ai.training-data", s.TrainingData, m, Options{
			ReadOnly: []string{"is_approved", "approved_by", "approved_at"},
		}),
		Performance: NewResource[entity.AIModelPerformance]("ai.performance", s.Performance, m, Options{
			ReadOnly: []string{"ai_model_name"},
		}),
		llm:       llm,
		analytics: analytics,
	}
}

// ── Modelos ──────────────────────────────────────────────────────────────────

// TrainModel marca el modelo en entrenamiento.
func (s *AIService) TrainModel(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Models.Action(ctx, caller, id, "train", func(m *entity.AIModel, now time.Time) error {
		m.Train(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Entrenamiento iniciado"}, nil
}

// ActivateModel pone el modelo en estado active.
func (s *AIService) ActivateModel(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Models.Action(ctx, caller, id, "activate", func(m *entity.AIModel, _ time.Time) error {
		m.Status = entity.ModelActive
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Modelo activado"}, nil
}

// HighRiskCustomers puntuaciones con score_value ≥ 80.
func (s *AIService) HighRiskCustomers(ctx context.Context, caller Caller, q repository.ListQuery) (*dto.ListResponse[entity.PredictiveScore], error) {
	q.Scope = "high_risk"
	page, err := s.PredictiveScores.List(ctx, caller, q)
	if err != nil {
		return nil, err
	}
	s.PredictiveScores.Track("high_risk_customers")
	return page, nil
}

// ── Chatbots ─────────────────────────────────────────────────────────────────

// ActivateChatbot activa el chatbot.
func (s *AIService) ActivateChatbot(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setChatbotActive(ctx, caller, id, "activate", true); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Chatbot activado"}, nil
}

// DeactivateChatbot desactiva el chatbot.
func (s *AIService) DeactivateChatbot(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	if err := s.setChatbotActive(ctx, caller, id, "deactivate", false); err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Chatbot desactivado"}, nil
}

func (s *AIService) setChatbotActive(ctx context.Context, caller Caller, id, action string, active bool) error {
	_, err := s.Chatbots.Action(ctx, caller, id, action, func(b *entity.Chatbot, _ time.Time) error {
		b.IsActive = active
		return nil
	})
	return err
}

// WithTx guarda los dos mensajes de Reply en una misma transacción.
func (s *AIService) WithTx(tx repository.ChatTxRunner) *AIService {
	s.tx = tx
	return s
}

// Reply pide la respuesta al LLM y solo si tiene éxito guarda el mensaje del usuario y el del bot.
func (s *AIService) Reply(ctx context.Context, caller Caller, conversationID string, in dto.ReplyRequest) (*dto.ReplyResponse, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, domain.Invalid("message", "es obligatorio")
	}
	if s.llm == nil {
		return nil, domain.ErrUnavailable
	}
	conv, err := s.Conversations.Get(ctx, caller, conversationID)
	if err != nil {
		return nil, err
	}
	if err := conv.EnsureActive(); err != nil {
		return nil, err
	}
	bot, err := s.Chatbots.Get(ctx, caller, conv.ChatbotID)
	if err != nil {
		return nil, err
	}
	if !bot.IsActive {
		return nil, domain.Conflict("el chatbot está desactivado")
	}

	previous, err := s.Messages.Find(ctx, caller, repository.ListQuery{
		Filters:  map[string]string{"conversation": conv.ID},
		Ordering: "timestamp",
	})
	if err != nil {
		return nil, err
	}

	llmCtx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()
	answer, err := s.llm.Reply(llmCtx, bot.SystemPrompt(), chatHistory(previous), message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	out := &dto.ReplyResponse{}
	save := func(messages repository.Store[entity.ChatbotMessage]) error {
		res := s.Messages.With(messages)
		var err error
		if out.UserMessage, err = res.Insert(ctx, caller, entity.NewChatbotMessage(conv.ID, entity.MessageUser, message)); err != nil {
			return err
		}
		out.BotMessage, err = res.Insert(ctx, caller, entity.NewChatbotMessage(conv.ID, entity.MessageBot, answer))
		return err
	}
	if s.tx != nil {
		err = s.tx.RunChat(ctx, save)
	} else {
		err = save(s.Messages.Store())
	}
	if err != nil {
		return nil, err
	}
	s.Conversations.Track("reply")
	return out, nil
}

// chatHistory convierte los últimos mensajes de usuario y bot en turnos para el LLM.
func chatHistory(msgs []*entity.ChatbotMessage) []ports.ChatTurn {
	turns := make([]ports.ChatTurn, 0, len(msgs))
	for _, m := range msgs {
		switch m.MessageType {
		case entity.MessageUser:
			turns = append(turns, ports.ChatTurn{Role: "user", Content: m.Content})
		case entity.MessageBot:
			turns = append(turns, ports.ChatTurn{Role: "assistant", Content: m.Content})
		}
	}
	if len(turns) > historyTurns {
		turns = turns[len(turns)-historyTurns:]
	}
	return turns
}

// ── Reglas, recomendaciones y datos de entrenamiento ─────────────────────────

// ActivateRule activa la regla de personalización.
func (s *AIService) ActivateRule(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Rules.Action(ctx, caller, id, "activate", func(r *entity.PersonalizationRule, _ time.Time) error {
		r.IsActive = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Regla activada"}, nil
}

// ImplementRecommendation marca la recomendación como aplicada.
func (s *AIService) ImplementRecommendation(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Recommendations.Action(ctx, caller, id, "implement", func(r *entity.AIRecommendation, now time.Time) error {
		r.Implement(now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Recomendación implementada"}, nil
}

// ApproveTrainingData aprueba el conjunto de datos a nombre del usuario que llama.
func (s *AIService) ApproveTrainingData(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.TrainingData.Action(ctx, caller, id, "approve", func(d *entity.AITrainingData, now time.Time) error {
		d.Approve(caller.UserID, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Datos de entrenamiento aprobados"}, nil
}

// PerformanceSummary modelos con métricas y precisión media.
func (s *AIService) PerformanceSummary(ctx context.Context) (*dto.AIPerformanceSummaryDTO, error) {
	agg, err := s.analytics.Aggregate(ctx, s.Performance.Name(), []repository.Aggregation{
		{Name: "models", Func: "count_distinct", Column: "ai_model_id"},
		{Name: "accuracy", Func: "avg", Column: "accuracy_rate"},
	})
	if err != nil {
		return nil, err
	}
	s.Performance.Track("summary")
	return &dto.AIPerformanceSummaryDTO{
		TotalModels:     countOf(agg, "models"),
		AverageAccuracy: decimalOf(agg, "accuracy"),
	}, nil
}
