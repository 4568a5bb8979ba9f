package postgres

import "github.com/jhoicas/intellicx-crm/internal/domain/entity"

func aiModelTable() *Table[entity.AIModel] {
	return &Table[entity.AIModel]{
		Resource:     "ai.models",
		Name:         "ai_models",
		Filters:      fields("model_type", "status", "version", "created_by"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "created_at", "last_trained"),
		DefaultOrder: "-created_at",
	}
}

func predictiveScoreTable() *Table[entity.PredictiveScore] {
	return &Table[entity.PredictiveScore]{
		Resource: "ai.predictive-scores",
		Name:     "predictive_scores",
		Joins: `LEFT JOIN customers c ON c.id = t.customer_id
		LEFT JOIN ai_models m ON m.id = t.ai_model_id`,
		Projections: []Projection{
			{"customer_name", personName("c")},
			{"ai_model_name", "COALESCE(m.name, '')"},
		},
		Filters:      fields("score_type", "customer=t.customer_id", "ai_model=t.ai_model_id"),
		Search:       []string{"c.first_name", "c.last_name", "t.score_type"},
		Ordering:     fields("score_value", "confidence_level", "calculated_at"),
		DefaultOrder: "-calculated_at",
		Scopes: map[string]string{
			"high_risk": "t.score_value >= 80",
		},
	}
}

func chatbotTable() *Table[entity.Chatbot] {
	return &Table[entity.Chatbot]{
		Resource:     "ai.chatbots",
		Name:         "chatbots",
		Projections:  []Projection{{"conversation_count", countOf("chatbot_conversations", "chatbot_id")}},
		Filters:      fields("bot_type", "platform", "is_active", "ai_model=t.ai_model_id"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "created_at"),
		DefaultOrder: "name",
	}
}

func conversationTable() *Table[entity.ChatbotConversation] {
	return &Table[entity.ChatbotConversation]{
		Resource: "ai.conversations",
		Name:     "chatbot_conversations",
		Joins:    `LEFT JOIN chatbots cb ON cb.id = t.chatbot_id`,
		Projections: []Projection{
			{"chatbot_name", "COALESCE(cb.name, '')"},
			{"message_count", countOf("chatbot_messages", "conversation_id")},
		},
		Immutable:    []string{"session_id"},
		Filters:      fields("chatbot=t.chatbot_id", "customer=t.customer_id", "status", "session_id"),
		Search:       []string{"t.session_id::text", "t.user_agent"},
		Ordering:     fields("started_at", "ended_at", "status"),
		DefaultOrder: "-started_at",
	}
}

func messageTable() *Table[entity.ChatbotMessage] {
	return &Table[entity.ChatbotMessage]{
		Resource:     "ai.messages",
		Name:         "chatbot_messages",
		Filters:      fields("conversation=t.conversation_id", "message_type", "intent_detected"),
		Search:       []string{"t.content"},
		Ordering:     fields("timestamp", "confidence_score"),
		DefaultOrder: "timestamp",
	}
}

func personalizationRuleTable() *Table[entity.PersonalizationRule] {
	return &Table[entity.PersonalizationRule]{
		Resource:     "ai.personalization-rules",
		Name:         "personalization_rules",
		Filters:      fields("rule_type", "trigger_type", "is_active"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("priority", "name", "created_at"),
		DefaultOrder: "-priority,name",
	}
}

func recommendationTable() *Table[entity.AIRecommendation] {
	return &Table[entity.AIRecommendation]{
		Resource:     "ai.recommendations",
		Name:         "ai_recommendations",
		Joins:        `LEFT JOIN customers c ON c.id = t.customer_id`,
		Projections:  []Projection{{"customer_name", personName("c")}},
		Filters:      fields("recommendation_type", "customer=t.customer_id", "ai_model=t.ai_model_id", "is_delivered", "is_acted_upon"),
		Search:       []string{"t.title", "t.description"},
		Ordering:     fields("created_at", "confidence_score", "delivered_at"),
		DefaultOrder: "-created_at",
	}
}

func trainingDataTable() *Table[entity.AITrainingData] {
	return &Table[entity.AITrainingData]{
		Resource:     "ai.training-data",
		Name:         "ai_training_data",
		Filters:      fields("data_type", "is_approved", "approved_by", "created_by"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "quality_score", "created_at"),
		DefaultOrder: "-created_at",
	}
}

func modelPerformanceTable() *Table[entity.AIModelPerformance] {
	return &Table[entity.AIModelPerformance]{
		Resource:     "ai.performance",
		Name:         "ai_model_performance",
		Joins:        `LEFT JOIN ai_models m ON m.id = t.ai_model_id`,
		Projections:  []Projection{{"ai_model_name", "COALESCE(m.name, '')"}},
		Filters:      fields("ai_model=t.ai_model_id", "date"),
		Search:       []string{"m.name"},
		Ordering:     fields("date", "accuracy_rate", "f1_score", "total_predictions"),
		DefaultOrder: "-date",
	}
}
