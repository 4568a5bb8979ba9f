package postgres

import "github.com/jhoicas/intellicx-crm/internal/domain/entity"

func surveyTable() *Table[entity.Survey] {
	return &Table[entity.Survey]{
		Resource: "surveys.surveys",
		Name:     "surveys",
		Projections: []Projection{
			{"question_count", countOf("survey_questions", "survey_id")},
			{"response_count", countOf("survey_responses", "survey_id")},
		},
		Filters:      fields("survey_type", "is_active", "company=t.company_id", "created_by"),
		Search:       []string{"t.title", "t.description"},
		Ordering:     fields("title", "created_at", "start_date", "end_date"),
		DefaultOrder: "-created_at",
	}
}

func questionTable() *Table[entity.SurveyQuestion] {
	return &Table[entity.SurveyQuestion]{
		Resource:     "surveys.questions",
		Name:         "survey_questions",
		Filters:      fields("survey=t.survey_id", "question_type", "is_required"),
		Search:       []string{"t.question_text"},
		Ordering:     fields("order=t.sort_order", "created_at"),
		DefaultOrder: "order",
	}
}

func surveyResponseTable() *Table[entity.SurveyResponse] {
	return &Table[entity.SurveyResponse]{
		Resource: "surveys.responses",
		Name:     "survey_responses",
		Joins: `LEFT JOIN surveys s ON s.id = t.survey_id
		LEFT JOIN customers c ON c.id = t.customer_id`,
		Projections: []Projection{
			{"survey_title", "COALESCE(s.title, '')"},
			{"customer_name", personName("c")},
		},
		Filters:      fields("survey=t.survey_id", "customer=t.customer_id", "is_completed"),
		Search:       []string{"t.respondent_email", "t.respondent_name"},
		Ordering:     fields("started_at", "completed_at"),
		DefaultOrder: "-started_at",
	}
}

func answerTable() *Table[entity.SurveyAnswer] {
	return &Table[entity.SurveyAnswer]{
		Resource:     "surveys.answers",
		Name:         "survey_answers",
		Joins:        `LEFT JOIN survey_questions q ON q.id = t.question_id`,
		Projections:  []Projection{{"question_text", "COALESCE(q.question_text, '')"}},
		Filters:      fields("response=t.response_id", "question=t.question_id"),
		Search:       []string{"t.answer_text"},
		Ordering:     fields("created_at", "question=q.sort_order"),
		DefaultOrder: "question",
	}
}

func npsTable() *Table[entity.NPSScore] {
	return &Table[entity.NPSScore]{
		Resource:     "surveys.nps-scores",
		Name:         "nps_scores",
		Joins:        `LEFT JOIN customers c ON c.id = t.customer_id`,
		Projections:  []Projection{{"customer_name", personName("c")}},
		Filters:      fields("customer=t.customer_id", "company=t.company_id", "score"),
		Search:       []string{"t.feedback"},
		Ordering:     fields("created_at", "score"),
		DefaultOrder: "-created_at",
	}
}

func surveyTemplateTable() *Table[entity.SurveyTemplate] {
	return &Table[entity.SurveyTemplate]{
		Resource:     "surveys.templates",
		Name:         "survey_templates",
		Filters:      fields("survey_type", "is_public", "company=t.company_id"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "created_at"),
		DefaultOrder: "name",
	}
}

func surveyMetricsTable() *Table[entity.SurveyMetrics] {
	return &Table[entity.SurveyMetrics]{
		Resource:     "surveys.metrics",
		Name:         "survey_metrics",
		Joins:        `LEFT JOIN surveys s ON s.id = t.survey_id`,
		Projections:  []Projection{{"survey_title", "COALESCE(s.title, '')"}},
		Filters:      fields("survey=t.survey_id"),
		Search:       []string{"s.title"},
		Ordering:     fields("last_calculated", "completion_rate", "nps_score"),
		DefaultOrder: "-last_calculated",
	}
}
