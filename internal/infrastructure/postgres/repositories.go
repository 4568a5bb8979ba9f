package postgres

import (
	"errors"

	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// Repositories reúne los stores de todos los recursos del CRM.
type Repositories struct {
	// core
	Users         *Store[entity.User]
	Companies     *Store[entity.Company]
	Customers     *Store[entity.Customer]
	Interactions  *Store[entity.Interaction]
	Tasks         *Store[entity.Task]
	Notifications *Store[entity.Notification]

	// customers
	Contacts            *Store[entity.Contact]
	Segments            *Store[entity.CustomerSegment]
	CustomerTags        *Store[entity.CustomerTag]
	CustomerActivities  *Store[entity.CustomerActivity]
	CustomerPreferences *Store[entity.CustomerPreference]
	CustomerDocuments   *Store[entity.CustomerDocument]

	// sales
	Leads           *Store[entity.Lead]
	Opportunities   *Store[entity.Opportunity]
	Deals           *Store[entity.Deal]
	SalesActivities *Store[entity.SalesActivity]
	Pipelines       *Store[entity.SalesPipeline]
	Forecasts       *Store[entity.SalesForecast]

	// marketing
	Campaigns        *Store[entity.MarketingCampaign]
	EmailCampaigns   *Store[entity.EmailCampaign]
	EmailTemplates   *Store[entity.EmailTemplate]
	Subscribers      *Store[entity.EmailSubscriber]
	EmailSends       *Store[entity.EmailSend]
	SocialCampaigns  *Store[entity.SocialMediaCampaign]
	Automations      *Store[entity.MarketingAutomation]
	MarketingMetrics *Store[entity.MarketingMetrics]

	// analytics
	ChurnRisks      *Store[entity.ChurnRisk]
	CustomerMetrics *Store[entity.CustomerMetrics]
	Sentiments      *Store[entity.SentimentAnalysis]
	ProductFeedback *Store[entity.ProductFeedback]

	// support
	Tickets          *Store[entity.SupportTicket]
	TicketResponses  *Store[entity.TicketResponse]
	SLAs             *Store[entity.ServiceLevelAgreement]
	KnowledgeBase    *Store[entity.KnowledgeBase]
	CustomerFeedback *Store[entity.CustomerFeedback]
	SupportTeam      *Store[entity.SupportTeam]
	SupportMetrics   *Store[entity.SupportMetrics]

	// surveys
	Surveys         *Store[entity.Survey]
	Questions       *Store[entity.SurveyQuestion]
	SurveyResponses *Store[entity.SurveyResponse]
	Answers         *Store[entity.SurveyAnswer]
	NPSScores       *Store[entity.NPSScore]
	SurveyTemplates *Store[entity.SurveyTemplate]
	SurveyMetrics   *Store[entity.SurveyMetrics]

	// employees
	Employees          *Store[entity.Employee]
	Performance        *Store[entity.EmployeePerformance]
	EmployeeActivities *Store[entity.EmployeeActivity]
	Goals              *Store[entity.EmployeeGoal]
	Trainings          *Store[entity.EmployeeTraining]
	Schedules          *Store[entity.EmployeeSchedule]
	EmployeeMetrics    *Store[entity.EmployeeMetrics]

	// knowledge
	KnowledgeCategories *Store[entity.KnowledgeCategory]
	KnowledgeArticles   *Store[entity.KnowledgeArticle]
	KnowledgeTags       *Store[entity.KnowledgeTag]
	KnowledgeComments   *Store[entity.KnowledgeComment]
	KnowledgeFeedback   *Store[entity.KnowledgeFeedback]
	KnowledgeSearches   *Store[entity.KnowledgeSearch]
	KnowledgeTemplates  *Store[entity.KnowledgeTemplate]
	KnowledgeAnalytics  *Store[entity.KnowledgeAnalytics]
	KnowledgeVersions   *Store[entity.KnowledgeVersion]

	// workflows
	Definitions       *Store[entity.WorkflowDefinition]
	Steps             *Store[entity.WorkflowStep]
	Executions        *Store[entity.WorkflowExecution]
	StepExecutions    *Store[entity.WorkflowStepExecution]
	WorkflowTemplates *Store[entity.WorkflowTemplate]
	Variables         *Store[entity.WorkflowVariable]
	Integrations      *Store[entity.WorkflowIntegration]
	WorkflowMetrics   *Store[entity.WorkflowMetrics]

	// ai
	AIModels             *Store[entity.AIModel]
	PredictiveScores     *Store[entity.PredictiveScore]
	Chatbots             *Store[entity.Chatbot]
	Conversations        *Store[entity.ChatbotConversation]
	Messages             *Store[entity.ChatbotMessage]
	PersonalizationRules *Store[entity.PersonalizationRule]
	Recommendations      *Store[entity.AIRecommendation]
	TrainingData         *Store[entity.AITrainingData]
	ModelPerformance     *Store[entity.AIModelPerformance]
}

// registry acumula los errores de registro para devolverlos juntos.
type registry struct {
	catalog *Catalog
	q       Querier
	errs    []error
}

func add[T any](r *registry, table *Table[T]) *Store[T] {
	st, err := Register(r.catalog, r.q, table)
	if err != nil {
		r.errs = append(r.errs, err)
	}
	return st
}

// NewRepositories registra todas las tablas en el catálogo y construye sus stores.
func NewRepositories(q Querier, catalog *Catalog) (*Repositories, error) {
	r := &registry{catalog: catalog, q: q}
	repos := &Repositories{
		Users:         add(r, userTable()),
		Companies:     add(r, companyTable()),
		Customers:     add(r, customerTable()),
		Interactions:  add(r, interactionTable()),
		Tasks:         add(r, taskTable()),
		Notifications: add(r, notificationTable()),

		Contacts:            add(r, contactTable()),
		Segments:            add(r, segmentTable()),
		CustomerTags:        add(r, customerTagTable()),
		CustomerActivities:  add(r, customerActivityTable()),
		CustomerPreferences: add(r, preferenceTable()),
		CustomerDocuments:   add(r, documentTable()),

		Leads:           add(r, leadTable()),
		Opportunities:   add(r, opportunityTable()),
		Deals:           add(r, dealTable()),
		SalesActivities: add(r, salesActivityTable()),
		Pipelines:       add(r, pipelineTable()),
		Forecasts:       add(r, forecastTable()),

		Campaigns:        add(r, campaignTable()),
		EmailCampaigns:   add(r, emailCampaignTable()),
		EmailTemplates:   add(r, emailTemplateTable()),
		Subscribers:      add(r, subscriberTable()),
		EmailSends:       add(r, emailSendTable()),
		SocialCampaigns:  add(r, socialCampaignTable()),
		Automations:      add(r, automationTable()),
		MarketingMetrics: add(r, marketingMetricsTable()),

		ChurnRisks:      add(r, churnRiskTable()),
		CustomerMetrics: add(r, customerMetricsTable()),
		Sentiments:      add(r, sentimentTable()),
		ProductFeedback: add(r, productFeedbackTable()),

		Tickets:          add(r, ticketTable()),
		TicketResponses:  add(r, ticketResponseTable()),
		SLAs:             add(r, slaTable()),
		KnowledgeBase:    add(r, knowledgeBaseTable()),
		CustomerFeedback: add(r, customerFeedbackTable()),
		SupportTeam:      add(r, supportTeamTable()),
		SupportMetrics:   add(r, supportMetricsTable()),

		Surveys:         add(r, surveyTable()),
		Questions:       add(r, questionTable()),
		SurveyResponses: add(r, surveyResponseTable()),
		Answers:         add(r, answerTable()),
		NPSScores:       add(r, npsTable()),
		SurveyTemplates: add(r, surveyTemplateTable()),
		SurveyMetrics:   add(r, surveyMetricsTable()),

		Employees:          add(r, employeeTable()),
		Performance:        add(r, performanceTable()),
		EmployeeActivities: add(r, employeeActivityTable()),
		Goals:              add(r, goalTable()),
		Trainings:          add(r, trainingTable()),
		Schedules:          add(r, scheduleTable()),
		EmployeeMetrics:    add(r, employeeMetricsTable()),

		KnowledgeCategories: add(r, knowledgeCategoryTable()),
		KnowledgeArticles:   add(r, articleTable()),
		KnowledgeTags:       add(r, knowledgeTagTable()),
		KnowledgeComments:   add(r, commentTable()),
		KnowledgeFeedback:   add(r, knowledgeFeedbackTable()),
		KnowledgeSearches:   add(r, knowledgeSearchTable()),
		KnowledgeTemplates:  add(r, knowledgeTemplateTable()),
		KnowledgeAnalytics:  add(r, knowledgeAnalyticsTable()),
		KnowledgeVersions:   add(r, versionTable()),

		Definitions:       add(r, definitionTable()),
		Steps:             add(r, stepTable()),
		Executions:        add(r, executionTable()),
		StepExecutions:    add(r, stepExecutionTable()),
		WorkflowTemplates: add(r, workflowTemplateTable()),
		Variables:         add(r, variableTable()),
		Integrations:      add(r, integrationTable()),
		WorkflowMetrics:   add(r, workflowMetricsTable()),

		AIModels:             add(r, aiModelTable()),
		PredictiveScores:     add(r, predictiveScoreTable()),
		Chatbots:             add(r, chatbotTable()),
		Conversations:        add(r, conversationTable()),
		Messages:             add(r, messageTable()),
		PersonalizationRules: add(r, personalizationRuleTable()),
		Recommendations:      add(r, recommendationTable()),
		TrainingData:         add(r, trainingDataTable()),
		ModelPerformance:     add(r, modelPerformanceTable()),
	}
	if err := errors.Join(r.errs...); err != nil {
		return nil, err
	}
	return repos, nil
}
