package postgres

import "github.com/jhoicas/intellicx-crm/internal/domain/entity"

func definitionTable() *Table[entity.WorkflowDefinition] {
	return &Table[entity.WorkflowDefinition]{
		Resource: "workflows.definitions",
		Name:     "workflow_definitions",
		Projections: []Projection{
			{"step_count", countOf("workflow_steps", "workflow_id")},
			{"execution_count", countOf("workflow_executions", "workflow_id")},
		},
		Filters:      fields("workflow_type", "trigger_type", "is_active", "is_template", "created_by"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "created_at", "updated_at"),
		DefaultOrder: "-created_at",
	}
}

func stepTable() *Table[entity.WorkflowStep] {
	return &Table[entity.WorkflowStep]{
		Resource:     "workflows.steps",
		Name:         "workflow_steps",
		Filters:      fields("workflow=t.workflow_id", "step_type", "is_required"),
		Search:       []string{"t.name"},
		Ordering:     fields("order=t.sort_order", "created_at"),
		DefaultOrder: "order",
	}
}

func executionTable() *Table[entity.WorkflowExecution] {
	return &Table[entity.WorkflowExecution]{
		Resource:     "workflows.executions",
		Name:         "workflow_executions",
		Joins:        `LEFT JOIN workflow_definitions wd ON wd.id = t.workflow_id`,
		Projections:  []Projection{{"workflow_name", "COALESCE(wd.name, '')"}},
		Immutable:    []string{"execution_id"},
		Filters:      fields("workflow=t.workflow_id", "status", "created_by", "execution_id"),
		Search:       []string{"t.execution_id", "t.error_message"},
		Ordering:     fields("started_at", "completed_at", "status"),
		DefaultOrder: "-started_at",
	}
}

func stepExecutionTable() *Table[entity.WorkflowStepExecution] {
	return &Table[entity.WorkflowStepExecution]{
		Resource:     "workflows.step-executions",
		Name:         "workflow_step_executions",
		Joins:        `LEFT JOIN workflow_steps ws ON ws.id = t.workflow_step_id`,
		Projections:  []Projection{{"step_name", "COALESCE(ws.name, '')"}},
		Filters:      fields("workflow_execution=t.workflow_execution_id", "workflow_step=t.workflow_step_id", "status"),
		Search:       []string{"t.error_message"},
		Ordering:     fields("started_at", "completed_at", "duration=t.duration_seconds"),
		DefaultOrder: "started_at",
	}
}

func workflowTemplateTable() *Table[entity.WorkflowTemplate] {
	return &Table[entity.WorkflowTemplate]{
		Resource:     "workflows.templates",
		Name:         "workflow_templates",
		Filters:      fields("category", "is_public", "created_by"),
		Search:       []string{"t.name", "t.description", "t.category"},
		Ordering:     fields("name", "usage_count", "rating", "created_at"),
		DefaultOrder: "-usage_count",
	}
}

func variableTable() *Table[entity.WorkflowVariable] {
	return &Table[entity.WorkflowVariable]{
		Resource:     "workflows.variables",
		Name:         "workflow_variables",
		Filters:      fields("workflow=t.workflow_id", "variable_type", "is_required"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "created_at"),
		DefaultOrder: "name",
	}
}

func integrationTable() *Table[entity.WorkflowIntegration] {
	return &Table[entity.WorkflowIntegration]{
		Resource:     "workflows.integrations",
		Name:         "workflow_integrations",
		Filters:      fields("integration_type", "is_active", "test_status"),
		Search:       []string{"t.name", "t.description"},
		Ordering:     fields("name", "last_tested", "created_at"),
		DefaultOrder: "name",
	}
}

func workflowMetricsTable() *Table[entity.WorkflowMetrics] {
	return &Table[entity.WorkflowMetrics]{
		Resource:     "workflows.metrics",
		Name:         "workflow_metrics",
		Joins:        `LEFT JOIN workflow_definitions wd ON wd.id = t.workflow_id`,
		Projections:  []Projection{{"workflow_name", "COALESCE(wd.name, '')"}},
		Filters:      fields("workflow=t.workflow_id", "date"),
		Search:       []string{"wd.name"},
		Ordering:     fields("date", "total_executions", "successful_executions", "failed_executions"),
		DefaultOrder: "-date",
	}
}
