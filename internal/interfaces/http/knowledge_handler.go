package http

import (
	"context"

	"github.com/jhoicas/intellicx-crm/internal/application/usecase"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// feedbackResource crea el feedback junto con el voto del artículo en una transacción.
type feedbackResource struct {
	*usecase.Resource[entity.KnowledgeFeedback, *entity.KnowledgeFeedback]
	svc *usecase.KnowledgeService
}

func (r feedbackResource) Create(ctx context.Context, caller usecase.Caller, body []byte) (*entity.KnowledgeFeedback, error) {
	return r.svc.CreateFeedback(ctx, caller, body)
}

func registerKnowledge(s section, svc *usecase.KnowledgeService) {
	NewResourceHandler[entity.KnowledgeCategory](svc.Categories).Mount(s.group("/categories"))
	NewResourceHandler[entity.KnowledgeArticle](svc.Articles).Mount(s.group("/articles"),
		post("/:id/publish", detail(svc.PublishArticle)),
		post("/:id/increment_view", detail(svc.IncrementArticleView)),
	)
	NewResourceHandler[entity.KnowledgeTag](svc.Tags).Mount(s.group("/tags"))
	NewResourceHandler[entity.KnowledgeComment](svc.Comments).Mount(s.group("/comments"),
		post("/:id/approve", detail(svc.ApproveComment)),
	)
	NewResourceHandler[entity.KnowledgeFeedback](feedbackResource{Resource: svc.Feedback, svc: svc}).
		Mount(s.group("/feedback"))
	NewResourceHandler[entity.KnowledgeSearch](svc.Searches).Mount(s.group("/searches"))
	NewResourceHandler[entity.KnowledgeTemplate](svc.Templates).Mount(s.group("/templates"))
	NewResourceHandler[entity.KnowledgeAnalytics](svc.Analytics).Mount(s.group("/analytics"))
	NewResourceHandler[entity.KnowledgeVersion](svc.Versions).Mount(s.group("/versions"))
}
