package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/intellicx-crm/internal/application/dto"
	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
	"github.com/jhoicas/intellicx-crm/pkg/metrics"
)

// KnowledgeStores puertos de persistencia del módulo knowledge.
type KnowledgeStores struct {
	Categories repository.Store[entity.KnowledgeCategory]
	Articles   repository.Store[entity.KnowledgeArticle]
	Tags       repository.Store[entity.KnowledgeTag]
	Comments   repository.Store[entity.KnowledgeComment]
	Feedback   repository.Store[entity.KnowledgeFeedback]
	Searches   repository.Store[entity.KnowledgeSearch]
	Templates  repository.Store[entity.KnowledgeTemplate]
	Analytics  repository.Store[entity.KnowledgeAnalytics]
	Versions   repository.Store[entity.KnowledgeVersion]
}

// KnowledgeService recursos y acciones de la base de conocimiento.
type KnowledgeService struct {
	Categories *Resource[entity.KnowledgeCategory, *entity.KnowledgeCategory]
	Articles   *Resource[entity.KnowledgeArticle, *entity.KnowledgeArticle]
	Tags       *Resource[entity.KnowledgeTag, *entity.KnowledgeTag]
	Comments   *Resource[entity.KnowledgeComment, *entity.KnowledgeComment]
	Feedback   *Resource[entity.KnowledgeFeedback, *entity.KnowledgeFeedback]
	Searches   *Resource[entity.KnowledgeSearch, *entity.KnowledgeSearch]
	Templates  *Resource[entity.KnowledgeTemplate, *entity.KnowledgeTemplate]
	Analytics  *Resource[entity.KnowledgeAnalytics, *entity.KnowledgeAnalytics]
	Versions   *Resource[entity.KnowledgeVersion, *entity.KnowledgeVersion]

	tx repository.KnowledgeTxRunner
}

// NewKnowledgeService construye el servicio; tx agrupa publicación y votos en una transacción.
func NewKnowledgeService(s KnowledgeStores, tx repository.KnowledgeTxRunner, m *metrics.Metrics) *KnowledgeService {
	return &KnowledgeService{
		Categories: NewResource[entity.KnowledgeCategory]("knowledge.categories", s.Categories, m, Options{
			ReadOnly: []string{"article_count"},
		}),
		Articles: NewResource[entity.KnowledgeArticle]("knowledge.articles", s.Articles, m, Options{
			ReadOnly: []string{"views_count", "helpful_votes", "not_helpful_votes", "category_name", "author_name", "helpful_ratio"},
		}),
		Tags: NewResource[entity.KnowledgeTag]("knowledge.tags", s.Tags, m, Options{}),
		Comments: NewResource[entity.KnowledgeComment]("knowledge.comments", s.Comments, m, Options{
			ReadOnly: []string{"author_name"},
		}),
		Feedback: NewResource[entity.KnowledgeFeedback]("knowledge.feedback", s.Feedback, m, Options{
			ReadOnly: []string{"article_title"},
		}),
		Searches:  NewResource[entity.KnowledgeSearch]("knowledge.searches", s.Searches, m, Options{}),
		Templates: NewResource[entity.KnowledgeTemplate]("knowledge.templates", s.Templates, m, Options{}),
		Analytics: NewResource[entity.KnowledgeAnalytics]("knowledge.analytics", s.Analytics, m, Options{
			ReadOnly: []string{"article_title"},
		}),
		Versions: NewResource[entity.KnowledgeVersion]("knowledge.versions", s.Versions, m, Options{}),
		tx:       tx,
	}
}

// PublishArticle publica el artículo. Solo el paso a published guarda un snapshot con el
// siguiente número de versión; publicar un artículo ya publicado no cambia nada.
func (s *KnowledgeService) PublishArticle(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	err := s.tx.RunKnowledge(ctx, func(tx repository.KnowledgeTx) error {
		changed := false
		art, err := s.Articles.With(tx.Articles).Action(ctx, caller, id, "publish", func(a *entity.KnowledgeArticle, now time.Time) error {
			changed = a.Status != entity.ArticlePublished
			a.Publish(now)
			return nil
		})
		if err != nil || !changed {
			return err
		}
		next, err := nextVersion(ctx, tx.Versions, id)
		if err != nil {
			return err
		}
		_, err = s.Versions.With(tx.Versions).Insert(ctx, caller, art.Snapshot(next, caller.UserID, "Publicación"))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Artículo publicado"}, nil
}

// nextVersion devuelve el mayor version_number del artículo + 1.
func nextVersion(ctx context.Context, versions repository.Store[entity.KnowledgeVersion], articleID string) (int, error) {
	last, _, err := versions.List(ctx, repository.ListQuery{
		Filters:  map[string]string{"article": articleID},
		Ordering: "-version_number",
		Limit:    1,
	})
	if err != nil {
		return 0, err
	}
	if len(last) == 0 {
		return 1, nil
	}
	return last[0].VersionNumber + 1, nil
}

// IncrementArticleView suma una visita al artículo.
func (s *KnowledgeService) IncrementArticleView(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Articles.Action(ctx, caller, id, "increment_view", func(a *entity.KnowledgeArticle, _ time.Time) error {
		a.ViewsCount++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Visita registrada"}, nil
}

// ApproveComment aprueba un comentario.
func (s *KnowledgeService) ApproveComment(ctx context.Context, caller Caller, id string) (*dto.StatusResponse, error) {
	_, err := s.Comments.Action(ctx, caller, id, "approve", func(c *entity.KnowledgeComment, _ time.Time) error {
		c.IsApproved = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.StatusResponse{Status: "Comentario aprobado"}, nil
}

// CreateFeedback guarda la valoración; helpful/not_helpful suman al contador del artículo en la misma transacción.
func (s *KnowledgeService) CreateFeedback(ctx context.Context, caller Caller, body []byte) (*entity.KnowledgeFeedback, error) {
	var out *entity.KnowledgeFeedback
	err := s.tx.RunKnowledge(ctx, func(tx repository.KnowledgeTx) error {
		fb, err := s.Feedback.With(tx.Feedback).Create(ctx, caller, body)
		if err != nil {
			return err
		}
		out = fb
		if fb.FeedbackType != entity.FeedbackHelpful && fb.FeedbackType != entity.FeedbackNotHelpful {
			return nil
		}
		_, err = s.Articles.With(tx.Articles).Action(ctx, caller, fb.ArticleID, "vote", func(a *entity.KnowledgeArticle, _ time.Time) error {
			if fb.FeedbackType == entity.FeedbackHelpful {
				a.HelpfulVotes++
			} else {
				a.NotHelpfulVotes++
			}
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
