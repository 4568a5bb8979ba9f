package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
)

var (
	_ repository.KnowledgeTxRunner = (*TxRunner)(nil)
	_ repository.ChatTxRunner      = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool     *pgxpool.Pool
	articles *Store[entity.KnowledgeArticle]
	versions *Store[entity.KnowledgeVersion]
	feedback *Store[entity.KnowledgeFeedback]
	messages *Store[entity.ChatbotMessage]
}

// NewTxRunner construye el runner con el pool y los stores que re-ata a cada tx.
func NewTxRunner(pool *pgxpool.Pool, repos *Repositories) *TxRunner {
	return &TxRunner{
		pool:     pool,
		articles: repos.KnowledgeArticles,
		versions: repos.KnowledgeVersions,
		feedback: repos.KnowledgeFeedback,
		messages: repos.Messages,
	}
}

// RunKnowledge ejecuta fn con los stores de conocimiento atados a una transacción.
func (r *TxRunner) RunKnowledge(ctx context.Context, fn func(tx repository.KnowledgeTx) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(repository.KnowledgeTx{
			Articles: r.articles.WithQuerier(tx),
			Versions: r.versions.WithQuerier(tx),
			Feedback: r.feedback.WithQuerier(tx),
		})
	})
}

// RunChat ejecuta fn con el store de mensajes atado a una transacción.
func (r *TxRunner) RunChat(ctx context.Context, fn func(messages repository.Store[entity.ChatbotMessage]) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(r.messages.WithQuerier(tx))
	})
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
