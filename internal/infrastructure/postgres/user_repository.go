package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
)

var (
	_ repository.UserRepository         = (*UserRepo)(nil)
	_ repository.NotificationRepository = (*NotificationRepo)(nil)
)

// UserRepo consultas de autenticación sobre users.
type UserRepo struct {
	q     Querier
	users *Store[entity.User]
}

// NewUserRepository reutiliza la lista de columnas del store de usuarios.
func NewUserRepository(q Querier, users *Store[entity.User]) *UserRepo {
	return &UserRepo{q: q, users: users}
}

// GetByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users t %s WHERE t.email = $1 LIMIT 1",
		r.users.meta.selectList, r.users.table.Joins)
	rows, err := r.q.Query(ctx, query, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, mapErr("users.GetByEmail", err)
	}
	u, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[entity.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapErr("users.GetByEmail", err)
	}
	return u, nil
}

// UpdateLastLogin registra el último acceso.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := r.q.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at); err != nil {
		return mapErr("users.UpdateLastLogin", err)
	}
	return nil
}

// NotificationRepo operaciones masivas de notificaciones.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// MarkAllRead marca todas las no leídas del usuario.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, mapErr("notifications.MarkAllRead", err)
	}
	return tag.RowsAffected(), nil
}
