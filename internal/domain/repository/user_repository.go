package repository

import (
	"context"
	"time"

	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
)

// UserRepository consultas de usuario que no cubre el Store genérico (auth).
type UserRepository interface {
	// GetByEmail devuelve (nil, nil) si no existe.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// NotificationRepository operaciones masivas sobre notificaciones.
type NotificationRepository interface {
	// MarkAllRead marca como leídas las notificaciones pendientes del usuario y devuelve cuántas cambió.
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}
