package memstore

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/intellicx-crm/internal/domain/entity"
	"github.com/jhoicas/intellicx-crm/internal/domain/repository"
)

var (
	_ repository.UserRepository         = Users{}
	_ repository.NotificationRepository = Notifications{}
)

// Users consultas de auth sobre un store de usuarios en memoria.
type Users struct {
	Store *Store[entity.User]
}

func (u Users) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u.Store.mu.Lock()
	defer u.Store.mu.Unlock()
	for _, rec := range u.Store.rows {
		if strings.EqualFold(rec.Email, email) {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (u Users) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	u.Store.mu.Lock()
	defer u.Store.mu.Unlock()
	if rec, ok := u.Store.rows[id]; ok {
		rec.LastLogin = &at
	}
	return nil
}

// Notifications operaciones masivas sobre un store de notificaciones en memoria.
type Notifications struct {
	Store *Store[entity.Notification]
}

func (n Notifications) MarkAllRead(_ context.Context, userID string) (int64, error) {
	n.Store.mu.Lock()
	defer n.Store.mu.Unlock()
	var changed int64
	for _, rec := range n.Store.rows {
		if rec.UserID == userID && !rec.IsRead {
			rec.IsRead = true
			changed++
		}
	}
	return changed, nil
}
