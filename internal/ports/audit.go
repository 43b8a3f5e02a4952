package ports

import (
	"context"
	"time"
)

// AuditEvent — событие действия пользователя для аналитики.
type AuditEvent struct {
	ID             string    `json:"id"`
	Actor          string    `json:"actor"` // email пользователя или "anonymous"
	Action         string    `json:"action"`
	OrderID        string    `json:"order_id,omitempty"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	At             time.Time `json:"at"`
}

// AuditPublisher — публикация аудит-событий (Kafka или no-op).
// Ошибка публикации не должна влиять на результат действия пользователя.
type AuditPublisher interface {
	Publish(ctx context.Context, event AuditEvent) error
	Close() error
}
