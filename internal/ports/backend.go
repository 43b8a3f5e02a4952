package ports

import (
	"context"

	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
)

// BackendClient — типизированный клиент REST-бэкенда логистики.
// Реализация обязана подставлять bearer-токен, читая его заново на каждый запрос.
type BackendClient interface {
	// Login — POST /auth/login.
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)

	// Register — POST /auth/register.
	Register(ctx context.Context, reg domain.Registration) (*domain.AuthResult, error)

	// CreateOrder — POST /orders.
	CreateOrder(ctx context.Context, req domain.CreateOrder) (*domain.Order, error)

	// ListOrders — GET /orders с фильтрами и пагинацией.
	ListOrders(ctx context.Context, query domain.ListQuery) (*domain.OrderPage, error)

	// GetOrder — GET /orders/{id}.
	GetOrder(ctx context.Context, id string) (*domain.Order, error)

	// TrackOrder — GET /orders/track/{trackingNumber}; доступен без сессии.
	TrackOrder(ctx context.Context, trackingNumber string) (*domain.Order, error)

	// UpdateOrderStatus — PATCH /orders/{id}/status.
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)

	// CancelOrder — PATCH /orders/{id}/cancel.
	CancelOrder(ctx context.Context, id string) (*domain.Order, error)
}
