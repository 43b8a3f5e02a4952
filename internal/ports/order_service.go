package ports

import (
	"context"

	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
)

// OrderService — операции над заказами для транспортного слоя.
// Чтения идут через кэш запросов, мутации инвалидируют затронутые семейства.
type OrderService interface {
	List(ctx context.Context, query domain.ListQuery) (*domain.OrderPage, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	Track(ctx context.Context, trackingNumber string) (*domain.Order, error)
	Create(ctx context.Context, req domain.CreateOrder) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, current, next domain.OrderStatus) (*domain.Order, error)
	Cancel(ctx context.Context, id string) (*domain.Order, error)
}
