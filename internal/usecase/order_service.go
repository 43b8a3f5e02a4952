package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/makbarsyahwana/logistic-gateway/internal/cache/query"
	"github.com/makbarsyahwana/logistic-gateway/internal/domain"
	"github.com/makbarsyahwana/logistic-gateway/internal/ports"
	"github.com/makbarsyahwana/logistic-gateway/pkg/metrics"
)

// Проверка, что OrderService удовлетворяет порту.
var _ ports.OrderService = (*OrderService)(nil)

// actorFunc — источник имени текущего пользователя для аудита.
type actorFunc func() string

// OrderService — прикладная логика работы с заказами поверх бэкенда.
// Чтения идут через кэш запросов; мутации при успехе инвалидируют
// семейство списка и конкретный заказ — это единственный механизм
// консистентности, локальных оптимистичных правок кэша нет.
type OrderService struct {
	backend ports.BackendClient
	cache   ports.QueryCache
	audit   ports.AuditPublisher
	log     ports.Logger
	actor   actorFunc
}

// NewOrderService — DI-конструктор. actor может быть nil (аудит от "anonymous").
func NewOrderService(
	backend ports.BackendClient,
	cache ports.QueryCache,
	audit ports.AuditPublisher,
	log ports.Logger,
	actor func() string,
) *OrderService {
	if actor == nil {
		actor = func() string { return "" }
	}
	return &OrderService{
		backend: backend,
		cache:   cache,
		audit:   audit,
		log:     log,
		actor:   actor,
	}
}

// List — страница заказов; ключ кэша — полный кортеж параметров запроса.
func (s *OrderService) List(ctx context.Context, q domain.ListQuery) (*domain.OrderPage, error) {
	q = q.Normalize()

	value, err := s.cache.Fetch(ctx, query.ListKey(q), []string{query.FamilyOrdersList},
		func(ctx context.Context) (any, error) {
			return s.backend.ListOrders(ctx, q)
		})
	if err != nil {
		return nil, err
	}

	page, ok := value.(*domain.OrderPage)
	if !ok {
		return nil, fmt.Errorf("unexpected cache value for orders list: %T", value)
	}
	return page, nil
}

// Get — заказ по id, кэшируется под собственным семейством.
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	value, err := s.cache.Fetch(ctx, query.OrderKey(id), []string{query.FamilyOrder(id)},
		func(ctx context.Context) (any, error) {
			return s.backend.GetOrder(ctx, id)
		})
	if err != nil {
		return nil, err
	}

	order, ok := value.(*domain.Order)
	if !ok {
		return nil, fmt.Errorf("unexpected cache value for order: %T", value)
	}
	return order, nil
}

// Track — публичный поиск по трек-номеру. Никогда не кэшируется:
// каждая отправка формы — свежий запрос («текущий статус сейчас»).
func (s *OrderService) Track(ctx context.Context, trackingNumber string) (*domain.Order, error) {
	return s.backend.TrackOrder(ctx, trackingNumber)
}

// Create — создание заказа. При успехе сбрасывается семейство списка
// (новый заказ обязан появиться при следующем чтении).
func (s *OrderService) Create(ctx context.Context, req domain.CreateOrder) (*domain.Order, error) {
	order, err := s.backend.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, query.FamilyOrdersList)
	s.publishAudit(ctx, "order_created", order)
	s.log.Infof(ctx, "order created id=%s tracking=%s", order.ID, order.TrackingNumber)
	return order, nil
}

// UpdateStatus — смена статуса. Запрос с новым статусом, равным текущему, —
// no-op: сетевой вызов не выполняется, возвращается nil-заказ без ошибки.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, current, next domain.OrderStatus) (*domain.Order, error) {
	if next == current {
		return nil, nil
	}

	order, err := s.backend.UpdateOrderStatus(ctx, id, next)
	if err != nil {
		return nil, err
	}

	s.invalidateOrder(ctx, id)
	s.publishAudit(ctx, "status_updated", order)
	s.log.Infof(ctx, "order status updated id=%s status=%s", id, next)
	return order, nil
}

// Cancel — отмена заказа.
func (s *OrderService) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.backend.CancelOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateOrder(ctx, id)
	s.publishAudit(ctx, "order_canceled", order)
	s.log.Infof(ctx, "order canceled id=%s", id)
	return order, nil
}

// invalidateOrder — мутация заказа затрагивает семейство списка и сам заказ.
func (s *OrderService) invalidateOrder(ctx context.Context, id string) {
	s.cache.Invalidate(ctx, query.FamilyOrdersList, query.FamilyOrder(id))
}

// publishAudit — ошибка публикации не влияет на результат действия.
func (s *OrderService) publishAudit(ctx context.Context, action string, order *domain.Order) {
	actor := s.actor()
	if actor == "" {
		actor = "anonymous"
	}

	event := ports.AuditEvent{
		ID:     uuid.New().String(),
		Actor:  actor,
		Action: action,
		At:     time.Now().UTC(),
	}
	if order != nil {
		event.OrderID = order.ID
		event.TrackingNumber = order.TrackingNumber
	}

	if err := s.audit.Publish(ctx, event); err != nil {
		metrics.AuditEvents.WithLabelValues(action, "error").Inc()
		s.log.Warnf(ctx, "audit publish failed action=%s err=%v", action, err)
		return
	}
	metrics.AuditEvents.WithLabelValues(action, "ok").Inc()
}
