package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/makbarsyahwana/logistic-gateway/internal/ports"
)

// Проверка, что Publisher удовлетворяет порту AuditPublisher.
var _ ports.AuditPublisher = (*Publisher)(nil)

// writer — минимальный контракт над kafka.Writer,
// чтобы легко подменять его моками в тестах.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher — публикация событий действий пользователя в Kafka.
// Сбой публикации не должен останавливать шлюз, поэтому вызывающий
// обрабатывает ошибку как деградацию, а не как отказ.
type Publisher struct {
	writer       writer
	log          ports.Logger
	writeTimeout time.Duration
	closeOnce    sync.Once
}

// NewPublisher — конструктор поверх kafka.Writer.
// RequireOne: подтверждение лидера достаточно для журнала аудита.
func NewPublisher(brokers []string, topic string, log ports.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Publisher{
		writer:       w,
		log:          log,
		writeTimeout: 5 * time.Second,
	}
}

// Publish — отправка одного события. Ключ сообщения — id заказа
// (события одного заказа попадают в одну партицию и сохраняют порядок).
func (p *Publisher) Publish(ctx context.Context, event ports.AuditEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	key := event.OrderID
	if key == "" {
		key = event.Actor
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctxTimeout, kafka.Message{
		Key:   []byte(key),
		Value: raw,
	}); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}

	p.log.Infof(ctx, "audit event published action=%s order_id=%s", event.Action, event.OrderID)
	return nil
}

// Close — закрывает writer. Вызывается при остановке приложения.
func (p *Publisher) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}

// Noop — заглушка на случай выключенного аудита.
type Noop struct{}

func (Noop) Publish(context.Context, ports.AuditEvent) error { return nil }
func (Noop) Close() error                                    { return nil }
