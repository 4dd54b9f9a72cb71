package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// RoutingKeyInvalidate — ключ маршрутизации событий инвалидации кеша.
const RoutingKeyInvalidate = "cache.invalidate"

// InvalidationEvent сообщает слою представления, какие ключи
// представлений устарели и требуют перестроения.
type InvalidationEvent struct {
	Keys       []string  `json:"keys"`        // Ключи представлений
	OccurredAt time.Time `json:"occurred_at"` // Момент события
}

// Publisher публикует события витрины в RabbitMQ.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создаёт Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishInvalidation публикует событие инвалидации представлений.
func (p *Publisher) PublishInvalidation(keys ...string) error {
	const op = "rabbitmq.PublishInvalidation"
	body, err := json.Marshal(InvalidationEvent{
		Keys:       keys,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		ExchangeName,
		RoutingKeyInvalidate,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
