package kafka

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// eventEnvelope — формат сообщения в topic заказов: метаданные outbox-записи
// плюс доменный payload как есть.
type eventEnvelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	PublishedAt   time.Time       `json:"published_at"`
}

// topicPublisher адаптирует Producer под domain.OutboxPublisher.
type topicPublisher struct {
	producer *Producer
	topic    string
}

// NewOutboxPublisher создаёт паблишер outbox-сообщений в указанный topic.
// Пустой topic означает topic заказов по умолчанию.
func NewOutboxPublisher(producer *Producer, topic string) domain.OutboxPublisher {
	if topic == "" {
		topic = TopicOrderEvents
	}
	return &topicPublisher{producer: producer, topic: topic}
}

var _ domain.OutboxPublisher = (*topicPublisher)(nil)

// Publish отправляет сообщение, ключуя его aggregate ID: события одного
// заказа попадают в одну партицию и сохраняют порядок.
func (p *topicPublisher) Publish(msg domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return errors.New("kafka outbox publisher is not initialized")
	}

	key := msg.AggregateID
	if key == "" {
		key = msg.ID
	}

	return p.producer.PublishEvent(p.topic, key, eventEnvelope{
		ID:            msg.ID,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Payload:       json.RawMessage(msg.Payload),
		PublishedAt:   time.Now().UTC(),
	})
}
