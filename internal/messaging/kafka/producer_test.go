package kafka

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

type testEvent struct {
	EventType string `json:"event_type"`
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
}

func newMockProducer(t *testing.T) (*Producer, *mocks.SyncProducer) {
	t.Helper()
	mockProducer := mocks.NewSyncProducer(t, nil)
	return &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}, mockProducer
}

func TestProducer_PublishEvent(t *testing.T) {
	producer, mockProducer := newMockProducer(t)

	// Проверяем, что в топик уходит именно JSON события.
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(raw []byte) error {
		var sent testEvent
		if err := json.Unmarshal(raw, &sent); err != nil {
			return err
		}
		if sent.OrderID != "order-123" || sent.EventType != "order.created" {
			t.Errorf("sent event = %+v", sent)
		}
		return nil
	})

	event := testEvent{EventType: "order.created", OrderID: "order-123", Status: "pending"}
	if err := producer.PublishEvent(TopicOrderEvents, event.OrderID, event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_BrokerError(t *testing.T) {
	producer, mockProducer := newMockProducer(t)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := testEvent{EventType: "order.created", OrderID: "order-123", Status: "pending"}
	if err := producer.PublishEvent(TopicOrderEvents, event.OrderID, event); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_UnmarshalableEvent(t *testing.T) {
	producer, mockProducer := newMockProducer(t)

	// Канал не сериализуется в JSON, сообщение не должно дойти до брокера.
	if err := producer.PublishEvent(TopicOrderEvents, "key", make(chan int)); err == nil {
		t.Fatal("expected marshal error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}
