package app

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
)

// initKafkaPublishers инициализирует Kafka producer и publisher'ы основного
// топика и DLQ. Пустой brokers — валидный режим: события остаются в outbox.
func initKafkaPublishers(brokers string, logger *log.Entry) (*kafka.Producer, domain.OutboxPublisher, domain.OutboxPublisher) {
	if brokers == "" {
		logger.Info("kafka brokers are not configured, outbox events stay queued")
		return nil, nil, nil
	}

	brokerList := strings.Split(brokers, ",")
	producer, err := kafka.NewProducer(brokerList)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, nil, nil
	}

	logger.WithField("brokers", brokerList).Info("kafka producer initialized")
	publisher := kafka.NewOutboxPublisher(producer, kafka.TopicOrderEvents)
	dlqPublisher := kafka.NewOutboxPublisher(producer, kafka.TopicDeadLetterQueue)
	return producer, publisher, dlqPublisher
}

// closeKafka закрывает Kafka producer если он не nil.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}
