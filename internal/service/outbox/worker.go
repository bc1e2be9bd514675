package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	defaultPollInterval   = 1 * time.Second
	defaultBatchSize      = 100
	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 50 * time.Millisecond

	// maxBackoff ограничивает экспоненциальную задержку между попытками.
	maxBackoff = 30 * time.Second
)

var (
	publishResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_outbox_publish_attempts_total",
		Help: "Total number of outbox publish attempts grouped by result.",
	}, []string{"result"})
	backlogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_outbox_pending_records",
		Help: "Current number of pending records in transactional outbox.",
	})
	backlogAge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_outbox_oldest_pending_age_seconds",
		Help: "Age in seconds of the oldest pending outbox record.",
	})
)

// Worker перекладывает pending-сообщения transactional outbox в брокер.
// Сообщение после maxAttempts неудачных публикаций уходит в DLQ (если он
// настроен) и помечается failed.
type Worker struct {
	repo           domain.OutboxRepository
	publisher      domain.OutboxPublisher
	dlq            domain.OutboxPublisher
	logger         *log.Entry
	pollInterval   time.Duration
	batchSize      int
	maxAttempts    int
	retryBaseDelay time.Duration
}

// Option настраивает Worker.
type Option func(*Worker)

// WithLogger задаёт logger воркера.
func WithLogger(logger *log.Entry) Option {
	return func(w *Worker) { w.logger = logger }
}

// WithDLQPublisher задаёт publisher для сообщений, исчерпавших retry.
func WithDLQPublisher(publisher domain.OutboxPublisher) Option {
	return func(w *Worker) { w.dlq = publisher }
}

// WithPollInterval задаёт период опроса outbox.
func WithPollInterval(interval time.Duration) Option {
	return func(w *Worker) { w.pollInterval = interval }
}

// WithBatchSize задаёт размер выборки за один цикл.
func WithBatchSize(batchSize int) Option {
	return func(w *Worker) { w.batchSize = batchSize }
}

// WithMaxAttempts задаёт число попыток публикации одного сообщения.
func WithMaxAttempts(maxAttempts int) Option {
	return func(w *Worker) { w.maxAttempts = maxAttempts }
}

// WithRetryBaseDelay задаёт базовую задержку экспоненциального backoff.
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(w *Worker) { w.retryBaseDelay = delay }
}

// NewWorker создаёт воркер с дефолтами, скорректированными опциями.
func NewWorker(repo domain.OutboxRepository, publisher domain.OutboxPublisher, options ...Option) *Worker {
	w := &Worker{
		repo:           repo,
		publisher:      publisher,
		pollInterval:   defaultPollInterval,
		batchSize:      defaultBatchSize,
		maxAttempts:    defaultMaxAttempts,
		retryBaseDelay: defaultRetryBaseDelay,
	}
	for _, option := range options {
		option(w)
	}

	if w.logger == nil {
		w.logger = log.WithField("component", "outbox-worker")
	}
	if w.pollInterval <= 0 {
		w.pollInterval = defaultPollInterval
	}
	if w.batchSize <= 0 {
		w.batchSize = defaultBatchSize
	}
	if w.maxAttempts <= 0 {
		w.maxAttempts = defaultMaxAttempts
	}
	if w.retryBaseDelay < 0 {
		w.retryBaseDelay = 0
	}
	return w
}

// Run опрашивает outbox до отмены ctx. Первый цикл выполняется сразу,
// не дожидаясь тика.
func (w *Worker) Run(ctx context.Context) {
	if w.repo == nil || w.publisher == nil {
		w.logger.Warn("outbox worker is disabled: repo or publisher is nil")
		return
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.ProcessOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ProcessOnce(ctx)
		}
	}
}

// ProcessOnce забирает один батч pending-сообщений и доставляет каждое.
func (w *Worker) ProcessOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	w.observeBacklog()

	batch, err := w.repo.PullPending(w.batchSize)
	if err != nil {
		w.logger.WithError(err).Warn("failed to pull pending outbox messages")
		return
	}

	for _, msg := range batch {
		if ctx.Err() != nil {
			return
		}
		w.deliver(ctx, msg)
	}

	if len(batch) > 0 {
		w.observeBacklog()
	}
}

// deliver публикует сообщение с retry и фиксирует итог в репозитории.
func (w *Worker) deliver(ctx context.Context, msg domain.OutboxMessage) {
	err := w.publishWithRetry(ctx, msg)
	if err == nil {
		if markErr := w.repo.MarkSent(msg.ID); markErr != nil {
			w.logger.WithError(markErr).WithField("outbox_id", msg.ID).Warn("failed to mark outbox as sent")
		}
		return
	}

	w.logger.WithError(err).WithFields(log.Fields{
		"outbox_id":  msg.ID,
		"event_type": msg.EventType,
	}).Error("outbox publish failed after retries")
	publishResults.WithLabelValues("failed").Inc()

	if dlqErr := w.sendToDLQ(msg, err); dlqErr != nil {
		w.logger.WithError(dlqErr).WithField("outbox_id", msg.ID).Warn("failed to publish to DLQ")
		publishResults.WithLabelValues("dlq_failed").Inc()
	}
	if markErr := w.repo.MarkFailed(msg.ID); markErr != nil {
		w.logger.WithError(markErr).WithField("outbox_id", msg.ID).Warn("failed to mark outbox as failed")
	}
}

func (w *Worker) publishWithRetry(ctx context.Context, msg domain.OutboxMessage) error {
	var lastErr error

	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		if lastErr = w.publisher.Publish(msg); lastErr == nil {
			publishResults.WithLabelValues("sent").Inc()
			return nil
		}
		publishResults.WithLabelValues("retry_error").Inc()

		if attempt == w.maxAttempts {
			break
		}
		if delay := w.backoff(attempt); delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return fmt.Errorf("publish failed after %d attempts: %w", w.maxAttempts, lastErr)
}

// backoff возвращает задержку перед попыткой attempt+1, удваиваясь с каждой
// неудачей и упираясь в maxBackoff.
func (w *Worker) backoff(attempt int) time.Duration {
	if w.retryBaseDelay <= 0 {
		return 0
	}

	delay := w.retryBaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

func (w *Worker) observeBacklog() {
	stats, err := w.repo.Stats()
	if err != nil {
		w.logger.WithError(err).Warn("failed to collect outbox backlog stats")
		return
	}

	backlogSize.Set(float64(stats.PendingCount))

	age := 0.0
	if stats.PendingCount > 0 && !stats.OldestPendingAt.IsZero() {
		if since := time.Since(stats.OldestPendingAt).Seconds(); since > 0 {
			age = since
		}
	}
	backlogAge.Set(age)
}

// dlqEnvelope — то, что реально уезжает в dead letter topic: исходное событие
// плюс причина отказа.
type dlqEnvelope struct {
	OutboxID       string          `json:"outbox_id"`
	AggregateType  string          `json:"aggregate_type"`
	AggregateID    string          `json:"aggregate_id"`
	EventType      string          `json:"event_type"`
	Payload        json.RawMessage `json:"payload"`
	PublishError   string          `json:"publish_error"`
	DLQPublishedAt string          `json:"dlq_published_at"`
}

func (w *Worker) sendToDLQ(msg domain.OutboxMessage, publishErr error) error {
	if w.dlq == nil {
		return nil
	}

	payload, err := json.Marshal(dlqEnvelope{
		OutboxID:       msg.ID,
		AggregateType:  msg.AggregateType,
		AggregateID:    msg.AggregateID,
		EventType:      msg.EventType,
		Payload:        json.RawMessage(msg.Payload),
		PublishError:   publishErr.Error(),
		DLQPublishedAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal dlq payload: %w", err)
	}

	dead := msg
	dead.Payload = payload
	if err := w.dlq.Publish(dead); err != nil {
		return fmt.Errorf("publish to dlq: %w", err)
	}
	return nil
}
