package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// fakeOutboxRepo отдаёт заранее подготовленный backlog и записывает,
// какие сообщения воркер пометил sent/failed.
type fakeOutboxRepo struct {
	backlog []domain.OutboxMessage
	sent    []string
	failed  []string
}

func (f *fakeOutboxRepo) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	return msg, nil
}

func (f *fakeOutboxRepo) PullPending(limit int) ([]domain.OutboxMessage, error) {
	if limit > 0 && limit < len(f.backlog) {
		return append([]domain.OutboxMessage(nil), f.backlog[:limit]...), nil
	}
	return append([]domain.OutboxMessage(nil), f.backlog...), nil
}

func (f *fakeOutboxRepo) Stats() (domain.OutboxStats, error) {
	stats := domain.OutboxStats{PendingCount: len(f.backlog)}
	if len(f.backlog) > 0 {
		stats.OldestPendingAt = time.Now().UTC().Add(-time.Second)
	}
	return stats, nil
}

func (f *fakeOutboxRepo) MarkSent(id string) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(id string) error {
	f.failed = append(f.failed, id)
	return nil
}

// fakePublisher отвечает очередью ошибок: исчерпав её, возвращает stickyErr.
type fakePublisher struct {
	mu        sync.Mutex
	errQueue  []error
	stickyErr error
	published []domain.OutboxMessage
}

func (f *fakePublisher) Publish(msg domain.OutboxMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.published = append(f.published, msg)
	if len(f.errQueue) > 0 {
		err := f.errQueue[0]
		f.errQueue = f.errQueue[1:]
		return err
	}
	return f.stickyErr
}

func (f *fakePublisher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

func (f *fakePublisher) last() domain.OutboxMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.published[len(f.published)-1]
}

var (
	_ domain.OutboxRepository = (*fakeOutboxRepo)(nil)
	_ domain.OutboxPublisher  = (*fakePublisher)(nil)
)

func orderEvent(id string) domain.OutboxMessage {
	return domain.OutboxMessage{
		ID:            id,
		AggregateType: "order",
		AggregateID:   "order-17",
		EventType:     "order.status_changed",
		Payload:       []byte(`{"from":"pending","to":"confirmed"}`),
	}
}

func TestProcessOnce_MarksDeliveredMessageSent(t *testing.T) {
	t.Parallel()

	repo := &fakeOutboxRepo{backlog: []domain.OutboxMessage{orderEvent("msg-1")}}
	publisher := &fakePublisher{}

	worker := NewWorker(repo, publisher, WithRetryBaseDelay(0))
	worker.ProcessOnce(context.Background())

	if publisher.calls() != 1 {
		t.Fatalf("expected 1 publish call, got %d", publisher.calls())
	}
	if len(repo.sent) != 1 || repo.sent[0] != "msg-1" {
		t.Fatalf("expected msg-1 marked sent, got %v", repo.sent)
	}
	if len(repo.failed) != 0 {
		t.Fatalf("expected no failed marks, got %v", repo.failed)
	}
}

func TestProcessOnce_RecoversAfterTransientErrors(t *testing.T) {
	t.Parallel()

	repo := &fakeOutboxRepo{backlog: []domain.OutboxMessage{orderEvent("msg-2")}}
	publisher := &fakePublisher{
		errQueue: []error{
			errors.New("broker unavailable"),
			errors.New("broker unavailable"),
		},
	}

	worker := NewWorker(repo, publisher, WithRetryBaseDelay(0), WithMaxAttempts(3))
	worker.ProcessOnce(context.Background())

	if publisher.calls() != 3 {
		t.Fatalf("expected 3 publish attempts, got %d", publisher.calls())
	}
	if len(repo.sent) != 1 {
		t.Fatalf("expected message marked sent after recovery, got sent=%v failed=%v", repo.sent, repo.failed)
	}
}

func TestProcessOnce_ExhaustedRetriesGoToDLQ(t *testing.T) {
	t.Parallel()

	repo := &fakeOutboxRepo{backlog: []domain.OutboxMessage{orderEvent("msg-3")}}
	publisher := &fakePublisher{stickyErr: errors.New("topic is gone")}
	dlq := &fakePublisher{}

	worker := NewWorker(repo, publisher,
		WithDLQPublisher(dlq),
		WithRetryBaseDelay(0),
		WithMaxAttempts(3),
	)
	worker.ProcessOnce(context.Background())

	if publisher.calls() != 3 {
		t.Fatalf("expected 3 publish attempts, got %d", publisher.calls())
	}
	if len(repo.failed) != 1 || repo.failed[0] != "msg-3" {
		t.Fatalf("expected msg-3 marked failed, got %v", repo.failed)
	}
	if len(repo.sent) != 0 {
		t.Fatalf("expected no sent marks, got %v", repo.sent)
	}
	if dlq.calls() != 1 {
		t.Fatalf("expected 1 DLQ publish, got %d", dlq.calls())
	}

	// В DLQ уезжает конверт с исходным payload и причиной отказа.
	var envelope dlqEnvelope
	if err := json.Unmarshal(dlq.last().Payload, &envelope); err != nil {
		t.Fatalf("unmarshal dlq payload: %v", err)
	}
	if envelope.OutboxID != "msg-3" || envelope.EventType != "order.status_changed" {
		t.Fatalf("unexpected dlq envelope: %+v", envelope)
	}
	if string(envelope.Payload) != `{"from":"pending","to":"confirmed"}` {
		t.Fatalf("original payload lost in dlq envelope: %s", envelope.Payload)
	}
	if envelope.PublishError == "" {
		t.Fatal("dlq envelope must carry publish error")
	}
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	t.Parallel()

	worker := NewWorker(&fakeOutboxRepo{}, &fakePublisher{}, WithRetryBaseDelay(100*time.Millisecond))

	if got := worker.backoff(1); got != 100*time.Millisecond {
		t.Fatalf("attempt 1: got %v", got)
	}
	if got := worker.backoff(3); got != 400*time.Millisecond {
		t.Fatalf("attempt 3: got %v", got)
	}
	if got := worker.backoff(30); got != maxBackoff {
		t.Fatalf("attempt 30: got %v, want cap %v", got, maxBackoff)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	worker := NewWorker(&fakeOutboxRepo{}, &fakePublisher{},
		WithPollInterval(5*time.Millisecond),
		WithRetryBaseDelay(0),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()

	time.Sleep(15 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}
