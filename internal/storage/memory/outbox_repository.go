package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// outboxRecord хранит сообщение и служебные поля для in-memory реализации.
type outboxRecord struct {
	msg        domain.OutboxMessage
	status     string
	attemptCnt int
	createdAt  time.Time
	updatedAt  time.Time
}

// outboxRepositoryInMemory — простое in-memory хранилище для transactional outbox.
type outboxRepositoryInMemory struct {
	store *Store
}

// NewOutboxRepository создаёт in-memory реализацию outbox.
func NewOutboxRepository(store *Store) domain.OutboxRepository {
	return &outboxRepositoryInMemory{store: store}
}

// Enqueue сохраняет событие со статусом `pending` и возвращает его идентификатор.
func (r *outboxRepositoryInMemory) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enqueueOutboxLocked(&msg)
	return msg, nil
}

// enqueueOutboxLocked добавляет запись под уже взятым мьютексом хранилища;
// используется также атомарным коммитом чекаута.
func (s *Store) enqueueOutboxLocked(msg *domain.OutboxMessage) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.outbox[msg.ID] = &outboxRecord{
		msg:       *msg,
		status:    "pending",
		createdAt: now,
		updatedAt: now,
	}
}

// PullPending возвращает до limit сообщений со статусом `pending`, старые первыми.
func (r *outboxRepositoryInMemory) PullPending(limit int) ([]domain.OutboxMessage, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	pending := make([]*outboxRecord, 0)
	for _, rec := range s.outbox {
		if rec.status == "pending" {
			pending = append(pending, rec)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].createdAt.Before(pending[j].createdAt) })

	result := make([]domain.OutboxMessage, 0, limit)
	for _, rec := range pending {
		result = append(result, rec.msg)
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

// Stats возвращает размер backlog и возраст самой старой pending-записи.
func (r *outboxRepositoryInMemory) Stats() (domain.OutboxStats, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.OutboxStats{}
	for _, rec := range s.outbox {
		if rec.status != "pending" {
			continue
		}
		stats.PendingCount++
		if stats.OldestPendingAt.IsZero() || rec.createdAt.Before(stats.OldestPendingAt) {
			stats.OldestPendingAt = rec.createdAt
		}
	}
	return stats, nil
}

// MarkSent обновляет статус события после успешной публикации.
func (r *outboxRepositoryInMemory) MarkSent(id string) error {
	return r.mark(id, "sent")
}

// MarkFailed фиксирует ошибку публикации.
func (r *outboxRepositoryInMemory) MarkFailed(id string) error {
	return r.mark(id, "failed")
}

func (r *outboxRepositoryInMemory) mark(id, status string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.outbox[id]
	if !ok {
		return domain.ErrOutboxPublish
	}
	rec.status = status
	rec.attemptCnt++
	rec.updatedAt = time.Now().UTC()
	return nil
}

var _ domain.OutboxRepository = (*outboxRepositoryInMemory)(nil)
