package domain

import "time"

// CheckoutStore выполняет атомарный коммит оформления заказа: вставка заказа и позиций,
// условное списание остатков, очистка корзины и постановка события в outbox —
// всё видимо другим операциям либо целиком, либо никак.
type CheckoutStore interface {
	// Commit проверяет остатки и списывает их в одном неделимом шаге
	// (блокировка строк товара либо общий мьютекс хранилища), поэтому два
	// конкурентных чекаута не могут совместно увести остаток ниже нуля.
	// Возвращает ErrOrderNumberTaken при коллизии номера заказа (повторяемо)
	// и *InsufficientStockError при нехватке остатков.
	Commit(order Order, event OutboxMessage) error
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
