package memory

import (
	"sort"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	store *Store
}

// NewOrderRepository возвращает in-memory репозиторий заказов.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepositoryInMemory{store: store}
}

// Get возвращает заказ или ErrOrderNotFound.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// GetForUser возвращает заказ, только если он принадлежит пользователю.
func (r *orderRepositoryInMemory) GetForUser(id, userID string) (domain.Order, error) {
	order, err := r.Get(id)
	if err != nil {
		return domain.Order{}, err
	}
	if order.UserID != userID {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListByUser возвращает заказы пользователя, новые первыми.
func (r *orderRepositoryInMemory) ListByUser(userID string) ([]domain.Order, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, order := range s.orders {
		if order.UserID != userID {
			continue
		}
		result = append(result, order)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].OrderDate.Equal(result[j].OrderDate) {
			return result[i].OrderDate.After(result[j].OrderDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// UpdateStatus сохраняет статус и отметки дат существующего заказа.
// Остальные поля заказа после создания неизменяемы.
func (r *orderRepositoryInMemory) UpdateStatus(order domain.Order) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	current.Status = order.Status
	// Первая отметка даты выигрывает: конкурентное повторное проставление
	// того же статуса не перетирает уже записанную дату.
	if current.ShippedDate == nil {
		current.ShippedDate = order.ShippedDate
	}
	if current.DeliveredDate == nil {
		current.DeliveredDate = order.DeliveredDate
	}
	current.UpdatedAt = time.Now().UTC()
	s.orders[order.ID] = current
	return nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
