package memory

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// cartRepositoryInMemory — простая in-memory реализация CartRepository.
type cartRepositoryInMemory struct {
	store *Store
}

// NewCartRepository возвращает in-memory репозиторий корзины.
func NewCartRepository(store *Store) domain.CartRepository {
	return &cartRepositoryInMemory{store: store}
}

// Upsert создаёт позицию или увеличивает количество существующей.
func (r *cartRepositoryInMemory) Upsert(line domain.CartLine) (domain.CartLine, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	key := cartKey(line.UserID, line.ProductID)
	if existing, ok := s.cartLines[key]; ok {
		existing.Qty += line.Qty
		existing.UpdatedAt = now
		s.cartLines[key] = existing
		return existing, nil
	}

	if line.ID == "" {
		line.ID = uuid.NewString()
	}
	line.CreatedAt = now
	line.UpdatedAt = now
	s.cartLines[key] = line
	return line, nil
}

// UpdateQty заменяет количество существующей позиции.
func (r *cartRepositoryInMemory) UpdateQty(userID, productID string, qty int32) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cartKey(userID, productID)
	line, ok := s.cartLines[key]
	if !ok {
		return domain.ErrCartLineNotFound
	}
	line.Qty = qty
	line.UpdatedAt = time.Now().UTC()
	s.cartLines[key] = line
	return nil
}

// Remove удаляет позицию корзины.
func (r *cartRepositoryInMemory) Remove(userID, productID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cartKey(userID, productID)
	if _, ok := s.cartLines[key]; !ok {
		return domain.ErrCartLineNotFound
	}
	delete(s.cartLines, key)
	return nil
}

// ListWithProducts возвращает позиции пользователя вместе со срезом товара.
func (r *cartRepositoryInMemory) ListWithProducts(userID string) ([]domain.CartLineView, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.CartLineView, 0)
	for _, line := range s.cartLines {
		if line.UserID != userID {
			continue
		}
		product, ok := s.products[line.ProductID]
		if !ok {
			return nil, domain.ErrProductNotFound
		}
		result = append(result, domain.CartLineView{Line: line, Product: product})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Line.CreatedAt.Equal(result[j].Line.CreatedAt) {
			return result[i].Line.CreatedAt.Before(result[j].Line.CreatedAt)
		}
		return result[i].Line.ID < result[j].Line.ID
	})
	return result, nil
}

// Clear удаляет все позиции пользователя.
func (r *cartRepositoryInMemory) Clear(userID string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, line := range s.cartLines {
		if line.UserID == userID {
			delete(s.cartLines, key)
		}
	}
	return nil
}

var _ domain.CartRepository = (*cartRepositoryInMemory)(nil)
