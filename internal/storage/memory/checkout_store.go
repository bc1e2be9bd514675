package memory

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// checkoutStoreInMemory выполняет атомарный коммит чекаута под общим мьютексом
// хранилища: проверка остатков, списание, вставка заказа, очистка корзины и
// постановка события в outbox происходят как один неделимый шаг.
type checkoutStoreInMemory struct {
	store *Store
}

// NewCheckoutStore возвращает in-memory реализацию CheckoutStore.
func NewCheckoutStore(store *Store) domain.CheckoutStore {
	return &checkoutStoreInMemory{store: store}
}

// Commit применяет все эффекты чекаута либо целиком, либо никак.
func (c *checkoutStoreInMemory) Commit(order domain.Order, event domain.OutboxMessage) error {
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.orderNums[order.OrderNumber]; taken {
		return domain.ErrOrderNumberTaken
	}

	// Проверка и списание оцениваются на одном согласованном срезе:
	// до первой мутации собираем все недостачи, чтобы отказ был полным.
	var shortages []domain.StockShortage
	for _, item := range order.Items {
		product, ok := s.products[item.ProductID]
		if !ok {
			return domain.ErrProductNotFound
		}
		if product.StockQuantity < item.Qty {
			shortages = append(shortages, domain.StockShortage{
				ProductID: item.ProductID,
				Requested: item.Qty,
				Available: product.StockQuantity,
			})
		}
	}
	if len(shortages) > 0 {
		return &domain.InsufficientStockError{Shortages: shortages}
	}

	now := time.Now().UTC()
	for _, item := range order.Items {
		product := s.products[item.ProductID]
		product.StockQuantity -= item.Qty
		product.UpdatedAt = now
		s.products[item.ProductID] = product
	}

	s.orders[order.ID] = order
	s.orderNums[order.OrderNumber] = order.ID

	for key, line := range s.cartLines {
		if line.UserID == order.UserID {
			delete(s.cartLines, key)
		}
	}

	s.enqueueOutboxLocked(&event)
	return nil
}

var _ domain.CheckoutStore = (*checkoutStoreInMemory)(nil)
