package memory

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// seedCategory добавляет активную категорию напрямую в хранилище.
func seedCategory(t *testing.T, s *Store, id, name string) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[id] = domain.Category{
		ID:       id,
		Name:     name,
		IsActive: true,
	}
}

// seedProduct добавляет активный товар с заданным остатком.
func seedProduct(t *testing.T, s *Store, id, categoryID string, priceMinor int64, stock int32) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id] = domain.Product{
		ID:            id,
		Name:          "product " + id,
		PriceMinor:    priceMinor,
		StockQuantity: stock,
		IsActive:      true,
		CategoryID:    categoryID,
		CreatedAt:     time.Now().UTC(),
	}
}

func seedCartLine(t *testing.T, s *Store, userID, productID string, qty int32) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartLines[cartKey(userID, productID)] = domain.CartLine{
		ID:        userID + "-" + productID,
		UserID:    userID,
		ProductID: productID,
		Qty:       qty,
		CreatedAt: time.Now().UTC(),
	}
}

func productStock(t *testing.T, s *Store, id string) int32 {
	t.Helper()
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.products[id]
	if !ok {
		t.Fatalf("product %s not found in store", id)
	}
	return product.StockQuantity
}

func cartLineCount(t *testing.T, s *Store, userID string) int {
	t.Helper()
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, line := range s.cartLines {
		if line.UserID == userID {
			count++
		}
	}
	return count
}
