package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Store — общее in-memory хранилище для локальной разработки и тестов.
// Один мьютекс на все агрегаты: атомарный коммит чекаута держит его
// на протяжении всей проверки и списания остатков.
type Store struct {
	mu sync.RWMutex

	categories map[string]domain.Category
	products   map[string]domain.Product
	cartLines  map[string]domain.CartLine // ключ: userID + "/" + productID
	orders     map[string]domain.Order
	orderNums  map[string]string // orderNumber -> orderID
	users      map[string]domain.User
	emails     map[string]string // email -> userID
	outbox     map[string]*outboxRecord
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		categories: make(map[string]domain.Category),
		products:   make(map[string]domain.Product),
		cartLines:  make(map[string]domain.CartLine),
		orders:     make(map[string]domain.Order),
		orderNums:  make(map[string]string),
		users:      make(map[string]domain.User),
		emails:     make(map[string]string),
		outbox:     make(map[string]*outboxRecord),
	}
}

func cartKey(userID, productID string) string {
	return userID + "/" + productID
}
