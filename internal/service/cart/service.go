package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Service реализует операции корзины. Здесь нет логики цен и остатков:
// корзина хранит только намерение купить, цены фиксируются при оформлении.
type Service struct {
	carts    domain.CartRepository
	products domain.ProductRepository
	logger   *log.Entry
	now      func() time.Time
}

// NewService создаёт сервис корзины.
func NewService(carts domain.CartRepository, products domain.ProductRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "cart")
	}
	return &Service{
		carts:    carts,
		products: products,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// View — корзина пользователя с текущим состоянием товаров и итогами.
// Итоги информационные: авторитетный расчёт происходит при оформлении.
type View struct {
	Lines            []domain.CartLineView
	TotalItems       int32
	TotalAmountMinor int64
}

// AddItem добавляет товар в корзину либо увеличивает количество существующей
// позиции. Неизвестный товар → ErrProductNotFound, деактивированный →
// ErrProductInactive.
func (s *Service) AddItem(userID, productID string, qty int32) (domain.CartLine, error) {
	if qty <= 0 {
		return domain.CartLine{}, domain.ErrQtyInvalid
	}

	product, err := s.products.Get(productID, false)
	if err != nil {
		return domain.CartLine{}, err
	}
	if !product.IsActive {
		return domain.CartLine{}, domain.ErrProductInactive
	}

	now := s.now()
	line, err := s.carts.Upsert(domain.CartLine{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		Qty:       qty,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("upsert cart line: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"user_id":    userID,
		"product_id": productID,
		"qty":        line.Qty,
	}).Debug("cart line upserted")
	return line, nil
}

// UpdateItemQty заменяет количество позиции. Отсутствующая позиция →
// ErrCartLineNotFound.
func (s *Service) UpdateItemQty(userID, productID string, qty int32) error {
	if qty <= 0 {
		return domain.ErrQtyInvalid
	}
	return s.carts.UpdateQty(userID, productID, qty)
}

// RemoveItem удаляет позицию из корзины.
func (s *Service) RemoveItem(userID, productID string) error {
	return s.carts.Remove(userID, productID)
}

// List возвращает корзину пользователя со срезом товаров и итогами
// по действующим ценам.
func (s *Service) List(userID string) (View, error) {
	lines, err := s.carts.ListWithProducts(userID)
	if err != nil {
		return View{}, fmt.Errorf("list cart: %w", err)
	}

	view := View{Lines: lines}
	for i := range lines {
		view.TotalItems += lines[i].Line.Qty
		view.TotalAmountMinor += lines[i].TotalPriceMinor()
	}
	return view, nil
}

// Clear удаляет все позиции корзины пользователя.
func (s *Service) Clear(userID string) error {
	if err := s.carts.Clear(userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
