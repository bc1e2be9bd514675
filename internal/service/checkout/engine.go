package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// maxCommitAttempts ограничивает повторы коммита при коллизии номера заказа.
// Вероятность коллизии ничтожна, поэтому больше пары повторов не имеет смысла.
const maxCommitAttempts = 3

// Engine превращает изменяемую корзину пользователя в неизменяемый заказ.
// Единственное место системы, где несколько сущностей меняются вместе:
// заказ, позиции, остатки и корзина — одним атомарным коммитом хранилища.
type Engine struct {
	carts   domain.CartRepository
	orders  domain.OrderRepository
	store   domain.CheckoutStore
	outbox  domain.OutboxRepository
	logger  *log.Entry
	metrics *metrics.CheckoutMetrics
	// now выделен для детерминированных тестов.
	now func() time.Time
}

// NewEngine создаёт рабочий экземпляр Checkout Engine.
func NewEngine(
	carts domain.CartRepository,
	orders domain.OrderRepository,
	store domain.CheckoutStore,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Engine {
	if logger == nil {
		logger = log.WithField("component", "checkout")
	}
	return &Engine{
		carts:   carts,
		orders:  orders,
		store:   store,
		outbox:  outbox,
		logger:  logger,
		metrics: metrics.NewCheckoutMetrics(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrderInput — параметры оформления заказа. UserID уже проверен внешним
// слоем аутентификации; движок ему доверяет и не перепроверяет.
type PlaceOrderInput struct {
	UserID          string
	ShippingAddress string
	PhoneNumber     string
	Notes           string
}

// PlaceOrder оформляет заказ из корзины пользователя.
//
// Шаги: срез корзины с текущими ценами и остатками → фиксация действующей цены
// в позиции → предварительная проверка остатков → атомарный коммит хранилища,
// который перепроверяет и списывает остатки на одном согласованном срезе.
// Либо заказ создан полностью, остатки списаны и корзина пуста — либо ничего
// из этого не произошло.
func (e *Engine) PlaceOrder(input PlaceOrderInput) (domain.Order, error) {
	started := e.now()

	views, err := e.carts.ListWithProducts(input.UserID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("load cart: %w", err)
	}
	if len(views) == 0 {
		e.metrics.PlaceOrderRejected("empty_cart")
		return domain.Order{}, domain.ErrEmptyCart
	}

	// Ранний отказ по остаткам: без побочных эффектов, чтобы покупатель мог
	// поправить количество и повторить. Авторитетная проверка произойдёт ещё
	// раз внутри атомарного коммита.
	if shortages := stockShortages(views); len(shortages) > 0 {
		e.metrics.PlaceOrderRejected("insufficient_stock")
		return domain.Order{}, &domain.InsufficientStockError{Shortages: shortages}
	}

	order := e.buildOrder(input, views)
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		e.metrics.PlaceOrderRejected("invalid_input")
		return domain.Order{}, errs[0]
	}

	for attempt := 1; ; attempt++ {
		event, err := newOrderCreatedEvent(order)
		if err != nil {
			return domain.Order{}, fmt.Errorf("build order event: %w", err)
		}

		err = e.store.Commit(order, event)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrOrderNumberTaken) && attempt < maxCommitAttempts {
			// Хранилище гарантирует уникальность номера жёстким ограничением;
			// коллизия случайного суффикса повторяема с новым номером.
			e.logger.WithFields(log.Fields{
				"order_number": order.OrderNumber,
				"attempt":      attempt,
			}).Warn("order number taken, regenerating")
			e.metrics.OrderNumberCollision()
			order.OrderNumber = domain.NewOrderNumber(e.now())
			continue
		}
		if errors.Is(err, domain.ErrInsufficientStock) {
			e.metrics.PlaceOrderRejected("insufficient_stock")
			return domain.Order{}, err
		}
		e.metrics.PlaceOrderFailed()
		return domain.Order{}, fmt.Errorf("commit checkout: %w", err)
	}

	e.metrics.PlaceOrderSucceeded(e.now().Sub(started))
	e.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"user_id":      order.UserID,
		"amount_minor": order.TotalAmountMinor,
		"items":        len(order.Items),
	}).Info("order placed")

	return order, nil
}

// buildOrder собирает заказ из среза корзины, фиксируя действующие цены.
// Деактивированный товар, уже лежащий в корзине, цены не теряет: позиция
// оформляется по зафиксированной цене, проверяется только остаток.
func (e *Engine) buildOrder(input PlaceOrderInput, views []domain.CartLineView) domain.Order {
	now := e.now()
	order := domain.Order{
		ID:              uuid.NewString(),
		UserID:          input.UserID,
		OrderNumber:     domain.NewOrderNumber(now),
		Status:          domain.OrderStatusPending,
		ShippingAddress: input.ShippingAddress,
		PhoneNumber:     input.PhoneNumber,
		Notes:           input.Notes,
		OrderDate:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, view := range views {
		unit := view.UnitPriceMinor()
		item := domain.OrderItem{
			ID:              uuid.NewString(),
			OrderID:         order.ID,
			ProductID:       view.Line.ProductID,
			Qty:             view.Line.Qty,
			UnitPriceMinor:  unit,
			TotalPriceMinor: int64(view.Line.Qty) * unit,
			CreatedAt:       now,
		}
		order.TotalAmountMinor += item.TotalPriceMinor
		order.Items = append(order.Items, item)
	}
	return order
}

func stockShortages(views []domain.CartLineView) []domain.StockShortage {
	var shortages []domain.StockShortage
	for _, view := range views {
		if view.Product.StockQuantity < view.Line.Qty {
			shortages = append(shortages, domain.StockShortage{
				ProductID: view.Line.ProductID,
				Requested: view.Line.Qty,
				Available: view.Product.StockQuantity,
			})
		}
	}
	return shortages
}
