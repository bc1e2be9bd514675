package checkout

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// UpdateOrderStatus переводит заказ в новый статус и проставляет отметки дат.
// Операция вне атомарного пути чекаута: меняется только строка заказа,
// координация с остатками не требуется.
//
// Отметка shipped_date/delivered_date ставится один раз; повторный перевод в
// тот же статус идемпотентен и не перетирает более раннюю отметку.
func (e *Engine) UpdateOrderStatus(orderID string, status domain.OrderStatus) (domain.Order, error) {
	if _, err := domain.ParseOrderStatus(string(status)); err != nil {
		return domain.Order{}, err
	}

	order, err := e.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	previous := order.Status
	order.Status = status
	now := e.now()
	switch status {
	case domain.OrderStatusShipped:
		if order.ShippedDate == nil {
			order.ShippedDate = &now
		}
	case domain.OrderStatusDelivered:
		if order.DeliveredDate == nil {
			order.DeliveredDate = &now
		}
	}

	if err := e.orders.UpdateStatus(order); err != nil {
		return domain.Order{}, err
	}
	e.metrics.StatusChanged(string(status))

	if e.outbox != nil {
		event, err := newStatusChangedEvent(order, previous)
		if err == nil {
			_, err = e.outbox.Enqueue(event)
		}
		if err != nil {
			// Событие вторично по отношению к самому переводу статуса:
			// заказ уже обновлён, поэтому ошибку только логируем.
			e.logger.WithError(err).WithField("order_id", order.ID).
				Warn("failed to enqueue status change event")
		}
	}

	e.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"from":     string(previous),
		"to":       string(status),
	}).Info("order status updated")

	return order, nil
}

// GetOrder возвращает заказ пользователя с позициями.
func (e *Engine) GetOrder(orderID, userID string) (domain.Order, error) {
	return e.orders.GetForUser(orderID, userID)
}

// ListUserOrders возвращает заказы пользователя, новые первыми.
func (e *Engine) ListUserOrders(userID string) ([]domain.Order, error) {
	orders, err := e.orders.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return orders, nil
}
