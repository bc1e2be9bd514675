package checkout

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Типы событий, публикуемых через transactional outbox.
const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderStatusChanged = "order.status_changed"
)

const aggregateOrder = "order"

// orderCreatedPayload — полезная нагрузка события об оформлении заказа.
type orderCreatedPayload struct {
	OrderID          string              `json:"order_id"`
	OrderNumber      string              `json:"order_number"`
	UserID           string              `json:"user_id"`
	TotalAmountMinor int64               `json:"total_amount_minor"`
	Items            []orderItemPayload  `json:"items"`
	OrderDate        time.Time           `json:"order_date"`
}

type orderItemPayload struct {
	ProductID       string `json:"product_id"`
	Qty             int32  `json:"qty"`
	UnitPriceMinor  int64  `json:"unit_price_minor"`
	TotalPriceMinor int64  `json:"total_price_minor"`
}

// statusChangedPayload — полезная нагрузка события смены статуса заказа.
type statusChangedPayload struct {
	OrderID     string     `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	UserID      string     `json:"user_id"`
	From        string     `json:"from"`
	To          string     `json:"to"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

func newOrderCreatedEvent(order domain.Order) (domain.OutboxMessage, error) {
	payload := orderCreatedPayload{
		OrderID:          order.ID,
		OrderNumber:      order.OrderNumber,
		UserID:           order.UserID,
		TotalAmountMinor: order.TotalAmountMinor,
		OrderDate:        order.OrderDate,
	}
	for _, item := range order.Items {
		payload.Items = append(payload.Items, orderItemPayload{
			ProductID:       item.ProductID,
			Qty:             item.Qty,
			UnitPriceMinor:  item.UnitPriceMinor,
			TotalPriceMinor: item.TotalPriceMinor,
		})
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("marshal order created payload: %w", err)
	}
	return domain.OutboxMessage{
		AggregateType: aggregateOrder,
		AggregateID:   order.ID,
		EventType:     EventTypeOrderCreated,
		Payload:       raw,
	}, nil
}

func newStatusChangedEvent(order domain.Order, previous domain.OrderStatus) (domain.OutboxMessage, error) {
	raw, err := json.Marshal(statusChangedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		From:        string(previous),
		To:          string(order.Status),
		ShippedAt:   order.ShippedDate,
		DeliveredAt: order.DeliveredDate,
	})
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("marshal status changed payload: %w", err)
	}
	return domain.OutboxMessage{
		AggregateType: aggregateOrder,
		AggregateID:   order.ID,
		EventType:     EventTypeOrderStatusChanged,
		Payload:       raw,
	}, nil
}
