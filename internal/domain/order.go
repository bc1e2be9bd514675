package domain

import "time"

// OrderStatus описывает жизненный цикл заказа в магазине.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан из корзины, но ещё не подтверждён.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed — заказ подтверждён и готовится к отправке.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ доставлен покупателю.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled — заказ отменён до доставки.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus приводит строку к известному статусу заказа.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), nil
	}
	return "", ErrOrderStatusInvalid
}

// OrderItem представляет одну позицию заказа.
// Цена фиксируется в момент оформления и не пересчитывается при изменении каталога.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Qty       int32
	// UnitPriceMinor — цена за единицу на момент оформления, в минимальных денежных единицах.
	UnitPriceMinor int64
	// TotalPriceMinor всегда равно UnitPriceMinor * Qty.
	TotalPriceMinor int64
	CreatedAt       time.Time
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID          string
	UserID      string
	OrderNumber string
	Status      OrderStatus
	// TotalAmountMinor — сумма заказа в минимальных денежных единицах, фиксируется при создании.
	TotalAmountMinor int64
	ShippingAddress  string
	PhoneNumber      string
	Notes            string
	OrderDate        time.Time
	ShippedDate      *time.Time
	DeliveredDate    *time.Time
	Items            []OrderItem
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const (
	maxShippingAddressLen = 200
	maxPhoneNumberLen     = 20
	maxNotesLen           = 500
)

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrUserIDRequired)
	}
	if o.OrderNumber == "" {
		errs = append(errs, ErrOrderNumberRequired)
	}
	if o.ShippingAddress == "" || len(o.ShippingAddress) > maxShippingAddressLen {
		errs = append(errs, ErrShippingAddressInvalid)
	}
	if o.PhoneNumber == "" || len(o.PhoneNumber) > maxPhoneNumberLen {
		errs = append(errs, ErrPhoneNumberInvalid)
	}
	if len(o.Notes) > maxNotesLen {
		errs = append(errs, ErrNotesTooLong)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.TotalAmountMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}

	// Сверяем сумму заказа с суммой позиций: qty * price.
	var calc int64
	for _, item := range o.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.UnitPriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		if item.TotalPriceMinor != int64(item.Qty)*item.UnitPriceMinor {
			errs = append(errs, ErrItemTotalMismatch)
		}
		calc += item.TotalPriceMinor
	}
	if calc != o.TotalAmountMinor {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}
