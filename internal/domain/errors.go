package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyCart возвращается при попытке оформить заказ из пустой корзины.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInsufficientStock сигнализирует о нехватке остатков хотя бы по одной позиции корзины.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOrderNumberTaken — номер заказа уже занят; ошибка временная, безопасно повторить с новым номером.
	ErrOrderNumberTaken = errors.New("order number already taken")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderStatusInvalid — неизвестный статус заказа.
	ErrOrderStatusInvalid = errors.New("invalid order status")

	// ErrProductNotFound возвращается, если товар не найден или деактивирован.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductInactive — товар снят с продажи и не может быть добавлен в корзину.
	ErrProductInactive = errors.New("product is inactive")
	// ErrCategoryNotFound — категория не найдена; также означает невалидную ссылку при создании товара.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryNameTaken — имя категории уже занято.
	ErrCategoryNameTaken = errors.New("category name already taken")
	// ErrCartLineNotFound — позиция корзины не найдена у пользователя.
	ErrCartLineNotFound = errors.New("cart line not found")

	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken — пользователь с таким email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials — неверный email или пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")

	// Ошибки валидации полей.
	ErrUserIDRequired         = errors.New("user_id is required")
	ErrOrderNumberRequired    = errors.New("order_number is required")
	ErrShippingAddressInvalid = errors.New("shipping_address is required and must not exceed 200 characters")
	ErrPhoneNumberInvalid     = errors.New("phone_number is required and must not exceed 20 characters")
	ErrNotesTooLong           = errors.New("notes must not exceed 500 characters")
	ErrItemsRequired          = errors.New("order must contain at least one item")
	ErrAmountNegative         = errors.New("total amount must be non-negative")
	ErrItemQtyInvalid         = errors.New("item qty must be greater than zero")
	ErrItemPriceInvalid       = errors.New("item price must be non-negative")
	ErrItemTotalMismatch      = errors.New("item total does not match unit price * qty")
	ErrAmountMismatch         = errors.New("order amount does not match items sum")
	ErrQtyInvalid             = errors.New("quantity must be greater than zero")
	ErrProductNameInvalid     = errors.New("product name is required and must not exceed 200 characters")
	ErrPriceNegative          = errors.New("price must be non-negative")
	ErrStockNegative          = errors.New("stock quantity must be non-negative")
	ErrCategoryNameInvalid    = errors.New("category name is required and must not exceed 100 characters")
	ErrEmailInvalid           = errors.New("email is required and must not exceed 100 characters")
	ErrUserNameInvalid        = errors.New("first and last name are required and must not exceed 50 characters")
	ErrPasswordTooShort       = errors.New("password must be at least 6 characters")
)

// StockShortage описывает одну позицию, по которой не хватило остатков.
type StockShortage struct {
	ProductID string
	Requested int32
	Available int32
}

// InsufficientStockError перечисляет все позиции корзины, по которым не хватило остатков.
// errors.Is(err, ErrInsufficientStock) возвращает true для этой ошибки.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s: requested %d, available %d", s.ProductID, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// Is позволяет сопоставлять ошибку с сентинелом ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// IsRetryable сообщает, безопасно ли повторить оформление заказа после этой ошибки.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrOrderNumberTaken)
}
