package domain

import "time"

// CartLine представляет одну позицию корзины: пара (user, product) уникальна.
type CartLine struct {
	ID        string
	UserID    string
	ProductID string
	Qty       int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет корректность позиции корзины.
func (l *CartLine) Validate() []error {
	var errs []error
	if l.UserID == "" {
		errs = append(errs, ErrUserIDRequired)
	}
	if l.ProductID == "" {
		errs = append(errs, ErrProductNotFound)
	}
	if l.Qty <= 0 {
		errs = append(errs, ErrQtyInvalid)
	}
	return errs
}

// CartLineView — позиция корзины вместе со срезом текущего состояния товара.
// Checkout Engine работает именно с этим срезом: явный запрос нужных полей
// вместо навигации по живому графу объектов.
type CartLineView struct {
	Line    CartLine
	Product Product
}

// UnitPriceMinor возвращает действующую цену за единицу для позиции.
func (v *CartLineView) UnitPriceMinor() int64 {
	return v.Product.EffectivePriceMinor()
}

// TotalPriceMinor возвращает стоимость позиции по действующей цене.
func (v *CartLineView) TotalPriceMinor() int64 {
	return int64(v.Line.Qty) * v.UnitPriceMinor()
}
