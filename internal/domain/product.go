package domain

import "time"

// Category описывает категорию каталога. Мягкое удаление через IsActive.
type Category struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const maxCategoryNameLen = 100

// Validate проверяет корректность полей категории.
func (c *Category) Validate() []error {
	var errs []error
	if c.Name == "" || len(c.Name) > maxCategoryNameLen {
		errs = append(errs, ErrCategoryNameInvalid)
	}
	return errs
}

// Product описывает товар каталога.
// Деактивированный товар (IsActive=false) исключается из листингов и новых добавлений
// в корзину, но остаётся разрешимым по ссылкам из исторических заказов.
type Product struct {
	ID          string
	Name        string
	Description string
	// PriceMinor — базовая цена в минимальных денежных единицах.
	PriceMinor int64
	// DiscountedPriceMinor — акционная цена; если задана, именно она действует при оформлении.
	DiscountedPriceMinor *int64
	Brand                string
	Size                 string
	Color                string
	ImageURL             string
	// StockQuantity — остаток на складе, инвариант: всегда >= 0.
	StockQuantity int32
	IsActive      bool
	CategoryID    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const maxProductNameLen = 200

// EffectivePriceMinor возвращает действующую цену за единицу:
// акционную, если она задана, иначе базовую.
func (p *Product) EffectivePriceMinor() int64 {
	if p.DiscountedPriceMinor != nil {
		return *p.DiscountedPriceMinor
	}
	return p.PriceMinor
}

// Validate проверяет корректность полей товара.
func (p *Product) Validate() []error {
	var errs []error
	if p.Name == "" || len(p.Name) > maxProductNameLen {
		errs = append(errs, ErrProductNameInvalid)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrPriceNegative)
	}
	if p.DiscountedPriceMinor != nil && *p.DiscountedPriceMinor < 0 {
		errs = append(errs, ErrPriceNegative)
	}
	if p.StockQuantity < 0 {
		errs = append(errs, ErrStockNegative)
	}
	if p.CategoryID == "" {
		errs = append(errs, ErrCategoryNotFound)
	}
	return errs
}

// ProductSort задаёт допустимые поля сортировки листинга.
type ProductSort string

const (
	ProductSortName      ProductSort = "name"
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "createdat"
)

// ProductFilter описывает фильтры листинга каталога.
// Нулевые значения означают отсутствие фильтра.
type ProductFilter struct {
	SearchTerm    string
	CategoryID    string
	MinPriceMinor *int64
	MaxPriceMinor *int64
	Brand         string
	Size          string
	Color         string
	InStock       bool
	SortBy        ProductSort
	SortDesc      bool
	Page          int
	PageSize      int
}

// Normalize приводит фильтр к безопасным значениям пагинации и сортировки.
func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
	switch f.SortBy {
	case ProductSortName, ProductSortPrice, ProductSortCreatedAt:
	default:
		f.SortBy = ProductSortName
		f.SortDesc = false
	}
}
