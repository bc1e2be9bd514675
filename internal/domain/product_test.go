package domain

import "testing"

func TestProductEffectivePriceMinor(t *testing.T) {
	product := Product{PriceMinor: 1500}
	if got := product.EffectivePriceMinor(); got != 1500 {
		t.Fatalf("expected base price 1500, got %d", got)
	}

	discounted := int64(1000)
	product.DiscountedPriceMinor = &discounted
	if got := product.EffectivePriceMinor(); got != 1000 {
		t.Fatalf("expected discounted price 1000, got %d", got)
	}

	// Нулевая акционная цена действительна: товар раздаётся бесплатно.
	free := int64(0)
	product.DiscountedPriceMinor = &free
	if got := product.EffectivePriceMinor(); got != 0 {
		t.Fatalf("expected zero discounted price, got %d", got)
	}
}

func TestProductValidate(t *testing.T) {
	valid := Product{Name: "Кеды", PriceMinor: 4990, StockQuantity: 10, CategoryID: "c-1"}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Fatalf("expected valid product, got %v", errs)
	}

	invalid := Product{PriceMinor: -1, StockQuantity: -5}
	errs := invalid.Validate()
	for _, want := range []error{ErrProductNameInvalid, ErrPriceNegative, ErrStockNegative, ErrCategoryNotFound} {
		if !containsError(errs, want) {
			t.Fatalf("expected %v in %v", want, errs)
		}
	}

	negativeDiscount := int64(-10)
	discountInvalid := Product{Name: "Кеды", PriceMinor: 100, DiscountedPriceMinor: &negativeDiscount, CategoryID: "c-1"}
	if !containsError(discountInvalid.Validate(), ErrPriceNegative) {
		t.Fatal("expected negative discounted price to be rejected")
	}
}

func TestProductFilterNormalize(t *testing.T) {
	filter := ProductFilter{}
	filter.Normalize()

	if filter.Page != 1 {
		t.Fatalf("expected page 1, got %d", filter.Page)
	}
	if filter.PageSize != 20 {
		t.Fatalf("expected page size 20, got %d", filter.PageSize)
	}
	if filter.SortBy != ProductSortName || filter.SortDesc {
		t.Fatalf("expected default sort name asc, got %s desc=%v", filter.SortBy, filter.SortDesc)
	}

	oversized := ProductFilter{Page: -3, PageSize: 1000, SortBy: "rating", SortDesc: true}
	oversized.Normalize()
	if oversized.Page != 1 || oversized.PageSize != 20 {
		t.Fatalf("expected clamped pagination, got page=%d size=%d", oversized.Page, oversized.PageSize)
	}
	if oversized.SortBy != ProductSortName || oversized.SortDesc {
		t.Fatal("unknown sort field must fall back to name asc")
	}

	kept := ProductFilter{Page: 2, PageSize: 50, SortBy: ProductSortPrice, SortDesc: true}
	kept.Normalize()
	if kept.Page != 2 || kept.PageSize != 50 || kept.SortBy != ProductSortPrice || !kept.SortDesc {
		t.Fatalf("valid filter must pass through unchanged: %+v", kept)
	}
}

func TestCartLineViewTotals(t *testing.T) {
	discounted := int64(800)
	view := CartLineView{
		Line:    CartLine{Qty: 3},
		Product: Product{PriceMinor: 1000, DiscountedPriceMinor: &discounted},
	}

	if got := view.UnitPriceMinor(); got != 800 {
		t.Fatalf("expected discounted unit price, got %d", got)
	}
	if got := view.TotalPriceMinor(); got != 2400 {
		t.Fatalf("expected line total 2400, got %d", got)
	}
}
