package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

// newTestService собирает сервис на in-memory хранилище без кэша:
// при nil-кэше все операции идут напрямую в репозитории.
func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(memory.NewProductRepository(store), memory.NewCategoryRepository(store), nil, nil)
	return svc, store
}

func mustCreateCategory(t *testing.T, svc *Service, name string) domain.Category {
	t.Helper()
	category, err := svc.CreateCategory(CategoryInput{Name: name})
	require.NoError(t, err)
	return category
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newTestService(t)
	category := mustCreateCategory(t, svc, "Обувь")

	discounted := int64(800)
	product, err := svc.CreateProduct(ProductInput{
		Name:                 "Кеды",
		PriceMinor:           1000,
		DiscountedPriceMinor: &discounted,
		StockQuantity:        5,
		CategoryID:           category.ID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, product.ID)
	require.True(t, product.IsActive)
	require.Equal(t, int64(800), product.EffectivePriceMinor())

	got, err := svc.GetProduct(product.ID)
	require.NoError(t, err)
	require.Equal(t, product.ID, got.ID)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	category := mustCreateCategory(t, svc, "Обувь")

	_, err := svc.CreateProduct(ProductInput{PriceMinor: 1000, CategoryID: category.ID})
	require.ErrorIs(t, err, domain.ErrProductNameInvalid)

	_, err = svc.CreateProduct(ProductInput{Name: "Кеды", PriceMinor: -1, CategoryID: category.ID})
	require.ErrorIs(t, err, domain.ErrPriceNegative)

	_, err = svc.CreateProduct(ProductInput{Name: "Кеды", PriceMinor: 1000, CategoryID: "missing"})
	require.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestCreateProduct_InactiveCategoryRejected(t *testing.T) {
	svc, _ := newTestService(t)
	category := mustCreateCategory(t, svc, "Обувь")
	require.NoError(t, svc.DeleteCategory(category.ID))

	_, err := svc.CreateProduct(ProductInput{Name: "Кеды", PriceMinor: 1000, CategoryID: category.ID})
	require.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestUpdateProduct(t *testing.T) {
	svc, _ := newTestService(t)
	category := mustCreateCategory(t, svc, "Обувь")
	other := mustCreateCategory(t, svc, "Одежда")

	product, err := svc.CreateProduct(ProductInput{Name: "Кеды", PriceMinor: 1000, StockQuantity: 5, CategoryID: category.ID})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(product.ID, ProductInput{
		Name:          "Кеды беговые",
		PriceMinor:    1200,
		StockQuantity: 7,
		CategoryID:    other.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Кеды беговые", updated.Name)
	require.Equal(t, int64(1200), updated.PriceMinor)
	require.Equal(t, other.ID, updated.CategoryID)

	_, err = svc.UpdateProduct("missing", ProductInput{Name: "x", PriceMinor: 1, CategoryID: category.ID})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestDeleteProduct_HidesFromListingKeepsResolvable(t *testing.T) {
	svc, store := newTestService(t)
	category := mustCreateCategory(t, svc, "Обувь")
	product, err := svc.CreateProduct(ProductInput{Name: "Кеды", PriceMinor: 1000, CategoryID: category.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(product.ID))

	_, err = svc.GetProduct(product.ID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	products, err := svc.ListProducts(domain.ProductFilter{})
	require.NoError(t, err)
	require.Empty(t, products)

	// Исторические заказы продолжают разрешать ссылку на товар.
	got, err := memory.NewProductRepository(store).Get(product.ID, false)
	require.NoError(t, err)
	require.False(t, got.IsActive)
}

func TestCategoryLifecycle(t *testing.T) {
	svc, _ := newTestService(t)

	category := mustCreateCategory(t, svc, "Обувь")

	_, err := svc.CreateCategory(CategoryInput{Name: "обувь"})
	require.ErrorIs(t, err, domain.ErrCategoryNameTaken)

	_, err = svc.CreateCategory(CategoryInput{Name: ""})
	require.ErrorIs(t, err, domain.ErrCategoryNameInvalid)

	updated, err := svc.UpdateCategory(category.ID, CategoryInput{Name: "Обувь и аксессуары", Description: "Вся обувь"})
	require.NoError(t, err)
	require.Equal(t, "Обувь и аксессуары", updated.Name)

	categories, err := svc.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1)

	require.NoError(t, svc.DeleteCategory(category.ID))
	categories, err = svc.ListCategories()
	require.NoError(t, err)
	require.Empty(t, categories)
}
