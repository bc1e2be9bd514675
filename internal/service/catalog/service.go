package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/cache"
	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Service реализует операции каталога: товары и категории.
// Чтения горячих сущностей идут через cache-aside в Redis; кэш необязателен,
// при nil все операции работают напрямую с хранилищем.
type Service struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	cache      *cache.Cache
	logger     *log.Entry
	now        func() time.Time
}

// NewService создаёт сервис каталога.
func NewService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	catalogCache *cache.Cache,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "catalog")
	}
	return &Service{
		products:   products,
		categories: categories,
		cache:      catalogCache,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ProductInput — изменяемые поля товара при создании и обновлении.
type ProductInput struct {
	Name                 string
	Description          string
	PriceMinor           int64
	DiscountedPriceMinor *int64
	Brand                string
	Size                 string
	Color                string
	ImageURL             string
	StockQuantity        int32
	CategoryID           string
}

// CreateProduct создаёт активный товар. Ссылка на несуществующую либо
// деактивированную категорию приводит к ErrCategoryNotFound.
func (s *Service) CreateProduct(input ProductInput) (domain.Product, error) {
	now := s.now()
	product := domain.Product{
		ID:                   uuid.NewString(),
		Name:                 input.Name,
		Description:          input.Description,
		PriceMinor:           input.PriceMinor,
		DiscountedPriceMinor: input.DiscountedPriceMinor,
		Brand:                input.Brand,
		Size:                 input.Size,
		Color:                input.Color,
		ImageURL:             input.ImageURL,
		StockQuantity:        input.StockQuantity,
		IsActive:             true,
		CategoryID:           input.CategoryID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if errs := product.Validate(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}
	if _, err := s.categories.Get(input.CategoryID, true); err != nil {
		return domain.Product{}, fmt.Errorf("resolve category %s: %w", input.CategoryID, err)
	}

	if err := s.products.Create(product); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"category":   product.CategoryID,
	}).Info("product created")
	return product, nil
}

// GetProduct возвращает активный товар по идентификатору.
func (s *Service) GetProduct(id string) (domain.Product, error) {
	key := fmt.Sprintf(cache.KeyProduct, id)

	var cached domain.Product
	if s.cache.GetJSON(key, &cached) {
		return cached, nil
	}

	product, err := s.products.Get(id, true)
	if err != nil {
		return domain.Product{}, err
	}

	s.cache.SetJSON(key, product, cache.TTLProduct)
	return product, nil
}

// ListProducts возвращает страницу активных товаров по нормализованному фильтру.
func (s *Service) ListProducts(filter domain.ProductFilter) ([]domain.Product, error) {
	filter.Normalize()
	products, err := s.products.List(filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// UpdateProduct перезаписывает изменяемые поля товара.
func (s *Service) UpdateProduct(id string, input ProductInput) (domain.Product, error) {
	product, err := s.products.Get(id, false)
	if err != nil {
		return domain.Product{}, err
	}

	if input.CategoryID != product.CategoryID {
		if _, err := s.categories.Get(input.CategoryID, true); err != nil {
			return domain.Product{}, fmt.Errorf("resolve category %s: %w", input.CategoryID, err)
		}
	}

	product.Name = input.Name
	product.Description = input.Description
	product.PriceMinor = input.PriceMinor
	product.DiscountedPriceMinor = input.DiscountedPriceMinor
	product.Brand = input.Brand
	product.Size = input.Size
	product.Color = input.Color
	product.ImageURL = input.ImageURL
	product.StockQuantity = input.StockQuantity
	product.CategoryID = input.CategoryID
	product.UpdatedAt = s.now()

	if errs := product.Validate(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}

	if err := s.products.Update(product); err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}

	s.cache.Delete(fmt.Sprintf(cache.KeyProduct, id))
	return product, nil
}

// DeleteProduct снимает товар с продажи. Строка остаётся: исторические заказы
// продолжают разрешать ссылку на товар.
func (s *Service) DeleteProduct(id string) error {
	if err := s.products.SoftDelete(id); err != nil {
		return err
	}
	s.cache.Delete(fmt.Sprintf(cache.KeyProduct, id))
	s.logger.WithField("product_id", id).Info("product deactivated")
	return nil
}

// CategoryInput — изменяемые поля категории.
type CategoryInput struct {
	Name        string
	Description string
	ImageURL    string
}

// CreateCategory создаёт активную категорию. Дубликат имени → ErrCategoryNameTaken.
func (s *Service) CreateCategory(input CategoryInput) (domain.Category, error) {
	now := s.now()
	category := domain.Category{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if errs := category.Validate(); len(errs) > 0 {
		return domain.Category{}, errs[0]
	}
	if err := s.categories.Create(category); err != nil {
		return domain.Category{}, fmt.Errorf("create category: %w", err)
	}

	s.cache.Delete(cache.KeyCategories)
	s.logger.WithField("category_id", category.ID).Info("category created")
	return category, nil
}

// GetCategory возвращает активную категорию по идентификатору.
func (s *Service) GetCategory(id string) (domain.Category, error) {
	return s.categories.Get(id, true)
}

// ListCategories возвращает активные категории.
func (s *Service) ListCategories() ([]domain.Category, error) {
	var cached []domain.Category
	if s.cache.GetJSON(cache.KeyCategories, &cached) {
		return cached, nil
	}

	categories, err := s.categories.List()
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	s.cache.SetJSON(cache.KeyCategories, categories, cache.TTLCategories)
	return categories, nil
}

// UpdateCategory перезаписывает изменяемые поля категории.
func (s *Service) UpdateCategory(id string, input CategoryInput) (domain.Category, error) {
	category, err := s.categories.Get(id, false)
	if err != nil {
		return domain.Category{}, err
	}

	category.Name = input.Name
	category.Description = input.Description
	category.ImageURL = input.ImageURL
	category.UpdatedAt = s.now()

	if errs := category.Validate(); len(errs) > 0 {
		return domain.Category{}, errs[0]
	}
	if err := s.categories.Update(category); err != nil {
		return domain.Category{}, fmt.Errorf("update category: %w", err)
	}

	s.cache.Delete(cache.KeyCategories)
	return category, nil
}

// DeleteCategory деактивирует категорию. Товары категории остаются активными:
// снятие целой ветки каталога с продажи — отдельное административное действие.
func (s *Service) DeleteCategory(id string) error {
	if err := s.categories.SoftDelete(id); err != nil {
		return err
	}
	s.cache.Delete(cache.KeyCategories)
	s.logger.WithField("category_id", id).Info("category deactivated")
	return nil
}
