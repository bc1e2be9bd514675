package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	store *Store
}

// NewProductRepository возвращает in-memory репозиторий товаров.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepositoryInMemory{store: store}
}

// Create сохраняет товар, проверяя ссылку на активную категорию.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[product.CategoryID]
	if !ok || !category.IsActive {
		return domain.ErrCategoryNotFound
	}
	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	s.products[product.ID] = product
	return nil
}

// Get возвращает товар; activeOnly — явный предикат мягкого удаления.
func (r *productRepositoryInMemory) Get(id string, activeOnly bool) (domain.Product, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok || (activeOnly && !product.IsActive) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// List возвращает страницу активных товаров по фильтру.
func (r *productRepositoryInMemory) List(filter domain.ProductFilter) ([]domain.Product, error) {
	filter.Normalize()

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0)
	for _, p := range s.products {
		if !p.IsActive || !matchesFilter(p, filter) {
			continue
		}
		result = append(result, p)
	}

	sortProducts(result, filter)

	offset := (filter.Page - 1) * filter.PageSize
	if offset >= len(result) {
		return []domain.Product{}, nil
	}
	end := offset + filter.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], nil
}

// Update перезаписывает существующий товар.
func (r *productRepositoryInMemory) Update(product domain.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	s.products[product.ID] = product
	return nil
}

// SoftDelete деактивирует товар, оставляя строку разрешимой для исторических заказов.
func (r *productRepositoryInMemory) SoftDelete(id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	product.IsActive = false
	product.UpdatedAt = time.Now().UTC()
	s.products[id] = product
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesFilter(p domain.Product, f domain.ProductFilter) bool {
	if f.SearchTerm != "" &&
		!containsFold(p.Name, f.SearchTerm) &&
		!containsFold(p.Description, f.SearchTerm) &&
		!containsFold(p.Brand, f.SearchTerm) {
		return false
	}
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.MinPriceMinor != nil && p.PriceMinor < *f.MinPriceMinor {
		return false
	}
	if f.MaxPriceMinor != nil && p.PriceMinor > *f.MaxPriceMinor {
		return false
	}
	if f.Brand != "" && !containsFold(p.Brand, f.Brand) {
		return false
	}
	if f.Size != "" && !containsFold(p.Size, f.Size) {
		return false
	}
	if f.Color != "" && !containsFold(p.Color, f.Color) {
		return false
	}
	if f.InStock && p.StockQuantity <= 0 {
		return false
	}
	return true
}

func sortProducts(products []domain.Product, f domain.ProductFilter) {
	sort.Slice(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if f.SortDesc {
			a, b = b, a
		}
		switch f.SortBy {
		case domain.ProductSortPrice:
			if a.PriceMinor != b.PriceMinor {
				return a.PriceMinor < b.PriceMinor
			}
		case domain.ProductSortCreatedAt:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		default:
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		}
		// Стабильный порядок при равенстве ключа сортировки.
		return a.ID < b.ID
	})
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
