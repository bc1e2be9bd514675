package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// categoryRepositoryInMemory — простая in-memory реализация CategoryRepository.
type categoryRepositoryInMemory struct {
	store *Store
}

// NewCategoryRepository возвращает in-memory репозиторий категорий.
func NewCategoryRepository(store *Store) domain.CategoryRepository {
	return &categoryRepositoryInMemory{store: store}
}

// Create сохраняет категорию, если имя ещё не занято.
func (r *categoryRepositoryInMemory) Create(category domain.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, category.Name) {
			return domain.ErrCategoryNameTaken
		}
	}
	s.categories[category.ID] = category
	return nil
}

// Get возвращает категорию или ErrCategoryNotFound.
func (r *categoryRepositoryInMemory) Get(id string, activeOnly bool) (domain.Category, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok || (activeOnly && !category.IsActive) {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return category, nil
}

// List возвращает активные категории, отсортированные по имени.
func (r *categoryRepositoryInMemory) List() ([]domain.Category, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Category, 0, len(s.categories))
	for _, category := range s.categories {
		if category.IsActive {
			result = append(result, category)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Update перезаписывает существующую категорию.
func (r *categoryRepositoryInMemory) Update(category domain.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	s.categories[category.ID] = category
	return nil
}

// SoftDelete деактивирует категорию.
func (r *categoryRepositoryInMemory) SoftDelete(id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok {
		return domain.ErrCategoryNotFound
	}
	category.IsActive = false
	category.UpdatedAt = time.Now().UTC()
	s.categories[id] = category
	return nil
}

var _ domain.CategoryRepository = (*categoryRepositoryInMemory)(nil)
