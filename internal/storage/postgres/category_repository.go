package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository создаёт PostgreSQL-реализацию CategoryRepository.
func NewCategoryRepository(store *Store) domain.CategoryRepository {
	return &categoryRepository{db: store.DB()}
}

func (r *categoryRepository) Create(category domain.Category) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (
			id, name, description, image_url, is_active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		category.ID, category.Name, category.Description, category.ImageURL,
		category.IsActive, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCategoryNameTaken
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *categoryRepository) Get(id string, activeOnly bool) (domain.Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT id, name, description, image_url, is_active, created_at, updated_at
		FROM categories
		WHERE id = $1`
	if activeOnly {
		query += ` AND is_active`
	}

	var category domain.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID, &category.Name, &category.Description, &category.ImageURL,
		&category.IsActive, &category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, domain.ErrCategoryNotFound
		}
		return domain.Category{}, fmt.Errorf("select category: %w", err)
	}
	return category, nil
}

func (r *categoryRepository) List() ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, image_url, is_active, created_at, updated_at
		FROM categories
		WHERE is_active
		ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID, &category.Name, &category.Description, &category.ImageURL,
			&category.IsActive, &category.CreatedAt, &category.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) Update(category domain.Category) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = $2,
		    description = $3,
		    image_url = $4,
		    is_active = $5,
		    updated_at = $6
		WHERE id = $1
	`,
		category.ID, category.Name, category.Description, category.ImageURL,
		category.IsActive, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCategoryNameTaken
		}
		return fmt.Errorf("update category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) SoftDelete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET is_active = FALSE, updated_at = $2
		WHERE id = $1
	`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("soft delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

var _ domain.CategoryRepository = (*categoryRepository)(nil)
