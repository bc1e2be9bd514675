package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

const productColumns = `
	id, name, description, price_minor, discounted_price_minor,
	brand, size, color, image_url, stock_quantity, is_active,
	category_id, created_at, updated_at`

func (r *productRepository) Create(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, description, price_minor, discounted_price_minor,
			brand, size, color, image_url, stock_quantity, is_active,
			category_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		product.ID, product.Name, product.Description, product.PriceMinor,
		product.DiscountedPriceMinor, product.Brand, product.Size, product.Color,
		product.ImageURL, product.StockQuantity, product.IsActive,
		product.CategoryID, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Get(id string, activeOnly bool) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `SELECT` + productColumns + ` FROM products WHERE id = $1`
	if activeOnly {
		query += ` AND is_active`
	}

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return product, nil
}

func (r *productRepository) List(filter domain.ProductFilter) ([]domain.Product, error) {
	filter.Normalize()

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var (
		conds = []string{"is_active"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.SearchTerm != "" {
		p := arg("%" + filter.SearchTerm + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s OR brand ILIKE %s)", p, p, p))
	}
	if filter.CategoryID != "" {
		conds = append(conds, "category_id = "+arg(filter.CategoryID))
	}
	if filter.MinPriceMinor != nil {
		conds = append(conds, "price_minor >= "+arg(*filter.MinPriceMinor))
	}
	if filter.MaxPriceMinor != nil {
		conds = append(conds, "price_minor <= "+arg(*filter.MaxPriceMinor))
	}
	if filter.Brand != "" {
		conds = append(conds, "brand ILIKE "+arg("%"+filter.Brand+"%"))
	}
	if filter.Size != "" {
		conds = append(conds, "size ILIKE "+arg("%"+filter.Size+"%"))
	}
	if filter.Color != "" {
		conds = append(conds, "color ILIKE "+arg("%"+filter.Color+"%"))
	}
	if filter.InStock {
		conds = append(conds, "stock_quantity > 0")
	}

	orderBy := map[domain.ProductSort]string{
		domain.ProductSortName:      "name",
		domain.ProductSortPrice:     "price_minor",
		domain.ProductSortCreatedAt: "created_at",
	}[filter.SortBy]
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(
		`SELECT %s FROM products WHERE %s ORDER BY %s %s, id ASC OFFSET %s LIMIT %s`,
		productColumns,
		strings.Join(conds, " AND "),
		orderBy, direction,
		arg((filter.Page-1)*filter.PageSize), arg(filter.PageSize),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

func (r *productRepository) Update(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2,
		    description = $3,
		    price_minor = $4,
		    discounted_price_minor = $5,
		    brand = $6,
		    size = $7,
		    color = $8,
		    image_url = $9,
		    stock_quantity = $10,
		    is_active = $11,
		    category_id = $12,
		    updated_at = $13
		WHERE id = $1
	`,
		product.ID, product.Name, product.Description, product.PriceMinor,
		product.DiscountedPriceMinor, product.Brand, product.Size, product.Color,
		product.ImageURL, product.StockQuantity, product.IsActive,
		product.CategoryID, time.Now().UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) SoftDelete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET is_active = FALSE, updated_at = $2
		WHERE id = $1
	`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		product    domain.Product
		discounted sql.NullInt64
	)
	err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.PriceMinor,
		&discounted, &product.Brand, &product.Size, &product.Color,
		&product.ImageURL, &product.StockQuantity, &product.IsActive,
		&product.CategoryID, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	if discounted.Valid {
		product.DiscountedPriceMinor = &discounted.Int64
	}
	return product, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
