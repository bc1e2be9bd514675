package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository создаёт PostgreSQL-реализацию CartRepository.
func NewCartRepository(store *Store) domain.CartRepository {
	return &cartRepository{db: store.DB()}
}

// Upsert полагается на уникальность (user_id, product_id): повторное добавление
// того же товара увеличивает количество существующей строки.
func (r *cartRepository) Upsert(line domain.CartLine) (domain.CartLine, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if line.ID == "" {
		line.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO cart_lines (id, user_id, product_id, qty, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$5)
		ON CONFLICT (user_id, product_id) DO UPDATE
		SET qty = cart_lines.qty + EXCLUDED.qty,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, qty, created_at, updated_at
	`, line.ID, line.UserID, line.ProductID, line.Qty, now).Scan(
		&line.ID, &line.Qty, &line.CreatedAt, &line.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.CartLine{}, domain.ErrProductNotFound
		}
		return domain.CartLine{}, fmt.Errorf("upsert cart line: %w", err)
	}
	return line, nil
}

func (r *cartRepository) UpdateQty(userID, productID string, qty int32) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_lines
		SET qty = $3, updated_at = $4
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID, qty, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update cart line qty: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCartLineNotFound
	}
	return nil
}

func (r *cartRepository) Remove(userID, productID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_lines
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrCartLineNotFound
	}
	return nil
}

// ListWithProducts присоединяет срез товара явным JOIN: чекаут запрашивает
// ровно те поля, которые ему нужны, без навигации по графу объектов.
func (r *cartRepository) ListWithProducts(userID string) ([]domain.CartLineView, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			cl.id, cl.user_id, cl.product_id, cl.qty, cl.created_at, cl.updated_at,
			p.id, p.name, p.description, p.price_minor, p.discounted_price_minor,
			p.brand, p.size, p.color, p.image_url, p.stock_quantity, p.is_active,
			p.category_id, p.created_at, p.updated_at
		FROM cart_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.user_id = $1
		ORDER BY cl.created_at ASC, cl.id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	views := make([]domain.CartLineView, 0)
	for rows.Next() {
		var (
			view       domain.CartLineView
			discounted sql.NullInt64
		)
		if err := rows.Scan(
			&view.Line.ID, &view.Line.UserID, &view.Line.ProductID, &view.Line.Qty,
			&view.Line.CreatedAt, &view.Line.UpdatedAt,
			&view.Product.ID, &view.Product.Name, &view.Product.Description,
			&view.Product.PriceMinor, &discounted, &view.Product.Brand,
			&view.Product.Size, &view.Product.Color, &view.Product.ImageURL,
			&view.Product.StockQuantity, &view.Product.IsActive,
			&view.Product.CategoryID, &view.Product.CreatedAt, &view.Product.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart line row: %w", err)
		}
		if discounted.Valid {
			v := discounted.Int64
			view.Product.DiscountedPriceMinor = &v
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart line rows: %w", err)
	}
	return views, nil
}

func (r *cartRepository) Clear(userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

var _ domain.CartRepository = (*cartRepository)(nil)
