package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// checkoutTimeout ограничивает всю транзакцию коммита, включая ожидание
// блокировок строк товара: вместо дедлока операция завершится ошибкой запроса.
const checkoutTimeout = 10 * time.Second

type checkoutStore struct {
	db *sql.DB
}

// NewCheckoutStore создаёт PostgreSQL-реализацию CheckoutStore.
func NewCheckoutStore(store *Store) domain.CheckoutStore {
	return &checkoutStore{db: store.DB()}
}

// Commit выполняет весь коммит чекаута в одной SQL-транзакции: вставка заказа
// и позиций, условное списание остатков, очистка корзины и запись события в
// outbox. Проверка и списание остатка — один UPDATE с предикатом
// stock_quantity >= qty: строка товара блокируется до конца транзакции, поэтому
// конкурентные чекауты сериализуются и не могут совместно увести остаток ниже нуля.
func (c *checkoutStore) Commit(order domain.Order, event domain.OutboxMessage) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), checkoutTimeout)
	defer cancel()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checkout tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, order_number, status, total_amount_minor,
			shipping_address, phone_number, notes, order_date,
			shipped_date, delivered_date, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULL,NULL,$10,$11)
	`,
		order.ID, order.UserID, order.OrderNumber, string(order.Status),
		order.TotalAmountMinor, order.ShippingAddress, order.PhoneNumber,
		order.Notes, order.OrderDate, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && constraintName(err) != "orders_pkey" {
			return domain.ErrOrderNumberTaken
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, qty, unit_price_minor, total_price_minor, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			item.ID, order.ID, item.ProductID, item.Qty,
			item.UnitPriceMinor, item.TotalPriceMinor, item.CreatedAt,
		); err != nil {
			// FK на products: позиция ссылается на несуществующий товар.
			if isForeignKeyViolation(err) {
				err = domain.ErrProductNotFound
				return err
			}
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	// Списываем в стабильном порядке по product_id, чтобы два конкурентных
	// чекаута с пересекающимися корзинами не захватывали блокировки навстречу.
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	now := time.Now().UTC()
	var shortages []domain.StockShortage
	for _, item := range items {
		res, execErr := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - $2, updated_at = $3
			WHERE id = $1 AND stock_quantity >= $2
		`, item.ProductID, item.Qty, now)
		if execErr != nil {
			err = fmt.Errorf("decrement stock: %w", execErr)
			return err
		}
		affected, raErr := res.RowsAffected()
		if raErr != nil {
			err = fmt.Errorf("rows affected: %w", raErr)
			return err
		}
		if affected == 1 {
			continue
		}

		// Остатка не хватило: собираем детали для отказа. Пропавшая строка
		// товара — не недостача, а та же ошибка, что и в памяти.
		var available int32
		scanErr := tx.QueryRowContext(ctx,
			`SELECT stock_quantity FROM products WHERE id = $1`, item.ProductID,
		).Scan(&available)
		if scanErr == sql.ErrNoRows {
			err = domain.ErrProductNotFound
			return err
		}
		if scanErr != nil {
			err = fmt.Errorf("read stock for shortage report: %w", scanErr)
			return err
		}
		shortages = append(shortages, domain.StockShortage{
			ProductID: item.ProductID,
			Requested: item.Qty,
			Available: available,
		})
	}
	if len(shortages) > 0 {
		err = &domain.InsufficientStockError{Shortages: shortages}
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM cart_lines WHERE user_id = $1`, order.UserID,
	); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO outbox_messages (
			id, aggregate_type, aggregate_id, event_type, payload,
			status, attempt_count, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,'pending',0,$6,$7)
	`,
		event.ID, event.AggregateType, event.AggregateID, event.EventType,
		event.Payload, now, now,
	); err != nil {
		return fmt.Errorf("enqueue checkout event: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit checkout tx: %w", err)
	}
	return nil
}

var _ domain.CheckoutStore = (*checkoutStore)(nil)
