package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
	"github.com/vladislavdragonenkov/storefront/internal/storage/postgres"
)

// repositories собирает все интерфейсы хранилища за одним фасадом,
// чтобы остальной app-код не знал, какой драйвер выбран.
type repositories struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	carts      domain.CartRepository
	orders     domain.OrderRepository
	users      domain.UserRepository
	outbox     domain.OutboxRepository
	checkout   domain.CheckoutStore

	ping  func(ctx context.Context) error
	close func() error
}

// initStorage выбирает и инициализирует хранилище по конфигурации.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*repositories, error) {
	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		logger.Info("using in-memory storage")
		store := memory.NewStore()
		return &repositories{
			products:   memory.NewProductRepository(store),
			categories: memory.NewCategoryRepository(store),
			carts:      memory.NewCartRepository(store),
			orders:     memory.NewOrderRepository(store),
			users:      memory.NewUserRepository(store),
			outbox:     memory.NewOutboxRepository(store),
			checkout:   memory.NewCheckoutStore(store),
			ping:       func(context.Context) error { return nil },
			close:      func() error { return nil },
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres storage requires STOREFRONT_POSTGRES_DSN")
		}

		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}

		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("postgres migrations applied")
		}

		logger.Info("using postgres storage")
		return &repositories{
			products:   postgres.NewProductRepository(store),
			categories: postgres.NewCategoryRepository(store),
			carts:      postgres.NewCartRepository(store),
			orders:     postgres.NewOrderRepository(store),
			users:      postgres.NewUserRepository(store),
			outbox:     postgres.NewOutboxRepository(store),
			checkout:   postgres.NewCheckoutStore(store),
			ping:       store.Ping,
			close:      store.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
