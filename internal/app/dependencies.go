package app

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/cache"
	"github.com/vladislavdragonenkov/storefront/internal/service/auth"
	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
)

// Dependencies содержит сервисы приложения, собранные поверх хранилища.
type Dependencies struct {
	Auth     *auth.Service
	Catalog  *catalog.Service
	Cart     *cart.Service
	Checkout *checkout.Engine
	Cache    *cache.Cache
	Logger   *log.Entry
}

// NewDependencies собирает сервисы по конфигурации. Redis необязателен:
// без него каталог читает напрямую из хранилища.
func NewDependencies(cfg Config, repos *repositories, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	var catalogCache *cache.Cache
	if cfg.RedisAddr != "" {
		catalogCache = cache.New(cfg.RedisAddr)
		logger.WithField("addr", cfg.RedisAddr).Info("redis catalog cache enabled")
	}

	authSvc, err := auth.NewService(repos.users, cfg.JWTSecret, cfg.TokenTTL, logger.WithField("component", "auth"))
	if err != nil {
		return nil, fmt.Errorf("init auth service: %w", err)
	}

	return &Dependencies{
		Auth:     authSvc,
		Catalog:  catalog.NewService(repos.products, repos.categories, catalogCache, logger.WithField("component", "catalog")),
		Cart:     cart.NewService(repos.carts, repos.products, logger.WithField("component", "cart")),
		Checkout: checkout.NewEngine(repos.carts, repos.orders, repos.checkout, repos.outbox, logger.WithField("component", "checkout")),
		Cache:    catalogCache,
		Logger:   logger,
	}, nil
}
