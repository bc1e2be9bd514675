package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Ключи кэша каталога.
const (
	// KeyProduct: catalog:product:{product_id} -> JSON товара
	KeyProduct = "catalog:product:%s"
	// KeyCategories: catalog:categories -> JSON списка активных категорий
	KeyCategories = "catalog:categories"
)

// TTL записей кэша.
var (
	TTLProduct    = 5 * time.Minute
	TTLCategories = 10 * time.Minute
)

const opTimeout = 2 * time.Second

// Cache — тонкая обёртка над Redis для cache-aside чтений каталога.
// Все методы best-effort: промах и ошибка Redis неразличимы для вызывающего,
// источником истины всегда остаётся хранилище.
type Cache struct {
	rdb    *redis.Client
	logger *log.Entry
}

// New создаёт клиент Redis по адресу и обёртку кэша над ним.
func New(addr string) *Cache {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return NewWithClient(rdb)
}

// NewWithClient создаёт обёртку кэша над готовым клиентом Redis.
func NewWithClient(rdb *redis.Client) *Cache {
	return &Cache{
		rdb:    rdb,
		logger: log.WithField("component", "cache"),
	}
}

// Ping проверяет доступность Redis.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return errors.New("cache is not configured")
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// GetJSON читает значение по ключу и декодирует его в dest.
// Возвращает false при промахе, ошибке Redis или битом значении.
func (c *Cache) GetJSON(key string, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).WithField("key", key).Warn("cache read failed")
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache value is corrupted, dropping")
		c.Delete(key)
		return false
	}
	return true
}

// SetJSON кодирует значение в JSON и сохраняет его с TTL.
func (c *Cache) SetJSON(key string, value interface{}, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache value marshal failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

// Delete удаляет ключи. Вызывается при любой мутации закэшированной сущности.
func (c *Cache) Delete(keys ...string) {
	if c == nil || c.rdb == nil || len(keys) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.WithError(err).WithField("keys", keys).Warn("cache invalidation failed")
	}
}

// Close закрывает подключение к Redis.
func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
