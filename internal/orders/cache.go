package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marketmesh/marketmesh/internal/config"
	"github.com/marketmesh/marketmesh/internal/logging"
	"github.com/marketmesh/marketmesh/internal/models"
)

const (
	orderKeyPrefix  = "order:"
	cartKeyPrefix   = "cart:"
	defaultCacheTTL = 5 * time.Minute
)

// RedisOrderCache implements OrderCache on Redis.
type RedisOrderCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewRedisOrderCache creates a Redis-backed order cache.
func NewRedisOrderCache(cfg config.RedisConfig, logger *logging.Logger) *RedisOrderCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	return &RedisOrderCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisOrderCache) get(ctx context.Context, key string) (*models.Order, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Cache get error", logging.Fields{"key": key, "error": err.Error()})
		return nil, err
	}

	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *RedisOrderCache) set(ctx context.Context, key string, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Error("Cache set error", logging.Fields{"key": key, "error": err.Error()})
		return err
	}
	return nil
}

// Get retrieves a cached order by id.
func (c *RedisOrderCache) Get(ctx context.Context, id string) (*models.Order, error) {
	return c.get(ctx, orderKeyPrefix+id)
}

// Set caches an order by id.
func (c *RedisOrderCache) Set(ctx context.Context, order *models.Order) error {
	return c.set(ctx, orderKeyPrefix+order.ID, order)
}

// Delete drops an order from the cache.
func (c *RedisOrderCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, orderKeyPrefix+id).Err()
}

// GetCart retrieves a customer's cached cart.
func (c *RedisOrderCache) GetCart(ctx context.Context, customerID string) (*models.Order, error) {
	return c.get(ctx, cartKeyPrefix+customerID)
}

// SetCart caches a customer's cart.
func (c *RedisOrderCache) SetCart(ctx context.Context, customerID string, order *models.Order) error {
	return c.set(ctx, cartKeyPrefix+customerID, order)
}

// DeleteCart drops a customer's cached cart.
func (c *RedisOrderCache) DeleteCart(ctx context.Context, customerID string) error {
	return c.client.Del(ctx, cartKeyPrefix+customerID).Err()
}
