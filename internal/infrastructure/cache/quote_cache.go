package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appbilling "github.com/wms/backend/internal/application/billing"
	"github.com/wms/backend/internal/domain/billing"
)

// RedisQuoteCache caches resolved billing quotes in Redis, keyed by business
// domain and customer. All operations are best effort: a Redis failure is
// logged and treated as a miss so quote resolution always has the repository
// to fall back on.
type RedisQuoteCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisQuoteCache creates a quote cache backed by an existing Redis client
func NewRedisQuoteCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisQuoteCache {
	return &RedisQuoteCache{
		client:    client,
		keyPrefix: "billing:quote:resolved:",
		ttl:       ttl,
		logger:    logger,
	}
}

func (c *RedisQuoteCache) key(businessDomain string, customerID uuid.UUID) string {
	return fmt.Sprintf("%s%s:%s", c.keyPrefix, businessDomain, customerID)
}

// GetResolved returns the cached quote for the customer, if present
func (c *RedisQuoteCache) GetResolved(ctx context.Context, businessDomain string, customerID uuid.UUID) (*billing.BillingQuote, bool) {
	data, err := c.client.Get(ctx, c.key(businessDomain, customerID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("quote cache read failed",
				zap.String("business_domain", businessDomain),
				zap.String("customer_id", customerID.String()),
				zap.Error(err))
		}
		return nil, false
	}

	var quote billing.BillingQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		c.logger.Warn("quote cache entry is corrupt, dropping it",
			zap.String("business_domain", businessDomain),
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
		c.client.Del(ctx, c.key(businessDomain, customerID))
		return nil, false
	}
	return &quote, true
}

// SetResolved stores the resolved quote for the customer with the configured TTL
func (c *RedisQuoteCache) SetResolved(ctx context.Context, businessDomain string, customerID uuid.UUID, quote *billing.BillingQuote) {
	data, err := json.Marshal(quote)
	if err != nil {
		c.logger.Warn("failed to serialize quote for cache", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(businessDomain, customerID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("quote cache write failed",
			zap.String("business_domain", businessDomain),
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
	}
}

// InvalidateDomain removes every cached resolution for the business domain.
// Group and global quotes can govern any customer in the domain, so a
// template change has to clear the whole domain rather than single entries.
func (c *RedisQuoteCache) InvalidateDomain(ctx context.Context, businessDomain string) {
	pattern := c.keyPrefix + businessDomain + ":*"
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.logger.Warn("quote cache invalidation scan failed",
				zap.String("business_domain", businessDomain),
				zap.Error(err))
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn("quote cache invalidation delete failed",
					zap.String("business_domain", businessDomain),
					zap.Error(err))
				return
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}

// Ensure RedisQuoteCache implements the application port
var _ appbilling.QuoteCache = (*RedisQuoteCache)(nil)
