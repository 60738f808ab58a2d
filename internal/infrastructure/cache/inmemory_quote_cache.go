package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	appbilling "github.com/wms/backend/internal/application/billing"
	"github.com/wms/backend/internal/domain/billing"
)

// quoteEntry represents a cached quote resolution with expiration
type quoteEntry struct {
	quote     billing.BillingQuote
	expiresAt time.Time
}

// InMemoryQuoteCache caches resolved billing quotes in process memory.
// This is suitable for single-instance deployments and testing; distributed
// deployments should use RedisQuoteCache so invalidations reach every node.
type InMemoryQuoteCache struct {
	mu      sync.RWMutex
	entries map[string]quoteEntry
	ttl     time.Duration
}

// NewInMemoryQuoteCache creates a new in-memory quote cache
func NewInMemoryQuoteCache(ttl time.Duration) *InMemoryQuoteCache {
	return &InMemoryQuoteCache{
		entries: make(map[string]quoteEntry),
		ttl:     ttl,
	}
}

func quoteCacheKey(businessDomain string, customerID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", businessDomain, customerID)
}

// GetResolved returns the cached quote for the customer, if present
func (c *InMemoryQuoteCache) GetResolved(ctx context.Context, businessDomain string, customerID uuid.UUID) (*billing.BillingQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[quoteCacheKey(businessDomain, customerID)]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	quote := e.quote
	return &quote, true
}

// SetResolved stores the resolved quote for the customer with the configured TTL
func (c *InMemoryQuoteCache) SetResolved(ctx context.Context, businessDomain string, customerID uuid.UUID, quote *billing.BillingQuote) {
	if quote == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[quoteCacheKey(businessDomain, customerID)] = quoteEntry{
		quote:     *quote,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// InvalidateDomain removes every cached resolution for the business domain
func (c *InMemoryQuoteCache) InvalidateDomain(ctx context.Context, businessDomain string) {
	prefix := businessDomain + ":"
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemoryQuoteCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryQuoteCache implements the application port
var _ appbilling.QuoteCache = (*InMemoryQuoteCache)(nil)
