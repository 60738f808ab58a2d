package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/billing"
)

func sampleQuote(t *testing.T, businessDomain string, customerID uuid.UUID) *billing.BillingQuote {
	t.Helper()
	template, err := billing.NewBillingTemplate(
		"STD", "Standard", businessDomain,
		billing.TemplateTypeCustomer,
		time.Now().Add(-time.Hour), nil, "",
		&customerID, nil,
		[]billing.TemplateRule{mustFlatRule(t)},
	)
	require.NoError(t, err)
	require.NoError(t, template.Activate())

	quote, err := template.CreateQuote("STD-CUSTOMER-ABC123", &customerID, nil)
	require.NoError(t, err)
	return quote
}

func mustFlatRule(t *testing.T) billing.TemplateRule {
	t.Helper()
	price := decimal.RequireFromString("2.50")
	rule, err := billing.NewTemplateRule(
		"STO-01", "Storage fee",
		billing.CategoryStorage, billing.ChannelAuto, billing.UnitPallet,
		billing.PricingModeFlat, &price, nil, "", false,
	)
	require.NoError(t, err)
	return rule
}

func TestInMemoryQuoteCache(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("miss on empty cache", func(t *testing.T) {
		c := NewInMemoryQuoteCache(time.Minute)
		_, ok := c.GetResolved(ctx, "WAREHOUSE", customerID)
		assert.False(t, ok)
	})

	t.Run("set then get round-trips the quote", func(t *testing.T) {
		c := NewInMemoryQuoteCache(time.Minute)
		quote := sampleQuote(t, "WAREHOUSE", customerID)

		c.SetResolved(ctx, "WAREHOUSE", customerID, quote)

		got, ok := c.GetResolved(ctx, "WAREHOUSE", customerID)
		require.True(t, ok)
		assert.Equal(t, quote.QuoteCode, got.QuoteCode)
		assert.Equal(t, quote.Payload, got.Payload)
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		c := NewInMemoryQuoteCache(-time.Second)
		c.SetResolved(ctx, "WAREHOUSE", customerID, sampleQuote(t, "WAREHOUSE", customerID))

		_, ok := c.GetResolved(ctx, "WAREHOUSE", customerID)
		assert.False(t, ok)
	})

	t.Run("invalidating a domain leaves other domains intact", func(t *testing.T) {
		c := NewInMemoryQuoteCache(time.Minute)
		otherCustomer := uuid.New()
		c.SetResolved(ctx, "WAREHOUSE", customerID, sampleQuote(t, "WAREHOUSE", customerID))
		c.SetResolved(ctx, "FREIGHT", otherCustomer, sampleQuote(t, "FREIGHT", otherCustomer))

		c.InvalidateDomain(ctx, "WAREHOUSE")

		_, ok := c.GetResolved(ctx, "WAREHOUSE", customerID)
		assert.False(t, ok)
		_, ok = c.GetResolved(ctx, "FREIGHT", otherCustomer)
		assert.True(t, ok)
		assert.Equal(t, 1, c.Size())
	})
}
