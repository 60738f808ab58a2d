package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/billing"
)

// CodeGenerator produces the random suffix embedded in quote codes
type CodeGenerator interface {
	URLSafeToken(length int) string
}

// QuoteCache is a read-through cache for resolved customer quotes. Lookups
// are best effort: a miss or a cache failure falls back to the repository.
// Writes that regenerate quotes invalidate the whole business domain because
// group and global quotes can govern any number of customers.
type QuoteCache interface {
	GetResolved(ctx context.Context, businessDomain string, customerID uuid.UUID) (*billing.BillingQuote, bool)
	SetResolved(ctx context.Context, businessDomain string, customerID uuid.UUID, quote *billing.BillingQuote)
	InvalidateDomain(ctx context.Context, businessDomain string)
}
