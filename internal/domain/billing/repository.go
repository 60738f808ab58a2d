package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TemplateSearchFilter narrows template listing queries. BusinessDomains is
// the caller's granted domain set; an empty set yields no rows.
type TemplateSearchFilter struct {
	TemplateType    TemplateType
	BusinessDomains []string
	Keyword         string
	Status          TemplateStatus
	CustomerID      *uuid.UUID
	CustomerGroupID *uuid.UUID
	Limit           int
	Offset          int
}

// QuoteSearchFilter narrows quote listing queries
type QuoteSearchFilter struct {
	BusinessDomains []string
	TemplateID      *uuid.UUID
	CustomerID      *uuid.UUID
	CustomerGroupID *uuid.UUID
	Status          QuoteStatus
	Limit           int
	Offset          int
}

// ActiveQuoteQuery selects the single effective quote for one cascade step
type ActiveQuoteQuery struct {
	Scope           QuoteScope
	BusinessDomain  string
	Now             time.Time
	CustomerID      *uuid.UUID
	CustomerGroupID *uuid.UUID
}

// TemplateRepository persists billing templates and their owned rules
type TemplateRepository interface {
	Add(ctx context.Context, template *BillingTemplate) error
	// Save persists the aggregate checking the version it was loaded with;
	// a stale version yields a CONCURRENCY_CONFLICT domain error.
	Save(ctx context.Context, template *BillingTemplate, expectedVersion int) error
	FindByID(ctx context.Context, id uuid.UUID) (*BillingTemplate, error)
	FindByCode(ctx context.Context, code string) (*BillingTemplate, error)
	// GlobalExists reports whether a live GLOBAL template exists for the domain
	GlobalExists(ctx context.Context, businessDomain string) (bool, error)
	Search(ctx context.Context, filter TemplateSearchFilter) ([]BillingTemplate, int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// QuoteRepository persists quote snapshots
type QuoteRepository interface {
	AddAll(ctx context.Context, quotes []*BillingQuote) error
	FindByID(ctx context.Context, id uuid.UUID) (*BillingQuote, error)
	Search(ctx context.Context, filter QuoteSearchFilter) ([]BillingQuote, int64, error)
	// DeactivateScope marks every ACTIVE quote matching the exact scope key
	// INACTIVE, regardless of which template produced it.
	DeactivateScope(ctx context.Context, key ScopeKey) error
	// DeactivateByTemplate marks every ACTIVE quote of the template INACTIVE
	DeactivateByTemplate(ctx context.Context, templateID uuid.UUID) error
	// FindActive returns the effective quote for one cascade step, or
	// NOT_FOUND when the slot is empty.
	FindActive(ctx context.Context, query ActiveQuoteQuery) (*BillingQuote, error)
}

// UnitOfWork runs a function against transaction-bound repositories. The
// check-then-act sequences of the lifecycle orchestrator (global singleton
// check, scope deactivation + insert) must run inside one transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(templates TemplateRepository, quotes QuoteRepository) error) error
}
