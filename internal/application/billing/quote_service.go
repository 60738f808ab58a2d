package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

// QuoteService reads quote snapshots and resolves the quote governing a
// customer. Quotes are never mutated here; their lifecycle belongs to the
// template orchestrator.
type QuoteService struct {
	quotes    billing.QuoteRepository
	customers partner.CustomerRepository
	cache     QuoteCache
	logger    *zap.Logger
	now       func() time.Time
}

// NewQuoteService creates a new QuoteService. cache may be nil.
func NewQuoteService(
	quotes billing.QuoteRepository,
	customers partner.CustomerRepository,
	cache QuoteCache,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quotes:    quotes,
		customers: customers,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// GetByID retrieves a quote the caller is allowed to see
func (s *QuoteService) GetByID(ctx context.Context, caller shared.CallerContext, quoteID uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quotes.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if err := caller.EnsureAccess(quote.BusinessDomain); err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// List retrieves quotes scoped to the caller's granted business domains
func (s *QuoteService) List(ctx context.Context, caller shared.CallerContext, filter QuoteListFilter) ([]QuoteResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	var status billing.QuoteStatus
	if filter.Status != "" {
		parsed, err := billing.ParseQuoteStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		status = parsed
	}

	quotes, total, err := s.quotes.Search(ctx, billing.QuoteSearchFilter{
		BusinessDomains: caller.AllowedDomains(),
		TemplateID:      filter.TemplateID,
		CustomerID:      filter.CustomerID,
		CustomerGroupID: filter.CustomerGroupID,
		Status:          status,
		Limit:           filter.PageSize,
		Offset:          (filter.Page - 1) * filter.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	return ToQuoteResponses(quotes), total, nil
}

// Resolve finds the quote governing the customer right now by walking the
// scope cascade: the customer's own quote first, then the quotes of the
// customer's groups in most-recently-assigned order, then the domain-wide
// global quote. The first effective hit wins; no hit is NOT_FOUND. The
// cascade and the access check are anchored on the customer's business
// domain, so an unknown customer is NOT_FOUND rather than a global hit.
func (s *QuoteService) Resolve(ctx context.Context, caller shared.CallerContext, req ResolveQuoteRequest) (*QuoteResponse, error) {
	customer, err := s.customers.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	businessDomain := customer.BusinessDomain
	if err := caller.EnsureAccess(businessDomain); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if quote, ok := s.cache.GetResolved(ctx, businessDomain, req.CustomerID); ok {
			response := ToQuoteResponse(quote)
			return &response, nil
		}
	}

	quote, err := s.resolve(ctx, businessDomain, req.CustomerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetResolved(ctx, businessDomain, req.CustomerID, quote)
	}
	s.logger.Debug("customer quote resolved",
		zap.String("customer_id", req.CustomerID.String()),
		zap.String("quote_code", quote.QuoteCode),
		zap.String("scope", string(quote.ScopeType)))

	response := ToQuoteResponse(quote)
	return &response, nil
}

func (s *QuoteService) resolve(ctx context.Context, businessDomain string, customerID uuid.UUID) (*billing.BillingQuote, error) {
	now := s.now()

	customerIDCopy := customerID
	quote, err := s.quotes.FindActive(ctx, billing.ActiveQuoteQuery{
		Scope:          billing.QuoteScopeCustomer,
		BusinessDomain: businessDomain,
		Now:            now,
		CustomerID:     &customerIDCopy,
	})
	if err == nil {
		return quote, nil
	}
	if !shared.IsDomainErrorCode(err, "NOT_FOUND") {
		return nil, err
	}

	memberships, err := s.customers.Memberships(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for _, membership := range memberships {
		groupID := membership.GroupID
		quote, err := s.quotes.FindActive(ctx, billing.ActiveQuoteQuery{
			Scope:           billing.QuoteScopeGroup,
			BusinessDomain:  businessDomain,
			Now:             now,
			CustomerGroupID: &groupID,
		})
		if err == nil {
			return quote, nil
		}
		if !shared.IsDomainErrorCode(err, "NOT_FOUND") {
			return nil, err
		}
	}

	quote, err = s.quotes.FindActive(ctx, billing.ActiveQuoteQuery{
		Scope:          billing.QuoteScopeGlobal,
		BusinessDomain: businessDomain,
		Now:            now,
	})
	if err == nil {
		return quote, nil
	}
	if shared.IsDomainErrorCode(err, "NOT_FOUND") {
		return nil, shared.NewDomainError("NOT_FOUND", "No effective billing quote covers this customer")
	}
	return nil, err
}
