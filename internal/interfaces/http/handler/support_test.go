package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withCaller returns middleware that injects an authenticated caller,
// standing in for the JWT middleware.
func withCaller(caller shared.CallerContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCallerContext(c, caller)
		c.Next()
	}
}

func testCaller(domains ...string) shared.CallerContext {
	return shared.NewCallerContext(uuid.New(), "test-operator", domains)
}

// In-memory repository fakes backing real application services, so handler
// tests exercise binding, routing, and error mapping end to end.

type memTemplateRepo struct {
	byID map[uuid.UUID]*billing.BillingTemplate
}

func newMemTemplateRepo() *memTemplateRepo {
	return &memTemplateRepo{byID: make(map[uuid.UUID]*billing.BillingTemplate)}
}

func copyTemplate(t *billing.BillingTemplate) *billing.BillingTemplate {
	cp := *t
	cp.CustomerGroupIDs = append([]uuid.UUID(nil), t.CustomerGroupIDs...)
	cp.Rules = append([]billing.TemplateRule(nil), t.Rules...)
	return &cp
}

func (r *memTemplateRepo) Add(ctx context.Context, template *billing.BillingTemplate) error {
	r.byID[template.ID] = copyTemplate(template)
	return nil
}

func (r *memTemplateRepo) Save(ctx context.Context, template *billing.BillingTemplate, expectedVersion int) error {
	stored, ok := r.byID[template.ID]
	if !ok {
		return shared.NewDomainError("NOT_FOUND", "Billing template not found")
	}
	if stored.Version != expectedVersion {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Billing template was modified by another request")
	}
	r.byID[template.ID] = copyTemplate(template)
	return nil
}

func (r *memTemplateRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingTemplate, error) {
	stored, ok := r.byID[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Billing template not found")
	}
	return copyTemplate(stored), nil
}

func (r *memTemplateRepo) FindByCode(ctx context.Context, code string) (*billing.BillingTemplate, error) {
	for _, stored := range r.byID {
		if stored.TemplateCode == code {
			return copyTemplate(stored), nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Billing template not found")
}

func (r *memTemplateRepo) GlobalExists(ctx context.Context, businessDomain string) (bool, error) {
	for _, stored := range r.byID {
		if stored.TemplateType == billing.TemplateTypeGlobal && stored.BusinessDomain == businessDomain {
			return true, nil
		}
	}
	return false, nil
}

func (r *memTemplateRepo) Search(ctx context.Context, filter billing.TemplateSearchFilter) ([]billing.BillingTemplate, int64, error) {
	var out []billing.BillingTemplate
	for _, stored := range r.byID {
		if !containsDomain(filter.BusinessDomains, stored.BusinessDomain) {
			continue
		}
		if filter.TemplateType != "" && stored.TemplateType != filter.TemplateType {
			continue
		}
		if filter.Status != "" && stored.Status != filter.Status {
			continue
		}
		if filter.Keyword != "" &&
			!strings.Contains(stored.TemplateCode, filter.Keyword) &&
			!strings.Contains(stored.TemplateName, filter.Keyword) {
			continue
		}
		out = append(out, *copyTemplate(stored))
	}
	return out, int64(len(out)), nil
}

func (r *memTemplateRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return shared.NewDomainError("NOT_FOUND", "Billing template not found")
	}
	delete(r.byID, id)
	return nil
}

func containsDomain(domains []string, domain string) bool {
	for _, d := range domains {
		if d == domain {
			return true
		}
	}
	return false
}

type memQuoteRepo struct {
	quotes []*billing.BillingQuote
}

func newMemQuoteRepo() *memQuoteRepo {
	return &memQuoteRepo{}
}

func copyQuote(q *billing.BillingQuote) *billing.BillingQuote {
	cp := *q
	return &cp
}

func (r *memQuoteRepo) AddAll(ctx context.Context, quotes []*billing.BillingQuote) error {
	for _, q := range quotes {
		r.quotes = append(r.quotes, copyQuote(q))
	}
	return nil
}

func (r *memQuoteRepo) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingQuote, error) {
	for _, q := range r.quotes {
		if q.ID == id {
			return copyQuote(q), nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Billing quote not found")
}

func (r *memQuoteRepo) Search(ctx context.Context, filter billing.QuoteSearchFilter) ([]billing.BillingQuote, int64, error) {
	var out []billing.BillingQuote
	for _, q := range r.quotes {
		if !containsDomain(filter.BusinessDomains, q.BusinessDomain) {
			continue
		}
		if filter.TemplateID != nil && q.TemplateID != *filter.TemplateID {
			continue
		}
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		out = append(out, *copyQuote(q))
	}
	return out, int64(len(out)), nil
}

func (r *memQuoteRepo) DeactivateScope(ctx context.Context, key billing.ScopeKey) error {
	for _, q := range r.quotes {
		stored := q.ScopeKey()
		if q.Status == billing.QuoteStatusActive &&
			stored.ScopeType == key.ScopeType &&
			stored.BusinessDomain == key.BusinessDomain &&
			uuidPtrEqual(stored.CustomerID, key.CustomerID) &&
			uuidPtrEqual(stored.CustomerGroupID, key.CustomerGroupID) {
			q.MarkInactive()
		}
	}
	return nil
}

func (r *memQuoteRepo) DeactivateByTemplate(ctx context.Context, templateID uuid.UUID) error {
	for _, q := range r.quotes {
		if q.Status == billing.QuoteStatusActive && q.TemplateID == templateID {
			q.MarkInactive()
		}
	}
	return nil
}

func (r *memQuoteRepo) FindActive(ctx context.Context, query billing.ActiveQuoteQuery) (*billing.BillingQuote, error) {
	for _, q := range r.quotes {
		if q.Status != billing.QuoteStatusActive || q.ScopeType != query.Scope || q.BusinessDomain != query.BusinessDomain {
			continue
		}
		if !q.IsEffectiveAt(query.Now) {
			continue
		}
		if query.CustomerID != nil && !uuidPtrEqual(q.CustomerID, query.CustomerID) {
			continue
		}
		if query.CustomerGroupID != nil && !uuidPtrEqual(q.CustomerGroupID, query.CustomerGroupID) {
			continue
		}
		return copyQuote(q), nil
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Billing quote not found")
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type memUnitOfWork struct {
	templates *memTemplateRepo
	quotes    *memQuoteRepo
}

func (u *memUnitOfWork) WithinTx(ctx context.Context, fn func(templates billing.TemplateRepository, quotes billing.QuoteRepository) error) error {
	return fn(u.templates, u.quotes)
}

type seqCodeGenerator struct {
	n int
}

func (g *seqCodeGenerator) URLSafeToken(length int) string {
	g.n++
	return fmt.Sprintf("TK%04d", g.n)
}

type memCustomerRepo struct {
	byID        map[uuid.UUID]*partner.Customer
	memberships map[uuid.UUID][]partner.GroupMembership
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{
		byID:        make(map[uuid.UUID]*partner.Customer),
		memberships: make(map[uuid.UUID][]partner.GroupMembership),
	}
}

func (r *memCustomerRepo) Save(ctx context.Context, customer *partner.Customer) error {
	cp := *customer
	r.byID[customer.ID] = &cp
	return nil
}

func (r *memCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	stored, ok := r.byID[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	cp := *stored
	return &cp, nil
}

func (r *memCustomerRepo) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
}

func (r *memCustomerRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func (r *memCustomerRepo) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, int64, error) {
	return nil, 0, nil
}

func (r *memCustomerRepo) SoftDelete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *memCustomerRepo) Memberships(ctx context.Context, customerID uuid.UUID) ([]partner.GroupMembership, error) {
	return r.memberships[customerID], nil
}

func (r *memCustomerRepo) AssignToGroup(ctx context.Context, membership partner.GroupMembership) error {
	r.memberships[membership.CustomerID] = append(r.memberships[membership.CustomerID], membership)
	return nil
}

func (r *memCustomerRepo) RemoveFromGroup(ctx context.Context, customerID, groupID uuid.UUID) error {
	kept := r.memberships[customerID][:0]
	for _, m := range r.memberships[customerID] {
		if m.GroupID != groupID {
			kept = append(kept, m)
		}
	}
	r.memberships[customerID] = kept
	return nil
}

type noopQuoteCache struct{}

func (noopQuoteCache) GetResolved(ctx context.Context, businessDomain string, customerID uuid.UUID) (*billing.BillingQuote, bool) {
	return nil, false
}

func (noopQuoteCache) SetResolved(ctx context.Context, businessDomain string, customerID uuid.UUID, quote *billing.BillingQuote) {
}

func (noopQuoteCache) InvalidateDomain(ctx context.Context, businessDomain string) {}
