package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// BillingQuote is a point-in-time pricing snapshot derived from a template.
// It is immutable after creation except for the ACTIVE -> INACTIVE
// transition; superseded quotes are replaced, never reactivated.
type BillingQuote struct {
	shared.BaseAggregateRoot
	QuoteCode       string
	TemplateID      uuid.UUID
	TemplateVersion int
	ScopeType       QuoteScope
	ScopePriority   int
	CustomerID      *uuid.UUID
	CustomerGroupID *uuid.UUID
	BusinessDomain  string
	Status          QuoteStatus
	EffectiveDate   time.Time
	ExpireDate      *time.Time
	Payload         QuotePayload
}

// QuotePayload is the JSON snapshot of the template and rules persisted with
// each quote.
type QuotePayload struct {
	Template QuoteTemplatePayload `json:"template"`
	Rules    []TemplateRule       `json:"rules"`
}

// QuoteTemplatePayload is the template portion of a quote snapshot
type QuoteTemplatePayload struct {
	TemplateCode     string         `json:"templateCode"`
	TemplateName     string         `json:"templateName"`
	TemplateType     TemplateType   `json:"templateType"`
	BusinessDomain   string         `json:"businessDomain"`
	Description      string         `json:"description,omitempty"`
	EffectiveDate    time.Time      `json:"effectiveDate"`
	ExpireDate       *time.Time     `json:"expireDate"`
	Version          int            `json:"version"`
	Status           TemplateStatus `json:"status"`
	CustomerID       *uuid.UUID     `json:"customerId"`
	CustomerGroupIDs []uuid.UUID    `json:"customerGroupIds"`
}

// MarkInactive transitions the quote to INACTIVE. Marking an inactive quote
// again is a no-op.
func (q *BillingQuote) MarkInactive() {
	if q.Status == QuoteStatusInactive {
		return
	}
	q.Status = QuoteStatusInactive
	q.UpdatedAt = time.Now()
}

// IsActive reports whether the quote is in ACTIVE state
func (q *BillingQuote) IsActive() bool {
	return q.Status == QuoteStatusActive
}

// IsEffectiveAt reports whether the quote's validity window covers the instant
func (q *BillingQuote) IsEffectiveAt(now time.Time) bool {
	if q.EffectiveDate.After(now) {
		return false
	}
	return q.ExpireDate == nil || q.ExpireDate.After(now)
}

// ScopeKey returns the scope identity the at-most-one-active invariant is
// enforced over.
func (q *BillingQuote) ScopeKey() ScopeKey {
	return ScopeKey{
		ScopeType:       q.ScopeType,
		BusinessDomain:  q.BusinessDomain,
		CustomerID:      q.CustomerID,
		CustomerGroupID: q.CustomerGroupID,
	}
}

// ScopeKey identifies the slot a quote occupies. Deactivation by scope key
// ignores the template id on purpose: a new template taking over a slot must
// supersede quotes of the previous template occupying it.
type ScopeKey struct {
	ScopeType       QuoteScope
	BusinessDomain  string
	CustomerID      *uuid.UUID
	CustomerGroupID *uuid.UUID
}
