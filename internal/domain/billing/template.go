package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// BillingTemplate is the versioned configuration aggregate for a set of
// charge rules, scoped to a customer, a set of customer groups, or a whole
// business domain.
type BillingTemplate struct {
	shared.BaseAggregateRoot
	TemplateCode     string
	TemplateName     string
	Description      string
	TemplateType     TemplateType
	BusinessDomain   string
	EffectiveDate    time.Time
	ExpireDate       *time.Time
	Status           TemplateStatus
	CustomerID       *uuid.UUID
	CustomerGroupIDs []uuid.UUID
	Rules            []TemplateRule
}

// NewBillingTemplate creates a template in DRAFT with validated scope,
// schedule and rule set.
func NewBillingTemplate(
	templateCode, templateName, businessDomain string,
	templateType TemplateType,
	effectiveDate time.Time,
	expireDate *time.Time,
	description string,
	customerID *uuid.UUID,
	customerGroupIDs []uuid.UUID,
	rules []TemplateRule,
) (*BillingTemplate, error) {
	template := &BillingTemplate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TemplateCode:      strings.TrimSpace(templateCode),
		TemplateName:      strings.TrimSpace(templateName),
		Description:       description,
		TemplateType:      templateType,
		BusinessDomain:    strings.TrimSpace(businessDomain),
		EffectiveDate:     effectiveDate,
		ExpireDate:        expireDate,
		Status:            TemplateStatusDraft,
		CustomerID:        customerID,
		CustomerGroupIDs:  dedupeGroupIDs(customerGroupIDs),
		Rules:             rules,
	}
	if err := template.validate(); err != nil {
		return nil, err
	}
	template.AddDomainEvent(NewTemplateCreatedEvent(template))
	return template, nil
}

func (t *BillingTemplate) validate() error {
	if t.TemplateCode == "" || t.TemplateName == "" || t.BusinessDomain == "" {
		return shared.NewDomainError("INVALID_TEMPLATE", "template_code, template_name and business_domain are required")
	}
	if err := validateTemplateType(t.TemplateType); err != nil {
		return err
	}
	if err := t.validateSchedule(); err != nil {
		return err
	}
	if err := t.validateScope(); err != nil {
		return err
	}
	return t.validateRules()
}

func (t *BillingTemplate) validateSchedule() error {
	if t.ExpireDate != nil && !t.ExpireDate.After(t.EffectiveDate) {
		return shared.NewDomainError("INVALID_TEMPLATE", "expire_date must be greater than effective_date")
	}
	return nil
}

// validateScope enforces mutual exclusion between the template type and its
// customer / group bindings.
func (t *BillingTemplate) validateScope() error {
	switch t.TemplateType {
	case TemplateTypeCustomer:
		if t.CustomerID == nil {
			return shared.NewDomainError("INVALID_TEMPLATE", "Customer template requires customer_id")
		}
		if len(t.CustomerGroupIDs) > 0 {
			return shared.NewDomainError("INVALID_TEMPLATE", "Customer template cannot set group ids")
		}
	case TemplateTypeGroup:
		if len(t.CustomerGroupIDs) == 0 {
			return shared.NewDomainError("INVALID_TEMPLATE", "Group template requires at least one group id")
		}
		t.CustomerID = nil
	case TemplateTypeGlobal:
		if t.CustomerID != nil || len(t.CustomerGroupIDs) > 0 {
			return shared.NewDomainError("INVALID_TEMPLATE", "Global template cannot bind customer info")
		}
	}
	return nil
}

func (t *BillingTemplate) validateRules() error {
	if len(t.Rules) == 0 {
		return shared.NewDomainError("INVALID_TEMPLATE", "Template must contain at least one rule")
	}
	return nil
}

// ReplaceRules swaps the rule set and bumps the version
func (t *BillingTemplate) ReplaceRules(rules []TemplateRule) error {
	if len(rules) == 0 {
		return shared.NewDomainError("INVALID_TEMPLATE", "Rules cannot be empty")
	}
	t.Rules = rules
	t.bumpVersion()
	return nil
}

// UpdateDetails changes the display name and description, bumping the version
func (t *BillingTemplate) UpdateDetails(templateName, description string) error {
	name := strings.TrimSpace(templateName)
	if name == "" {
		return shared.NewDomainError("INVALID_TEMPLATE", "template_name is required")
	}
	t.TemplateName = name
	t.Description = description
	t.bumpVersion()
	return nil
}

// Schedule changes the validity window, bumping the version
func (t *BillingTemplate) Schedule(effectiveDate time.Time, expireDate *time.Time) error {
	previousEffective, previousExpire := t.EffectiveDate, t.ExpireDate
	t.EffectiveDate = effectiveDate
	t.ExpireDate = expireDate
	if err := t.validateSchedule(); err != nil {
		t.EffectiveDate, t.ExpireDate = previousEffective, previousExpire
		return err
	}
	t.bumpVersion()
	return nil
}

// RebindScope replaces the customer / group bindings, keeping the template
// type fixed, and bumps the version.
func (t *BillingTemplate) RebindScope(customerID *uuid.UUID, customerGroupIDs []uuid.UUID) error {
	previousCustomer, previousGroups := t.CustomerID, t.CustomerGroupIDs
	t.CustomerID = customerID
	t.CustomerGroupIDs = dedupeGroupIDs(customerGroupIDs)
	if err := t.validateScope(); err != nil {
		t.CustomerID, t.CustomerGroupIDs = previousCustomer, previousGroups
		return err
	}
	t.bumpVersion()
	return nil
}

// ApplyUpdate replaces the template's mutable fields in one structural
// update. The whole candidate is validated before anything is applied and
// the version is bumped exactly once. Template code, type, business domain
// and status are fixed at creation and never change here.
func (t *BillingTemplate) ApplyUpdate(
	templateName, description string,
	effectiveDate time.Time,
	expireDate *time.Time,
	customerID *uuid.UUID,
	customerGroupIDs []uuid.UUID,
	rules []TemplateRule,
) error {
	candidate := *t
	candidate.TemplateName = strings.TrimSpace(templateName)
	candidate.Description = description
	candidate.EffectiveDate = effectiveDate
	candidate.ExpireDate = expireDate
	candidate.CustomerID = customerID
	candidate.CustomerGroupIDs = dedupeGroupIDs(customerGroupIDs)
	candidate.Rules = rules
	if err := candidate.validate(); err != nil {
		return err
	}
	t.TemplateName = candidate.TemplateName
	t.Description = candidate.Description
	t.EffectiveDate = candidate.EffectiveDate
	t.ExpireDate = candidate.ExpireDate
	t.CustomerID = candidate.CustomerID
	t.CustomerGroupIDs = candidate.CustomerGroupIDs
	t.Rules = candidate.Rules
	t.bumpVersion()
	return nil
}

// Activate transitions DRAFT -> ACTIVE. There is no path back to DRAFT.
func (t *BillingTemplate) Activate() error {
	if t.Status != TemplateStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft template can transition to active")
	}
	t.Status = TemplateStatusActive
	t.UpdatedAt = time.Now()
	t.AddDomainEvent(NewTemplateActivatedEvent(t))
	return nil
}

// Deactivate transitions ACTIVE -> INACTIVE. Inactive templates are never
// reactivated; a new template is created instead, keeping quote history
// auditable.
func (t *BillingTemplate) Deactivate() error {
	if t.Status != TemplateStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active template can be deactivated")
	}
	t.Status = TemplateStatusInactive
	t.UpdatedAt = time.Now()
	t.AddDomainEvent(NewTemplateDeactivatedEvent(t))
	return nil
}

// IsActive reports whether the template is in ACTIVE state
func (t *BillingTemplate) IsActive() bool {
	return t.Status == TemplateStatusActive
}

func (t *BillingTemplate) bumpVersion() {
	t.IncrementVersion()
	t.UpdatedAt = time.Now()
}

// CreateQuote derives an ACTIVE quote snapshot from this template. The
// explicit customer / group arguments narrow the scope target when the
// template covers more than one; they must be consistent with the template
// type.
func (t *BillingTemplate) CreateQuote(quoteCode string, customerID, customerGroupID *uuid.UUID) (*BillingQuote, error) {
	scope, resolvedCustomerID, resolvedGroupID, err := t.resolveScopeTarget(customerID, customerGroupID)
	if err != nil {
		return nil, err
	}
	quote := &BillingQuote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		QuoteCode:         quoteCode,
		TemplateID:        t.ID,
		TemplateVersion:   t.Version,
		ScopeType:         scope,
		ScopePriority:     ScopePriority(scope),
		CustomerID:        resolvedCustomerID,
		CustomerGroupID:   resolvedGroupID,
		BusinessDomain:    t.BusinessDomain,
		Status:            QuoteStatusActive,
		EffectiveDate:     t.EffectiveDate,
		ExpireDate:        t.ExpireDate,
		Payload:           t.SnapshotPayload(),
	}
	return quote, nil
}

func (t *BillingTemplate) resolveScopeTarget(customerID, customerGroupID *uuid.UUID) (QuoteScope, *uuid.UUID, *uuid.UUID, error) {
	switch t.TemplateType {
	case TemplateTypeCustomer:
		resolved := customerID
		if resolved == nil {
			resolved = t.CustomerID
		}
		if resolved == nil {
			return "", nil, nil, shared.NewDomainError("INVALID_QUOTE_SCOPE", "Customer quote requires customer_id")
		}
		return QuoteScopeCustomer, resolved, nil, nil
	case TemplateTypeGroup:
		resolved := customerGroupID
		if resolved == nil && len(t.CustomerGroupIDs) == 1 {
			resolved = &t.CustomerGroupIDs[0]
		}
		if resolved == nil || !t.coversGroup(*resolved) {
			return "", nil, nil, shared.NewDomainError("INVALID_QUOTE_SCOPE", "Group quote requires a valid customer_group_id")
		}
		return QuoteScopeGroup, nil, resolved, nil
	default:
		return QuoteScopeGlobal, nil, nil, nil
	}
}

func (t *BillingTemplate) coversGroup(groupID uuid.UUID) bool {
	for _, id := range t.CustomerGroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// SnapshotPayload serializes the full template and rule set so historic
// quotes stay interpretable after the template changes.
func (t *BillingTemplate) SnapshotPayload() QuotePayload {
	groupIDs := make([]uuid.UUID, len(t.CustomerGroupIDs))
	copy(groupIDs, t.CustomerGroupIDs)
	rules := make([]TemplateRule, len(t.Rules))
	copy(rules, t.Rules)
	return QuotePayload{
		Template: QuoteTemplatePayload{
			TemplateCode:     t.TemplateCode,
			TemplateName:     t.TemplateName,
			TemplateType:     t.TemplateType,
			BusinessDomain:   t.BusinessDomain,
			Description:      t.Description,
			EffectiveDate:    t.EffectiveDate,
			ExpireDate:       t.ExpireDate,
			Version:          t.Version,
			Status:           t.Status,
			CustomerID:       t.CustomerID,
			CustomerGroupIDs: groupIDs,
		},
		Rules: rules,
	}
}

func dedupeGroupIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	ordered := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	return ordered
}
