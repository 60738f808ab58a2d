package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/billing"
)

// RuleTierInput is one price band of a tiered rule
type RuleTierInput struct {
	MinValue    decimal.Decimal  `json:"minValue" binding:"required"`
	MaxValue    *decimal.Decimal `json:"maxValue"`
	Price       decimal.Decimal  `json:"price" binding:"required"`
	Description string           `json:"description"`
}

// RuleInput is one charge rule of a template
type RuleInput struct {
	ChargeCode  string           `json:"chargeCode" binding:"required"`
	ChargeName  string           `json:"chargeName" binding:"required"`
	Category    string           `json:"category" binding:"required"`
	Channel     string           `json:"channel" binding:"required"`
	Unit        string           `json:"unit" binding:"required"`
	PricingMode string           `json:"pricingMode" binding:"required"`
	Price       *decimal.Decimal `json:"price"`
	Tiers       []RuleTierInput  `json:"tiers"`
	Description string           `json:"description"`
	SupportOnly bool             `json:"supportOnly"`
}

// CreateTemplateRequest creates a billing template. When Activate is set the
// template goes live immediately and quotes are generated in the same
// transaction.
type CreateTemplateRequest struct {
	TemplateCode     string      `json:"templateCode" binding:"required"`
	TemplateName     string      `json:"templateName" binding:"required"`
	TemplateType     string      `json:"templateType" binding:"required,oneof=GLOBAL GROUP CUSTOMER"`
	BusinessDomain   string      `json:"businessDomain"`
	Description      string      `json:"description"`
	EffectiveDate    time.Time   `json:"effectiveDate" binding:"required"`
	ExpireDate       *time.Time  `json:"expireDate"`
	CustomerID       *uuid.UUID  `json:"customerId"`
	CustomerGroupIDs []uuid.UUID `json:"customerGroupIds"`
	Rules            []RuleInput `json:"rules" binding:"required,min=1"`
	Activate         bool        `json:"activate"`
}

// UpdateTemplateRequest replaces a template's mutable fields. Version is the
// version the caller loaded; a mismatch rejects the update.
type UpdateTemplateRequest struct {
	Version          int         `json:"version" binding:"required,min=1"`
	TemplateName     string      `json:"templateName" binding:"required"`
	Description      string      `json:"description"`
	EffectiveDate    time.Time   `json:"effectiveDate" binding:"required"`
	ExpireDate       *time.Time  `json:"expireDate"`
	CustomerID       *uuid.UUID  `json:"customerId"`
	CustomerGroupIDs []uuid.UUID `json:"customerGroupIds"`
	Rules            []RuleInput `json:"rules" binding:"required,min=1"`
}

// ChangeTemplateStatusRequest moves a template along its lifecycle
type ChangeTemplateStatusRequest struct {
	Version int    `json:"version" binding:"required,min=1"`
	Status  string `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}

// TemplateListFilter narrows template listing
type TemplateListFilter struct {
	TemplateType    string     `form:"templateType"`
	BusinessDomain  string     `form:"businessDomain"`
	Status          string     `form:"status"`
	Keyword         string     `form:"keyword"`
	CustomerID      *uuid.UUID `form:"customerId"`
	CustomerGroupID *uuid.UUID `form:"customerGroupId"`
	Page            int        `form:"page"`
	PageSize        int        `form:"pageSize"`
}

// QuoteListFilter narrows quote listing
type QuoteListFilter struct {
	TemplateID      *uuid.UUID `form:"templateId"`
	CustomerID      *uuid.UUID `form:"customerId"`
	CustomerGroupID *uuid.UUID `form:"customerGroupId"`
	Status          string     `form:"status"`
	Page            int        `form:"page"`
	PageSize        int        `form:"pageSize"`
}

// ResolveQuoteRequest asks for the quote governing a customer right now.
// The cascade runs in the customer's own business domain.
type ResolveQuoteRequest struct {
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
}

// RuleTierResponse mirrors one price band in API responses
type RuleTierResponse struct {
	MinValue    decimal.Decimal  `json:"minValue"`
	MaxValue    *decimal.Decimal `json:"maxValue"`
	Price       decimal.Decimal  `json:"price"`
	Description string           `json:"description,omitempty"`
}

// RuleResponse mirrors one charge rule in API responses
type RuleResponse struct {
	ChargeCode  string             `json:"chargeCode"`
	ChargeName  string             `json:"chargeName"`
	Category    string             `json:"category"`
	Channel     string             `json:"channel"`
	Unit        string             `json:"unit"`
	PricingMode string             `json:"pricingMode"`
	Price       *decimal.Decimal   `json:"price"`
	Tiers       []RuleTierResponse `json:"tiers,omitempty"`
	Description string             `json:"description,omitempty"`
	SupportOnly bool               `json:"supportOnly"`
}

// TemplateResponse is the full template representation
type TemplateResponse struct {
	ID               uuid.UUID      `json:"id"`
	TemplateCode     string         `json:"templateCode"`
	TemplateName     string         `json:"templateName"`
	TemplateType     string         `json:"templateType"`
	BusinessDomain   string         `json:"businessDomain"`
	Description      string         `json:"description,omitempty"`
	Status           string         `json:"status"`
	Version          int            `json:"version"`
	EffectiveDate    time.Time      `json:"effectiveDate"`
	ExpireDate       *time.Time     `json:"expireDate"`
	CustomerID       *uuid.UUID     `json:"customerId"`
	CustomerGroupIDs []uuid.UUID    `json:"customerGroupIds"`
	Rules            []RuleResponse `json:"rules"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// QuoteResponse is the full quote representation including its frozen payload
type QuoteResponse struct {
	ID              uuid.UUID           `json:"id"`
	QuoteCode       string              `json:"quoteCode"`
	TemplateID      uuid.UUID           `json:"templateId"`
	TemplateVersion int                 `json:"templateVersion"`
	ScopeType       string              `json:"scopeType"`
	ScopePriority   int                 `json:"scopePriority"`
	BusinessDomain  string              `json:"businessDomain"`
	CustomerID      *uuid.UUID          `json:"customerId"`
	CustomerGroupID *uuid.UUID          `json:"customerGroupId"`
	Status          string              `json:"status"`
	EffectiveDate   time.Time           `json:"effectiveDate"`
	ExpireDate      *time.Time          `json:"expireDate"`
	Payload         billing.QuotePayload `json:"payload"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// ToTemplateResponse converts a template aggregate to its API representation
func ToTemplateResponse(t *billing.BillingTemplate) TemplateResponse {
	return TemplateResponse{
		ID:               t.ID,
		TemplateCode:     t.TemplateCode,
		TemplateName:     t.TemplateName,
		TemplateType:     string(t.TemplateType),
		BusinessDomain:   t.BusinessDomain,
		Description:      t.Description,
		Status:           string(t.Status),
		Version:          t.Version,
		EffectiveDate:    t.EffectiveDate,
		ExpireDate:       t.ExpireDate,
		CustomerID:       t.CustomerID,
		CustomerGroupIDs: t.CustomerGroupIDs,
		Rules:            toRuleResponses(t.Rules),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// ToTemplateResponses converts a template slice for list endpoints
func ToTemplateResponses(templates []billing.BillingTemplate) []TemplateResponse {
	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = ToTemplateResponse(&templates[i])
	}
	return responses
}

// ToQuoteResponse converts a quote aggregate to its API representation
func ToQuoteResponse(q *billing.BillingQuote) QuoteResponse {
	return QuoteResponse{
		ID:              q.ID,
		QuoteCode:       q.QuoteCode,
		TemplateID:      q.TemplateID,
		TemplateVersion: q.TemplateVersion,
		ScopeType:       string(q.ScopeType),
		ScopePriority:   q.ScopePriority,
		BusinessDomain:  q.BusinessDomain,
		CustomerID:      q.CustomerID,
		CustomerGroupID: q.CustomerGroupID,
		Status:          string(q.Status),
		EffectiveDate:   q.EffectiveDate,
		ExpireDate:      q.ExpireDate,
		Payload:         q.Payload,
		CreatedAt:       q.CreatedAt,
	}
}

// ToQuoteResponses converts a quote slice for list endpoints
func ToQuoteResponses(quotes []billing.BillingQuote) []QuoteResponse {
	responses := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		responses[i] = ToQuoteResponse(&quotes[i])
	}
	return responses
}

func toRuleResponses(rules []billing.TemplateRule) []RuleResponse {
	responses := make([]RuleResponse, len(rules))
	for i, r := range rules {
		tiers := make([]RuleTierResponse, len(r.Tiers))
		for j, tier := range r.Tiers {
			tiers[j] = RuleTierResponse{
				MinValue:    tier.MinValue,
				MaxValue:    tier.MaxValue,
				Price:       tier.Price,
				Description: tier.Description,
			}
		}
		if len(tiers) == 0 {
			tiers = nil
		}
		responses[i] = RuleResponse{
			ChargeCode:  r.ChargeCode,
			ChargeName:  r.ChargeName,
			Category:    string(r.Category),
			Channel:     string(r.Channel),
			Unit:        string(r.Unit),
			PricingMode: string(r.PricingMode),
			Price:       r.Price,
			Tiers:       tiers,
			Description: r.Description,
			SupportOnly: r.SupportOnly,
		}
	}
	return responses
}

// buildRules converts rule inputs to validated domain rules
func buildRules(inputs []RuleInput) ([]billing.TemplateRule, error) {
	rules := make([]billing.TemplateRule, 0, len(inputs))
	for _, in := range inputs {
		tiers := make([]billing.TemplateRuleTier, 0, len(in.Tiers))
		for _, t := range in.Tiers {
			tier, err := billing.NewTemplateRuleTier(t.MinValue, t.MaxValue, t.Price, t.Description)
			if err != nil {
				return nil, err
			}
			tiers = append(tiers, tier)
		}
		rule, err := billing.NewTemplateRule(
			in.ChargeCode,
			in.ChargeName,
			billing.RuleCategory(in.Category),
			billing.RuleChannel(in.Channel),
			billing.RuleUnit(in.Unit),
			billing.PricingMode(in.PricingMode),
			in.Price,
			tiers,
			in.Description,
			in.SupportOnly,
		)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
