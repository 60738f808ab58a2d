package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/shared"
)

// BillingTemplateModel is the persistence model for the BillingTemplate
// aggregate. Rules are owned rows; the group binding is a jsonb array.
type BillingTemplateModel struct {
	AggregateModel
	TemplateCode     string                     `gorm:"type:varchar(64);not null;uniqueIndex"`
	TemplateName     string                     `gorm:"type:varchar(200);not null"`
	Description      string                     `gorm:"type:text"`
	TemplateType     billing.TemplateType       `gorm:"type:varchar(16);not null;index"`
	BusinessDomain   string                     `gorm:"type:varchar(64);not null;index"`
	Status           billing.TemplateStatus     `gorm:"type:varchar(16);not null;index"`
	EffectiveDate    time.Time                  `gorm:"not null"`
	ExpireDate       *time.Time                 ``
	CustomerID       *uuid.UUID                 `gorm:"type:uuid;index"`
	CustomerGroupIDs string                     `gorm:"type:jsonb"`
	Rules            []BillingTemplateRuleModel `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
	DeletedAt        gorm.DeletedAt             `gorm:"index"`
}

// TableName returns the table name for GORM
func (BillingTemplateModel) TableName() string {
	return "billing_templates"
}

// BillingTemplateRuleModel is one charge rule row of a template. Tiers are
// embedded as jsonb since they are only ever read through the rule.
type BillingTemplateRuleModel struct {
	ID          uuid.UUID           `gorm:"type:uuid;primary_key"`
	TemplateID  uuid.UUID           `gorm:"type:uuid;not null;index"`
	Position    int                 `gorm:"not null"`
	ChargeCode  string              `gorm:"type:varchar(64);not null"`
	ChargeName  string              `gorm:"type:varchar(200);not null"`
	Category    billing.RuleCategory `gorm:"type:varchar(32);not null"`
	Channel     billing.RuleChannel `gorm:"type:varchar(16);not null"`
	Unit        billing.RuleUnit    `gorm:"type:varchar(16);not null"`
	PricingMode billing.PricingMode `gorm:"type:varchar(16);not null"`
	Price       *string             `gorm:"type:decimal(18,4)"`
	Tiers       string              `gorm:"type:jsonb"`
	Description string              `gorm:"type:text"`
	SupportOnly bool                `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (BillingTemplateRuleModel) TableName() string {
	return "billing_template_rules"
}

// ToDomain converts the persistence model to a domain BillingTemplate
func (m *BillingTemplateModel) ToDomain() (*billing.BillingTemplate, error) {
	var groupIDs []uuid.UUID
	if m.CustomerGroupIDs != "" {
		if err := json.Unmarshal([]byte(m.CustomerGroupIDs), &groupIDs); err != nil {
			return nil, err
		}
	}

	rules := make([]billing.TemplateRule, len(m.Rules))
	for i, rm := range m.Rules {
		rule, err := rm.toDomain()
		if err != nil {
			return nil, err
		}
		rules[i] = rule
	}

	return &billing.BillingTemplate{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		TemplateCode:     m.TemplateCode,
		TemplateName:     m.TemplateName,
		Description:      m.Description,
		TemplateType:     m.TemplateType,
		BusinessDomain:   m.BusinessDomain,
		Status:           m.Status,
		EffectiveDate:    m.EffectiveDate,
		ExpireDate:       m.ExpireDate,
		CustomerID:       m.CustomerID,
		CustomerGroupIDs: groupIDs,
		Rules:            rules,
	}, nil
}

// FromDomain populates the persistence model from a domain BillingTemplate
func (m *BillingTemplateModel) FromDomain(t *billing.BillingTemplate) error {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.TemplateCode = t.TemplateCode
	m.TemplateName = t.TemplateName
	m.Description = t.Description
	m.TemplateType = t.TemplateType
	m.BusinessDomain = t.BusinessDomain
	m.Status = t.Status
	m.EffectiveDate = t.EffectiveDate
	m.ExpireDate = t.ExpireDate
	m.CustomerID = t.CustomerID

	groupIDs, err := json.Marshal(t.CustomerGroupIDs)
	if err != nil {
		return err
	}
	m.CustomerGroupIDs = string(groupIDs)

	m.Rules = make([]BillingTemplateRuleModel, len(t.Rules))
	for i, rule := range t.Rules {
		rm, err := ruleModelFromDomain(t.ID, i, rule)
		if err != nil {
			return err
		}
		m.Rules[i] = rm
	}
	return nil
}

// BillingTemplateModelFromDomain creates a persistence model from a domain template
func BillingTemplateModelFromDomain(t *billing.BillingTemplate) (*BillingTemplateModel, error) {
	m := &BillingTemplateModel{}
	if err := m.FromDomain(t); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *BillingTemplateRuleModel) toDomain() (billing.TemplateRule, error) {
	var tiers []billing.TemplateRuleTier
	if m.Tiers != "" {
		if err := json.Unmarshal([]byte(m.Tiers), &tiers); err != nil {
			return billing.TemplateRule{}, err
		}
	}
	rule := billing.TemplateRule{
		ChargeCode:  m.ChargeCode,
		ChargeName:  m.ChargeName,
		Category:    m.Category,
		Channel:     m.Channel,
		Unit:        m.Unit,
		PricingMode: m.PricingMode,
		Tiers:       tiers,
		Description: m.Description,
		SupportOnly: m.SupportOnly,
	}
	if m.Price != nil {
		price, err := decimal.NewFromString(*m.Price)
		if err != nil {
			return billing.TemplateRule{}, err
		}
		rule.Price = &price
	}
	return rule, nil
}

func ruleModelFromDomain(templateID uuid.UUID, position int, rule billing.TemplateRule) (BillingTemplateRuleModel, error) {
	tiers, err := json.Marshal(rule.Tiers)
	if err != nil {
		return BillingTemplateRuleModel{}, err
	}
	m := BillingTemplateRuleModel{
		ID:          uuid.New(),
		TemplateID:  templateID,
		Position:    position,
		ChargeCode:  rule.ChargeCode,
		ChargeName:  rule.ChargeName,
		Category:    rule.Category,
		Channel:     rule.Channel,
		Unit:        rule.Unit,
		PricingMode: rule.PricingMode,
		Tiers:       string(tiers),
		Description: rule.Description,
		SupportOnly: rule.SupportOnly,
	}
	if rule.Price != nil {
		price := rule.Price.String()
		m.Price = &price
	}
	return m, nil
}

// BillingQuoteModel is the persistence model for the BillingQuote aggregate.
// The payload column freezes the full template snapshot as jsonb.
type BillingQuoteModel struct {
	AggregateModel
	QuoteCode       string              `gorm:"type:varchar(128);not null;uniqueIndex"`
	TemplateID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	TemplateVersion int                 `gorm:"not null"`
	ScopeType       billing.QuoteScope  `gorm:"type:varchar(16);not null;index:idx_quote_scope"`
	ScopePriority   int                 `gorm:"not null"`
	CustomerID      *uuid.UUID          `gorm:"type:uuid;index:idx_quote_scope"`
	CustomerGroupID *uuid.UUID          `gorm:"type:uuid;index:idx_quote_scope"`
	BusinessDomain  string              `gorm:"type:varchar(64);not null;index:idx_quote_scope"`
	Status          billing.QuoteStatus `gorm:"type:varchar(16);not null;index"`
	EffectiveDate   time.Time           `gorm:"not null"`
	ExpireDate      *time.Time          ``
	Payload         string              `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (BillingQuoteModel) TableName() string {
	return "billing_quotes"
}

// ToDomain converts the persistence model to a domain BillingQuote
func (m *BillingQuoteModel) ToDomain() (*billing.BillingQuote, error) {
	var payload billing.QuotePayload
	if m.Payload != "" {
		if err := json.Unmarshal([]byte(m.Payload), &payload); err != nil {
			return nil, err
		}
	}
	return &billing.BillingQuote{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		QuoteCode:       m.QuoteCode,
		TemplateID:      m.TemplateID,
		TemplateVersion: m.TemplateVersion,
		ScopeType:       m.ScopeType,
		ScopePriority:   m.ScopePriority,
		CustomerID:      m.CustomerID,
		CustomerGroupID: m.CustomerGroupID,
		BusinessDomain:  m.BusinessDomain,
		Status:          m.Status,
		EffectiveDate:   m.EffectiveDate,
		ExpireDate:      m.ExpireDate,
		Payload:         payload,
	}, nil
}

// FromDomain populates the persistence model from a domain BillingQuote
func (m *BillingQuoteModel) FromDomain(q *billing.BillingQuote) error {
	m.FromDomainAggregateRoot(q.BaseAggregateRoot)
	m.QuoteCode = q.QuoteCode
	m.TemplateID = q.TemplateID
	m.TemplateVersion = q.TemplateVersion
	m.ScopeType = q.ScopeType
	m.ScopePriority = q.ScopePriority
	m.CustomerID = q.CustomerID
	m.CustomerGroupID = q.CustomerGroupID
	m.BusinessDomain = q.BusinessDomain
	m.Status = q.Status
	m.EffectiveDate = q.EffectiveDate
	m.ExpireDate = q.ExpireDate

	payload, err := json.Marshal(q.Payload)
	if err != nil {
		return err
	}
	m.Payload = string(payload)
	return nil
}

// BillingQuoteModelFromDomain creates a persistence model from a domain quote
func BillingQuoteModelFromDomain(q *billing.BillingQuote) (*BillingQuoteModel, error) {
	m := &BillingQuoteModel{}
	if err := m.FromDomain(q); err != nil {
		return nil, err
	}
	return m, nil
}
