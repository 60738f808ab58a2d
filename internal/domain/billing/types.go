package billing

import (
	"strings"

	"github.com/wms/backend/internal/domain/shared"
)

// TemplateType represents the targeting scope of a billing template
type TemplateType string

const (
	TemplateTypeGlobal   TemplateType = "GLOBAL"
	TemplateTypeGroup    TemplateType = "GROUP"
	TemplateTypeCustomer TemplateType = "CUSTOMER"
)

// TemplateStatus represents the lifecycle state of a billing template
type TemplateStatus string

const (
	TemplateStatusDraft    TemplateStatus = "DRAFT"
	TemplateStatusActive   TemplateStatus = "ACTIVE"
	TemplateStatusInactive TemplateStatus = "INACTIVE"
)

// PricingMode represents how a rule is priced
type PricingMode string

const (
	PricingModeFlat   PricingMode = "FLAT"
	PricingModeTiered PricingMode = "TIERED"
)

// RuleCategory represents the charge category of a template rule
type RuleCategory string

const (
	CategoryStorage         RuleCategory = "STORAGE"
	CategoryInboundOutbound RuleCategory = "INBOUND_OUTBOUND"
	CategoryTransport       RuleCategory = "TRANSPORT"
	CategoryReturn          RuleCategory = "RETURN"
	CategoryMaterial        RuleCategory = "MATERIAL"
	CategoryManual          RuleCategory = "MANUAL"
)

// RuleChannel represents how a charge is captured
type RuleChannel string

const (
	ChannelAuto   RuleChannel = "AUTO"
	ChannelScan   RuleChannel = "SCAN"
	ChannelManual RuleChannel = "MANUAL"
)

// RuleUnit represents the billable unit of a rule
type RuleUnit string

const (
	UnitPiece    RuleUnit = "PIECE"
	UnitPallet   RuleUnit = "PALLET"
	UnitOrder    RuleUnit = "ORDER"
	UnitCBMDay   RuleUnit = "CBM_DAY"
	UnitCBMMonth RuleUnit = "CBM_MONTH"
	UnitKGDay    RuleUnit = "KG_DAY"
	UnitKGMonth  RuleUnit = "KG_MONTH"
)

// QuoteScope represents the targeting dimension of a quote
type QuoteScope string

const (
	QuoteScopeCustomer QuoteScope = "CUSTOMER"
	QuoteScopeGroup    QuoteScope = "GROUP"
	QuoteScopeGlobal   QuoteScope = "GLOBAL"
)

// QuoteStatus represents the lifecycle state of a quote
type QuoteStatus string

const (
	QuoteStatusActive   QuoteStatus = "ACTIVE"
	QuoteStatusInactive QuoteStatus = "INACTIVE"
)

// ScopePriority returns the fixed resolution priority of a quote scope.
// Higher values win the customer -> group -> global cascade.
func ScopePriority(scope QuoteScope) int {
	switch scope {
	case QuoteScopeCustomer:
		return 3
	case QuoteScopeGroup:
		return 2
	default:
		return 1
	}
}

// flatOnlyCategories permit only FLAT pricing
var flatOnlyCategories = map[RuleCategory]bool{
	CategoryInboundOutbound: true,
	CategoryReturn:          true,
	CategoryMaterial:        true,
}

// supportOnlyCategories carry no direct price; billing is handled out of band
var supportOnlyCategories = map[RuleCategory]bool{
	CategoryTransport: true,
	CategoryManual:    true,
}

func validateTemplateType(t TemplateType) error {
	switch t {
	case TemplateTypeGlobal, TemplateTypeGroup, TemplateTypeCustomer:
		return nil
	}
	return shared.NewDomainError("INVALID_TEMPLATE_TYPE", "Invalid template type: "+string(t))
}

func validateRuleCategory(c RuleCategory) error {
	switch c {
	case CategoryStorage, CategoryInboundOutbound, CategoryTransport, CategoryReturn, CategoryMaterial, CategoryManual:
		return nil
	}
	return shared.NewDomainError("INVALID_RULE_CATEGORY", "Invalid rule category: "+string(c))
}

func validateRuleChannel(c RuleChannel) error {
	switch c {
	case ChannelAuto, ChannelScan, ChannelManual:
		return nil
	}
	return shared.NewDomainError("INVALID_RULE_CHANNEL", "Invalid rule channel: "+string(c))
}

func validateRuleUnit(u RuleUnit) error {
	switch u {
	case UnitPiece, UnitPallet, UnitOrder, UnitCBMDay, UnitCBMMonth, UnitKGDay, UnitKGMonth:
		return nil
	}
	return shared.NewDomainError("INVALID_RULE_UNIT", "Invalid rule unit: "+string(u))
}

func validatePricingMode(m PricingMode) error {
	switch m {
	case PricingModeFlat, PricingModeTiered:
		return nil
	}
	return shared.NewDomainError("INVALID_PRICING_MODE", "Invalid pricing mode: "+string(m))
}

func validateQuoteStatus(s QuoteStatus) error {
	switch s {
	case QuoteStatusActive, QuoteStatusInactive:
		return nil
	}
	return shared.NewDomainError("INVALID_QUOTE_STATUS", "Invalid quote status: "+string(s))
}

// ParseQuoteStatus normalizes and validates a raw status filter value
func ParseQuoteStatus(s string) (QuoteStatus, error) {
	status := QuoteStatus(strings.ToUpper(strings.TrimSpace(s)))
	if err := validateQuoteStatus(status); err != nil {
		return "", err
	}
	return status, nil
}
