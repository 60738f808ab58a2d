package billing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// TemplateRuleTier is one price band of a tiered rule. The range is
// [MinValue, MaxValue); a nil MaxValue marks the unbounded last band.
type TemplateRuleTier struct {
	MinValue    decimal.Decimal  `json:"minValue"`
	MaxValue    *decimal.Decimal `json:"maxValue"`
	Price       decimal.Decimal  `json:"price"`
	Description string           `json:"description,omitempty"`
}

// NewTemplateRuleTier creates a validated price band
func NewTemplateRuleTier(minValue decimal.Decimal, maxValue *decimal.Decimal, price decimal.Decimal, description string) (TemplateRuleTier, error) {
	if minValue.IsNegative() {
		return TemplateRuleTier{}, shared.NewDomainError("INVALID_TIER", "Tier min_value must be non-negative")
	}
	if price.IsNegative() {
		return TemplateRuleTier{}, shared.NewDomainError("INVALID_TIER", "Tier price must be non-negative")
	}
	if maxValue != nil && maxValue.LessThanOrEqual(minValue) {
		return TemplateRuleTier{}, shared.NewDomainError("INVALID_TIER", "Tier max_value must be greater than min_value")
	}
	return TemplateRuleTier{
		MinValue:    minValue,
		MaxValue:    maxValue,
		Price:       price,
		Description: description,
	}, nil
}

// Contains reports whether the quantity falls inside this band
func (t TemplateRuleTier) Contains(quantity decimal.Decimal) bool {
	if quantity.LessThan(t.MinValue) {
		return false
	}
	if t.MaxValue == nil {
		return true
	}
	return quantity.LessThan(*t.MaxValue)
}

// TemplateRule is one chargeable line item within a billing template.
// It is owned exclusively by its parent template and never shared.
type TemplateRule struct {
	ChargeCode  string             `json:"chargeCode"`
	ChargeName  string             `json:"chargeName"`
	Category    RuleCategory       `json:"category"`
	Channel     RuleChannel        `json:"channel"`
	Unit        RuleUnit           `json:"unit"`
	PricingMode PricingMode        `json:"pricingMode"`
	Price       *decimal.Decimal   `json:"price"`
	Tiers       []TemplateRuleTier `json:"tiers"`
	Description string             `json:"description,omitempty"`
	SupportOnly bool               `json:"supportOnly"`
}

// NewTemplateRule creates a validated charge rule. Tiers are sorted by
// min_value and re-assigned in validated order.
func NewTemplateRule(
	chargeCode, chargeName string,
	category RuleCategory,
	channel RuleChannel,
	unit RuleUnit,
	pricingMode PricingMode,
	price *decimal.Decimal,
	tiers []TemplateRuleTier,
	description string,
	supportOnly bool,
) (TemplateRule, error) {
	rule := TemplateRule{
		ChargeCode:  strings.TrimSpace(chargeCode),
		ChargeName:  strings.TrimSpace(chargeName),
		Category:    category,
		Channel:     channel,
		Unit:        unit,
		PricingMode: pricingMode,
		Price:       price,
		Tiers:       tiers,
		Description: description,
		SupportOnly: supportOnly,
	}
	if err := rule.validate(); err != nil {
		return TemplateRule{}, err
	}
	return rule, nil
}

func (r *TemplateRule) validate() error {
	if r.ChargeCode == "" || r.ChargeName == "" {
		return shared.NewDomainError("INVALID_RULE", "charge_code and charge_name are required")
	}
	if err := validateRuleCategory(r.Category); err != nil {
		return err
	}
	if err := validateRuleChannel(r.Channel); err != nil {
		return err
	}
	if err := validateRuleUnit(r.Unit); err != nil {
		return err
	}
	if err := validatePricingMode(r.PricingMode); err != nil {
		return err
	}
	if r.Price != nil && r.Price.IsNegative() {
		return shared.NewDomainError("INVALID_RULE", "Rule price must be non-negative")
	}
	if flatOnlyCategories[r.Category] && r.PricingMode != PricingModeFlat {
		return shared.NewDomainError("INVALID_RULE", string(r.Category)+" only supports FLAT pricing")
	}
	if supportOnlyCategories[r.Category] {
		if !r.SupportOnly {
			return shared.NewDomainError("INVALID_RULE", string(r.Category)+" rules must mark support_only")
		}
		if r.Price != nil {
			return shared.NewDomainError("INVALID_RULE", string(r.Category)+" rules cannot carry price")
		}
		if len(r.Tiers) > 0 {
			return shared.NewDomainError("INVALID_RULE", string(r.Category)+" rules cannot have tiers")
		}
		return nil
	}
	switch r.PricingMode {
	case PricingModeFlat:
		if r.Price == nil {
			return shared.NewDomainError("INVALID_RULE", "Flat pricing requires price value")
		}
		if len(r.Tiers) > 0 {
			return shared.NewDomainError("INVALID_RULE", "Flat pricing cannot define tiers")
		}
	case PricingModeTiered:
		if len(r.Tiers) == 0 {
			return shared.NewDomainError("INVALID_RULE", "Tiered pricing requires tier definitions")
		}
		if r.Price != nil {
			return shared.NewDomainError("INVALID_RULE", "Tiered pricing cannot include price field")
		}
		return r.validateTiers()
	}
	return nil
}

// validateTiers sorts the bands by min_value and checks that ranges do not
// overlap and that only the last band may be unbounded.
func (r *TemplateRule) validateTiers() error {
	tiers := make([]TemplateRuleTier, len(r.Tiers))
	copy(tiers, r.Tiers)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].MinValue.LessThan(tiers[j].MinValue)
	})
	var lastMax *decimal.Decimal
	for idx, tier := range tiers {
		if idx > 0 && lastMax == nil {
			return shared.NewDomainError("INVALID_TIER", "Unbounded tier must be last entry")
		}
		if idx > 0 && lastMax != nil && tier.MinValue.LessThan(*lastMax) {
			return shared.NewDomainError("INVALID_TIER", "Tier ranges cannot overlap")
		}
		lastMax = tier.MaxValue
	}
	r.Tiers = tiers
	return nil
}

// PriceFor resolves the unit price for a quantity. For FLAT rules it is the
// flat price; for TIERED rules the band containing the quantity wins.
// Support-only rules have no direct price.
func (r TemplateRule) PriceFor(quantity decimal.Decimal) (*decimal.Decimal, error) {
	if r.SupportOnly {
		return nil, shared.NewDomainError("INVALID_RULE", "Support-only rules carry no direct price")
	}
	if r.PricingMode == PricingModeFlat {
		price := *r.Price
		return &price, nil
	}
	for _, tier := range r.Tiers {
		if tier.Contains(quantity) {
			price := tier.Price
			return &price, nil
		}
	}
	return nil, shared.NewDomainError("INVALID_TIER", "No tier covers the requested quantity")
}
