package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// CustomerGroup is a named collection of customers within a business domain.
// A GROUP-scoped billing template targets one or more of these groups.
type CustomerGroup struct {
	shared.BaseAggregateRoot
	Name           string `gorm:"type:varchar(128);not null"`
	BusinessDomain string `gorm:"type:varchar(64);not null;index"`
	Description    string `gorm:"type:varchar(512)"`
	MaxMember      *int
}

// NewCustomerGroup creates a new customer group
func NewCustomerGroup(name, businessDomain string, maxMember *int) (*CustomerGroup, error) {
	name = strings.TrimSpace(name)
	businessDomain = strings.TrimSpace(businessDomain)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_GROUP", "Group name is required")
	}
	if businessDomain == "" {
		return nil, shared.NewDomainError("INVALID_GROUP", "Business domain is required")
	}
	if maxMember != nil && *maxMember <= 0 {
		return nil, shared.NewDomainError("INVALID_GROUP", "Max member limit must be positive")
	}
	return &CustomerGroup{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		BusinessDomain:    strings.ToUpper(businessDomain),
		MaxMember:         maxMember,
	}, nil
}

// Update changes the group's name and description
func (g *CustomerGroup) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_GROUP", "Group name is required")
	}
	g.Name = name
	g.Description = description
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
	return nil
}

// ValidateMemberCount fails when the candidate member set exceeds the limit
func (g *CustomerGroup) ValidateMemberCount(memberIDs []uuid.UUID) error {
	if g.MaxMember != nil && len(memberIDs) > *g.MaxMember {
		return shared.NewDomainError("INVALID_GROUP", "Exceeds max member limit")
	}
	return nil
}
