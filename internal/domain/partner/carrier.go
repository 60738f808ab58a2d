package partner

import (
	"strings"
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// CarrierStatus represents the status of a carrier
type CarrierStatus string

const (
	CarrierStatusActive   CarrierStatus = "ACTIVE"
	CarrierStatusInactive CarrierStatus = "INACTIVE"
)

// Carrier represents a transport carrier serving a business domain
type Carrier struct {
	shared.BaseAggregateRoot
	Code           string        `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name           string        `gorm:"type:varchar(200);not null"`
	BusinessDomain string        `gorm:"type:varchar(64);not null;index"`
	ContactName    string        `gorm:"type:varchar(100)"`
	Phone          string        `gorm:"type:varchar(50)"`
	Status         CarrierStatus `gorm:"type:varchar(16);not null;default:'ACTIVE'"`
}

// NewCarrier creates a new carrier
func NewCarrier(code, name, businessDomain string) (*Carrier, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	businessDomain = strings.TrimSpace(businessDomain)
	if code == "" || name == "" {
		return nil, shared.NewDomainError("INVALID_CARRIER", "Carrier code and name are required")
	}
	if businessDomain == "" {
		return nil, shared.NewDomainError("INVALID_CARRIER", "Business domain is required")
	}
	return &Carrier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		BusinessDomain:    strings.ToUpper(businessDomain),
		Status:            CarrierStatusActive,
	}, nil
}

// Update changes the carrier's name and contact information
func (c *Carrier) Update(name, contactName, phone string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CARRIER", "Carrier name is required")
	}
	c.Name = name
	c.ContactName = contactName
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Deactivate marks the carrier inactive
func (c *Carrier) Deactivate() error {
	if c.Status != CarrierStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Carrier is not active")
	}
	c.Status = CarrierStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
