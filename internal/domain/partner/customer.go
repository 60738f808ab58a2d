package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "ACTIVE"
	CustomerStatusInactive CustomerStatus = "INACTIVE"
)

// CustomerSource identifies where a customer record originated
type CustomerSource string

const (
	CustomerSourceInternal CustomerSource = "INTERNAL"
	CustomerSourceExternal CustomerSource = "EXTERNAL"
)

// Customer represents a warehousing customer. It is the aggregate root for
// customer-related operations and carries the business domain the billing
// core partitions access by.
type Customer struct {
	shared.BaseAggregateRoot
	Code            string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name            string         `gorm:"type:varchar(200);not null"`
	Status          CustomerStatus `gorm:"type:varchar(16);not null;default:'ACTIVE'"`
	BusinessDomain  string         `gorm:"type:varchar(64);not null;index"`
	CompanyName     string         `gorm:"type:varchar(200)"`
	CompanyCode     string         `gorm:"type:varchar(64)"`
	Source          CustomerSource `gorm:"type:varchar(16);not null;default:'INTERNAL'"`
	SourceRefID     string         `gorm:"type:varchar(64)"`
	BondedLicenseNo string         `gorm:"type:varchar(64)"`
	CustomsCode     string         `gorm:"type:varchar(64)"`
}

// NewCustomer creates a new customer with required fields
func NewCustomer(code, name, businessDomain string, source CustomerSource) (*Customer, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	businessDomain = strings.TrimSpace(businessDomain)
	if code == "" || name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer code and name are required")
	}
	if businessDomain == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Business domain is required")
	}
	if source == "" {
		source = CustomerSourceInternal
	}
	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            CustomerStatusActive,
		BusinessDomain:    strings.ToUpper(businessDomain),
		Source:            source,
	}, nil
}

// Update changes the customer's display name
func (c *Customer) Update(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer name is required")
	}
	c.Name = name
	c.touch()
	return nil
}

// SetCompany records the owning company reference. External customers must
// carry a source reference id.
func (c *Customer) SetCompany(companyName, companyCode, sourceRefID string) error {
	if c.Source != CustomerSourceInternal && strings.TrimSpace(sourceRefID) == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "External customer must have source_ref_id")
	}
	c.CompanyName = companyName
	c.CompanyCode = companyCode
	c.SourceRefID = sourceRefID
	c.touch()
	return nil
}

// SetCustomsInfo records bonded warehouse licensing details
func (c *Customer) SetCustomsInfo(bondedLicenseNo, customsCode string) {
	c.BondedLicenseNo = bondedLicenseNo
	c.CustomsCode = customsCode
	c.touch()
}

// ChangeDomain moves the customer to another business domain
func (c *Customer) ChangeDomain(businessDomain string) error {
	businessDomain = strings.TrimSpace(businessDomain)
	if businessDomain == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Business domain cannot be empty")
	}
	c.BusinessDomain = strings.ToUpper(businessDomain)
	c.touch()
	return nil
}

// Deactivate marks the customer inactive
func (c *Customer) Deactivate() error {
	if c.Status != CustomerStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Customer is not active")
	}
	c.Status = CustomerStatusInactive
	c.touch()
	return nil
}

// Activate marks the customer active again
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Customer is already active")
	}
	c.Status = CustomerStatusActive
	c.touch()
	return nil
}

func (c *Customer) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// GroupMembership links a customer to a customer group. Resolution walks a
// customer's memberships most-recently-assigned first, skipping deleted rows.
type GroupMembership struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	GroupID    uuid.UUID
	AssignedAt time.Time
	Deleted    bool
}

// NewGroupMembership creates a membership assigned now
func NewGroupMembership(customerID, groupID uuid.UUID) GroupMembership {
	return GroupMembership{
		ID:         uuid.New(),
		CustomerID: customerID,
		GroupID:    groupID,
		AssignedAt: time.Now(),
	}
}
