package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer aggregate
type CustomerModel struct {
	AggregateModel
	Code            string                 `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name            string                 `gorm:"type:varchar(200);not null"`
	Status          partner.CustomerStatus `gorm:"type:varchar(16);not null;default:'ACTIVE'"`
	BusinessDomain  string                 `gorm:"type:varchar(64);not null;index"`
	CompanyName     string                 `gorm:"type:varchar(200)"`
	CompanyCode     string                 `gorm:"type:varchar(64)"`
	Source          partner.CustomerSource `gorm:"type:varchar(16);not null;default:'INTERNAL'"`
	SourceRefID     string                 `gorm:"type:varchar(64)"`
	BondedLicenseNo string                 `gorm:"type:varchar(64)"`
	CustomsCode     string                 `gorm:"type:varchar(64)"`
	DeletedAt       gorm.DeletedAt         `gorm:"index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	customer := &partner.Customer{
		Code:            m.Code,
		Name:            m.Name,
		Status:          m.Status,
		BusinessDomain:  m.BusinessDomain,
		CompanyName:     m.CompanyName,
		CompanyCode:     m.CompanyCode,
		Source:          m.Source,
		SourceRefID:     m.SourceRefID,
		BondedLicenseNo: m.BondedLicenseNo,
		CustomsCode:     m.CustomsCode,
	}
	m.PopulateAggregateRoot(&customer.BaseAggregateRoot)
	return customer
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Status = c.Status
	m.BusinessDomain = c.BusinessDomain
	m.CompanyName = c.CompanyName
	m.CompanyCode = c.CompanyCode
	m.Source = c.Source
	m.SourceRefID = c.SourceRefID
	m.BondedLicenseNo = c.BondedLicenseNo
	m.CustomsCode = c.CustomsCode
}

// CustomerModelFromDomain creates a persistence model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// CustomerGroupModel is the persistence model for the CustomerGroup aggregate
type CustomerGroupModel struct {
	AggregateModel
	Name           string         `gorm:"type:varchar(128);not null"`
	BusinessDomain string         `gorm:"type:varchar(64);not null;index"`
	Description    string         `gorm:"type:varchar(512)"`
	MaxMember      *int           ``
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (CustomerGroupModel) TableName() string {
	return "customer_groups"
}

// ToDomain converts the persistence model to a domain CustomerGroup
func (m *CustomerGroupModel) ToDomain() *partner.CustomerGroup {
	group := &partner.CustomerGroup{
		Name:           m.Name,
		BusinessDomain: m.BusinessDomain,
		Description:    m.Description,
		MaxMember:      m.MaxMember,
	}
	m.PopulateAggregateRoot(&group.BaseAggregateRoot)
	return group
}

// FromDomain populates the persistence model from a domain CustomerGroup
func (m *CustomerGroupModel) FromDomain(g *partner.CustomerGroup) {
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	m.Name = g.Name
	m.BusinessDomain = g.BusinessDomain
	m.Description = g.Description
	m.MaxMember = g.MaxMember
}

// CustomerGroupModelFromDomain creates a persistence model from a domain group
func CustomerGroupModelFromDomain(g *partner.CustomerGroup) *CustomerGroupModel {
	m := &CustomerGroupModel{}
	m.FromDomain(g)
	return m
}

// GroupMembershipModel links a customer to a group. Rows are soft-deleted so
// assignment history stays queryable.
type GroupMembershipModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID      `gorm:"type:uuid;not null;index:idx_membership_pair"`
	GroupID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_membership_pair"`
	AssignedAt time.Time      `gorm:"not null;index"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (GroupMembershipModel) TableName() string {
	return "customer_group_memberships"
}

// ToDomain converts the persistence model to a domain GroupMembership
func (m *GroupMembershipModel) ToDomain() partner.GroupMembership {
	return partner.GroupMembership{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		GroupID:    m.GroupID,
		AssignedAt: m.AssignedAt,
		Deleted:    m.DeletedAt.Valid,
	}
}

// GroupMembershipModelFromDomain creates a persistence model from a membership
func GroupMembershipModelFromDomain(membership partner.GroupMembership) *GroupMembershipModel {
	return &GroupMembershipModel{
		ID:         membership.ID,
		CustomerID: membership.CustomerID,
		GroupID:    membership.GroupID,
		AssignedAt: membership.AssignedAt,
	}
}

// CarrierModel is the persistence model for the Carrier aggregate
type CarrierModel struct {
	AggregateModel
	Code           string                `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name           string                `gorm:"type:varchar(200);not null"`
	BusinessDomain string                `gorm:"type:varchar(64);not null;index"`
	ContactName    string                `gorm:"type:varchar(100)"`
	Phone          string                `gorm:"type:varchar(50)"`
	Status         partner.CarrierStatus `gorm:"type:varchar(16);not null;default:'ACTIVE'"`
	DeletedAt      gorm.DeletedAt        `gorm:"index"`
}

// TableName returns the table name for GORM
func (CarrierModel) TableName() string {
	return "carriers"
}

// ToDomain converts the persistence model to a domain Carrier
func (m *CarrierModel) ToDomain() *partner.Carrier {
	carrier := &partner.Carrier{
		Code:           m.Code,
		Name:           m.Name,
		BusinessDomain: m.BusinessDomain,
		ContactName:    m.ContactName,
		Phone:          m.Phone,
		Status:         m.Status,
	}
	m.PopulateAggregateRoot(&carrier.BaseAggregateRoot)
	return carrier
}

// FromDomain populates the persistence model from a domain Carrier
func (m *CarrierModel) FromDomain(c *partner.Carrier) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.BusinessDomain = c.BusinessDomain
	m.ContactName = c.ContactName
	m.Phone = c.Phone
	m.Status = c.Status
}

// CarrierModelFromDomain creates a persistence model from a domain Carrier
func CarrierModelFromDomain(c *partner.Carrier) *CarrierModel {
	m := &CarrierModel{}
	m.FromDomain(c)
	return m
}

// RegionModel is the persistence model for the Region aggregate
type RegionModel struct {
	AggregateModel
	Code      string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name      string         `gorm:"type:varchar(128);not null"`
	ParentID  *uuid.UUID     `gorm:"type:uuid;index"`
	Level     int            `gorm:"not null;default:1"`
	SortOrder int            `gorm:"not null;default:0"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (RegionModel) TableName() string {
	return "regions"
}

// ToDomain converts the persistence model to a domain Region
func (m *RegionModel) ToDomain() *partner.Region {
	region := &partner.Region{
		Code:      m.Code,
		Name:      m.Name,
		ParentID:  m.ParentID,
		Level:     m.Level,
		SortOrder: m.SortOrder,
	}
	m.PopulateAggregateRoot(&region.BaseAggregateRoot)
	return region
}

// FromDomain populates the persistence model from a domain Region
func (m *RegionModel) FromDomain(r *partner.Region) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Code = r.Code
	m.Name = r.Name
	m.ParentID = r.ParentID
	m.Level = r.Level
	m.SortOrder = r.SortOrder
}

// RegionModelFromDomain creates a persistence model from a domain Region
func RegionModelFromDomain(r *partner.Region) *RegionModel {
	m := &RegionModel{}
	m.FromDomain(r)
	return m
}
