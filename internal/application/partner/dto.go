package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/partner"
)

// CreateCustomerRequest creates a customer
type CreateCustomerRequest struct {
	Code           string `json:"code" binding:"required"`
	Name           string `json:"name" binding:"required"`
	BusinessDomain string `json:"businessDomain"`
	Source         string `json:"source" binding:"omitempty,oneof=INTERNAL EXTERNAL"`
	SourceRefID    string `json:"sourceRefId"`
	CompanyName    string `json:"companyName"`
	CompanyCode    string `json:"companyCode"`
}

// UpdateCustomerRequest updates a customer's mutable fields
type UpdateCustomerRequest struct {
	Name            *string `json:"name"`
	CompanyName     *string `json:"companyName"`
	CompanyCode     *string `json:"companyCode"`
	SourceRefID     *string `json:"sourceRefId"`
	BondedLicenseNo *string `json:"bondedLicenseNo"`
	CustomsCode     *string `json:"customsCode"`
}

// CustomerListFilter narrows customer listing
type CustomerListFilter struct {
	Status   string `form:"status"`
	Keyword  string `form:"keyword"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// CustomerResponse is the customer representation
type CustomerResponse struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	Status          string    `json:"status"`
	BusinessDomain  string    `json:"businessDomain"`
	CompanyName     string    `json:"companyName,omitempty"`
	CompanyCode     string    `json:"companyCode,omitempty"`
	Source          string    `json:"source"`
	SourceRefID     string    `json:"sourceRefId,omitempty"`
	BondedLicenseNo string    `json:"bondedLicenseNo,omitempty"`
	CustomsCode     string    `json:"customsCode,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// MembershipResponse is one group membership of a customer
type MembershipResponse struct {
	GroupID    uuid.UUID `json:"groupId"`
	AssignedAt time.Time `json:"assignedAt"`
}

// CreateGroupRequest creates a customer group
type CreateGroupRequest struct {
	Name           string `json:"name" binding:"required"`
	BusinessDomain string `json:"businessDomain"`
	Description    string `json:"description"`
	MaxMember      *int   `json:"maxMember"`
}

// UpdateGroupRequest updates a customer group
type UpdateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GroupResponse is the customer group representation
type GroupResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	BusinessDomain string    `json:"businessDomain"`
	Description    string    `json:"description,omitempty"`
	MaxMember      *int      `json:"maxMember"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CreateCarrierRequest creates a carrier
type CreateCarrierRequest struct {
	Code           string `json:"code" binding:"required"`
	Name           string `json:"name" binding:"required"`
	BusinessDomain string `json:"businessDomain"`
	ContactName    string `json:"contactName"`
	Phone          string `json:"phone"`
}

// UpdateCarrierRequest updates a carrier
type UpdateCarrierRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
}

// CarrierResponse is the carrier representation
type CarrierResponse struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	BusinessDomain string    `json:"businessDomain"`
	ContactName    string    `json:"contactName,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CreateRegionRequest creates a region node
type CreateRegionRequest struct {
	Code     string     `json:"code" binding:"required"`
	Name     string     `json:"name" binding:"required"`
	ParentID *uuid.UUID `json:"parentId"`
}

// RegionResponse is the region representation
type RegionResponse struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parentId"`
	Level     int        `json:"level"`
	SortOrder int        `json:"sortOrder"`
}

// ToCustomerResponse converts a customer aggregate to its API representation
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		Code:            c.Code,
		Name:            c.Name,
		Status:          string(c.Status),
		BusinessDomain:  c.BusinessDomain,
		CompanyName:     c.CompanyName,
		CompanyCode:     c.CompanyCode,
		Source:          string(c.Source),
		SourceRefID:     c.SourceRefID,
		BondedLicenseNo: c.BondedLicenseNo,
		CustomsCode:     c.CustomsCode,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// ToCustomerResponses converts a customer slice for list endpoints
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

// ToGroupResponse converts a group aggregate to its API representation
func ToGroupResponse(g *partner.CustomerGroup) GroupResponse {
	return GroupResponse{
		ID:             g.ID,
		Name:           g.Name,
		BusinessDomain: g.BusinessDomain,
		Description:    g.Description,
		MaxMember:      g.MaxMember,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

// ToCarrierResponse converts a carrier aggregate to its API representation
func ToCarrierResponse(c *partner.Carrier) CarrierResponse {
	return CarrierResponse{
		ID:             c.ID,
		Code:           c.Code,
		Name:           c.Name,
		BusinessDomain: c.BusinessDomain,
		ContactName:    c.ContactName,
		Phone:          c.Phone,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
	}
}

// ToRegionResponse converts a region aggregate to its API representation
func ToRegionResponse(r *partner.Region) RegionResponse {
	return RegionResponse{
		ID:        r.ID,
		Code:      r.Code,
		Name:      r.Name,
		ParentID:  r.ParentID,
		Level:     r.Level,
		SortOrder: r.SortOrder,
	}
}
