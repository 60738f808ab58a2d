package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

// CustomerService handles customer master data and group assignment
type CustomerService struct {
	customers  partner.CustomerRepository
	groups     partner.CustomerGroupRepository
	quoteCache ResolvedQuoteInvalidator
	logger     *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customers partner.CustomerRepository, groups partner.CustomerGroupRepository, quoteCache ResolvedQuoteInvalidator, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customers:  customers,
		groups:     groups,
		quoteCache: quoteCache,
		logger:     logger,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, caller shared.CallerContext, req CreateCustomerRequest) (*CustomerResponse, error) {
	businessDomain := strings.TrimSpace(req.BusinessDomain)
	if businessDomain == "" {
		businessDomain = shared.DefaultBusinessDomain
	}
	if err := caller.EnsureAccess(businessDomain); err != nil {
		return nil, err
	}

	exists, err := s.customers.ExistsByCode(ctx, strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
	}

	customer, err := partner.NewCustomer(req.Code, req.Name, businessDomain, partner.CustomerSource(req.Source))
	if err != nil {
		return nil, err
	}
	if req.CompanyName != "" || req.CompanyCode != "" {
		if err := customer.SetCompany(req.CompanyName, req.CompanyCode, req.SourceRefID); err != nil {
			return nil, err
		}
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("code", customer.Code))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer the caller is allowed to see
func (s *CustomerService) GetByID(ctx context.Context, caller shared.CallerContext, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.findAccessible(ctx, caller, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers in the caller's granted business domains
func (s *CustomerService) List(ctx context.Context, caller shared.CallerContext, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Keyword,
		Filters: map[string]any{
			"business_domains": caller.AllowedDomains(),
		},
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	customers, total, err := s.customers.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

// Update updates a customer's mutable fields
func (s *CustomerService) Update(ctx context.Context, caller shared.CallerContext, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.findAccessible(ctx, caller, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := customer.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.CompanyName != nil || req.CompanyCode != nil || req.SourceRefID != nil {
		companyName := customer.CompanyName
		companyCode := customer.CompanyCode
		sourceRefID := customer.SourceRefID
		if req.CompanyName != nil {
			companyName = *req.CompanyName
		}
		if req.CompanyCode != nil {
			companyCode = *req.CompanyCode
		}
		if req.SourceRefID != nil {
			sourceRefID = *req.SourceRefID
		}
		if err := customer.SetCompany(companyName, companyCode, sourceRefID); err != nil {
			return nil, err
		}
	}
	if req.BondedLicenseNo != nil || req.CustomsCode != nil {
		bonded := customer.BondedLicenseNo
		customs := customer.CustomsCode
		if req.BondedLicenseNo != nil {
			bonded = *req.BondedLicenseNo
		}
		if req.CustomsCode != nil {
			customs = *req.CustomsCode
		}
		customer.SetCustomsInfo(bonded, customs)
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Deactivate deactivates a customer
func (s *CustomerService) Deactivate(ctx context.Context, caller shared.CallerContext, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.findAccessible(ctx, caller, customerID)
	if err != nil {
		return nil, err
	}
	if err := customer.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete soft-deletes a customer
func (s *CustomerService) Delete(ctx context.Context, caller shared.CallerContext, customerID uuid.UUID) error {
	if _, err := s.findAccessible(ctx, caller, customerID); err != nil {
		return err
	}
	return s.customers.SoftDelete(ctx, customerID)
}

// Memberships lists the customer's live group memberships, most recently
// assigned first. The order matters: the quote resolution cascade walks it.
func (s *CustomerService) Memberships(ctx context.Context, caller shared.CallerContext, customerID uuid.UUID) ([]MembershipResponse, error) {
	if _, err := s.findAccessible(ctx, caller, customerID); err != nil {
		return nil, err
	}
	memberships, err := s.customers.Memberships(ctx, customerID)
	if err != nil {
		return nil, err
	}
	responses := make([]MembershipResponse, len(memberships))
	for i, m := range memberships {
		responses[i] = MembershipResponse{GroupID: m.GroupID, AssignedAt: m.AssignedAt}
	}
	return responses, nil
}

// AssignToGroup adds a customer to a group in the same business domain
func (s *CustomerService) AssignToGroup(ctx context.Context, caller shared.CallerContext, customerID, groupID uuid.UUID) error {
	customer, err := s.findAccessible(ctx, caller, customerID)
	if err != nil {
		return err
	}
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.BusinessDomain != customer.BusinessDomain {
		return shared.NewDomainError("DOMAIN_MISMATCH", "Customer and group belong to different business domains")
	}

	memberships, err := s.customers.Memberships(ctx, customerID)
	if err != nil {
		return err
	}
	for _, m := range memberships {
		if m.GroupID == groupID {
			return shared.NewDomainError("ALREADY_EXISTS", "Customer is already a member of this group")
		}
	}

	if err := s.customers.AssignToGroup(ctx, partner.NewGroupMembership(customerID, groupID)); err != nil {
		return err
	}
	// group quotes may now apply to this customer
	s.quoteCache.InvalidateDomain(ctx, customer.BusinessDomain)
	return nil
}

// RemoveFromGroup removes a customer from a group
func (s *CustomerService) RemoveFromGroup(ctx context.Context, caller shared.CallerContext, customerID, groupID uuid.UUID) error {
	customer, err := s.findAccessible(ctx, caller, customerID)
	if err != nil {
		return err
	}
	if err := s.customers.RemoveFromGroup(ctx, customerID, groupID); err != nil {
		return err
	}
	s.quoteCache.InvalidateDomain(ctx, customer.BusinessDomain)
	return nil
}

func (s *CustomerService) findAccessible(ctx context.Context, caller shared.CallerContext, customerID uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := caller.EnsureAccess(customer.BusinessDomain); err != nil {
		return nil, err
	}
	return customer, nil
}
