package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

// GroupService handles customer group master data
type GroupService struct {
	groups     partner.CustomerGroupRepository
	customers  partner.CustomerRepository
	quoteCache ResolvedQuoteInvalidator
	logger     *zap.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(groups partner.CustomerGroupRepository, customers partner.CustomerRepository, quoteCache ResolvedQuoteInvalidator, logger *zap.Logger) *GroupService {
	return &GroupService{groups: groups, customers: customers, quoteCache: quoteCache, logger: logger}
}

// Create creates a customer group
func (s *GroupService) Create(ctx context.Context, caller shared.CallerContext, req CreateGroupRequest) (*GroupResponse, error) {
	businessDomain := strings.TrimSpace(req.BusinessDomain)
	if businessDomain == "" {
		businessDomain = shared.DefaultBusinessDomain
	}
	if err := caller.EnsureAccess(businessDomain); err != nil {
		return nil, err
	}

	group, err := partner.NewCustomerGroup(req.Name, businessDomain, req.MaxMember)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := group.Update(group.Name, req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.groups.Save(ctx, group); err != nil {
		return nil, err
	}

	s.logger.Info("customer group created",
		zap.String("group_id", group.ID.String()),
		zap.String("name", group.Name))

	response := ToGroupResponse(group)
	return &response, nil
}

// GetByID retrieves a group the caller is allowed to see
func (s *GroupService) GetByID(ctx context.Context, caller shared.CallerContext, groupID uuid.UUID) (*GroupResponse, error) {
	group, err := s.findAccessible(ctx, caller, groupID)
	if err != nil {
		return nil, err
	}
	response := ToGroupResponse(group)
	return &response, nil
}

// List retrieves groups in the caller's granted business domains
func (s *GroupService) List(ctx context.Context, caller shared.CallerContext, page, pageSize int, keyword string) ([]GroupResponse, int64, error) {
	groups, total, err := s.groups.FindAll(ctx, shared.Filter{
		Page:     page,
		PageSize: pageSize,
		Search:   keyword,
		Filters: map[string]any{
			"business_domains": caller.AllowedDomains(),
		},
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]GroupResponse, len(groups))
	for i := range groups {
		responses[i] = ToGroupResponse(&groups[i])
	}
	return responses, total, nil
}

// Update updates a group's name and description
func (s *GroupService) Update(ctx context.Context, caller shared.CallerContext, groupID uuid.UUID, req UpdateGroupRequest) (*GroupResponse, error) {
	group, err := s.findAccessible(ctx, caller, groupID)
	if err != nil {
		return nil, err
	}
	if err := group.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.groups.Save(ctx, group); err != nil {
		return nil, err
	}
	response := ToGroupResponse(group)
	return &response, nil
}

// ReplaceMembers swaps the group's full membership set. The member list is
// validated against the group's member limit, and every member must live in
// the group's business domain.
func (s *GroupService) ReplaceMembers(ctx context.Context, caller shared.CallerContext, groupID uuid.UUID, customerIDs []uuid.UUID) error {
	group, err := s.findAccessible(ctx, caller, groupID)
	if err != nil {
		return err
	}
	if err := group.ValidateMemberCount(customerIDs); err != nil {
		return err
	}
	for _, customerID := range customerIDs {
		customer, err := s.customers.FindByID(ctx, customerID)
		if err != nil {
			return err
		}
		if customer.BusinessDomain != group.BusinessDomain {
			return shared.NewDomainError("DOMAIN_MISMATCH", "Customer and group belong to different business domains")
		}
	}
	if err := s.groups.ReplaceMembers(ctx, groupID, customerIDs); err != nil {
		return err
	}
	// membership moved for every listed customer
	s.quoteCache.InvalidateDomain(ctx, group.BusinessDomain)
	return nil
}

// Delete soft-deletes a group
func (s *GroupService) Delete(ctx context.Context, caller shared.CallerContext, groupID uuid.UUID) error {
	if _, err := s.findAccessible(ctx, caller, groupID); err != nil {
		return err
	}
	return s.groups.SoftDelete(ctx, groupID)
}

func (s *GroupService) findAccessible(ctx context.Context, caller shared.CallerContext, groupID uuid.UUID) (*partner.CustomerGroup, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := caller.EnsureAccess(group.BusinessDomain); err != nil {
		return nil, err
	}
	return group, nil
}
