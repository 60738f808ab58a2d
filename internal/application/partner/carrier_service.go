package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

// CarrierService handles carrier master data
type CarrierService struct {
	carriers partner.CarrierRepository
	logger   *zap.Logger
}

// NewCarrierService creates a new CarrierService
func NewCarrierService(carriers partner.CarrierRepository, logger *zap.Logger) *CarrierService {
	return &CarrierService{carriers: carriers, logger: logger}
}

// Create creates a carrier
func (s *CarrierService) Create(ctx context.Context, caller shared.CallerContext, req CreateCarrierRequest) (*CarrierResponse, error) {
	businessDomain := strings.TrimSpace(req.BusinessDomain)
	if businessDomain == "" {
		businessDomain = shared.DefaultBusinessDomain
	}
	if err := caller.EnsureAccess(businessDomain); err != nil {
		return nil, err
	}

	exists, err := s.carriers.ExistsByCode(ctx, strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Carrier with this code already exists")
	}

	carrier, err := partner.NewCarrier(req.Code, req.Name, businessDomain)
	if err != nil {
		return nil, err
	}
	if req.ContactName != "" || req.Phone != "" {
		if err := carrier.Update(carrier.Name, req.ContactName, req.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.carriers.Save(ctx, carrier); err != nil {
		return nil, err
	}

	s.logger.Info("carrier created",
		zap.String("carrier_id", carrier.ID.String()),
		zap.String("code", carrier.Code))

	response := ToCarrierResponse(carrier)
	return &response, nil
}

// GetByID retrieves a carrier the caller is allowed to see
func (s *CarrierService) GetByID(ctx context.Context, caller shared.CallerContext, carrierID uuid.UUID) (*CarrierResponse, error) {
	carrier, err := s.findAccessible(ctx, caller, carrierID)
	if err != nil {
		return nil, err
	}
	response := ToCarrierResponse(carrier)
	return &response, nil
}

// List retrieves carriers in the caller's granted business domains
func (s *CarrierService) List(ctx context.Context, caller shared.CallerContext, page, pageSize int, keyword string) ([]CarrierResponse, int64, error) {
	carriers, total, err := s.carriers.FindAll(ctx, shared.Filter{
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
	responses := make([]CarrierResponse, len(carriers))
	for i := range carriers {
		responses[i] = ToCarrierResponse(&carriers[i])
	}
	return responses, total, nil
}

// Update updates a carrier
func (s *CarrierService) Update(ctx context.Context, caller shared.CallerContext, carrierID uuid.UUID, req UpdateCarrierRequest) (*CarrierResponse, error) {
	carrier, err := s.findAccessible(ctx, caller, carrierID)
	if err != nil {
		return nil, err
	}
	if err := carrier.Update(req.Name, req.ContactName, req.Phone); err != nil {
		return nil, err
	}
	if err := s.carriers.Save(ctx, carrier); err != nil {
		return nil, err
	}
	response := ToCarrierResponse(carrier)
	return &response, nil
}

// Delete soft-deletes a carrier
func (s *CarrierService) Delete(ctx context.Context, caller shared.CallerContext, carrierID uuid.UUID) error {
	if _, err := s.findAccessible(ctx, caller, carrierID); err != nil {
		return err
	}
	return s.carriers.SoftDelete(ctx, carrierID)
}

func (s *CarrierService) findAccessible(ctx context.Context, caller shared.CallerContext, carrierID uuid.UUID) (*partner.Carrier, error) {
	carrier, err := s.carriers.FindByID(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	if err := caller.EnsureAccess(carrier.BusinessDomain); err != nil {
		return nil, err
	}
	return carrier, nil
}
