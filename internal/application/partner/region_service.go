package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

// RegionService handles the delivery region hierarchy. Regions are not
// partitioned by business domain; every caller shares one tree.
type RegionService struct {
	regions partner.RegionRepository
	logger  *zap.Logger
}

// NewRegionService creates a new RegionService
func NewRegionService(regions partner.RegionRepository, logger *zap.Logger) *RegionService {
	return &RegionService{regions: regions, logger: logger}
}

// Create creates a region node under an optional parent
func (s *RegionService) Create(ctx context.Context, req CreateRegionRequest) (*RegionResponse, error) {
	var parent *partner.Region
	if req.ParentID != nil {
		found, err := s.regions.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		parent = found
	}

	region, err := partner.NewRegion(req.Code, req.Name, parent)
	if err != nil {
		return nil, err
	}
	if err := s.regions.Save(ctx, region); err != nil {
		return nil, err
	}

	s.logger.Info("region created",
		zap.String("region_id", region.ID.String()),
		zap.String("code", region.Code),
		zap.Int("level", region.Level))

	response := ToRegionResponse(region)
	return &response, nil
}

// GetByID retrieves a region node
func (s *RegionService) GetByID(ctx context.Context, regionID uuid.UUID) (*RegionResponse, error) {
	region, err := s.regions.FindByID(ctx, regionID)
	if err != nil {
		return nil, err
	}
	response := ToRegionResponse(region)
	return &response, nil
}

// Children lists the direct children of a region; a nil parent lists roots
func (s *RegionService) Children(ctx context.Context, parentID *uuid.UUID) ([]RegionResponse, error) {
	regions, err := s.regions.FindChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	responses := make([]RegionResponse, len(regions))
	for i := range regions {
		responses[i] = ToRegionResponse(&regions[i])
	}
	return responses, nil
}

// Update updates a region's name and sort order
func (s *RegionService) Update(ctx context.Context, regionID uuid.UUID, name string, sortOrder int) (*RegionResponse, error) {
	region, err := s.regions.FindByID(ctx, regionID)
	if err != nil {
		return nil, err
	}
	if err := region.Update(name, sortOrder); err != nil {
		return nil, err
	}
	if err := s.regions.Save(ctx, region); err != nil {
		return nil, err
	}
	response := ToRegionResponse(region)
	return &response, nil
}

// Delete soft-deletes a region node; nodes with children are kept
func (s *RegionService) Delete(ctx context.Context, regionID uuid.UUID) error {
	children, err := s.regions.FindChildren(ctx, &regionID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return shared.NewDomainError("HAS_CHILDREN", "Region still has child regions")
	}
	return s.regions.SoftDelete(ctx, regionID)
}
