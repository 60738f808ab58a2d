package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormRegionRepository implements partner.RegionRepository using GORM
type GormRegionRepository struct {
	db *gorm.DB
}

// NewGormRegionRepository creates a new GormRegionRepository
func NewGormRegionRepository(db *gorm.DB) *GormRegionRepository {
	return &GormRegionRepository{db: db}
}

// Save creates or updates a region node
func (r *GormRegionRepository) Save(ctx context.Context, region *partner.Region) error {
	model := models.RegionModelFromDomain(region)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a region by its ID
func (r *GormRegionRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Region, error) {
	var model models.RegionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Region not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindChildren lists the direct children of a node; nil lists the roots
func (r *GormRegionRepository) FindChildren(ctx context.Context, parentID *uuid.UUID) ([]partner.Region, error) {
	query := r.db.WithContext(ctx).Model(&models.RegionModel{})
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var regionModels []models.RegionModel
	if err := query.Order("sort_order ASC, code ASC").Find(&regionModels).Error; err != nil {
		return nil, err
	}

	regions := make([]partner.Region, len(regionModels))
	for i := range regionModels {
		regions[i] = *regionModels[i].ToDomain()
	}
	return regions, nil
}

// FindAll finds regions matching the filter with a total count
func (r *GormRegionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Region, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RegionModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	if level, ok := filter.Filters["level"]; ok {
		query = query.Where("level = ?", level)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var regionModels []models.RegionModel
	if err := query.
		Order("level ASC, sort_order ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&regionModels).Error; err != nil {
		return nil, 0, err
	}

	regions := make([]partner.Region, len(regionModels))
	for i := range regionModels {
		regions[i] = *regionModels[i].ToDomain()
	}
	return regions, total, nil
}

// SoftDelete marks a region deleted
func (r *GormRegionRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RegionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("NOT_FOUND", "Region not found")
	}
	return nil
}
