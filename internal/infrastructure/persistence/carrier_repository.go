package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormCarrierRepository implements partner.CarrierRepository using GORM
type GormCarrierRepository struct {
	db *gorm.DB
}

// NewGormCarrierRepository creates a new GormCarrierRepository
func NewGormCarrierRepository(db *gorm.DB) *GormCarrierRepository {
	return &GormCarrierRepository{db: db}
}

// Save creates or updates a carrier
func (r *GormCarrierRepository) Save(ctx context.Context, carrier *partner.Carrier) error {
	model := models.CarrierModelFromDomain(carrier)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a carrier by its ID
func (r *GormCarrierRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Carrier, error) {
	var model models.CarrierModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Carrier not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByCode reports whether a carrier with the code exists
func (r *GormCarrierRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CarrierModel{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error
	return count > 0, err
}

// FindAll finds carriers matching the filter with a total count
func (r *GormCarrierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Carrier, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CarrierModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	if domains, ok := filter.Filters["business_domains"]; ok {
		query = query.Where("business_domain IN ?", domains)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var carrierModels []models.CarrierModel
	if err := query.
		Order("code ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&carrierModels).Error; err != nil {
		return nil, 0, err
	}

	carriers := make([]partner.Carrier, len(carrierModels))
	for i := range carrierModels {
		carriers[i] = *carrierModels[i].ToDomain()
	}
	return carriers, total, nil
}

// SoftDelete marks a carrier deleted
func (r *GormCarrierRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CarrierModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("NOT_FOUND", "Carrier not found")
	}
	return nil
}
