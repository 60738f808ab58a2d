package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormCustomerGroupRepository implements partner.CustomerGroupRepository using GORM
type GormCustomerGroupRepository struct {
	db *gorm.DB
}

// NewGormCustomerGroupRepository creates a new GormCustomerGroupRepository
func NewGormCustomerGroupRepository(db *gorm.DB) *GormCustomerGroupRepository {
	return &GormCustomerGroupRepository{db: db}
}

// Save creates or updates a customer group
func (r *GormCustomerGroupRepository) Save(ctx context.Context, group *partner.CustomerGroup) error {
	model := models.CustomerGroupModelFromDomain(group)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a group by its ID
func (r *GormCustomerGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.CustomerGroup, error) {
	var model models.CustomerGroupModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Customer group not found")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds groups matching the filter with a total count
func (r *GormCustomerGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.CustomerGroup, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerGroupModel{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if domains, ok := filter.Filters["business_domains"]; ok {
		query = query.Where("business_domain IN ?", domains)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var groupModels []models.CustomerGroupModel
	if err := query.
		Order("name ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&groupModels).Error; err != nil {
		return nil, 0, err
	}

	groups := make([]partner.CustomerGroup, len(groupModels))
	for i := range groupModels {
		groups[i] = *groupModels[i].ToDomain()
	}
	return groups, total, nil
}

// SoftDelete marks a group deleted along with its memberships
func (r *GormCustomerGroupRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.CustomerGroupModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("NOT_FOUND", "Customer group not found")
		}
		return tx.Where("group_id = ?", id).Delete(&models.GroupMembershipModel{}).Error
	})
}

// ReplaceMembers swaps the group's full membership set in one transaction.
// Every new member gets the same assignment instant, which keeps the
// most-recently-assigned ordering stable across the batch.
func (r *GormCustomerGroupRepository) ReplaceMembers(ctx context.Context, groupID uuid.UUID, customerIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).
			Delete(&models.GroupMembershipModel{}).Error; err != nil {
			return err
		}
		if len(customerIDs) == 0 {
			return nil
		}

		assignedAt := time.Now()
		memberships := make([]models.GroupMembershipModel, len(customerIDs))
		for i, customerID := range customerIDs {
			memberships[i] = models.GroupMembershipModel{
				ID:         uuid.New(),
				CustomerID: customerID,
				GroupID:    groupID,
				AssignedAt: assignedAt,
			}
		}
		return tx.Create(&memberships).Error
	})
}
