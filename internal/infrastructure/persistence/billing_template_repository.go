package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormBillingTemplateRepository implements billing.TemplateRepository using GORM
type GormBillingTemplateRepository struct {
	db *gorm.DB
}

// NewGormBillingTemplateRepository creates a new GormBillingTemplateRepository
func NewGormBillingTemplateRepository(db *gorm.DB) *GormBillingTemplateRepository {
	return &GormBillingTemplateRepository{db: db}
}

// Add inserts a new template with its rules
func (r *GormBillingTemplateRepository) Add(ctx context.Context, template *billing.BillingTemplate) error {
	model, err := models.BillingTemplateModelFromDomain(template)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Save persists the aggregate with a version check. The update only lands
// when the stored row still carries the version the aggregate was loaded
// with; zero affected rows means someone else got there first. Rules are
// replaced wholesale because they are owned by the template.
func (r *GormBillingTemplateRepository) Save(ctx context.Context, template *billing.BillingTemplate, expectedVersion int) error {
	model, err := models.BillingTemplateModelFromDomain(template)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.BillingTemplateModel{}).
		Where("id = ? AND version = ?", template.ID, expectedVersion).
		Select("template_name", "description", "status", "effective_date", "expire_date",
			"customer_id", "customer_group_ids", "version", "updated_at").
		Updates(map[string]any{
			"template_name":      model.TemplateName,
			"description":        model.Description,
			"status":             model.Status,
			"effective_date":     model.EffectiveDate,
			"expire_date":        model.ExpireDate,
			"customer_id":        model.CustomerID,
			"customer_group_ids": model.CustomerGroupIDs,
			"version":            model.Version,
			"updated_at":         model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Billing template was modified by another transaction")
	}

	if err := r.db.WithContext(ctx).
		Where("template_id = ?", template.ID).
		Delete(&models.BillingTemplateRuleModel{}).Error; err != nil {
		return err
	}
	if len(model.Rules) > 0 {
		if err := r.db.WithContext(ctx).Create(&model.Rules).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID finds a template with its rules by ID
func (r *GormBillingTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingTemplate, error) {
	var model models.BillingTemplateModel
	if err := r.db.WithContext(ctx).
		Preload("Rules", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Billing template not found")
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByCode finds a template by its unique code
func (r *GormBillingTemplateRepository) FindByCode(ctx context.Context, code string) (*billing.BillingTemplate, error) {
	var model models.BillingTemplateModel
	if err := r.db.WithContext(ctx).
		Preload("Rules", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&model, "template_code = ?", strings.TrimSpace(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Billing template not found")
		}
		return nil, err
	}
	return model.ToDomain()
}

// GlobalExists reports whether a live GLOBAL template exists for the domain
func (r *GormBillingTemplateRepository) GlobalExists(ctx context.Context, businessDomain string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BillingTemplateModel{}).
		Where("template_type = ? AND business_domain = ?", billing.TemplateTypeGlobal, businessDomain).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search finds templates matching the filter with a total count
func (r *GormBillingTemplateRepository) Search(ctx context.Context, filter billing.TemplateSearchFilter) ([]billing.BillingTemplate, int64, error) {
	if len(filter.BusinessDomains) == 0 {
		return nil, 0, nil
	}

	query := r.db.WithContext(ctx).
		Model(&models.BillingTemplateModel{}).
		Where("business_domain IN ?", filter.BusinessDomains)
	if filter.TemplateType != "" {
		query = query.Where("template_type = ?", filter.TemplateType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.CustomerGroupID != nil {
		query = query.Where("customer_group_ids::jsonb @> ?", `["`+filter.CustomerGroupID.String()+`"]`)
	}
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("template_code ILIKE ? OR template_name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var templateModels []models.BillingTemplateModel
	if err := query.
		Preload("Rules", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&templateModels).Error; err != nil {
		return nil, 0, err
	}

	templates := make([]billing.BillingTemplate, len(templateModels))
	for i := range templateModels {
		template, err := templateModels[i].ToDomain()
		if err != nil {
			return nil, 0, err
		}
		templates[i] = *template
	}
	return templates, total, nil
}

// SoftDelete marks a template deleted, keeping its rows for audit
func (r *GormBillingTemplateRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BillingTemplateModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("NOT_FOUND", "Billing template not found")
	}
	return nil
}
