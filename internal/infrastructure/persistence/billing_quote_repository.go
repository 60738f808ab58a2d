package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
)

// GormBillingQuoteRepository implements billing.QuoteRepository using GORM
type GormBillingQuoteRepository struct {
	db *gorm.DB
}

// NewGormBillingQuoteRepository creates a new GormBillingQuoteRepository
func NewGormBillingQuoteRepository(db *gorm.DB) *GormBillingQuoteRepository {
	return &GormBillingQuoteRepository{db: db}
}

// AddAll inserts a batch of quote snapshots
func (r *GormBillingQuoteRepository) AddAll(ctx context.Context, quotes []*billing.BillingQuote) error {
	if len(quotes) == 0 {
		return nil
	}
	quoteModels := make([]*models.BillingQuoteModel, len(quotes))
	for i, quote := range quotes {
		model, err := models.BillingQuoteModelFromDomain(quote)
		if err != nil {
			return err
		}
		quoteModels[i] = model
	}
	return r.db.WithContext(ctx).Create(quoteModels).Error
}

// FindByID finds a quote by ID
func (r *GormBillingQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillingQuote, error) {
	var model models.BillingQuoteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Billing quote not found")
		}
		return nil, err
	}
	return model.ToDomain()
}

// Search finds quotes matching the filter with a total count
func (r *GormBillingQuoteRepository) Search(ctx context.Context, filter billing.QuoteSearchFilter) ([]billing.BillingQuote, int64, error) {
	if len(filter.BusinessDomains) == 0 {
		return nil, 0, nil
	}

	query := r.db.WithContext(ctx).
		Model(&models.BillingQuoteModel{}).
		Where("business_domain IN ?", filter.BusinessDomains)
	if filter.TemplateID != nil {
		query = query.Where("template_id = ?", *filter.TemplateID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.CustomerGroupID != nil {
		query = query.Where("customer_group_id = ?", *filter.CustomerGroupID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var quoteModels []models.BillingQuoteModel
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&quoteModels).Error; err != nil {
		return nil, 0, err
	}

	quotes := make([]billing.BillingQuote, len(quoteModels))
	for i := range quoteModels {
		quote, err := quoteModels[i].ToDomain()
		if err != nil {
			return nil, 0, err
		}
		quotes[i] = *quote
	}
	return quotes, total, nil
}

// DeactivateScope marks every ACTIVE quote in the scope slot INACTIVE. The
// template id is deliberately absent from the predicate: a template taking
// over a slot supersedes whatever quote held it before.
func (r *GormBillingQuoteRepository) DeactivateScope(ctx context.Context, key billing.ScopeKey) error {
	query := r.db.WithContext(ctx).
		Model(&models.BillingQuoteModel{}).
		Where("scope_type = ? AND business_domain = ? AND status = ?",
			key.ScopeType, key.BusinessDomain, billing.QuoteStatusActive)
	query = whereNullable(query, "customer_id", key.CustomerID)
	query = whereNullable(query, "customer_group_id", key.CustomerGroupID)

	return query.Updates(map[string]any{
		"status":     billing.QuoteStatusInactive,
		"updated_at": time.Now(),
	}).Error
}

// DeactivateByTemplate marks every ACTIVE quote of the template INACTIVE
func (r *GormBillingQuoteRepository) DeactivateByTemplate(ctx context.Context, templateID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.BillingQuoteModel{}).
		Where("template_id = ? AND status = ?", templateID, billing.QuoteStatusActive).
		Updates(map[string]any{
			"status":     billing.QuoteStatusInactive,
			"updated_at": time.Now(),
		}).Error
}

// FindActive returns the effective quote for one cascade step
func (r *GormBillingQuoteRepository) FindActive(ctx context.Context, query billing.ActiveQuoteQuery) (*billing.BillingQuote, error) {
	q := r.db.WithContext(ctx).
		Where("scope_type = ? AND business_domain = ? AND status = ?",
			query.Scope, query.BusinessDomain, billing.QuoteStatusActive).
		Where("effective_date <= ?", query.Now).
		Where("expire_date IS NULL OR expire_date > ?", query.Now)
	q = whereNullable(q, "customer_id", query.CustomerID)
	q = whereNullable(q, "customer_group_id", query.CustomerGroupID)

	var model models.BillingQuoteModel
	if err := q.Order("created_at DESC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Billing quote not found")
		}
		return nil, err
	}
	return model.ToDomain()
}

// whereNullable matches a nullable uuid column against an optional value
func whereNullable(query *gorm.DB, column string, value *uuid.UUID) *gorm.DB {
	if value == nil {
		return query.Where(column + " IS NULL")
	}
	return query.Where(column+" = ?", *value)
}
