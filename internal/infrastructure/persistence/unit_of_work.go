package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/billing"
)

// GormUnitOfWork implements billing.UnitOfWork over a gorm transaction.
// The callback's repositories are bound to the transaction handle, so every
// statement inside commits or rolls back together.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// WithinTx runs fn inside one transaction
func (u *GormUnitOfWork) WithinTx(ctx context.Context, fn func(templates billing.TemplateRepository, quotes billing.QuoteRepository) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormBillingTemplateRepository(tx), NewGormBillingQuoteRepository(tx))
	})
}
