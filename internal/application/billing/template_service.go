package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/shared"
)

const quoteTokenLength = 6

// TemplateService orchestrates the billing template lifecycle. Every
// mutation that touches quotes runs inside one transaction so a template and
// its quote set never diverge.
type TemplateService struct {
	uow       billing.UnitOfWork
	templates billing.TemplateRepository
	quotes    billing.QuoteRepository
	codes     CodeGenerator
	cache     QuoteCache
	logger    *zap.Logger
}

// NewTemplateService creates a new TemplateService. cache may be nil when no
// quote cache is configured.
func NewTemplateService(
	uow billing.UnitOfWork,
	templates billing.TemplateRepository,
	quotes billing.QuoteRepository,
	codes CodeGenerator,
	cache QuoteCache,
	logger *zap.Logger,
) *TemplateService {
	return &TemplateService{
		uow:       uow,
		templates: templates,
		quotes:    quotes,
		codes:     codes,
		cache:     cache,
		logger:    logger,
	}
}

// Create creates a billing template. GLOBAL templates are a per-domain
// singleton; the existence check and the insert share one transaction.
func (s *TemplateService) Create(ctx context.Context, caller shared.CallerContext, req CreateTemplateRequest) (*TemplateResponse, error) {
	businessDomain := strings.TrimSpace(req.BusinessDomain)
	if businessDomain == "" {
		businessDomain = shared.DefaultBusinessDomain
	}
	if err := caller.EnsureAccess(businessDomain); err != nil {
		return nil, err
	}

	rules, err := buildRules(req.Rules)
	if err != nil {
		return nil, err
	}

	template, err := billing.NewBillingTemplate(
		req.TemplateCode,
		req.TemplateName,
		businessDomain,
		billing.TemplateType(req.TemplateType),
		req.EffectiveDate,
		req.ExpireDate,
		req.Description,
		req.CustomerID,
		req.CustomerGroupIDs,
		rules,
	)
	if err != nil {
		return nil, err
	}
	if req.Activate {
		if err := template.Activate(); err != nil {
			return nil, err
		}
	}

	err = s.uow.WithinTx(ctx, func(templates billing.TemplateRepository, quotes billing.QuoteRepository) error {
		existing, err := templates.FindByCode(ctx, template.TemplateCode)
		if err != nil && !shared.IsDomainErrorCode(err, "NOT_FOUND") {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("ALREADY_EXISTS", "Billing template with this code already exists")
		}
		if template.TemplateType == billing.TemplateTypeGlobal {
			exists, err := templates.GlobalExists(ctx, template.BusinessDomain)
			if err != nil {
				return err
			}
			if exists {
				return shared.NewDomainError("GLOBAL_TEMPLATE_EXISTS", "A global billing template already exists for this business domain")
			}
		}
		if err := templates.Add(ctx, template); err != nil {
			return err
		}
		if template.IsActive() {
			return s.regenerateQuotes(ctx, template, quotes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if template.IsActive() {
		s.invalidateDomain(ctx, template.BusinessDomain)
	}
	s.logger.Info("billing template created",
		zap.String("template_id", template.ID.String()),
		zap.String("template_code", template.TemplateCode),
		zap.String("status", string(template.Status)))

	response := ToTemplateResponse(template)
	return &response, nil
}

// Update replaces the template's mutable fields. The request carries the
// version the caller read; both the in-memory check and the persistence layer
// reject a stale version. An ACTIVE template gets its quotes regenerated in
// the same transaction.
func (s *TemplateService) Update(ctx context.Context, caller shared.CallerContext, templateID uuid.UUID, req UpdateTemplateRequest) (*TemplateResponse, error) {
	template, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if err := caller.EnsureAccess(template.BusinessDomain); err != nil {
		return nil, err
	}
	if template.Version != req.Version {
		return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Billing template was modified by another request")
	}

	rules, err := buildRules(req.Rules)
	if err != nil {
		return nil, err
	}
	if err := template.ApplyUpdate(
		req.TemplateName,
		req.Description,
		req.EffectiveDate,
		req.ExpireDate,
		req.CustomerID,
		req.CustomerGroupIDs,
		rules,
	); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(templates billing.TemplateRepository, quotes billing.QuoteRepository) error {
		if err := templates.Save(ctx, template, req.Version); err != nil {
			return err
		}
		if template.IsActive() {
			return s.regenerateQuotes(ctx, template, quotes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if template.IsActive() {
		s.invalidateDomain(ctx, template.BusinessDomain)
	}
	s.logger.Info("billing template updated",
		zap.String("template_id", template.ID.String()),
		zap.Int("version", template.Version))

	response := ToTemplateResponse(template)
	return &response, nil
}

// ChangeStatus moves a template along its one-way lifecycle. Activation
// generates quotes; deactivation retires every quote the template produced.
func (s *TemplateService) ChangeStatus(ctx context.Context, caller shared.CallerContext, templateID uuid.UUID, req ChangeTemplateStatusRequest) (*TemplateResponse, error) {
	template, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if err := caller.EnsureAccess(template.BusinessDomain); err != nil {
		return nil, err
	}
	if template.Version != req.Version {
		return nil, shared.NewDomainError("CONCURRENCY_CONFLICT", "Billing template was modified by another request")
	}

	switch billing.TemplateStatus(req.Status) {
	case billing.TemplateStatusActive:
		if err := template.Activate(); err != nil {
			return nil, err
		}
	case billing.TemplateStatusInactive:
		if err := template.Deactivate(); err != nil {
			return nil, err
		}
	default:
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unsupported target status: %s", req.Status))
	}

	err = s.uow.WithinTx(ctx, func(templates billing.TemplateRepository, quotes billing.QuoteRepository) error {
		if err := templates.Save(ctx, template, req.Version); err != nil {
			return err
		}
		if template.IsActive() {
			return s.regenerateQuotes(ctx, template, quotes)
		}
		return quotes.DeactivateByTemplate(ctx, template.ID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDomain(ctx, template.BusinessDomain)
	s.logger.Info("billing template status changed",
		zap.String("template_id", template.ID.String()),
		zap.String("status", string(template.Status)))

	response := ToTemplateResponse(template)
	return &response, nil
}

// Delete soft-deletes a template and retires its quotes in one transaction
func (s *TemplateService) Delete(ctx context.Context, caller shared.CallerContext, templateID uuid.UUID) error {
	template, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		return err
	}
	if err := caller.EnsureAccess(template.BusinessDomain); err != nil {
		return err
	}

	err = s.uow.WithinTx(ctx, func(templates billing.TemplateRepository, quotes billing.QuoteRepository) error {
		if err := templates.SoftDelete(ctx, template.ID); err != nil {
			return err
		}
		return quotes.DeactivateByTemplate(ctx, template.ID)
	})
	if err != nil {
		return err
	}

	s.invalidateDomain(ctx, template.BusinessDomain)
	s.logger.Info("billing template deleted",
		zap.String("template_id", template.ID.String()),
		zap.String("template_code", template.TemplateCode))
	return nil
}

// GetByID retrieves a template the caller is allowed to see
func (s *TemplateService) GetByID(ctx context.Context, caller shared.CallerContext, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if err := caller.EnsureAccess(template.BusinessDomain); err != nil {
		return nil, err
	}
	response := ToTemplateResponse(template)
	return &response, nil
}

// List retrieves templates scoped to the caller's granted business domains
func (s *TemplateService) List(ctx context.Context, caller shared.CallerContext, filter TemplateListFilter) ([]TemplateResponse, int64, error) {
	domains, err := grantedDomains(caller, filter.BusinessDomain)
	if err != nil {
		return nil, 0, err
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	templates, total, err := s.templates.Search(ctx, billing.TemplateSearchFilter{
		TemplateType:    billing.TemplateType(filter.TemplateType),
		BusinessDomains: domains,
		Keyword:         filter.Keyword,
		Status:          billing.TemplateStatus(filter.Status),
		CustomerID:      filter.CustomerID,
		CustomerGroupID: filter.CustomerGroupID,
		Limit:           filter.PageSize,
		Offset:          (filter.Page - 1) * filter.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	return ToTemplateResponses(templates), total, nil
}

// regenerateQuotes retires the template's previous quotes, frees each scope
// slot the template now claims and inserts a fresh snapshot for it. A GROUP
// template fans out to one quote per bound group; CUSTOMER and GLOBAL
// templates produce exactly one. Retiring by template first keeps a narrowed
// scope set from leaving stale quotes behind.
func (s *TemplateService) regenerateQuotes(ctx context.Context, template *billing.BillingTemplate, quotes billing.QuoteRepository) error {
	built, err := s.buildQuotes(template)
	if err != nil {
		return err
	}
	if err := quotes.DeactivateByTemplate(ctx, template.ID); err != nil {
		return err
	}
	for _, quote := range built {
		if err := quotes.DeactivateScope(ctx, quote.ScopeKey()); err != nil {
			return err
		}
	}
	return quotes.AddAll(ctx, built)
}

func (s *TemplateService) buildQuotes(template *billing.BillingTemplate) ([]*billing.BillingQuote, error) {
	switch template.TemplateType {
	case billing.TemplateTypeGroup:
		built := make([]*billing.BillingQuote, 0, len(template.CustomerGroupIDs))
		for _, groupID := range template.CustomerGroupIDs {
			groupID := groupID
			quote, err := template.CreateQuote(s.quoteCode(template, billing.QuoteScopeGroup), nil, &groupID)
			if err != nil {
				return nil, err
			}
			built = append(built, quote)
		}
		return built, nil
	case billing.TemplateTypeCustomer:
		quote, err := template.CreateQuote(s.quoteCode(template, billing.QuoteScopeCustomer), nil, nil)
		if err != nil {
			return nil, err
		}
		return []*billing.BillingQuote{quote}, nil
	default:
		quote, err := template.CreateQuote(s.quoteCode(template, billing.QuoteScopeGlobal), nil, nil)
		if err != nil {
			return nil, err
		}
		return []*billing.BillingQuote{quote}, nil
	}
}

func (s *TemplateService) quoteCode(template *billing.BillingTemplate, scope billing.QuoteScope) string {
	token := s.codes.URLSafeToken(quoteTokenLength)
	return strings.ToUpper(fmt.Sprintf("%s-%s-%s", template.TemplateCode, scope, token))
}

func (s *TemplateService) invalidateDomain(ctx context.Context, businessDomain string) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateDomain(ctx, businessDomain)
}

// grantedDomains returns the domain set a listing query may touch: the
// requested domain when the caller holds it, otherwise everything granted.
func grantedDomains(caller shared.CallerContext, requested string) ([]string, error) {
	requested = strings.TrimSpace(requested)
	if requested != "" {
		if err := caller.EnsureAccess(requested); err != nil {
			return nil, err
		}
		return []string{strings.ToUpper(requested)}, nil
	}
	return caller.AllowedDomains(), nil
}
