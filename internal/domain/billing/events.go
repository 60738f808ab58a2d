package billing

import (
	"github.com/wms/backend/internal/domain/shared"
)

// Event type constants for the billing context
const (
	EventTemplateCreated     = "billing.template.created"
	EventTemplateActivated   = "billing.template.activated"
	EventTemplateDeactivated = "billing.template.deactivated"
)

// TemplateCreatedEvent is raised when a billing template is created
type TemplateCreatedEvent struct {
	shared.BaseDomainEvent
	TemplateCode string       `json:"template_code"`
	TemplateType TemplateType `json:"template_type"`
}

// NewTemplateCreatedEvent creates a TemplateCreatedEvent
func NewTemplateCreatedEvent(t *BillingTemplate) *TemplateCreatedEvent {
	return &TemplateCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTemplateCreated, "BillingTemplate", t.ID, t.BusinessDomain),
		TemplateCode:    t.TemplateCode,
		TemplateType:    t.TemplateType,
	}
}

// TemplateActivatedEvent is raised when a template enters ACTIVE state
type TemplateActivatedEvent struct {
	shared.BaseDomainEvent
	TemplateCode string `json:"template_code"`
	Version      int    `json:"version"`
}

// NewTemplateActivatedEvent creates a TemplateActivatedEvent
func NewTemplateActivatedEvent(t *BillingTemplate) *TemplateActivatedEvent {
	return &TemplateActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTemplateActivated, "BillingTemplate", t.ID, t.BusinessDomain),
		TemplateCode:    t.TemplateCode,
		Version:         t.Version,
	}
}

// TemplateDeactivatedEvent is raised when a template leaves ACTIVE state
type TemplateDeactivatedEvent struct {
	shared.BaseDomainEvent
	TemplateCode string `json:"template_code"`
	Version      int    `json:"version"`
}

// NewTemplateDeactivatedEvent creates a TemplateDeactivatedEvent
func NewTemplateDeactivatedEvent(t *BillingTemplate) *TemplateDeactivatedEvent {
	return &TemplateDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTemplateDeactivated, "BillingTemplate", t.ID, t.BusinessDomain),
		TemplateCode:    t.TemplateCode,
		Version:         t.Version,
	}
}
