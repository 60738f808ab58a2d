package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// CustomerRepository persists customers and their group memberships
type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByCode(ctx context.Context, code string) (*Customer, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// Memberships returns the customer's live group memberships ordered by
	// assigned_at descending (most recently assigned first).
	Memberships(ctx context.Context, customerID uuid.UUID) ([]GroupMembership, error)
	AssignToGroup(ctx context.Context, membership GroupMembership) error
	RemoveFromGroup(ctx context.Context, customerID, groupID uuid.UUID) error
}

// CustomerGroupRepository persists customer groups
type CustomerGroupRepository interface {
	Save(ctx context.Context, group *CustomerGroup) error
	FindByID(ctx context.Context, id uuid.UUID) (*CustomerGroup, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CustomerGroup, int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// ReplaceMembers swaps the full membership set of a group in one shot
	ReplaceMembers(ctx context.Context, groupID uuid.UUID, customerIDs []uuid.UUID) error
}

// CarrierRepository persists carriers
type CarrierRepository interface {
	Save(ctx context.Context, carrier *Carrier) error
	FindByID(ctx context.Context, id uuid.UUID) (*Carrier, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Carrier, int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// RegionRepository persists the region hierarchy
type RegionRepository interface {
	Save(ctx context.Context, region *Region) error
	FindByID(ctx context.Context, id uuid.UUID) (*Region, error)
	FindChildren(ctx context.Context, parentID *uuid.UUID) ([]Region, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Region, int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
