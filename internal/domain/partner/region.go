package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Region represents a node of the delivery region hierarchy
type Region struct {
	shared.BaseAggregateRoot
	Code      string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name      string     `gorm:"type:varchar(128);not null"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	Level     int        `gorm:"not null;default:1"`
	SortOrder int        `gorm:"not null;default:0"`
}

// NewRegion creates a new region node. A nil parent makes a top-level region.
func NewRegion(code, name string, parent *Region) (*Region, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, shared.NewDomainError("INVALID_REGION", "Region code and name are required")
	}
	region := &Region{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Level:             1,
	}
	if parent != nil {
		parentID := parent.ID
		region.ParentID = &parentID
		region.Level = parent.Level + 1
	}
	return region, nil
}

// Update changes the region's name and sort order
func (r *Region) Update(name string, sortOrder int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_REGION", "Region name is required")
	}
	r.Name = name
	r.SortOrder = sortOrder
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}
