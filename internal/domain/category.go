package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/slug"
)

// Category field constraints.
const (
	maxCategoryNameLen        = 100
	maxCategoryDescriptionLen = 500
)

// Category groups products, optionally nested under a parent category.
// It does not own product lifecycle; queries join products by category id.
type Category struct {
	Entity

	name             string
	description      string
	slug             string
	parentCategoryID *int64
	active           bool
	displayOrder     int
}

// NewCategory creates an active category. The slug is derived from the name
// and regenerated on every rename; it is never settable directly.
func NewCategory(name, description string, parentCategoryID *int64) (*Category, error) {
	c := &Category{
		Entity: newEntity(),
		active: true,
	}
	if err := c.SetName(name); err != nil {
		return nil, err
	}
	if err := c.SetDescription(description); err != nil {
		return nil, err
	}
	// A new category has no identity yet, so a parent reference can never
	// be self-referential here; SetParentCategory guards later reassignment.
	c.parentCategoryID = parentCategoryID
	c.updatedAt = nil
	return c, nil
}

// --- Accessors ---

func (c *Category) Name() string             { return c.name }
func (c *Category) Description() string      { return c.description }
func (c *Category) Slug() string             { return c.slug }
func (c *Category) ParentCategoryID() *int64 { return c.parentCategoryID }
func (c *Category) IsActive() bool           { return c.active }
func (c *Category) DisplayOrder() int        { return c.displayOrder }

// --- Mutations ---

// SetName updates the name (required, max 100 characters) and regenerates
// the slug deterministically.
func (c *Category) SetName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return apperrors.Validation("category name is required")
	}
	if len(trimmed) > maxCategoryNameLen {
		return apperrors.Validation(fmt.Sprintf("category name cannot exceed %d characters", maxCategoryNameLen))
	}
	c.name = trimmed
	c.slug = slug.Generate(trimmed)
	c.touch()
	return nil
}

// SetDescription updates the optional description (max 500 characters).
func (c *Category) SetDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	if len(trimmed) > maxCategoryDescriptionLen {
		return apperrors.Validation(fmt.Sprintf("category description cannot exceed %d characters", maxCategoryDescriptionLen))
	}
	c.description = trimmed
	c.touch()
	return nil
}

// SetParentCategory reparents the category. A category can never be its
// own parent.
func (c *Category) SetParentCategory(parentCategoryID *int64) error {
	if parentCategoryID != nil && c.id != 0 && *parentCategoryID == c.id {
		return apperrors.BusinessRule("a category cannot be its own parent")
	}
	c.parentCategoryID = parentCategoryID
	c.touch()
	return nil
}

// Activate makes the category visible.
func (c *Category) Activate() {
	c.active = true
	c.touch()
}

// Deactivate hides the category.
func (c *Category) Deactivate() {
	c.active = false
	c.touch()
}

// SetDisplayOrder updates the sort position (non-negative).
func (c *Category) SetDisplayOrder(order int) error {
	if order < 0 {
		return apperrors.Validation("display order cannot be negative")
	}
	c.displayOrder = order
	c.touch()
	return nil
}

// --- Persistence hydration ---

// CategoryRecord is the flat persistence snapshot of a category.
type CategoryRecord struct {
	ID               int64
	Name             string
	Description      string
	Slug             string
	ParentCategoryID *int64
	IsActive         bool
	DisplayOrder     int
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	IsDeleted        bool
}

// Record returns the persistence snapshot of the category.
func (c *Category) Record() CategoryRecord {
	return CategoryRecord{
		ID:               c.id,
		Name:             c.name,
		Description:      c.description,
		Slug:             c.slug,
		ParentCategoryID: c.parentCategoryID,
		IsActive:         c.active,
		DisplayOrder:     c.displayOrder,
		CreatedAt:        c.createdAt,
		UpdatedAt:        c.updatedAt,
		IsDeleted:        c.deleted,
	}
}

// RestoreCategory rebuilds a category from its stored state without validation.
func RestoreCategory(rec CategoryRecord) *Category {
	return &Category{
		Entity: Entity{
			id:        rec.ID,
			createdAt: rec.CreatedAt,
			updatedAt: rec.UpdatedAt,
			deleted:   rec.IsDeleted,
		},
		name:             rec.Name,
		description:      rec.Description,
		slug:             rec.Slug,
		parentCategoryID: rec.ParentCategoryID,
		active:           rec.IsActive,
		displayOrder:     rec.DisplayOrder,
	}
}
