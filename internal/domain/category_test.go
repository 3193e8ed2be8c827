package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
)

func newTestCategory(t *testing.T) *Category {
	t.Helper()
	c, err := NewCategory("Electronics", "Gadgets and devices", nil)
	require.NoError(t, err)
	return c
}

// ============================================================================
// Category Construction Tests
// ============================================================================

func TestNewCategory_Defaults(t *testing.T) {
	c := newTestCategory(t)

	assert.Equal(t, "Electronics", c.Name())
	assert.Equal(t, "electronics", c.Slug())
	assert.True(t, c.IsActive())
	assert.Equal(t, 0, c.DisplayOrder())
	assert.Nil(t, c.ParentCategoryID())
	assert.Nil(t, c.UpdatedAt())
}

func TestNewCategory_WithParent(t *testing.T) {
	parentID := int64(3)
	c, err := NewCategory("Laptops", "", &parentID)
	require.NoError(t, err)
	require.NotNil(t, c.ParentCategoryID())
	assert.Equal(t, int64(3), *c.ParentCategoryID())
}

func TestNewCategory_InvalidName(t *testing.T) {
	c, err := NewCategory("   ", "", nil)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Nil(t, c)
}

// ============================================================================
// Category Mutation Tests
// ============================================================================

func TestCategory_SetName_RegeneratesSlug(t *testing.T) {
	c := newTestCategory(t)

	require.NoError(t, c.SetName("Kids & Toys"))
	assert.Equal(t, "Kids & Toys", c.Name())
	assert.Equal(t, "kids-and-toys", c.Slug())
	assert.NotNil(t, c.UpdatedAt())
}

func TestCategory_SetName_TooLong(t *testing.T) {
	c := newTestCategory(t)
	err := c.SetName(strings.Repeat("x", maxCategoryNameLen+1))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, "electronics", c.Slug(), "slug untouched after failed rename")
}

func TestCategory_SetDescription_TooLong(t *testing.T) {
	c := newTestCategory(t)
	err := c.SetDescription(strings.Repeat("d", maxCategoryDescriptionLen+1))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, "Gadgets and devices", c.Description())
}

func TestCategory_SetParentCategory_SelfRejected(t *testing.T) {
	c := newTestCategory(t)
	c.MarkPersisted(9)

	self := int64(9)
	err := c.SetParentCategory(&self)
	assert.True(t, errors.Is(err, apperrors.ErrBusinessRule))
	assert.Nil(t, c.ParentCategoryID())

	other := int64(4)
	require.NoError(t, c.SetParentCategory(&other))
	require.NotNil(t, c.ParentCategoryID())
	assert.Equal(t, int64(4), *c.ParentCategoryID())

	require.NoError(t, c.SetParentCategory(nil))
	assert.Nil(t, c.ParentCategoryID())
}

func TestCategory_ActivateDeactivate(t *testing.T) {
	c := newTestCategory(t)

	c.Deactivate()
	assert.False(t, c.IsActive())

	c.Activate()
	assert.True(t, c.IsActive())
}

func TestCategory_SetDisplayOrder(t *testing.T) {
	c := newTestCategory(t)

	err := c.SetDisplayOrder(-1)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	require.NoError(t, c.SetDisplayOrder(5))
	assert.Equal(t, 5, c.DisplayOrder())
}

// ============================================================================
// Persistence Round-Trip Tests
// ============================================================================

func TestCategory_RecordRestore(t *testing.T) {
	c := newTestCategory(t)
	require.NoError(t, c.SetDisplayOrder(2))
	c.Deactivate()
	c.MarkPersisted(7)

	restored := RestoreCategory(c.Record())
	assert.Equal(t, c.Record(), restored.Record())
	assert.Equal(t, int64(7), restored.ID())
	assert.False(t, restored.IsActive())
}
