package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("Wireless Mouse", "wm-001", decimal.NewFromFloat(29.99), 1, "A mouse")
	require.NoError(t, err)
	return p
}

// ============================================================================
// Product Status Validation Tests
// ============================================================================

func TestValidProductStatuses_ContainsAll(t *testing.T) {
	expected := []string{
		ProductStatusDraft,
		ProductStatusActive,
		ProductStatusOutOfStock,
		ProductStatusDiscontinued,
		ProductStatusArchived,
	}
	assert.ElementsMatch(t, expected, ValidProductStatuses())
}

func TestIsValidProductStatus_Valid(t *testing.T) {
	for _, s := range ValidProductStatuses() {
		assert.True(t, IsValidProductStatus(s), "expected %q to be valid", s)
	}
}

func TestIsValidProductStatus_Invalid(t *testing.T) {
	assert.False(t, IsValidProductStatus("unknown"))
	assert.False(t, IsValidProductStatus(""))
	assert.False(t, IsValidProductStatus("DRAFT"))
}

// ============================================================================
// Product Construction Tests
// ============================================================================

func TestNewProduct_Defaults(t *testing.T) {
	p := newTestProduct(t)

	assert.Equal(t, ProductStatusDraft, p.Status())
	assert.Equal(t, 0, p.StockQuantity())
	assert.Equal(t, int64(0), p.ID())
	assert.Nil(t, p.UpdatedAt())
	assert.False(t, p.IsFeatured())
	assert.False(t, p.IsDeleted())
	assert.True(t, p.Discount().IsZero())
}

func TestNewProduct_NormalizesSKU(t *testing.T) {
	p := newTestProduct(t)
	assert.Equal(t, "WM-001", p.SKU())
}

func TestNewProduct_InvalidInputs(t *testing.T) {
	tests := []struct {
		name  string
		build func() (*Product, error)
	}{
		{"empty name", func() (*Product, error) {
			return NewProduct("", "SKU-1", decimal.NewFromInt(10), 1, "")
		}},
		{"empty sku", func() (*Product, error) {
			return NewProduct("Name", "   ", decimal.NewFromInt(10), 1, "")
		}},
		{"zero price", func() (*Product, error) {
			return NewProduct("Name", "SKU-1", decimal.Zero, 1, "")
		}},
		{"zero category", func() (*Product, error) {
			return NewProduct("Name", "SKU-1", decimal.NewFromInt(10), 0, "")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.build()
			assert.Error(t, err)
			assert.Nil(t, p)
		})
	}
}

// ============================================================================
// Field Mutation Tests
// ============================================================================

func TestProduct_SetName_Validation(t *testing.T) {
	p := newTestProduct(t)

	err := p.SetName("   ")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, "Wireless Mouse", p.Name())

	err = p.SetName(strings.Repeat("x", maxProductNameLen+1))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	require.NoError(t, p.SetName("  Ergo Mouse  "))
	assert.Equal(t, "Ergo Mouse", p.Name())
	assert.NotNil(t, p.UpdatedAt())
}

func TestProduct_SetPrice_Bounds(t *testing.T) {
	p := newTestProduct(t)

	err := p.SetPrice(decimal.NewFromInt(-5))
	assert.True(t, errors.Is(err, apperrors.ErrBusinessRule))

	err = p.SetPrice(decimal.NewFromInt(1_000_001))
	assert.True(t, errors.Is(err, apperrors.ErrBusinessRule))

	require.NoError(t, p.SetPrice(decimal.NewFromInt(1_000_000)))
	assert.True(t, p.Price().Equal(decimal.NewFromInt(1_000_000)))
}

func TestProduct_FailedMutationLeavesStateUnchanged(t *testing.T) {
	p := newTestProduct(t)
	before := p.Record()

	assert.Error(t, p.SetPrice(decimal.Zero))
	assert.Error(t, p.SetName(""))
	assert.Error(t, p.ChangeCategory(-1))

	after := p.Record()
	assert.Equal(t, before, after)
}

func TestProduct_SetDescription_TooLong(t *testing.T) {
	p := newTestProduct(t)
	err := p.SetDescription(strings.Repeat("d", maxProductDescriptionLen+1))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestProduct_SetWeight(t *testing.T) {
	p := newTestProduct(t)

	neg := decimal.NewFromFloat(-0.5)
	err := p.SetWeight(&neg)
	assert.True(t, errors.Is(err, apperrors.ErrBusinessRule))
	assert.Nil(t, p.Weight())

	w := decimal.NewFromFloat(1.25)
	require.NoError(t, p.SetWeight(&w))
	require.NotNil(t, p.Weight())
	assert.True(t, p.Weight().Equal(w))

	require.NoError(t, p.SetWeight(nil))
	assert.Nil(t, p.Weight())
}

// ============================================================================
// Stock and Status Transition Tests
// ============================================================================

func TestProduct_IncreaseStock(t *testing.T) {
	p := newTestProduct(t)

	assert.Error(t, p.IncreaseStock(0))
	assert.Error(t, p.IncreaseStock(-3))

	require.NoError(t, p.IncreaseStock(10))
	assert.Equal(t, 10, p.StockQuantity())
	assert.Equal(t, ProductStatusDraft, p.Status(), "stock alone does not publish a draft")
}

func TestProduct_DecreaseStock_Insufficient(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.IncreaseStock(2))

	err := p.DecreaseStock(5)
	assert.True(t, errors.Is(err, apperrors.ErrBusinessRule))
	assert.Contains(t, err.Error(), "insufficient stock")
	assert.Equal(t, 2, p.StockQuantity())
}

func TestProduct_DecreaseStock_DrainMarksOutOfStock(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.IncreaseStock(2))
	require.NoError(t, p.Activate())
	assert.Equal(t, ProductStatusActive, p.Status())

	require.NoError(t, p.DecreaseStock(2))
	assert.Equal(t, 0, p.StockQuantity())
	assert.Equal(t, ProductStatusOutOfStock, p.Status())
}

func TestProduct_IncreaseStock_ReactivatesOutOfStock(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.IncreaseStock(1))
	require.NoError(t, p.Activate())
	require.NoError(t, p.DecreaseStock(1))
	require.Equal(t, ProductStatusOutOfStock, p.Status())

	require.NoError(t, p.IncreaseStock(5))
	assert.Equal(t, ProductStatusActive, p.Status())
}

func TestProduct_SetStock_BoundaryRecompute(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.IncreaseStock(3))
	require.NoError(t, p.Activate())

	require.NoError(t, p.SetStock(0))
	assert.Equal(t, ProductStatusOutOfStock, p.Status())

	require.NoError(t, p.SetStock(7))
	assert.Equal(t, ProductStatusActive, p.Status())
	assert.Equal(t, 7, p.StockQuantity())

	err := p.SetStock(-1)
	assert.True(t, errors.Is(err, apperrors.ErrBusinessRule))
	assert.Equal(t, 7, p.StockQuantity())
}

func TestProduct_Activate(t *testing.T) {
	p := newTestProduct(t)

	require.NoError(t, p.Activate())
	assert.Equal(t, ProductStatusOutOfStock, p.Status(), "activating with no stock lands on out of stock")

	require.NoError(t, p.IncreaseStock(1))
	require.NoError(t, p.Activate())
	assert.Equal(t, ProductStatusActive, p.Status())
}

func TestProduct_Activate_DiscontinuedRejected(t *testing.T) {
	p := newTestProduct(t)
	p.Discontinue()

	err := p.Activate()
	assert.True(t, errors.Is(err, apperrors.ErrBusinessRule))
	assert.Equal(t, ProductStatusDiscontinued, p.Status())
}

// ============================================================================
// Discount and Derived Property Tests
// ============================================================================

func TestProduct_ApplyDiscount_Bounds(t *testing.T) {
	p := newTestProduct(t)

	assert.Error(t, p.ApplyDiscount(decimal.NewFromInt(-1)))
	assert.Error(t, p.ApplyDiscount(decimal.NewFromInt(101)))

	require.NoError(t, p.ApplyDiscount(decimal.NewFromInt(100)))
	assert.True(t, p.FinalPrice().IsZero())
}

func TestProduct_FinalPrice(t *testing.T) {
	p, err := NewProduct("Keyboard", "KB-1", decimal.NewFromInt(200), 1, "")
	require.NoError(t, err)

	assert.True(t, p.FinalPrice().Equal(decimal.NewFromInt(200)))

	require.NoError(t, p.ApplyDiscount(decimal.NewFromInt(25)))
	assert.True(t, p.FinalPrice().Equal(decimal.NewFromInt(150)))

	p.RemoveDiscount()
	assert.True(t, p.FinalPrice().Equal(decimal.NewFromInt(200)))
}

func TestProduct_AvailabilityAndOrdering(t *testing.T) {
	p := newTestProduct(t)
	assert.False(t, p.IsInStock())
	assert.False(t, p.IsAvailable())
	assert.False(t, p.CanBeOrdered(1))

	require.NoError(t, p.IncreaseStock(3))
	require.NoError(t, p.Activate())
	assert.True(t, p.IsInStock())
	assert.True(t, p.IsAvailable())
	assert.True(t, p.CanBeOrdered(3))
	assert.False(t, p.CanBeOrdered(4))

	p.Discontinue()
	assert.False(t, p.IsAvailable())
	assert.False(t, p.CanBeOrdered(1))
}

// ============================================================================
// Persistence Round-Trip Tests
// ============================================================================

func TestProduct_RecordRestore(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.IncreaseStock(4))
	require.NoError(t, p.Activate())
	require.NoError(t, p.ApplyDiscount(decimal.NewFromInt(10)))
	p.MarkPersisted(42)

	restored := RestoreProduct(p.Record())
	assert.Equal(t, p.Record(), restored.Record())
	assert.Equal(t, int64(42), restored.ID())
	assert.Equal(t, ProductStatusActive, restored.Status())
}
