package command

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
)

func TestCreateProduct_Success(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	c := seedCategory(t, db)
	h := NewCreateProductHandler(uow, events, log)

	id, err := h.Handle(context.Background(), CreateProduct{
		Name:         "Wireless Mouse",
		SKU:          "wm-001",
		Description:  "A mouse",
		Price:        decimal.NewFromFloat(29.99),
		CategoryID:   c.ID(),
		InitialStock: 10,
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	stored, err := memoryProduct(db, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "WM-001", stored.SKU())
	assert.Equal(t, 10, stored.StockQuantity())
	assert.Equal(t, domain.ProductStatusDraft, stored.Status())
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	c := seedCategory(t, db)
	seedProduct(t, db, c.ID())
	h := NewCreateProductHandler(uow, events, log)

	_, err := h.Handle(context.Background(), CreateProduct{
		Name:       "Other Mouse",
		SKU:        "wm-001",
		Price:      decimal.NewFromInt(10),
		CategoryID: c.ID(),
	})
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

func TestCreateProduct_MissingCategory(t *testing.T) {
	_, uow, events, log := newTestDeps(t)
	h := NewCreateProductHandler(uow, events, log)

	_, err := h.Handle(context.Background(), CreateProduct{
		Name:       "Mouse",
		SKU:        "WM-001",
		Price:      decimal.NewFromInt(10),
		CategoryID: 999,
	})
	assert.True(t, errors.Is(err, apperrors.ErrBusinessRule))
}

func TestCreateProduct_InvalidInput(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	seedCategory(t, db)
	h := NewCreateProductHandler(uow, events, log)

	_, err := h.Handle(context.Background(), CreateProduct{
		Name:       "",
		SKU:        "WM-001",
		Price:      decimal.NewFromInt(10),
		CategoryID: 1,
	})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestUpdateProduct_Success(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	c := seedCategory(t, db)
	p := seedProduct(t, db, c.ID())
	h := NewUpdateProductHandler(uow, events, log)

	name := "Ergo Mouse"
	price := decimal.NewFromInt(45)
	ok, err := h.Handle(context.Background(), UpdateProduct{
		ID:    p.ID(),
		Name:  &name,
		Price: &price,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := memoryProduct(db, p.ID())
	require.NoError(t, err)
	assert.Equal(t, "Ergo Mouse", stored.Name())
	assert.True(t, stored.Price().Equal(price))
}

func TestUpdateProduct_AbsentReturnsFalse(t *testing.T) {
	_, uow, events, log := newTestDeps(t)
	h := NewUpdateProductHandler(uow, events, log)

	name := "Anything"
	ok, err := h.Handle(context.Background(), UpdateProduct{ID: 999, Name: &name})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateProduct_BusinessRuleSurfaces(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	c := seedCategory(t, db)
	p := seedProduct(t, db, c.ID())
	h := NewUpdateProductHandler(uow, events, log)

	bad := decimal.NewFromInt(-1)
	ok, err := h.Handle(context.Background(), UpdateProduct{ID: p.ID(), Price: &bad})
	assert.False(t, ok)
	assert.True(t, errors.Is(err, apperrors.ErrBusinessRule))
}

func TestDeleteProduct(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	c := seedCategory(t, db)
	p := seedProduct(t, db, c.ID())
	h := NewDeleteProductHandler(uow, events, log)

	ok, err := h.Handle(context.Background(), DeleteProduct{ID: p.ID()})
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := memoryProduct(db, p.ID())
	require.NoError(t, err)
	assert.Nil(t, stored, "soft-deleted products are invisible to reads")

	ok, err = h.Handle(context.Background(), DeleteProduct{ID: p.ID()})
	assert.NoError(t, err)
	assert.False(t, ok, "deleting twice reports absence")
}

func TestUpdateProductStock_Delta(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	c := seedCategory(t, db)
	p := seedProduct(t, db, c.ID())
	h := NewUpdateProductStockHandler(uow, events, log)

	ok, err := h.Handle(context.Background(), UpdateProductStock{ID: p.ID(), Delta: 5})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Handle(context.Background(), UpdateProductStock{ID: p.ID(), Delta: -2})
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := memoryProduct(db, p.ID())
	require.NoError(t, err)
	assert.Equal(t, 3, stored.StockQuantity())
}

func TestUpdateProductStock_InsufficientStock(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	c := seedCategory(t, db)
	p := seedProduct(t, db, c.ID())
	h := NewUpdateProductStockHandler(uow, events, log)

	ok, err := h.Handle(context.Background(), UpdateProductStock{ID: p.ID(), Delta: -1})
	assert.False(t, ok)
	assert.True(t, errors.Is(err, apperrors.ErrBusinessRule))
}

func TestUpdateProductStock_ZeroDeltaIsNoOp(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	c := seedCategory(t, db)
	p := seedProduct(t, db, c.ID())
	h := NewUpdateProductStockHandler(uow, events, log)

	ok, err := h.Handle(context.Background(), UpdateProductStock{ID: p.ID(), Delta: 0})
	assert.NoError(t, err)
	assert.True(t, ok)
}
