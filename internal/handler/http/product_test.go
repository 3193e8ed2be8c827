package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// POST /api/v1/products
// ============================================================

func TestCreateProduct_Created(t *testing.T) {
	db, router := newTestServer(t)
	c := seedTestCategory(t, db)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products", map[string]any{
		"name":         "Wireless Mouse",
		"sku":          "WM-001",
		"price":        29.99,
		"categoryId":   c.ID(),
		"initialStock": 10,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/api/v1/products/")

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Data)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products", map[string]any{
		"sku":   "WM-001",
		"price": 29.99,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	db, router := newTestServer(t)
	c := seedTestCategory(t, db)
	seedTestProduct(t, db, c.ID())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products", map[string]any{
		"name":       "Another Mouse",
		"sku":        "wm-001",
		"price":      19.99,
		"categoryId": c.ID(),
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ALREADY_EXISTS", resp.Error.Code)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products", map[string]any{
		"name":       "Wireless Mouse",
		"sku":        "WM-001",
		"price":      29.99,
		"categoryId": 404,
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BUSINESS_RULE_VIOLATION", resp.Error.Code)
}

// ============================================================
// GET /api/v1/products
// ============================================================

func TestGetProduct_OKAndNotFound(t *testing.T) {
	db, router := newTestServer(t)
	c := seedTestCategory(t, db)
	p := seedTestProduct(t, db, c.ID())

	rec := doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", p.ID()), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Wireless Mouse", data["name"])
	assert.Equal(t, "Electronics", data["categoryName"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/products/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/products/not-a-number", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductBySKU_OK(t *testing.T) {
	db, router := newTestServer(t)
	c := seedTestCategory(t, db)
	seedTestProduct(t, db, c.ID())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products/sku/wm-001", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/products/sku/NOPE-1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProducts_Filters(t *testing.T) {
	db, router := newTestServer(t)
	c := seedTestCategory(t, db)
	seedTestProduct(t, db, c.ID())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/products?search=mouse&inStock=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	views, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, views, 1)

	// inStock=false does not narrow the listing.
	rec = doRequest(t, router, http.MethodGet, "/api/v1/products?inStock=false", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeResponse(t, rec)
	views, ok = resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, views, 1)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/products?inStock=maybe", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/products?minPrice=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================================
// PUT / DELETE / PATCH /api/v1/products/{id}
// ============================================================

func TestUpdateProduct_NoContentAndNotFound(t *testing.T) {
	db, router := newTestServer(t)
	c := seedTestCategory(t, db)
	p := seedTestProduct(t, db, c.ID())

	rec := doRequest(t, router, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", p.ID()), map[string]any{
		"name": "Renamed Mouse",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Renamed Mouse", p.Name())

	rec = doRequest(t, router, http.MethodPut, "/api/v1/products/999", map[string]any{
		"name": "Ghost",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct_NoContent(t *testing.T) {
	db, router := newTestServer(t)
	c := seedTestCategory(t, db)
	p := seedTestProduct(t, db, c.ID())

	rec := doRequest(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", p.ID()), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", p.ID()), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdjustStock_DeltaApplied(t *testing.T) {
	db, router := newTestServer(t)
	c := seedTestCategory(t, db)
	p := seedTestProduct(t, db, c.ID())

	rec := doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/products/%d/stock", p.ID()), map[string]any{
		"delta": -4,
	})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 6, p.StockQuantity())

	// Draining more than available violates a business rule.
	rec = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/products/%d/stock", p.ID()), map[string]any{
		"delta": -100,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
