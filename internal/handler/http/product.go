package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Costin94/LiveOn-Ecommerce/internal/command"
	"github.com/Costin94/LiveOn-Ecommerce/internal/query"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/httputil"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/validator"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	create      *command.CreateProductHandler
	update      *command.UpdateProductHandler
	delete      *command.DeleteProductHandler
	adjustStock *command.UpdateProductStockHandler
	getByID     *query.GetProductByIDHandler
	getBySKU    *query.GetProductBySKUHandler
	list        *query.GetAllProductsHandler
	logger      *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(
	create *command.CreateProductHandler,
	update *command.UpdateProductHandler,
	del *command.DeleteProductHandler,
	adjustStock *command.UpdateProductStockHandler,
	getByID *query.GetProductByIDHandler,
	getBySKU *query.GetProductBySKUHandler,
	list *query.GetAllProductsHandler,
	logger *slog.Logger,
) *ProductHandler {
	return &ProductHandler{
		create:      create,
		update:      update,
		delete:      del,
		adjustStock: adjustStock,
		getByID:     getByID,
		getBySKU:    getBySKU,
		list:        list,
		logger:      logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	SKU          string           `json:"sku" validate:"required,min=1,max=50"`
	Description  string           `json:"description" validate:"max=2000"`
	Price        decimal.Decimal  `json:"price" validate:"required"`
	CategoryID   int64            `json:"categoryId" validate:"required,gt=0"`
	InitialStock int              `json:"initialStock" validate:"gte=0"`
	ImageURL     string           `json:"imageUrl" validate:"omitempty,url"`
	Weight       *decimal.Decimal `json:"weight"`
	Featured     bool             `json:"featured"`
}

// UpdateProductRequest is the JSON request body for updating a product.
// All fields are optional; absent fields are left untouched.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *int64           `json:"categoryId" validate:"omitempty,gt=0"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,url"`
	Weight      *decimal.Decimal `json:"weight"`
	Featured    *bool            `json:"featured"`
	Discount    *decimal.Decimal `json:"discountPercentage"`
}

// AdjustStockRequest is the JSON request body for a signed stock adjustment.
type AdjustStockRequest struct {
	Delta int `json:"delta"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var q query.GetAllProducts

	values := r.URL.Query()
	if v := values.Get("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeInvalidParameter(w, "categoryId must be a valid positive integer")
			return
		}
		q.CategoryID = &id
	}
	q.SearchTerm = values.Get("search")
	if v := values.Get("minPrice"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			writeInvalidParameter(w, "minPrice must be a valid number")
			return
		}
		q.MinPrice = &price
	}
	if v := values.Get("maxPrice"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			writeInvalidParameter(w, "maxPrice must be a valid number")
			return
		}
		q.MaxPrice = &price
	}
	if v := values.Get("inStock"); v != "" {
		switch v {
		case "true":
			inStock := true
			q.InStock = &inStock
		case "false":
			inStock := false
			q.InStock = &inStock
		default:
			writeInvalidParameter(w, "inStock must be true or false")
			return
		}
	}

	views, err := h.list.Handle(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: views})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	view, err := h.getByID.Handle(r.Context(), query.GetProductByID{ID: id})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if view == nil {
		writeNotFound(w, "product", id)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// GetProductBySKU handles GET /api/v1/products/sku/{sku}
func (h *ProductHandler) GetProductBySKU(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	if sku == "" {
		writeInvalidParameter(w, "sku is required")
		return
	}

	view, err := h.getBySKU.Handle(r.Context(), query.GetProductBySKU{SKU: sku})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if view == nil {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "product with sku " + sku + " not found"},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.create.Handle(r.Context(), command.CreateProduct{
		Name:         req.Name,
		SKU:          req.SKU,
		Description:  req.Description,
		Price:        req.Price,
		CategoryID:   req.CategoryID,
		InitialStock: req.InitialStock,
		ImageURL:     req.ImageURL,
		Weight:       req.Weight,
		Featured:     req.Featured,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/products/%d", id))
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: map[string]int64{"id": id}})
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.update.Handle(r.Context(), command.UpdateProduct{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		Weight:      req.Weight,
		Featured:    req.Featured,
		Discount:    req.Discount,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if !updated {
		writeNotFound(w, "product", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	deleted, err := h.delete.Handle(r.Context(), command.DeleteProduct{ID: id})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if !deleted {
		writeNotFound(w, "product", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdjustStock handles PATCH /api/v1/products/{id}/stock
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	adjusted, err := h.adjustStock.Handle(r.Context(), command.UpdateProductStock{ID: id, Delta: req.Delta})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if !adjusted {
		writeNotFound(w, "product", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Shared helpers ---

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	if err := validator.DecodeAndValidate(r, dst); err != nil {
		var ve *validator.ValidationError
		if errors.As(err, &ve) {
			httputil.WriteValidationError(w, err)
			return false
		}
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return false
	}
	return true
}

func writeInvalidParameter(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: message},
	})
}

func writeNotFound(w http.ResponseWriter, resource string, id int64) {
	httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
		Error: &httputil.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: fmt.Sprintf("%s with id %d not found", resource, id),
		},
	})
}
