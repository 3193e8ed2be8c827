package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Costin94/LiveOn-Ecommerce/internal/command"
	"github.com/Costin94/LiveOn-Ecommerce/internal/query"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/httputil"
)

// CategoryHandler handles HTTP requests for category endpoints.
type CategoryHandler struct {
	create  *command.CreateCategoryHandler
	update  *command.UpdateCategoryHandler
	delete  *command.DeleteCategoryHandler
	getByID *query.GetCategoryByIDHandler
	list    *query.GetAllCategoriesHandler
	logger  *slog.Logger
}

// NewCategoryHandler creates a new category HTTP handler.
func NewCategoryHandler(
	create *command.CreateCategoryHandler,
	update *command.UpdateCategoryHandler,
	del *command.DeleteCategoryHandler,
	getByID *query.GetCategoryByIDHandler,
	list *query.GetAllCategoriesHandler,
	logger *slog.Logger,
) *CategoryHandler {
	return &CategoryHandler{
		create:  create,
		update:  update,
		delete:  del,
		getByID: getByID,
		list:    list,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateCategoryRequest is the JSON request body for creating a category.
type CreateCategoryRequest struct {
	Name             string `json:"name" validate:"required,min=1,max=100"`
	Description      string `json:"description" validate:"max=500"`
	ParentCategoryID *int64 `json:"parentCategoryId" validate:"omitempty,gt=0"`
	DisplayOrder     int    `json:"displayOrder" validate:"gte=0"`
}

// UpdateCategoryRequest is the JSON request body for updating a category.
// All fields are optional; absent fields are left untouched. Setting
// clearParent detaches the category from its parent.
type UpdateCategoryRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description      *string `json:"description" validate:"omitempty,max=500"`
	ParentCategoryID *int64  `json:"parentCategoryId" validate:"omitempty,gt=0"`
	ClearParent      bool    `json:"clearParent"`
	Active           *bool   `json:"active"`
	DisplayOrder     *int    `json:"displayOrder" validate:"omitempty,gte=0"`
}

// --- Handlers ---

// ListCategories handles GET /api/v1/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	var q query.GetAllCategories

	values := r.URL.Query()
	if v := values.Get("isActive"); v != "" {
		switch v {
		case "true":
			active := true
			q.IsActive = &active
		case "false":
			active := false
			q.IsActive = &active
		default:
			writeInvalidParameter(w, "isActive must be true or false")
			return
		}
	}
	if v := values.Get("parentCategoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeInvalidParameter(w, "parentCategoryId must be a valid positive integer")
			return
		}
		q.ParentCategoryID = &id
	}

	views, err := h.list.Handle(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: views})
}

// GetCategory handles GET /api/v1/categories/{id}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	view, err := h.getByID.Handle(r.Context(), query.GetCategoryByID{ID: id})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if view == nil {
		writeNotFound(w, "category", id)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// CreateCategory handles POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.create.Handle(r.Context(), command.CreateCategory{
		Name:             req.Name,
		Description:      req.Description,
		ParentCategoryID: req.ParentCategoryID,
		DisplayOrder:     req.DisplayOrder,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/categories/%d", id))
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: map[string]int64{"id": id}})
}

// UpdateCategory handles PUT /api/v1/categories/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.update.Handle(r.Context(), command.UpdateCategory{
		ID:               id,
		Name:             req.Name,
		Description:      req.Description,
		ParentCategoryID: req.ParentCategoryID,
		ClearParent:      req.ClearParent,
		Active:           req.Active,
		DisplayOrder:     req.DisplayOrder,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if !updated {
		writeNotFound(w, "category", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCategory handles DELETE /api/v1/categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	deleted, err := h.delete.Handle(r.Context(), command.DeleteCategory{ID: id})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if !deleted {
		writeNotFound(w, "category", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
