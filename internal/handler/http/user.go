package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Costin94/LiveOn-Ecommerce/internal/command"
	"github.com/Costin94/LiveOn-Ecommerce/internal/query"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/httputil"
)

// UserHandler handles HTTP requests for user endpoints.
type UserHandler struct {
	create     *command.CreateUserHandler
	update     *command.UpdateUserHandler
	delete     *command.DeleteUserHandler
	activate   *command.ActivateUserHandler
	deactivate *command.DeactivateUserHandler
	getByID    *query.GetUserByIDHandler
	getByEmail *query.GetUserByEmailHandler
	list       *query.GetAllUsersHandler
	logger     *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(
	create *command.CreateUserHandler,
	update *command.UpdateUserHandler,
	del *command.DeleteUserHandler,
	activate *command.ActivateUserHandler,
	deactivate *command.DeactivateUserHandler,
	getByID *query.GetUserByIDHandler,
	getByEmail *query.GetUserByEmailHandler,
	list *query.GetAllUsersHandler,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		create:     create,
		update:     update,
		delete:     del,
		activate:   activate,
		deactivate: deactivate,
		getByID:    getByID,
		getByEmail: getByEmail,
		list:       list,
		logger:     logger,
	}
}

// --- Request DTOs ---

// CreateUserRequest is the JSON request body for registering a user.
type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email,max=256"`
	FirstName   string `json:"firstName" validate:"required,min=1,max=50"`
	LastName    string `json:"lastName" validate:"required,min=1,max=50"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	Role        string `json:"role" validate:"omitempty,oneof=customer manager administrator"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,max=20"`
}

// UpdateUserRequest is the JSON request body for updating a user.
// All fields are optional; absent fields are left untouched.
type UpdateUserRequest struct {
	Email       *string `json:"email" validate:"omitempty,email,max=256"`
	FirstName   *string `json:"firstName" validate:"omitempty,min=1,max=50"`
	LastName    *string `json:"lastName" validate:"omitempty,min=1,max=50"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=20"`
	Role        *string `json:"role" validate:"omitempty,oneof=customer manager administrator"`
}

// --- Handlers ---

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := query.GetAllUsers{
		Role:       r.URL.Query().Get("role"),
		ActiveOnly: r.URL.Query().Get("activeOnly") == "true",
	}

	views, err := h.list.Handle(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: views})
}

// GetUser handles GET /api/v1/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	view, err := h.getByID.Handle(r.Context(), query.GetUserByID{ID: id})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if view == nil {
		writeNotFound(w, "user", id)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// GetUserByEmail handles GET /api/v1/users/email/{email}
func (h *UserHandler) GetUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email == "" {
		writeInvalidParameter(w, "email is required")
		return
	}

	view, err := h.getByEmail.Handle(r.Context(), query.GetUserByEmail{Email: email})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if view == nil {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "user with email " + email + " not found"},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.create.Handle(r.Context(), command.CreateUser{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Password:    req.Password,
		Role:        req.Role,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/users/%d", id))
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: map[string]int64{"id": id}})
}

// UpdateUser handles PUT /api/v1/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.update.Handle(r.Context(), command.UpdateUser{
		ID:          id,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if !updated {
		writeNotFound(w, "user", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser handles DELETE /api/v1/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	deleted, err := h.delete.Handle(r.Context(), command.DeleteUser{ID: id})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if !deleted {
		writeNotFound(w, "user", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ActivateUser handles POST /api/v1/users/{id}/activate
func (h *UserHandler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	activated, err := h.activate.Handle(r.Context(), command.ActivateUser{ID: id})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if !activated {
		writeNotFound(w, "user", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeactivateUser handles POST /api/v1/users/{id}/deactivate
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	deactivated, err := h.deactivate.Handle(r.Context(), command.DeactivateUser{ID: id})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if !deactivated {
		writeNotFound(w, "user", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
