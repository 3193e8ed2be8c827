package query

import (
	"context"
	"fmt"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	"github.com/Costin94/LiveOn-Ecommerce/internal/dto"
	"github.com/Costin94/LiveOn-Ecommerce/internal/repository"
)

// GetUserByID fetches a single user view.
type GetUserByID struct {
	ID int64
}

// GetUserByIDHandler handles GetUserByID.
type GetUserByIDHandler struct {
	uow repository.UnitOfWorkFactory
}

func NewGetUserByIDHandler(uow repository.UnitOfWorkFactory) *GetUserByIDHandler {
	return &GetUserByIDHandler{uow: uow}
}

// Handle returns nil when the user does not exist.
func (h *GetUserByIDHandler) Handle(ctx context.Context, q GetUserByID) (*dto.UserView, error) {
	uow := h.uow()
	defer uow.Close()

	u, err := uow.Users().GetByID(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, nil
	}

	view := dto.NewUserView(u)
	return &view, nil
}

// GetUserByEmail fetches a single user view by email address.
type GetUserByEmail struct {
	Email string
}

// GetUserByEmailHandler handles GetUserByEmail.
type GetUserByEmailHandler struct {
	uow repository.UnitOfWorkFactory
}

func NewGetUserByEmailHandler(uow repository.UnitOfWorkFactory) *GetUserByEmailHandler {
	return &GetUserByEmailHandler{uow: uow}
}

// Handle returns nil when no user carries the email.
func (h *GetUserByEmailHandler) Handle(ctx context.Context, q GetUserByEmail) (*dto.UserView, error) {
	uow := h.uow()
	defer uow.Close()

	u, err := uow.Users().GetByEmail(ctx, q.Email)
	if err != nil {
		return nil, fmt.Errorf("load user by email: %w", err)
	}
	if u == nil {
		return nil, nil
	}

	view := dto.NewUserView(u)
	return &view, nil
}

// GetAllUsers lists users, optionally narrowed by role or active state.
type GetAllUsers struct {
	Role       string
	ActiveOnly bool
}

// GetAllUsersHandler handles GetAllUsers.
type GetAllUsersHandler struct {
	uow repository.UnitOfWorkFactory
}

func NewGetAllUsersHandler(uow repository.UnitOfWorkFactory) *GetAllUsersHandler {
	return &GetAllUsersHandler{uow: uow}
}

func (h *GetAllUsersHandler) Handle(ctx context.Context, q GetAllUsers) ([]dto.UserView, error) {
	uow := h.uow()
	defer uow.Close()

	users, err := uow.Users().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	if q.Role != "" {
		users = keep(users, func(u *domain.User) bool {
			return u.Role() == q.Role
		})
	}
	if q.ActiveOnly {
		users = keep(users, func(u *domain.User) bool {
			return u.IsActive()
		})
	}

	return dto.NewUserViews(users), nil
}
