package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	"github.com/Costin94/LiveOn-Ecommerce/internal/event"
	"github.com/Costin94/LiveOn-Ecommerce/internal/repository"
	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// validatePassword enforces the password policy: at least 8 characters
// with one upper, one lower and one digit.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.Validation("password must contain an upper-case letter, a lower-case letter and a digit")
	}
	return nil
}

// CreateUser creates an account with a bcrypt-hashed password.
type CreateUser struct {
	Email       string
	FirstName   string
	LastName    string
	Password    string
	Role        string
	PhoneNumber string
}

// CreateUserHandler handles CreateUser.
type CreateUserHandler struct {
	uow    repository.UnitOfWorkFactory
	events *event.Publisher
	logger *slog.Logger
}

func NewCreateUserHandler(uow repository.UnitOfWorkFactory, events *event.Publisher, logger *slog.Logger) *CreateUserHandler {
	return &CreateUserHandler{uow: uow, events: events, logger: logger}
}

// Handle returns the identity assigned to the new user.
func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUser) (int64, error) {
	uow := h.uow()
	defer uow.Close()

	if err := validatePassword(cmd.Password); err != nil {
		return 0, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	u, err := domain.NewUser(cmd.Email, cmd.FirstName, cmd.LastName, string(hash), cmd.Role)
	if err != nil {
		return 0, err
	}
	if cmd.PhoneNumber != "" {
		if err := u.SetPhoneNumber(cmd.PhoneNumber); err != nil {
			return 0, err
		}
	}

	existing, err := uow.Users().GetByEmail(ctx, u.Email())
	if err != nil {
		return 0, fmt.Errorf("lookup user by email: %w", err)
	}
	if existing != nil {
		return 0, apperrors.AlreadyExists("user", "email", u.Email())
	}

	if err := uow.Users().Add(ctx, u); err != nil {
		return 0, err
	}
	if _, err := uow.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit create user: %w", err)
	}

	h.events.UserCreated(ctx, u)
	h.logger.InfoContext(ctx, "user created",
		slog.Int64("user_id", u.ID()),
		slog.String("email", u.Email()),
		slog.String("role", u.Role()),
	)
	return u.ID(), nil
}

// UpdateUser modifies an existing user. Nil fields are left untouched.
type UpdateUser struct {
	ID          int64
	Email       *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Role        *string
}

// UpdateUserHandler handles UpdateUser.
type UpdateUserHandler struct {
	uow    repository.UnitOfWorkFactory
	events *event.Publisher
	logger *slog.Logger
}

func NewUpdateUserHandler(uow repository.UnitOfWorkFactory, events *event.Publisher, logger *slog.Logger) *UpdateUserHandler {
	return &UpdateUserHandler{uow: uow, events: events, logger: logger}
}

// Handle reports whether the user existed and was updated.
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUser) (bool, error) {
	uow := h.uow()
	defer uow.Close()

	u, err := uow.Users().GetByID(ctx, cmd.ID)
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return false, nil
	}

	// Compare against the stored address in its normalized form so a
	// case-only resubmission does not reset email verification.
	if cmd.Email != nil && strings.ToLower(strings.TrimSpace(*cmd.Email)) != u.Email() {
		existing, err := uow.Users().GetByEmail(ctx, *cmd.Email)
		if err != nil {
			return false, fmt.Errorf("lookup user by email: %w", err)
		}
		if existing != nil && existing.ID() != u.ID() {
			return false, apperrors.AlreadyExists("user", "email", *cmd.Email)
		}
		if err := u.SetEmail(*cmd.Email); err != nil {
			return false, err
		}
	}
	if cmd.FirstName != nil {
		if err := u.SetFirstName(*cmd.FirstName); err != nil {
			return false, err
		}
	}
	if cmd.LastName != nil {
		if err := u.SetLastName(*cmd.LastName); err != nil {
			return false, err
		}
	}
	if cmd.PhoneNumber != nil {
		if err := u.SetPhoneNumber(*cmd.PhoneNumber); err != nil {
			return false, err
		}
	}
	if cmd.Role != nil {
		if err := u.ChangeRole(*cmd.Role); err != nil {
			return false, err
		}
	}

	if err := uow.Users().Update(ctx, u); err != nil {
		return false, err
	}
	if _, err := uow.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit update user: %w", err)
	}

	h.events.UserUpdated(ctx, u)
	h.logger.InfoContext(ctx, "user updated", slog.Int64("user_id", u.ID()))
	return true, nil
}

// DeleteUser soft-deletes a user.
type DeleteUser struct {
	ID int64
}

// DeleteUserHandler handles DeleteUser.
type DeleteUserHandler struct {
	uow    repository.UnitOfWorkFactory
	events *event.Publisher
	logger *slog.Logger
}

func NewDeleteUserHandler(uow repository.UnitOfWorkFactory, events *event.Publisher, logger *slog.Logger) *DeleteUserHandler {
	return &DeleteUserHandler{uow: uow, events: events, logger: logger}
}

// Handle reports whether the user existed and was deleted.
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUser) (bool, error) {
	uow := h.uow()
	defer uow.Close()

	u, err := uow.Users().GetByID(ctx, cmd.ID)
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return false, nil
	}

	if err := uow.Users().Remove(ctx, u); err != nil {
		return false, err
	}
	if _, err := uow.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit delete user: %w", err)
	}

	h.events.UserDeleted(ctx, cmd.ID)
	h.logger.InfoContext(ctx, "user deleted", slog.Int64("user_id", cmd.ID))
	return true, nil
}

// ActivateUser enables a deactivated account.
type ActivateUser struct {
	ID int64
}

// ActivateUserHandler handles ActivateUser.
type ActivateUserHandler struct {
	uow    repository.UnitOfWorkFactory
	events *event.Publisher
	logger *slog.Logger
}

func NewActivateUserHandler(uow repository.UnitOfWorkFactory, events *event.Publisher, logger *slog.Logger) *ActivateUserHandler {
	return &ActivateUserHandler{uow: uow, events: events, logger: logger}
}

// Handle reports whether the user existed and was activated.
func (h *ActivateUserHandler) Handle(ctx context.Context, cmd ActivateUser) (bool, error) {
	uow := h.uow()
	defer uow.Close()

	u, err := uow.Users().GetByID(ctx, cmd.ID)
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return false, nil
	}

	u.Activate()
	if err := uow.Users().Update(ctx, u); err != nil {
		return false, err
	}
	if _, err := uow.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit activate user: %w", err)
	}

	h.events.UserUpdated(ctx, u)
	h.logger.InfoContext(ctx, "user activated", slog.Int64("user_id", u.ID()))
	return true, nil
}

// DeactivateUser disables an account.
type DeactivateUser struct {
	ID int64
}

// DeactivateUserHandler handles DeactivateUser.
type DeactivateUserHandler struct {
	uow    repository.UnitOfWorkFactory
	events *event.Publisher
	logger *slog.Logger
}

func NewDeactivateUserHandler(uow repository.UnitOfWorkFactory, events *event.Publisher, logger *slog.Logger) *DeactivateUserHandler {
	return &DeactivateUserHandler{uow: uow, events: events, logger: logger}
}

// Handle reports whether the user existed and was deactivated.
func (h *DeactivateUserHandler) Handle(ctx context.Context, cmd DeactivateUser) (bool, error) {
	uow := h.uow()
	defer uow.Close()

	u, err := uow.Users().GetByID(ctx, cmd.ID)
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return false, nil
	}

	u.Deactivate()
	if err := uow.Users().Update(ctx, u); err != nil {
		return false, err
	}
	if _, err := uow.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit deactivate user: %w", err)
	}

	h.events.UserUpdated(ctx, u)
	h.logger.InfoContext(ctx, "user deactivated", slog.Int64("user_id", u.ID()))
	return true, nil
}
