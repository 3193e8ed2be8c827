package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
)

func TestCreateUser_Success(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	h := NewCreateUserHandler(uow, events, log)

	id, err := h.Handle(context.Background(), CreateUser{
		Email:     "John.Smith@Example.com",
		FirstName: "John",
		LastName:  "Smith",
		Password:  "Sup3rSecret",
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	stored, err := memoryUser(db, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "john.smith@example.com", stored.Email())
	assert.Equal(t, domain.RoleCustomer, stored.Role())
	assert.True(t, stored.IsActive())
	assert.False(t, stored.IsEmailVerified())
	assert.NotEqual(t, "Sup3rSecret", stored.PasswordHash())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash()), []byte("Sup3rSecret")))
}

func TestCreateUser_WeakPassword(t *testing.T) {
	_, uow, events, log := newTestDeps(t)
	h := NewCreateUserHandler(uow, events, log)

	for _, password := range []string{"", "short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		_, err := h.Handle(context.Background(), CreateUser{
			Email:     "john@example.com",
			FirstName: "John",
			LastName:  "Smith",
			Password:  password,
		})
		assert.True(t, errors.Is(err, apperrors.ErrValidation), "password %q should be rejected", password)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	seedUser(t, db)
	h := NewCreateUserHandler(uow, events, log)

	_, err := h.Handle(context.Background(), CreateUser{
		Email:     "JANE@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "Sup3rSecret",
	})
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

func TestCreateUser_GuestRoleRejected(t *testing.T) {
	_, uow, events, log := newTestDeps(t)
	h := NewCreateUserHandler(uow, events, log)

	_, err := h.Handle(context.Background(), CreateUser{
		Email:     "john@example.com",
		FirstName: "John",
		LastName:  "Smith",
		Password:  "Sup3rSecret",
		Role:      domain.RoleGuest,
	})
	assert.True(t, errors.Is(err, apperrors.ErrBusinessRule))
}

func TestUpdateUser_Success(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	u := seedUser(t, db)
	h := NewUpdateUserHandler(uow, events, log)

	first := "Janet"
	role := domain.RoleManager
	phone := "+45 1234 5678"
	ok, err := h.Handle(context.Background(), UpdateUser{
		ID:          u.ID(),
		FirstName:   &first,
		Role:        &role,
		PhoneNumber: &phone,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := memoryUser(db, u.ID())
	require.NoError(t, err)
	assert.Equal(t, "Janet", stored.FirstName())
	assert.Equal(t, domain.RoleManager, stored.Role())
	assert.Equal(t, "+45 1234 5678", stored.PhoneNumber())
}

func TestUpdateUser_AbsentReturnsFalse(t *testing.T) {
	_, uow, events, log := newTestDeps(t)
	h := NewUpdateUserHandler(uow, events, log)

	first := "Janet"
	ok, err := h.Handle(context.Background(), UpdateUser{ID: 999, FirstName: &first})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateUser_EmailTakenByOther(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	u := seedUser(t, db)
	other, err := domain.NewUser("john@example.com", "John", "Smith", "hash", domain.RoleCustomer)
	require.NoError(t, err)
	db.Seed(other)

	h := NewUpdateUserHandler(uow, events, log)
	email := "john@example.com"
	ok, err := h.Handle(context.Background(), UpdateUser{ID: u.ID(), Email: &email})
	assert.False(t, ok)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

func TestUpdateUser_EmailChangeResetsVerification(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	u := seedUser(t, db)
	u.VerifyEmail()
	h := NewUpdateUserHandler(uow, events, log)

	email := "jane.doe@example.com"
	ok, err := h.Handle(context.Background(), UpdateUser{ID: u.ID(), Email: &email})
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := memoryUser(db, u.ID())
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", stored.Email())
	assert.False(t, stored.IsEmailVerified())
}

func TestUpdateUser_SameEmailDifferentCaseKeepsVerification(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	u := seedUser(t, db)
	u.VerifyEmail()
	h := NewUpdateUserHandler(uow, events, log)

	email := " Jane@Example.COM "
	ok, err := h.Handle(context.Background(), UpdateUser{ID: u.ID(), Email: &email})
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := memoryUser(db, u.ID())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", stored.Email())
	assert.True(t, stored.IsEmailVerified())
}

func TestDeleteUser(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	u := seedUser(t, db)
	h := NewDeleteUserHandler(uow, events, log)

	ok, err := h.Handle(context.Background(), DeleteUser{ID: u.ID()})
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := memoryUser(db, u.ID())
	require.NoError(t, err)
	assert.Nil(t, stored)

	ok, err = h.Handle(context.Background(), DeleteUser{ID: u.ID()})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestActivateDeactivateUser(t *testing.T) {
	db, uow, events, log := newTestDeps(t)
	u := seedUser(t, db)
	deactivate := NewDeactivateUserHandler(uow, events, log)
	activate := NewActivateUserHandler(uow, events, log)

	ok, err := deactivate.Handle(context.Background(), DeactivateUser{ID: u.ID()})
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := memoryUser(db, u.ID())
	require.NoError(t, err)
	assert.False(t, stored.IsActive())

	ok, err = activate.Handle(context.Background(), ActivateUser{ID: u.ID()})
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err = memoryUser(db, u.ID())
	require.NoError(t, err)
	assert.True(t, stored.IsActive())
}

func TestActivateUser_AbsentReturnsFalse(t *testing.T) {
	_, uow, events, log := newTestDeps(t)
	h := NewActivateUserHandler(uow, events, log)

	ok, err := h.Handle(context.Background(), ActivateUser{ID: 999})
	assert.NoError(t, err)
	assert.False(t, ok)
}
