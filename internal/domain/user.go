package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
)

// Role constants define the allowed user roles.
const (
	RoleGuest         = "guest"
	RoleCustomer      = "customer"
	RoleManager       = "manager"
	RoleAdministrator = "administrator"
)

// ValidRoles returns the roles a user may be assigned. Guest is the
// unauthenticated default and can never be assigned by mutation.
func ValidRoles() []string {
	return []string{RoleGuest, RoleCustomer, RoleManager, RoleAdministrator}
}

// IsValidRole checks whether the given role string is a valid user role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// User field constraints and lockout defaults.
const (
	maxEmailLen = 256
	maxNameLen  = 50
	maxPhoneLen = 20

	DefaultMaxFailedLogins = 5
	DefaultLockoutWindow   = 15 * time.Minute
)

// User is the back-office account aggregate. The password hash is opaque
// to the domain and never leaves it through a view.
type User struct {
	Entity

	email               string
	firstName           string
	lastName            string
	phoneNumber         string
	passwordHash        string
	role                string
	active              bool
	emailVerified       bool
	registrationDate    time.Time
	lastLoginDate       *time.Time
	failedLoginAttempts int
	lockedUntil         *time.Time
}

// NewUser creates an active, unverified user with the given role.
func NewUser(email, firstName, lastName, passwordHash, role string) (*User, error) {
	u := &User{
		Entity:           newEntity(),
		active:           true,
		registrationDate: time.Now().UTC(),
	}
	if err := u.SetEmail(email); err != nil {
		return nil, err
	}
	if err := u.SetFirstName(firstName); err != nil {
		return nil, err
	}
	if err := u.SetLastName(lastName); err != nil {
		return nil, err
	}
	if err := u.SetPasswordHash(passwordHash); err != nil {
		return nil, err
	}
	if role == "" {
		role = RoleCustomer
	}
	if err := u.ChangeRole(role); err != nil {
		return nil, err
	}
	u.updatedAt = nil
	return u, nil
}

// --- Accessors ---

func (u *User) Email() string               { return u.email }
func (u *User) FirstName() string           { return u.firstName }
func (u *User) LastName() string            { return u.lastName }
func (u *User) PhoneNumber() string         { return u.phoneNumber }
func (u *User) PasswordHash() string        { return u.passwordHash }
func (u *User) Role() string                { return u.role }
func (u *User) IsActive() bool              { return u.active }
func (u *User) IsEmailVerified() bool       { return u.emailVerified }
func (u *User) RegistrationDate() time.Time { return u.registrationDate }
func (u *User) LastLoginDate() *time.Time   { return u.lastLoginDate }
func (u *User) FailedLoginAttempts() int    { return u.failedLoginAttempts }
func (u *User) LockedUntil() *time.Time     { return u.lockedUntil }

// FullName returns the display name, first and last joined by a space.
func (u *User) FullName() string {
	return u.firstName + " " + u.lastName
}

// IsLocked reports whether a lockout window is currently in effect.
func (u *User) IsLocked() bool {
	return u.lockedUntil != nil && u.lockedUntil.After(time.Now().UTC())
}

// CanLogin reports whether the user may authenticate right now.
func (u *User) CanLogin() bool {
	return u.active && !u.IsLocked()
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	return u.role == role
}

// IsAdministrator reports whether the user is an administrator.
func (u *User) IsAdministrator() bool {
	return u.role == RoleAdministrator
}

// IsManagerOrHigher reports whether the user is a manager or administrator.
func (u *User) IsManagerOrHigher() bool {
	return u.role == RoleManager || u.role == RoleAdministrator
}

// --- Mutations ---

// SetEmail updates the address. Emails are stored lower-cased; changing
// the address resets email verification.
func (u *User) SetEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return apperrors.Validation("email is required")
	}
	if len(trimmed) > maxEmailLen {
		return apperrors.Validation(fmt.Sprintf("email cannot exceed %d characters", maxEmailLen))
	}
	if addr, err := mail.ParseAddress(trimmed); err != nil || addr.Address != trimmed {
		return apperrors.Validation("invalid email format")
	}
	u.email = strings.ToLower(trimmed)
	u.emailVerified = false
	u.touch()
	return nil
}

// SetFirstName updates the first name (required, max 50 characters).
func (u *User) SetFirstName(firstName string) error {
	trimmed := strings.TrimSpace(firstName)
	if trimmed == "" {
		return apperrors.Validation("first name is required")
	}
	if len(trimmed) > maxNameLen {
		return apperrors.Validation(fmt.Sprintf("first name cannot exceed %d characters", maxNameLen))
	}
	u.firstName = trimmed
	u.touch()
	return nil
}

// SetLastName updates the last name (required, max 50 characters).
func (u *User) SetLastName(lastName string) error {
	trimmed := strings.TrimSpace(lastName)
	if trimmed == "" {
		return apperrors.Validation("last name is required")
	}
	if len(trimmed) > maxNameLen {
		return apperrors.Validation(fmt.Sprintf("last name cannot exceed %d characters", maxNameLen))
	}
	u.lastName = trimmed
	u.touch()
	return nil
}

// SetPhoneNumber updates the optional phone number (max 20 characters).
func (u *User) SetPhoneNumber(phoneNumber string) error {
	trimmed := strings.TrimSpace(phoneNumber)
	if len(trimmed) > maxPhoneLen {
		return apperrors.Validation(fmt.Sprintf("phone number cannot exceed %d characters", maxPhoneLen))
	}
	u.phoneNumber = trimmed
	u.touch()
	return nil
}

// SetPasswordHash replaces the stored credential hash.
func (u *User) SetPasswordHash(passwordHash string) error {
	if strings.TrimSpace(passwordHash) == "" {
		return apperrors.Validation("password hash is required")
	}
	u.passwordHash = passwordHash
	u.touch()
	return nil
}

// ChangeRole assigns a new role. Guest can never be assigned.
func (u *User) ChangeRole(role string) error {
	if !IsValidRole(role) {
		return apperrors.Validation(fmt.Sprintf("invalid role %q", role))
	}
	if role == RoleGuest {
		return apperrors.BusinessRule("cannot set user role to guest")
	}
	u.role = role
	u.touch()
	return nil
}

// Activate enables the account.
func (u *User) Activate() {
	u.active = true
	u.touch()
}

// Deactivate disables the account.
func (u *User) Deactivate() {
	u.active = false
	u.touch()
}

// VerifyEmail marks the current address as verified.
func (u *User) VerifyEmail() {
	u.emailVerified = true
	u.touch()
}

// RecordSuccessfulLogin stamps the login time and clears any failed-login
// state, including an active lock.
func (u *User) RecordSuccessfulLogin() {
	now := time.Now().UTC()
	u.lastLoginDate = &now
	u.failedLoginAttempts = 0
	u.lockedUntil = nil
	u.touch()
}

// RecordFailedLogin increments the failure counter; reaching maxAttempts
// locks the account for the lockout window. Pass DefaultMaxFailedLogins and
// DefaultLockoutWindow for the standard policy.
func (u *User) RecordFailedLogin(maxAttempts int, lockout time.Duration) {
	u.failedLoginAttempts++
	if u.failedLoginAttempts >= maxAttempts {
		until := time.Now().UTC().Add(lockout)
		u.lockedUntil = &until
	}
	u.touch()
}

// Unlock is the administrative override clearing failed-login state.
func (u *User) Unlock() {
	u.failedLoginAttempts = 0
	u.lockedUntil = nil
	u.touch()
}

// --- Persistence hydration ---

// UserRecord is the flat persistence snapshot of a user.
type UserRecord struct {
	ID                  int64
	Email               string
	FirstName           string
	LastName            string
	PhoneNumber         string
	PasswordHash        string
	Role                string
	IsActive            bool
	IsEmailVerified     bool
	RegistrationDate    time.Time
	LastLoginDate       *time.Time
	FailedLoginAttempts int
	LockedUntil         *time.Time
	CreatedAt           time.Time
	UpdatedAt           *time.Time
	IsDeleted           bool
}

// Record returns the persistence snapshot of the user.
func (u *User) Record() UserRecord {
	return UserRecord{
		ID:                  u.id,
		Email:               u.email,
		FirstName:           u.firstName,
		LastName:            u.lastName,
		PhoneNumber:         u.phoneNumber,
		PasswordHash:        u.passwordHash,
		Role:                u.role,
		IsActive:            u.active,
		IsEmailVerified:     u.emailVerified,
		RegistrationDate:    u.registrationDate,
		LastLoginDate:       u.lastLoginDate,
		FailedLoginAttempts: u.failedLoginAttempts,
		LockedUntil:         u.lockedUntil,
		CreatedAt:           u.createdAt,
		UpdatedAt:           u.updatedAt,
		IsDeleted:           u.deleted,
	}
}

// RestoreUser rebuilds a user from its stored state without validation.
func RestoreUser(rec UserRecord) *User {
	return &User{
		Entity: Entity{
			id:        rec.ID,
			createdAt: rec.CreatedAt,
			updatedAt: rec.UpdatedAt,
			deleted:   rec.IsDeleted,
		},
		email:               rec.Email,
		firstName:           rec.FirstName,
		lastName:            rec.LastName,
		phoneNumber:         rec.PhoneNumber,
		passwordHash:        rec.PasswordHash,
		role:                rec.Role,
		active:              rec.IsActive,
		emailVerified:       rec.IsEmailVerified,
		registrationDate:    rec.RegistrationDate,
		lastLoginDate:       rec.LastLoginDate,
		failedLoginAttempts: rec.FailedLoginAttempts,
		lockedUntil:         rec.LockedUntil,
	}
}
