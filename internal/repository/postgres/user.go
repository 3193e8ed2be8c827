package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/database"
	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
)

// userColumns is the standard SELECT column list for users.
const userColumns = `id, email, first_name, last_name, phone_number, password_hash, role,
	is_active, is_email_verified, registration_date, last_login_date,
	failed_login_attempts, locked_until, created_at, updated_at, is_deleted`

// UserRepository implements user persistence on PostgreSQL.
type UserRepository struct {
	db      database.DBTX
	changes *changeSet
}

func newUserRepository(db database.DBTX, changes *changeSet) *UserRepository {
	return &UserRepository{db: db, changes: changes}
}

// GetByID retrieves a user by id. Missing or soft-deleted users yield (nil, nil).
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1 AND is_deleted = false`, userColumns)
	return r.scanUser(ctx, query, id)
}

// GetAll returns every non-deleted user ordered by email.
func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE is_deleted = false ORDER BY email`, userColumns)
	return r.queryUsers(ctx, query)
}

// Find returns users matching the predicate, in store order.
func (r *UserRepository) Find(ctx context.Context, pred func(*domain.User) bool) ([]*domain.User, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.User, 0)
	for _, u := range all {
		if pred(u) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// First returns the first user matching the predicate, or nil.
func (r *UserRepository) First(ctx context.Context, pred func(*domain.User) bool) (*domain.User, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range all {
		if pred(u) {
			return u, nil
		}
	}
	return nil, nil
}

// GetByEmail retrieves a user by email, lower-cased before matching.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 AND is_deleted = false`, userColumns)
	return r.scanUser(ctx, query, strings.ToLower(strings.TrimSpace(email)))
}

// GetByRole returns all users holding the role ordered by email.
func (r *UserRepository) GetByRole(ctx context.Context, role string) ([]*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE role = $1 AND is_deleted = false
		ORDER BY email`, userColumns)
	return r.queryUsers(ctx, query, role)
}

// GetActive returns all active users ordered by email.
func (r *UserRepository) GetActive(ctx context.Context) ([]*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE is_active = true AND is_deleted = false
		ORDER BY email`, userColumns)
	return r.queryUsers(ctx, query)
}

// Search matches the term case-insensitively against email, first and
// last name.
func (r *UserRepository) Search(ctx context.Context, term string) ([]*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE (email ILIKE '%%' || $1 || '%%'
			OR first_name ILIKE '%%' || $1 || '%%'
			OR last_name ILIKE '%%' || $1 || '%%')
			AND is_deleted = false
		ORDER BY email`, userColumns)
	return r.queryUsers(ctx, query, term)
}

// Add stages the user for insertion.
func (r *UserRepository) Add(ctx context.Context, u *domain.User) error {
	r.changes.stage(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		rec := u.Record()
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO users (email, first_name, last_name, phone_number, password_hash, role,
				is_active, is_email_verified, registration_date, last_login_date,
				failed_login_attempts, locked_until, created_at, updated_at, is_deleted)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id`,
			rec.Email, rec.FirstName, rec.LastName, rec.PhoneNumber, rec.PasswordHash, rec.Role,
			rec.IsActive, rec.IsEmailVerified, rec.RegistrationDate, rec.LastLoginDate,
			rec.FailedLoginAttempts, rec.LockedUntil, rec.CreatedAt, rec.UpdatedAt, rec.IsDeleted,
		).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, apperrors.AlreadyExists("user", "email", rec.Email)
			}
			return 0, fmt.Errorf("insert user: %w", err)
		}
		u.MarkPersisted(id)
		return 1, nil
	})
	return nil
}

// AddMany stages several users for insertion.
func (r *UserRepository) AddMany(ctx context.Context, users []*domain.User) error {
	for _, u := range users {
		if err := r.Add(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

// Update stages the user's state for writing on commit.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	r.changes.stage(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		rec := u.Record()
		ct, err := tx.Exec(ctx, `
			UPDATE users
			SET email = $1, first_name = $2, last_name = $3, phone_number = $4,
				password_hash = $5, role = $6, is_active = $7, is_email_verified = $8,
				last_login_date = $9, failed_login_attempts = $10, locked_until = $11,
				updated_at = $12, is_deleted = $13
			WHERE id = $14`,
			rec.Email, rec.FirstName, rec.LastName, rec.PhoneNumber,
			rec.PasswordHash, rec.Role, rec.IsActive, rec.IsEmailVerified,
			rec.LastLoginDate, rec.FailedLoginAttempts, rec.LockedUntil,
			rec.UpdatedAt, rec.IsDeleted,
			rec.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, apperrors.AlreadyExists("user", "email", rec.Email)
			}
			return 0, fmt.Errorf("update user: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return 0, apperrors.NotFound("user", rec.ID)
		}
		return 1, nil
	})
	return nil
}

// Remove soft-deletes the user on commit.
func (r *UserRepository) Remove(ctx context.Context, u *domain.User) error {
	u.MarkDeleted()
	return r.Update(ctx, u)
}

// RemoveMany soft-deletes several users on commit.
func (r *UserRepository) RemoveMany(ctx context.Context, users []*domain.User) error {
	for _, u := range users {
		if err := r.Remove(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	u, err := scanUserRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, nil
}

func scanUserRow(row rowScanner) (*domain.User, error) {
	var rec domain.UserRecord

	err := row.Scan(
		&rec.ID,
		&rec.Email,
		&rec.FirstName,
		&rec.LastName,
		&rec.PhoneNumber,
		&rec.PasswordHash,
		&rec.Role,
		&rec.IsActive,
		&rec.IsEmailVerified,
		&rec.RegistrationDate,
		&rec.LastLoginDate,
		&rec.FailedLoginAttempts,
		&rec.LockedUntil,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return domain.RestoreUser(rec), nil
}
