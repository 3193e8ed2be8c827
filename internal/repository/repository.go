// Package repository defines the persistence ports the application layer
// depends on. Implementations live in repository/postgres.
package repository

import (
	"context"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
)

// Repository is the generic persistence port shared by all aggregates.
//
// Reads hit the store directly. Writes (Add, Update, Remove) only register
// the aggregate with the owning unit of work; nothing reaches the database
// until Commit. Lookups that find nothing return the zero value and a nil
// error; errors are reserved for infrastructure failures.
type Repository[T domain.Aggregate] interface {
	// GetByID returns the aggregate with the given id, or zero if absent
	// or soft-deleted.
	GetByID(ctx context.Context, id int64) (T, error)

	// GetAll returns every non-deleted aggregate.
	GetAll(ctx context.Context) ([]T, error)

	// Find returns all aggregates matching the predicate, preserving
	// store order.
	Find(ctx context.Context, pred func(T) bool) ([]T, error)

	// First returns the first aggregate matching the predicate, or zero
	// if none match.
	First(ctx context.Context, pred func(T) bool) (T, error)

	// Add stages a new aggregate for insertion on Commit. The aggregate's
	// identity is assigned when the commit succeeds.
	Add(ctx context.Context, aggregate T) error

	// AddMany stages several new aggregates for insertion.
	AddMany(ctx context.Context, aggregates []T) error

	// Update stages the aggregate's current state for writing on Commit.
	Update(ctx context.Context, aggregate T) error

	// Remove stages the aggregate for soft deletion on Commit.
	Remove(ctx context.Context, aggregate T) error

	// RemoveMany stages several aggregates for soft deletion.
	RemoveMany(ctx context.Context, aggregates []T) error
}

// ProductRepository extends the generic port with catalog lookups.
type ProductRepository interface {
	Repository[*domain.Product]

	// GetBySKU returns the product with the given SKU (matched after the
	// same trim/upper normalization the aggregate applies), or nil.
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)

	// GetByCategory returns all products in the category.
	GetByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error)

	// GetFeatured returns all featured products.
	GetFeatured(ctx context.Context) ([]*domain.Product, error)

	// GetByStatus returns all products in the given status.
	GetByStatus(ctx context.Context, status string) ([]*domain.Product, error)

	// Search returns products whose name, description or SKU contains the
	// term, case-insensitively.
	Search(ctx context.Context, term string) ([]*domain.Product, error)

	// CountByCategory returns the number of non-deleted products per
	// category id.
	CountByCategory(ctx context.Context) (map[int64]int, error)
}

// CategoryRepository extends the generic port with taxonomy lookups.
type CategoryRepository interface {
	Repository[*domain.Category]

	// GetByName returns the category with the exact name, or nil.
	GetByName(ctx context.Context, name string) (*domain.Category, error)

	// GetBySlug returns the category with the given slug, or nil.
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)

	// GetRoots returns all top-level categories ordered by display order.
	GetRoots(ctx context.Context) ([]*domain.Category, error)

	// GetChildren returns the direct children of a category ordered by
	// display order.
	GetChildren(ctx context.Context, parentID int64) ([]*domain.Category, error)

	// GetActive returns all active categories ordered by display order.
	GetActive(ctx context.Context) ([]*domain.Category, error)
}

// UserRepository extends the generic port with account lookups.
type UserRepository interface {
	Repository[*domain.User]

	// GetByEmail returns the user with the given email (lower-cased
	// before matching), or nil.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByRole returns all users holding the role.
	GetByRole(ctx context.Context, role string) ([]*domain.User, error)

	// GetActive returns all active users.
	GetActive(ctx context.Context) ([]*domain.User, error)

	// Search returns users whose email, first or last name contains the
	// term, case-insensitively.
	Search(ctx context.Context, term string) ([]*domain.User, error)
}

// UnitOfWork is the transactional boundary of a single logical operation.
// The repositories it exposes are fixed for its lifetime and share one
// change set; Commit writes the whole set atomically and reports how many
// aggregates were affected. Committing again afterwards persists only
// changes staged since the previous commit.
type UnitOfWork interface {
	Products() ProductRepository
	Categories() CategoryRepository
	Users() UserRepository

	// Commit atomically applies all staged changes and returns the number
	// of aggregates written. A commit with an empty change set returns 0.
	Commit(ctx context.Context) (int64, error)

	// Close discards any uncommitted changes. It is safe to call after
	// Commit and should be deferred by every caller.
	Close()
}

// UnitOfWorkFactory creates a fresh unit of work per logical operation.
// Handlers call it once at the start of each command.
type UnitOfWorkFactory func() UnitOfWork
