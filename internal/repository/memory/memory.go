// Package memory implements the repository ports on in-process maps with
// the same deferred-write commit semantics as the postgres adapter. It
// backs handler tests and local experiments; it is not safe for
// concurrent units of work mutating the same aggregate.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	"github.com/Costin94/LiveOn-Ecommerce/internal/repository"
	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
)

// aggregate is the surface the store needs beyond the port's Aggregate.
type aggregate interface {
	domain.Aggregate
	IsDeleted() bool
	MarkPersisted(id int64)
}

type table[T aggregate] struct {
	items  map[int64]T
	nextID int64
}

func newTable[T aggregate]() *table[T] {
	return &table[T]{items: make(map[int64]T)}
}

// DB is a shared in-memory store for products, categories and users.
type DB struct {
	mu         sync.Mutex
	products   *table[*domain.Product]
	categories *table[*domain.Category]
	users      *table[*domain.User]
}

// NewDB creates an empty store.
func NewDB() *DB {
	return &DB{
		products:   newTable[*domain.Product](),
		categories: newTable[*domain.Category](),
		users:      newTable[*domain.User](),
	}
}

// Seed inserts aggregates directly, assigning identities immediately.
// It exists for test fixtures; regular writes go through a unit of work.
func (db *DB) Seed(aggregates ...aggregate) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, a := range aggregates {
		switch v := a.(type) {
		case *domain.Product:
			db.products.insert(v)
		case *domain.Category:
			db.categories.insert(v)
		case *domain.User:
			db.users.insert(v)
		}
	}
}

func (t *table[T]) insert(item T) {
	if item.ID() == 0 {
		t.nextID++
		item.MarkPersisted(t.nextID)
	} else if item.ID() > t.nextID {
		t.nextID = item.ID()
	}
	t.items[item.ID()] = item
}

// changeOp applies one staged write and reports how many aggregates it
// affected.
type changeOp func() (int64, error)

type changeSet struct {
	ops []changeOp
}

// UnitOfWork stages writes against the shared store and applies them on
// Commit. Like the postgres adapter, reads see committed state only for
// aggregates not yet staged; staged aggregates are live pointers.
type UnitOfWork struct {
	db      *DB
	changes *changeSet

	products   *ProductRepository
	categories *CategoryRepository
	users      *UserRepository
}

// NewUnitOfWork creates a unit of work over the store.
func NewUnitOfWork(db *DB) *UnitOfWork {
	cs := &changeSet{}
	return &UnitOfWork{
		db:         db,
		changes:    cs,
		products:   &ProductRepository{repo: repo[*domain.Product]{db: db, table: db.products, changes: cs, less: productLess}},
		categories: &CategoryRepository{repo: repo[*domain.Category]{db: db, table: db.categories, changes: cs, less: categoryLess}},
		users:      &UserRepository{repo: repo[*domain.User]{db: db, table: db.users, changes: cs, less: userLess}},
	}
}

// NewUnitOfWorkFactory returns a factory minting fresh units of work over
// one shared store.
func NewUnitOfWorkFactory(db *DB) repository.UnitOfWorkFactory {
	return func() repository.UnitOfWork {
		return NewUnitOfWork(db)
	}
}

func (u *UnitOfWork) Products() repository.ProductRepository    { return u.products }
func (u *UnitOfWork) Categories() repository.CategoryRepository { return u.categories }
func (u *UnitOfWork) Users() repository.UserRepository          { return u.users }

// Commit applies staged writes in order and returns the number of
// aggregates written. The change set is cleared on success.
func (u *UnitOfWork) Commit(ctx context.Context) (int64, error) {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()

	var affected int64
	for _, op := range u.changes.ops {
		n, err := op()
		if err != nil {
			return 0, err
		}
		affected += n
	}
	u.changes.ops = nil
	return affected, nil
}

// Close discards staged writes that were not committed.
func (u *UnitOfWork) Close() {
	u.changes.ops = nil
}

// Sort orders matching the postgres adapter's ORDER BY clauses.
func productLess(a, b *domain.Product) bool { return a.Name() < b.Name() }
func userLess(a, b *domain.User) bool       { return a.Email() < b.Email() }

func categoryLess(a, b *domain.Category) bool {
	if a.DisplayOrder() != b.DisplayOrder() {
		return a.DisplayOrder() < b.DisplayOrder()
	}
	return a.Name() < b.Name()
}

// repo implements the generic port over one table.
type repo[T aggregate] struct {
	db      *DB
	table   *table[T]
	changes *changeSet
	less    func(a, b T) bool
}

func (r *repo[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var zero T
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	item, ok := r.table.items[id]
	if !ok || item.IsDeleted() {
		return zero, nil
	}
	return item, nil
}

func (r *repo[T]) GetAll(ctx context.Context) ([]T, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.snapshot(func(T) bool { return true }), nil
}

func (r *repo[T]) Find(ctx context.Context, pred func(T) bool) ([]T, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.snapshot(pred), nil
}

func (r *repo[T]) First(ctx context.Context, pred func(T) bool) (T, error) {
	var zero T
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, item := range r.snapshot(pred) {
		return item, nil
	}
	return zero, nil
}

func (r *repo[T]) Add(ctx context.Context, item T) error {
	r.changes.ops = append(r.changes.ops, func() (int64, error) {
		r.table.insert(item)
		return 1, nil
	})
	return nil
}

func (r *repo[T]) AddMany(ctx context.Context, items []T) error {
	for _, item := range items {
		if err := r.Add(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *repo[T]) Update(ctx context.Context, item T) error {
	r.changes.ops = append(r.changes.ops, func() (int64, error) {
		if _, ok := r.table.items[item.ID()]; !ok {
			return 0, apperrors.NotFound("aggregate", item.ID())
		}
		r.table.items[item.ID()] = item
		return 1, nil
	})
	return nil
}

func (r *repo[T]) Remove(ctx context.Context, item T) error {
	type deletable interface{ MarkDeleted() }
	if d, ok := any(item).(deletable); ok {
		d.MarkDeleted()
	}
	return r.Update(ctx, item)
}

func (r *repo[T]) RemoveMany(ctx context.Context, items []T) error {
	for _, item := range items {
		if err := r.Remove(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// snapshot returns non-deleted matching items in the adapter's sort
// order. Callers must hold the store lock.
func (r *repo[T]) snapshot(pred func(T) bool) []T {
	matched := make([]T, 0)
	for _, item := range r.table.items {
		if !item.IsDeleted() && pred(item) {
			matched = append(matched, item)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return r.less(matched[i], matched[j]) })
	return matched
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ProductRepository adds the catalog lookups over the generic store.
type ProductRepository struct {
	repo[*domain.Product]
}

func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	normalized := strings.ToUpper(strings.TrimSpace(sku))
	return r.First(ctx, func(p *domain.Product) bool { return p.SKU() == normalized })
}

func (r *ProductRepository) GetByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	return r.Find(ctx, func(p *domain.Product) bool { return p.CategoryID() == categoryID })
}

func (r *ProductRepository) GetFeatured(ctx context.Context) ([]*domain.Product, error) {
	return r.Find(ctx, func(p *domain.Product) bool { return p.IsFeatured() })
}

func (r *ProductRepository) GetByStatus(ctx context.Context, status string) ([]*domain.Product, error) {
	return r.Find(ctx, func(p *domain.Product) bool { return p.Status() == status })
}

func (r *ProductRepository) Search(ctx context.Context, term string) ([]*domain.Product, error) {
	return r.Find(ctx, func(p *domain.Product) bool {
		return containsFold(p.Name(), term) ||
			containsFold(p.Description(), term) ||
			containsFold(p.SKU(), term)
	})
}

func (r *ProductRepository) CountByCategory(ctx context.Context) (map[int64]int, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[int64]int)
	for _, p := range all {
		counts[p.CategoryID()]++
	}
	return counts, nil
}

// CategoryRepository adds the taxonomy lookups over the generic store.
type CategoryRepository struct {
	repo[*domain.Category]
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.First(ctx, func(c *domain.Category) bool { return c.Name() == name })
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.First(ctx, func(c *domain.Category) bool { return c.Slug() == slug })
}

func (r *CategoryRepository) GetRoots(ctx context.Context) ([]*domain.Category, error) {
	return r.Find(ctx, func(c *domain.Category) bool { return c.ParentCategoryID() == nil })
}

func (r *CategoryRepository) GetChildren(ctx context.Context, parentID int64) ([]*domain.Category, error) {
	return r.Find(ctx, func(c *domain.Category) bool {
		return c.ParentCategoryID() != nil && *c.ParentCategoryID() == parentID
	})
}

func (r *CategoryRepository) GetActive(ctx context.Context) ([]*domain.Category, error) {
	return r.Find(ctx, func(c *domain.Category) bool { return c.IsActive() })
}

// UserRepository adds the account lookups over the generic store.
type UserRepository struct {
	repo[*domain.User]
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return r.First(ctx, func(u *domain.User) bool { return u.Email() == normalized })
}

func (r *UserRepository) GetByRole(ctx context.Context, role string) ([]*domain.User, error) {
	return r.Find(ctx, func(u *domain.User) bool { return u.Role() == role })
}

func (r *UserRepository) GetActive(ctx context.Context) ([]*domain.User, error) {
	return r.Find(ctx, func(u *domain.User) bool { return u.IsActive() })
}

func (r *UserRepository) Search(ctx context.Context, term string) ([]*domain.User, error) {
	return r.Find(ctx, func(u *domain.User) bool {
		return containsFold(u.Email(), term) ||
			containsFold(u.FirstName(), term) ||
			containsFold(u.LastName(), term)
	})
}
