// Package postgres implements the repository ports on PostgreSQL via pgx.
//
// Reads go straight to the pool. Writes are staged on a change set shared
// by the unit of work's repositories and applied in a single transaction
// when Commit is called.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Costin94/LiveOn-Ecommerce/internal/repository"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/database"
)

// changeOp applies one staged write inside the commit transaction and
// returns the number of aggregates it affected.
type changeOp func(ctx context.Context, tx pgx.Tx) (int64, error)

// changeSet accumulates staged writes in staging order.
type changeSet struct {
	ops []changeOp
}

func (cs *changeSet) stage(op changeOp) {
	cs.ops = append(cs.ops, op)
}

// UnitOfWork bundles the three repositories over one shared change set.
// Each logical operation gets its own instance from the factory.
type UnitOfWork struct {
	db      database.DBTX
	changes *changeSet

	products   *ProductRepository
	categories *CategoryRepository
	users      *UserRepository
}

// NewUnitOfWork creates a unit of work over the given pool.
func NewUnitOfWork(db database.DBTX) *UnitOfWork {
	cs := &changeSet{}
	return &UnitOfWork{
		db:         db,
		changes:    cs,
		products:   newProductRepository(db, cs),
		categories: newCategoryRepository(db, cs),
		users:      newUserRepository(db, cs),
	}
}

// NewUnitOfWorkFactory returns a factory producing a fresh unit of work
// per call, all backed by the same pool.
func NewUnitOfWorkFactory(db database.DBTX) repository.UnitOfWorkFactory {
	return func() repository.UnitOfWork {
		return NewUnitOfWork(db)
	}
}

func (u *UnitOfWork) Products() repository.ProductRepository    { return u.products }
func (u *UnitOfWork) Categories() repository.CategoryRepository { return u.categories }
func (u *UnitOfWork) Users() repository.UserRepository          { return u.users }

// Commit applies every staged write in one transaction, in staging order,
// and returns the number of aggregates written. The change set is cleared
// only on success, so a failed commit can be retried or discarded with
// Close. An empty change set commits nothing and returns 0.
func (u *UnitOfWork) Commit(ctx context.Context) (int64, error) {
	if len(u.changes.ops) == 0 {
		return 0, nil
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var affected int64
	for _, op := range u.changes.ops {
		n, err := op(ctx, tx)
		if err != nil {
			return 0, err
		}
		affected += n
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	u.changes.ops = nil
	return affected, nil
}

// Close discards any staged writes that were not committed.
func (u *UnitOfWork) Close() {
	u.changes.ops = nil
}
