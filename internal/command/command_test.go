package command

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	"github.com/Costin94/LiveOn-Ecommerce/internal/event"
	"github.com/Costin94/LiveOn-Ecommerce/internal/repository"
	"github.com/Costin94/LiveOn-Ecommerce/internal/repository/memory"
)

func newTestDeps(t *testing.T) (*memory.DB, repository.UnitOfWorkFactory, *event.Publisher, *slog.Logger) {
	t.Helper()
	db := memory.NewDB()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return db, memory.NewUnitOfWorkFactory(db), event.NewPublisher(nil, log), log
}

func memoryProduct(db *memory.DB, id int64) (*domain.Product, error) {
	return memory.NewUnitOfWork(db).Products().GetByID(context.Background(), id)
}

func memoryCategory(db *memory.DB, id int64) (*domain.Category, error) {
	return memory.NewUnitOfWork(db).Categories().GetByID(context.Background(), id)
}

func memoryUser(db *memory.DB, id int64) (*domain.User, error) {
	return memory.NewUnitOfWork(db).Users().GetByID(context.Background(), id)
}

func seedCategory(t *testing.T, db *memory.DB) *domain.Category {
	t.Helper()
	c, err := domain.NewCategory("Electronics", "Gadgets", nil)
	require.NoError(t, err)
	db.Seed(c)
	return c
}

func seedProduct(t *testing.T, db *memory.DB, categoryID int64) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct("Wireless Mouse", "WM-001", decimal.NewFromInt(30), categoryID, "A mouse")
	require.NoError(t, err)
	db.Seed(p)
	return p
}

func seedUser(t *testing.T, db *memory.DB) *domain.User {
	t.Helper()
	u, err := domain.NewUser("jane@example.com", "Jane", "Doe", "hash", domain.RoleCustomer)
	require.NoError(t, err)
	db.Seed(u)
	return u
}
