package query

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	"github.com/Costin94/LiveOn-Ecommerce/internal/repository"
	"github.com/Costin94/LiveOn-Ecommerce/internal/repository/memory"
)

func newTestStore(t *testing.T) (*memory.DB, repository.UnitOfWorkFactory) {
	t.Helper()
	db := memory.NewDB()
	return db, memory.NewUnitOfWorkFactory(db)
}

func seedCategory(t *testing.T, db *memory.DB, name string) *domain.Category {
	t.Helper()
	c, err := domain.NewCategory(name, "", nil)
	require.NoError(t, err)
	db.Seed(c)
	return c
}

func seedProduct(t *testing.T, db *memory.DB, name, sku string, price int64, categoryID int64, stock int) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(name, sku, decimal.NewFromInt(price), categoryID, "")
	require.NoError(t, err)
	if stock > 0 {
		require.NoError(t, p.SetStock(stock))
	}
	db.Seed(p)
	return p
}

func seedUser(t *testing.T, db *memory.DB, email, role string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(email, "Test", "User", "hash", role)
	require.NoError(t, err)
	db.Seed(u)
	return u
}

func int64Ptr(v int64) *int64             { return &v }
func boolPtr(v bool) *bool                { return &v }
func decimalPtr(v int64) *decimal.Decimal { d := decimal.NewFromInt(v); return &d }
