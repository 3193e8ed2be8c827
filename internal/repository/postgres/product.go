package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/database"
	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
)

// productColumns is the standard SELECT column list for products.
const productColumns = `id, name, sku, description, price, stock_quantity, category_id,
	status, image_url, weight, is_featured, discount_percentage, created_at, updated_at, is_deleted`

// ProductRepository implements product persistence on PostgreSQL.
type ProductRepository struct {
	db      database.DBTX
	changes *changeSet
}

func newProductRepository(db database.DBTX, changes *changeSet) *ProductRepository {
	return &ProductRepository{db: db, changes: changes}
}

// GetByID retrieves a product by id. Missing or soft-deleted products
// yield (nil, nil).
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 AND is_deleted = false`, productColumns)
	return r.scanProduct(ctx, query, id)
}

// GetAll returns every non-deleted product ordered by name.
func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE is_deleted = false ORDER BY name`, productColumns)
	return r.queryProducts(ctx, query)
}

// Find returns products matching the predicate, in store order.
func (r *ProductRepository) Find(ctx context.Context, pred func(*domain.Product) bool) ([]*domain.Product, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.Product, 0)
	for _, p := range all {
		if pred(p) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// First returns the first product matching the predicate, or nil.
func (r *ProductRepository) First(ctx context.Context, pred func(*domain.Product) bool) (*domain.Product, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if pred(p) {
			return p, nil
		}
	}
	return nil, nil
}

// GetBySKU retrieves a product by SKU after trim/upper normalization.
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE sku = $1 AND is_deleted = false`, productColumns)
	return r.scanProduct(ctx, query, strings.ToUpper(strings.TrimSpace(sku)))
}

// GetByCategory returns all products in a category ordered by name.
func (r *ProductRepository) GetByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE category_id = $1 AND is_deleted = false
		ORDER BY name`, productColumns)
	return r.queryProducts(ctx, query, categoryID)
}

// GetFeatured returns all featured products ordered by name.
func (r *ProductRepository) GetFeatured(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE is_featured = true AND is_deleted = false
		ORDER BY name`, productColumns)
	return r.queryProducts(ctx, query)
}

// GetByStatus returns all products in the given status ordered by name.
func (r *ProductRepository) GetByStatus(ctx context.Context, status string) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE status = $1 AND is_deleted = false
		ORDER BY name`, productColumns)
	return r.queryProducts(ctx, query, status)
}

// Search matches the term case-insensitively against name, description
// and SKU.
func (r *ProductRepository) Search(ctx context.Context, term string) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE (name ILIKE '%%' || $1 || '%%'
			OR description ILIKE '%%' || $1 || '%%'
			OR sku ILIKE '%%' || $1 || '%%')
			AND is_deleted = false
		ORDER BY name`, productColumns)
	return r.queryProducts(ctx, query, term)
}

// CountByCategory returns the number of non-deleted products per category.
func (r *ProductRepository) CountByCategory(ctx context.Context) (map[int64]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT category_id, COUNT(*) FROM products WHERE is_deleted = false GROUP BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("count products by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var categoryID int64
		var count int
		if err := rows.Scan(&categoryID, &count); err != nil {
			return nil, fmt.Errorf("scan product count row: %w", err)
		}
		counts[categoryID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product count rows: %w", err)
	}
	return counts, nil
}

// Add stages the product for insertion. The database assigns the identity
// on commit and it is written back to the aggregate.
func (r *ProductRepository) Add(ctx context.Context, p *domain.Product) error {
	r.changes.stage(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		rec := p.Record()
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO products (name, sku, description, price, stock_quantity, category_id,
				status, image_url, weight, is_featured, discount_percentage, created_at, updated_at, is_deleted)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id`,
			rec.Name, rec.SKU, rec.Description, rec.Price, rec.StockQuantity, rec.CategoryID,
			rec.Status, rec.ImageURL, rec.Weight, rec.IsFeatured, rec.DiscountPercentage,
			rec.CreatedAt, rec.UpdatedAt, rec.IsDeleted,
		).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, apperrors.AlreadyExists("product", "sku", rec.SKU)
			}
			return 0, fmt.Errorf("insert product: %w", err)
		}
		p.MarkPersisted(id)
		return 1, nil
	})
	return nil
}

// AddMany stages several products for insertion.
func (r *ProductRepository) AddMany(ctx context.Context, products []*domain.Product) error {
	for _, p := range products {
		if err := r.Add(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Update stages the product's state for writing on commit.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	r.changes.stage(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		rec := p.Record()
		ct, err := tx.Exec(ctx, `
			UPDATE products
			SET name = $1, sku = $2, description = $3, price = $4, stock_quantity = $5,
				category_id = $6, status = $7, image_url = $8, weight = $9,
				is_featured = $10, discount_percentage = $11, updated_at = $12, is_deleted = $13
			WHERE id = $14`,
			rec.Name, rec.SKU, rec.Description, rec.Price, rec.StockQuantity,
			rec.CategoryID, rec.Status, rec.ImageURL, rec.Weight,
			rec.IsFeatured, rec.DiscountPercentage, rec.UpdatedAt, rec.IsDeleted,
			rec.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, apperrors.AlreadyExists("product", "sku", rec.SKU)
			}
			return 0, fmt.Errorf("update product: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return 0, apperrors.NotFound("product", rec.ID)
		}
		return 1, nil
	})
	return nil
}

// Remove soft-deletes the product on commit.
func (r *ProductRepository) Remove(ctx context.Context, p *domain.Product) error {
	p.MarkDeleted()
	return r.Update(ctx, p)
}

// RemoveMany soft-deletes several products on commit.
func (r *ProductRepository) RemoveMany(ctx context.Context, products []*domain.Product) error {
	for _, p := range products {
		if err := r.Remove(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProductRepository) scanProduct(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	p, err := scanProductRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProductRow(row rowScanner) (*domain.Product, error) {
	var rec domain.ProductRecord
	var weight decimal.NullDecimal

	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.SKU,
		&rec.Description,
		&rec.Price,
		&rec.StockQuantity,
		&rec.CategoryID,
		&rec.Status,
		&rec.ImageURL,
		&weight,
		&rec.IsFeatured,
		&rec.DiscountPercentage,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	if weight.Valid {
		rec.Weight = &weight.Decimal
	}
	return domain.RestoreProduct(rec), nil
}

// isUniqueViolation detects a PostgreSQL unique constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
