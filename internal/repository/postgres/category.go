package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/database"
	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
)

// categoryColumns is the standard SELECT column list for categories.
const categoryColumns = `id, name, description, slug, parent_category_id, is_active,
	display_order, created_at, updated_at, is_deleted`

// CategoryRepository implements category persistence on PostgreSQL.
type CategoryRepository struct {
	db      database.DBTX
	changes *changeSet
}

func newCategoryRepository(db database.DBTX, changes *changeSet) *CategoryRepository {
	return &CategoryRepository{db: db, changes: changes}
}

// GetByID retrieves a category by id. Missing or soft-deleted categories
// yield (nil, nil).
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1 AND is_deleted = false`, categoryColumns)
	return r.scanCategory(ctx, query, id)
}

// GetAll returns every non-deleted category ordered by display order, then name.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM categories
		WHERE is_deleted = false
		ORDER BY display_order, name`, categoryColumns)
	return r.queryCategories(ctx, query)
}

// Find returns categories matching the predicate, in store order.
func (r *CategoryRepository) Find(ctx context.Context, pred func(*domain.Category) bool) ([]*domain.Category, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.Category, 0)
	for _, c := range all {
		if pred(c) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// First returns the first category matching the predicate, or nil.
func (r *CategoryRepository) First(ctx context.Context, pred func(*domain.Category) bool) (*domain.Category, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if pred(c) {
			return c, nil
		}
	}
	return nil, nil
}

// GetByName retrieves a category by exact name, or nil.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE name = $1 AND is_deleted = false`, categoryColumns)
	return r.scanCategory(ctx, query, name)
}

// GetBySlug retrieves a category by slug, or nil.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE slug = $1 AND is_deleted = false`, categoryColumns)
	return r.scanCategory(ctx, query, slug)
}

// GetRoots returns all top-level categories ordered by display order.
func (r *CategoryRepository) GetRoots(ctx context.Context) ([]*domain.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM categories
		WHERE parent_category_id IS NULL AND is_deleted = false
		ORDER BY display_order, name`, categoryColumns)
	return r.queryCategories(ctx, query)
}

// GetChildren returns the direct children of a category ordered by display order.
func (r *CategoryRepository) GetChildren(ctx context.Context, parentID int64) ([]*domain.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM categories
		WHERE parent_category_id = $1 AND is_deleted = false
		ORDER BY display_order, name`, categoryColumns)
	return r.queryCategories(ctx, query, parentID)
}

// GetActive returns all active categories ordered by display order.
func (r *CategoryRepository) GetActive(ctx context.Context) ([]*domain.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM categories
		WHERE is_active = true AND is_deleted = false
		ORDER BY display_order, name`, categoryColumns)
	return r.queryCategories(ctx, query)
}

// Add stages the category for insertion.
func (r *CategoryRepository) Add(ctx context.Context, c *domain.Category) error {
	r.changes.stage(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		rec := c.Record()
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO categories (name, description, slug, parent_category_id, is_active,
				display_order, created_at, updated_at, is_deleted)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			rec.Name, rec.Description, rec.Slug, rec.ParentCategoryID, rec.IsActive,
			rec.DisplayOrder, rec.CreatedAt, rec.UpdatedAt, rec.IsDeleted,
		).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, apperrors.AlreadyExists("category", "slug", rec.Slug)
			}
			return 0, fmt.Errorf("insert category: %w", err)
		}
		c.MarkPersisted(id)
		return 1, nil
	})
	return nil
}

// AddMany stages several categories for insertion.
func (r *CategoryRepository) AddMany(ctx context.Context, categories []*domain.Category) error {
	for _, c := range categories {
		if err := r.Add(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// Update stages the category's state for writing on commit.
func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	r.changes.stage(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		rec := c.Record()
		ct, err := tx.Exec(ctx, `
			UPDATE categories
			SET name = $1, description = $2, slug = $3, parent_category_id = $4,
				is_active = $5, display_order = $6, updated_at = $7, is_deleted = $8
			WHERE id = $9`,
			rec.Name, rec.Description, rec.Slug, rec.ParentCategoryID,
			rec.IsActive, rec.DisplayOrder, rec.UpdatedAt, rec.IsDeleted,
			rec.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return 0, apperrors.AlreadyExists("category", "slug", rec.Slug)
			}
			return 0, fmt.Errorf("update category: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return 0, apperrors.NotFound("category", rec.ID)
		}
		return 1, nil
	})
	return nil
}

// Remove soft-deletes the category on commit.
func (r *CategoryRepository) Remove(ctx context.Context, c *domain.Category) error {
	c.MarkDeleted()
	return r.Update(ctx, c)
}

// RemoveMany soft-deletes several categories on commit.
func (r *CategoryRepository) RemoveMany(ctx context.Context, categories []*domain.Category) error {
	for _, c := range categories {
		if err := r.Remove(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *CategoryRepository) scanCategory(ctx context.Context, query string, args ...any) (*domain.Category, error) {
	c, err := scanCategoryRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) queryCategories(ctx context.Context, query string, args ...any) ([]*domain.Category, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		c, err := scanCategoryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return categories, nil
}

func scanCategoryRow(row rowScanner) (*domain.Category, error) {
	var rec domain.CategoryRecord

	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Description,
		&rec.Slug,
		&rec.ParentCategoryID,
		&rec.IsActive,
		&rec.DisplayOrder,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return domain.RestoreCategory(rec), nil
}
