// Package query contains the read side of the catalog. Each query is a
// plain struct handled by exactly one handler; handlers read through a
// fresh unit of work without committing and map aggregates to view DTOs.
// A missing target is reported as a nil view, never an error.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	"github.com/Costin94/LiveOn-Ecommerce/internal/dto"
	"github.com/Costin94/LiveOn-Ecommerce/internal/repository"
)

// GetProductByID fetches a single product view.
type GetProductByID struct {
	ID int64
}

// GetProductByIDHandler handles GetProductByID through a read-through
// view cache.
type GetProductByIDHandler struct {
	uow    repository.UnitOfWorkFactory
	cache  *ProductCache
	logger *slog.Logger
}

func NewGetProductByIDHandler(uow repository.UnitOfWorkFactory, cache *ProductCache, logger *slog.Logger) *GetProductByIDHandler {
	return &GetProductByIDHandler{uow: uow, cache: cache, logger: logger}
}

// Handle returns nil when the product does not exist. Cache failures are
// logged and the store is consulted directly.
func (h *GetProductByIDHandler) Handle(ctx context.Context, q GetProductByID) (*dto.ProductView, error) {
	cached, err := h.cache.Get(ctx, q.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "product view cache read failed",
			slog.Int64("product_id", q.ID),
			slog.String("error", err.Error()),
		)
	}
	if cached != nil {
		return cached, nil
	}

	uow := h.uow()
	defer uow.Close()

	p, err := uow.Products().GetByID(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return nil, nil
	}

	categoryName, err := categoryNameFor(ctx, uow, p.CategoryID())
	if err != nil {
		return nil, err
	}

	view := dto.NewProductView(p, categoryName)
	if err := h.cache.Set(ctx, &view); err != nil {
		h.logger.WarnContext(ctx, "product view cache write failed",
			slog.Int64("product_id", q.ID),
			slog.String("error", err.Error()),
		)
	}
	return &view, nil
}

// GetProductBySKU fetches a single product view by stock keeping unit.
type GetProductBySKU struct {
	SKU string
}

// GetProductBySKUHandler handles GetProductBySKU.
type GetProductBySKUHandler struct {
	uow repository.UnitOfWorkFactory
}

func NewGetProductBySKUHandler(uow repository.UnitOfWorkFactory) *GetProductBySKUHandler {
	return &GetProductBySKUHandler{uow: uow}
}

// Handle returns nil when no product carries the SKU.
func (h *GetProductBySKUHandler) Handle(ctx context.Context, q GetProductBySKU) (*dto.ProductView, error) {
	uow := h.uow()
	defer uow.Close()

	p, err := uow.Products().GetBySKU(ctx, q.SKU)
	if err != nil {
		return nil, fmt.Errorf("load product by sku: %w", err)
	}
	if p == nil {
		return nil, nil
	}

	categoryName, err := categoryNameFor(ctx, uow, p.CategoryID())
	if err != nil {
		return nil, err
	}

	view := dto.NewProductView(p, categoryName)
	return &view, nil
}

// GetAllProducts lists products, optionally narrowed by category,
// free-text search, price bounds and stock availability. Filters apply
// in that order.
type GetAllProducts struct {
	CategoryID *int64
	SearchTerm string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
}

// GetAllProductsHandler handles GetAllProducts.
type GetAllProductsHandler struct {
	uow repository.UnitOfWorkFactory
}

func NewGetAllProductsHandler(uow repository.UnitOfWorkFactory) *GetAllProductsHandler {
	return &GetAllProductsHandler{uow: uow}
}

func (h *GetAllProductsHandler) Handle(ctx context.Context, q GetAllProducts) ([]dto.ProductView, error) {
	uow := h.uow()
	defer uow.Close()

	products, err := uow.Products().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if q.CategoryID != nil {
		products = keep(products, func(p *domain.Product) bool {
			return p.CategoryID() == *q.CategoryID
		})
	}
	if term := strings.ToLower(strings.TrimSpace(q.SearchTerm)); term != "" {
		products = keep(products, func(p *domain.Product) bool {
			return strings.Contains(strings.ToLower(p.Name()), term) ||
				strings.Contains(strings.ToLower(p.Description()), term) ||
				strings.Contains(strings.ToLower(p.SKU()), term)
		})
	}
	if q.MinPrice != nil {
		products = keep(products, func(p *domain.Product) bool {
			return p.Price().GreaterThanOrEqual(*q.MinPrice)
		})
	}
	if q.MaxPrice != nil {
		products = keep(products, func(p *domain.Product) bool {
			return p.Price().LessThanOrEqual(*q.MaxPrice)
		})
	}
	if q.InStock != nil && *q.InStock {
		products = keep(products, func(p *domain.Product) bool {
			return p.IsInStock()
		})
	}

	names, err := categoryNames(ctx, uow)
	if err != nil {
		return nil, err
	}
	return dto.NewProductViews(products, names), nil
}

func keep[T any](items []T, pred func(T) bool) []T {
	kept := items[:0]
	for _, item := range items {
		if pred(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

func categoryNameFor(ctx context.Context, uow repository.UnitOfWork, id int64) (string, error) {
	c, err := uow.Categories().GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("load category: %w", err)
	}
	if c == nil {
		return "", nil
	}
	return c.Name(), nil
}

func categoryNames(ctx context.Context, uow repository.UnitOfWork) (map[int64]string, error) {
	categories, err := uow.Categories().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID()] = c.Name()
	}
	return names, nil
}
