package query

import (
	"context"
	"fmt"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	"github.com/Costin94/LiveOn-Ecommerce/internal/dto"
	"github.com/Costin94/LiveOn-Ecommerce/internal/repository"
)

// GetCategoryByID fetches a single category view with its parent name
// and product count resolved.
type GetCategoryByID struct {
	ID int64
}

// GetCategoryByIDHandler handles GetCategoryByID.
type GetCategoryByIDHandler struct {
	uow repository.UnitOfWorkFactory
}

func NewGetCategoryByIDHandler(uow repository.UnitOfWorkFactory) *GetCategoryByIDHandler {
	return &GetCategoryByIDHandler{uow: uow}
}

// Handle returns nil when the category does not exist.
func (h *GetCategoryByIDHandler) Handle(ctx context.Context, q GetCategoryByID) (*dto.CategoryView, error) {
	uow := h.uow()
	defer uow.Close()

	c, err := uow.Categories().GetByID(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if c == nil {
		return nil, nil
	}

	parentName := ""
	if c.ParentCategoryID() != nil {
		parentName, err = categoryNameFor(ctx, uow, *c.ParentCategoryID())
		if err != nil {
			return nil, err
		}
	}

	counts, err := uow.Products().CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count category products: %w", err)
	}

	view := dto.NewCategoryView(c, parentName, counts[c.ID()])
	return &view, nil
}

// GetAllCategories lists categories, optionally narrowed by active state
// or parent.
type GetAllCategories struct {
	IsActive         *bool
	ParentCategoryID *int64
}

// GetAllCategoriesHandler handles GetAllCategories.
type GetAllCategoriesHandler struct {
	uow repository.UnitOfWorkFactory
}

func NewGetAllCategoriesHandler(uow repository.UnitOfWorkFactory) *GetAllCategoriesHandler {
	return &GetAllCategoriesHandler{uow: uow}
}

func (h *GetAllCategoriesHandler) Handle(ctx context.Context, q GetAllCategories) ([]dto.CategoryView, error) {
	uow := h.uow()
	defer uow.Close()

	categories, err := uow.Categories().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID()] = c.Name()
	}

	if q.IsActive != nil {
		categories = keep(categories, func(c *domain.Category) bool {
			return c.IsActive() == *q.IsActive
		})
	}
	if q.ParentCategoryID != nil {
		categories = keep(categories, func(c *domain.Category) bool {
			return c.ParentCategoryID() != nil && *c.ParentCategoryID() == *q.ParentCategoryID
		})
	}

	counts, err := uow.Products().CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count category products: %w", err)
	}

	views := make([]dto.CategoryView, 0, len(categories))
	for _, c := range categories {
		parentName := ""
		if c.ParentCategoryID() != nil {
			parentName = names[*c.ParentCategoryID()]
		}
		views = append(views, dto.NewCategoryView(c, parentName, counts[c.ID()]))
	}
	return views, nil
}
