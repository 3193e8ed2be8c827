package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	"github.com/Costin94/LiveOn-Ecommerce/internal/event"
	"github.com/Costin94/LiveOn-Ecommerce/internal/repository"
	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
)

// CreateCategory creates an active category, optionally nested.
type CreateCategory struct {
	Name             string
	Description      string
	ParentCategoryID *int64
	DisplayOrder     int
}

// CreateCategoryHandler handles CreateCategory.
type CreateCategoryHandler struct {
	uow    repository.UnitOfWorkFactory
	events *event.Publisher
	logger *slog.Logger
}

func NewCreateCategoryHandler(uow repository.UnitOfWorkFactory, events *event.Publisher, logger *slog.Logger) *CreateCategoryHandler {
	return &CreateCategoryHandler{uow: uow, events: events, logger: logger}
}

// Handle returns the identity assigned to the new category.
func (h *CreateCategoryHandler) Handle(ctx context.Context, cmd CreateCategory) (int64, error) {
	uow := h.uow()
	defer uow.Close()

	c, err := domain.NewCategory(cmd.Name, cmd.Description, cmd.ParentCategoryID)
	if err != nil {
		return 0, err
	}
	if cmd.DisplayOrder != 0 {
		if err := c.SetDisplayOrder(cmd.DisplayOrder); err != nil {
			return 0, err
		}
	}

	existing, err := uow.Categories().GetBySlug(ctx, c.Slug())
	if err != nil {
		return 0, fmt.Errorf("lookup category by slug: %w", err)
	}
	if existing != nil {
		return 0, apperrors.AlreadyExists("category", "slug", c.Slug())
	}

	if cmd.ParentCategoryID != nil {
		parent, err := uow.Categories().GetByID(ctx, *cmd.ParentCategoryID)
		if err != nil {
			return 0, fmt.Errorf("lookup parent category: %w", err)
		}
		if parent == nil {
			return 0, apperrors.BusinessRule(fmt.Sprintf("parent category %d does not exist", *cmd.ParentCategoryID))
		}
	}

	if err := uow.Categories().Add(ctx, c); err != nil {
		return 0, err
	}
	if _, err := uow.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit create category: %w", err)
	}

	h.events.CategoryCreated(ctx, c)
	h.logger.InfoContext(ctx, "category created",
		slog.Int64("category_id", c.ID()),
		slog.String("slug", c.Slug()),
	)
	return c.ID(), nil
}

// UpdateCategory modifies an existing category. Nil fields are left
// untouched. ParentCategoryID distinguishes "unset" (nil pointer) from
// "make it a root" via ClearParent.
type UpdateCategory struct {
	ID               int64
	Name             *string
	Description      *string
	ParentCategoryID *int64
	ClearParent      bool
	Active           *bool
	DisplayOrder     *int
}

// UpdateCategoryHandler handles UpdateCategory.
type UpdateCategoryHandler struct {
	uow    repository.UnitOfWorkFactory
	events *event.Publisher
	logger *slog.Logger
}

func NewUpdateCategoryHandler(uow repository.UnitOfWorkFactory, events *event.Publisher, logger *slog.Logger) *UpdateCategoryHandler {
	return &UpdateCategoryHandler{uow: uow, events: events, logger: logger}
}

// Handle reports whether the category existed and was updated.
func (h *UpdateCategoryHandler) Handle(ctx context.Context, cmd UpdateCategory) (bool, error) {
	uow := h.uow()
	defer uow.Close()

	c, err := uow.Categories().GetByID(ctx, cmd.ID)
	if err != nil {
		return false, fmt.Errorf("load category: %w", err)
	}
	if c == nil {
		return false, nil
	}

	if cmd.Name != nil {
		if err := c.SetName(*cmd.Name); err != nil {
			return false, err
		}
	}
	if cmd.Description != nil {
		if err := c.SetDescription(*cmd.Description); err != nil {
			return false, err
		}
	}
	if cmd.ClearParent {
		if err := c.SetParentCategory(nil); err != nil {
			return false, err
		}
	} else if cmd.ParentCategoryID != nil {
		parent, err := uow.Categories().GetByID(ctx, *cmd.ParentCategoryID)
		if err != nil {
			return false, fmt.Errorf("lookup parent category: %w", err)
		}
		if parent == nil {
			return false, apperrors.BusinessRule(fmt.Sprintf("parent category %d does not exist", *cmd.ParentCategoryID))
		}
		if err := c.SetParentCategory(cmd.ParentCategoryID); err != nil {
			return false, err
		}
	}
	if cmd.Active != nil {
		if *cmd.Active {
			c.Activate()
		} else {
			c.Deactivate()
		}
	}
	if cmd.DisplayOrder != nil {
		if err := c.SetDisplayOrder(*cmd.DisplayOrder); err != nil {
			return false, err
		}
	}

	if err := uow.Categories().Update(ctx, c); err != nil {
		return false, err
	}
	if _, err := uow.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit update category: %w", err)
	}

	h.events.CategoryUpdated(ctx, c)
	h.logger.InfoContext(ctx, "category updated", slog.Int64("category_id", c.ID()))
	return true, nil
}

// DeleteCategory soft-deletes a category. Categories still holding
// products or child categories cannot be deleted.
type DeleteCategory struct {
	ID int64
}

// DeleteCategoryHandler handles DeleteCategory.
type DeleteCategoryHandler struct {
	uow    repository.UnitOfWorkFactory
	events *event.Publisher
	logger *slog.Logger
}

func NewDeleteCategoryHandler(uow repository.UnitOfWorkFactory, events *event.Publisher, logger *slog.Logger) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{uow: uow, events: events, logger: logger}
}

// Handle reports whether the category existed and was deleted.
func (h *DeleteCategoryHandler) Handle(ctx context.Context, cmd DeleteCategory) (bool, error) {
	uow := h.uow()
	defer uow.Close()

	c, err := uow.Categories().GetByID(ctx, cmd.ID)
	if err != nil {
		return false, fmt.Errorf("load category: %w", err)
	}
	if c == nil {
		return false, nil
	}

	products, err := uow.Products().GetByCategory(ctx, cmd.ID)
	if err != nil {
		return false, fmt.Errorf("lookup category products: %w", err)
	}
	if len(products) > 0 {
		return false, apperrors.BusinessRule(
			fmt.Sprintf("cannot delete category %d: it still contains %d products", cmd.ID, len(products)))
	}

	children, err := uow.Categories().GetChildren(ctx, cmd.ID)
	if err != nil {
		return false, fmt.Errorf("lookup child categories: %w", err)
	}
	if len(children) > 0 {
		return false, apperrors.BusinessRule(
			fmt.Sprintf("cannot delete category %d: it still has %d child categories", cmd.ID, len(children)))
	}

	if err := uow.Categories().Remove(ctx, c); err != nil {
		return false, err
	}
	if _, err := uow.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit delete category: %w", err)
	}

	h.events.CategoryDeleted(ctx, cmd.ID)
	h.logger.InfoContext(ctx, "category deleted", slog.Int64("category_id", cmd.ID))
	return true, nil
}
