// Package command implements the write side: one command type and one
// handler per state-changing operation. Handlers open a fresh unit of
// work per invocation, mutate aggregates through their methods and
// commit atomically. A missing target aggregate is reported through the
// result (false), not an error.
package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	"github.com/Costin94/LiveOn-Ecommerce/internal/event"
	"github.com/Costin94/LiveOn-Ecommerce/internal/repository"
	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
)

// CreateProduct creates a draft product in a category.
type CreateProduct struct {
	Name         string
	SKU          string
	Description  string
	Price        decimal.Decimal
	CategoryID   int64
	InitialStock int
	ImageURL     string
	Weight       *decimal.Decimal
	Featured     bool
}

// CreateProductHandler handles CreateProduct.
type CreateProductHandler struct {
	uow    repository.UnitOfWorkFactory
	events *event.Publisher
	logger *slog.Logger
}

func NewCreateProductHandler(uow repository.UnitOfWorkFactory, events *event.Publisher, logger *slog.Logger) *CreateProductHandler {
	return &CreateProductHandler{uow: uow, events: events, logger: logger}
}

// Handle returns the identity assigned to the new product.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProduct) (int64, error) {
	uow := h.uow()
	defer uow.Close()

	p, err := domain.NewProduct(cmd.Name, cmd.SKU, cmd.Price, cmd.CategoryID, cmd.Description)
	if err != nil {
		return 0, err
	}

	existing, err := uow.Products().GetBySKU(ctx, p.SKU())
	if err != nil {
		return 0, fmt.Errorf("lookup product by sku: %w", err)
	}
	if existing != nil {
		return 0, apperrors.AlreadyExists("product", "sku", p.SKU())
	}

	category, err := uow.Categories().GetByID(ctx, cmd.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("lookup category: %w", err)
	}
	if category == nil {
		return 0, apperrors.BusinessRule(fmt.Sprintf("category %d does not exist", cmd.CategoryID))
	}

	if cmd.InitialStock > 0 {
		if err := p.IncreaseStock(cmd.InitialStock); err != nil {
			return 0, err
		}
	}
	if cmd.ImageURL != "" {
		if err := p.SetImageURL(cmd.ImageURL); err != nil {
			return 0, err
		}
	}
	if cmd.Weight != nil {
		if err := p.SetWeight(cmd.Weight); err != nil {
			return 0, err
		}
	}
	if cmd.Featured {
		p.SetFeatured(true)
	}

	if err := uow.Products().Add(ctx, p); err != nil {
		return 0, err
	}
	if _, err := uow.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit create product: %w", err)
	}

	h.events.ProductCreated(ctx, p)
	h.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", p.ID()),
		slog.String("sku", p.SKU()),
	)
	return p.ID(), nil
}

// UpdateProduct modifies an existing product. Nil fields are left
// untouched.
type UpdateProduct struct {
	ID          int64
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *int64
	ImageURL    *string
	Weight      *decimal.Decimal
	Featured    *bool
	Discount    *decimal.Decimal
}

// UpdateProductHandler handles UpdateProduct.
type UpdateProductHandler struct {
	uow    repository.UnitOfWorkFactory
	events *event.Publisher
	logger *slog.Logger
}

func NewUpdateProductHandler(uow repository.UnitOfWorkFactory, events *event.Publisher, logger *slog.Logger) *UpdateProductHandler {
	return &UpdateProductHandler{uow: uow, events: events, logger: logger}
}

// Handle reports whether the product existed and was updated.
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProduct) (bool, error) {
	uow := h.uow()
	defer uow.Close()

	p, err := uow.Products().GetByID(ctx, cmd.ID)
	if err != nil {
		return false, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return false, nil
	}

	if cmd.Name != nil {
		if err := p.SetName(*cmd.Name); err != nil {
			return false, err
		}
	}
	if cmd.Description != nil {
		if err := p.SetDescription(*cmd.Description); err != nil {
			return false, err
		}
	}
	if cmd.Price != nil {
		if err := p.SetPrice(*cmd.Price); err != nil {
			return false, err
		}
	}
	if cmd.CategoryID != nil {
		category, err := uow.Categories().GetByID(ctx, *cmd.CategoryID)
		if err != nil {
			return false, fmt.Errorf("lookup category: %w", err)
		}
		if category == nil {
			return false, apperrors.BusinessRule(fmt.Sprintf("category %d does not exist", *cmd.CategoryID))
		}
		if err := p.ChangeCategory(*cmd.CategoryID); err != nil {
			return false, err
		}
	}
	if cmd.ImageURL != nil {
		if err := p.SetImageURL(*cmd.ImageURL); err != nil {
			return false, err
		}
	}
	if cmd.Weight != nil {
		if err := p.SetWeight(cmd.Weight); err != nil {
			return false, err
		}
	}
	if cmd.Featured != nil {
		p.SetFeatured(*cmd.Featured)
	}
	if cmd.Discount != nil {
		if cmd.Discount.IsZero() {
			p.RemoveDiscount()
		} else if err := p.ApplyDiscount(*cmd.Discount); err != nil {
			return false, err
		}
	}

	if err := uow.Products().Update(ctx, p); err != nil {
		return false, err
	}
	if _, err := uow.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit update product: %w", err)
	}

	h.events.ProductUpdated(ctx, p)
	h.logger.InfoContext(ctx, "product updated", slog.Int64("product_id", p.ID()))
	return true, nil
}

// DeleteProduct soft-deletes a product.
type DeleteProduct struct {
	ID int64
}

// DeleteProductHandler handles DeleteProduct.
type DeleteProductHandler struct {
	uow    repository.UnitOfWorkFactory
	events *event.Publisher
	logger *slog.Logger
}

func NewDeleteProductHandler(uow repository.UnitOfWorkFactory, events *event.Publisher, logger *slog.Logger) *DeleteProductHandler {
	return &DeleteProductHandler{uow: uow, events: events, logger: logger}
}

// Handle reports whether the product existed and was deleted.
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProduct) (bool, error) {
	uow := h.uow()
	defer uow.Close()

	p, err := uow.Products().GetByID(ctx, cmd.ID)
	if err != nil {
		return false, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return false, nil
	}

	if err := uow.Products().Remove(ctx, p); err != nil {
		return false, err
	}
	if _, err := uow.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit delete product: %w", err)
	}

	h.events.ProductDeleted(ctx, cmd.ID)
	h.logger.InfoContext(ctx, "product deleted", slog.Int64("product_id", cmd.ID))
	return true, nil
}

// UpdateProductStock adjusts stock by a signed delta: positive restocks,
// negative consumes. A zero delta is a no-op.
type UpdateProductStock struct {
	ID    int64
	Delta int
}

// UpdateProductStockHandler handles UpdateProductStock.
type UpdateProductStockHandler struct {
	uow    repository.UnitOfWorkFactory
	events *event.Publisher
	logger *slog.Logger
}

func NewUpdateProductStockHandler(uow repository.UnitOfWorkFactory, events *event.Publisher, logger *slog.Logger) *UpdateProductStockHandler {
	return &UpdateProductStockHandler{uow: uow, events: events, logger: logger}
}

// Handle reports whether the product existed and its stock was adjusted.
func (h *UpdateProductStockHandler) Handle(ctx context.Context, cmd UpdateProductStock) (bool, error) {
	uow := h.uow()
	defer uow.Close()

	p, err := uow.Products().GetByID(ctx, cmd.ID)
	if err != nil {
		return false, fmt.Errorf("load product: %w", err)
	}
	if p == nil {
		return false, nil
	}

	switch {
	case cmd.Delta > 0:
		if err := p.IncreaseStock(cmd.Delta); err != nil {
			return false, err
		}
	case cmd.Delta < 0:
		if err := p.DecreaseStock(-cmd.Delta); err != nil {
			return false, err
		}
	default:
		return true, nil
	}

	if err := uow.Products().Update(ctx, p); err != nil {
		return false, err
	}
	if _, err := uow.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit update stock: %w", err)
	}

	h.events.ProductUpdated(ctx, p)
	h.logger.InfoContext(ctx, "product stock updated",
		slog.Int64("product_id", p.ID()),
		slog.Int("delta", cmd.Delta),
		slog.Int("stock", p.StockQuantity()),
	)
	return true, nil
}
