package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/Costin94/LiveOn-Ecommerce/pkg/errors"
)

// ProductStatus values a product moves through over its lifetime.
const (
	ProductStatusDraft        = "draft"
	ProductStatusActive       = "active"
	ProductStatusOutOfStock   = "out_of_stock"
	ProductStatusDiscontinued = "discontinued"
	ProductStatusArchived     = "archived"
)

// ValidProductStatuses returns the set of valid product statuses.
func ValidProductStatuses() []string {
	return []string{
		ProductStatusDraft,
		ProductStatusActive,
		ProductStatusOutOfStock,
		ProductStatusDiscontinued,
		ProductStatusArchived,
	}
}

// IsValidProductStatus checks whether the given status string is a valid product status.
func IsValidProductStatus(status string) bool {
	for _, s := range ValidProductStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// Product field constraints.
const (
	maxProductNameLen        = 200
	maxProductSKULen         = 50
	maxProductDescriptionLen = 2000
	maxProductImageURLLen    = 500
)

var maxProductPrice = decimal.NewFromInt(1_000_000)

// Product is the catalog aggregate root. All field mutation goes through
// its methods; a failed mutation leaves the product unchanged.
type Product struct {
	Entity

	name               string
	sku                string
	description        string
	price              decimal.Decimal
	stockQuantity      int
	categoryID         int64
	status             string
	imageURL           string
	weight             *decimal.Decimal
	featured           bool
	discountPercentage decimal.Decimal
}

// NewProduct creates a product in Draft status with zero stock.
func NewProduct(name, sku string, price decimal.Decimal, categoryID int64, description string) (*Product, error) {
	p := &Product{
		Entity: newEntity(),
		status: ProductStatusDraft,
	}
	if err := p.SetName(name); err != nil {
		return nil, err
	}
	if err := p.SetSKU(sku); err != nil {
		return nil, err
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	if err := p.ChangeCategory(categoryID); err != nil {
		return nil, err
	}
	if err := p.SetDescription(description); err != nil {
		return nil, err
	}
	// Construction is not a mutation; the modified timestamp starts unset.
	p.updatedAt = nil
	return p, nil
}

// --- Accessors ---

func (p *Product) Name() string              { return p.name }
func (p *Product) SKU() string               { return p.sku }
func (p *Product) Description() string       { return p.description }
func (p *Product) Price() decimal.Decimal    { return p.price }
func (p *Product) StockQuantity() int        { return p.stockQuantity }
func (p *Product) CategoryID() int64         { return p.categoryID }
func (p *Product) Status() string            { return p.status }
func (p *Product) ImageURL() string          { return p.imageURL }
func (p *Product) Weight() *decimal.Decimal  { return p.weight }
func (p *Product) IsFeatured() bool          { return p.featured }
func (p *Product) Discount() decimal.Decimal { return p.discountPercentage }

// FinalPrice returns the price after applying the discount percentage.
func (p *Product) FinalPrice() decimal.Decimal {
	if p.discountPercentage.LessThanOrEqual(decimal.Zero) {
		return p.price
	}
	discount := p.price.Mul(p.discountPercentage.Div(decimal.NewFromInt(100)))
	return p.price.Sub(discount)
}

// IsInStock reports whether any stock is available.
func (p *Product) IsInStock() bool {
	return p.stockQuantity > 0
}

// IsAvailable reports whether the product can currently be purchased.
func (p *Product) IsAvailable() bool {
	return p.status == ProductStatusActive && p.IsInStock()
}

// CanBeOrdered reports whether the requested quantity can be fulfilled.
func (p *Product) CanBeOrdered(requested int) bool {
	return p.status == ProductStatusActive && p.IsInStock() && p.stockQuantity >= requested
}

// --- Mutations ---

// SetName updates the product name (required, max 200 characters).
func (p *Product) SetName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return apperrors.Validation("product name is required")
	}
	if len(trimmed) > maxProductNameLen {
		return apperrors.Validation(fmt.Sprintf("product name cannot exceed %d characters", maxProductNameLen))
	}
	p.name = trimmed
	p.touch()
	return nil
}

// SetSKU updates the SKU. SKUs are stored trimmed and upper-cased.
func (p *Product) SetSKU(sku string) error {
	trimmed := strings.TrimSpace(sku)
	if trimmed == "" {
		return apperrors.Validation("product SKU is required")
	}
	if len(trimmed) > maxProductSKULen {
		return apperrors.Validation(fmt.Sprintf("product SKU cannot exceed %d characters", maxProductSKULen))
	}
	p.sku = strings.ToUpper(trimmed)
	p.touch()
	return nil
}

// SetDescription updates the optional description (max 2000 characters).
func (p *Product) SetDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	if len(trimmed) > maxProductDescriptionLen {
		return apperrors.Validation(fmt.Sprintf("product description cannot exceed %d characters", maxProductDescriptionLen))
	}
	p.description = trimmed
	p.touch()
	return nil
}

// SetPrice updates the price. Prices must be strictly positive and at most 1,000,000.
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return apperrors.BusinessRule("product price must be greater than zero")
	}
	if price.GreaterThan(maxProductPrice) {
		return apperrors.BusinessRule("product price cannot exceed 1,000,000")
	}
	p.price = price
	p.touch()
	return nil
}

// ChangeCategory moves the product to another category.
func (p *Product) ChangeCategory(categoryID int64) error {
	if categoryID <= 0 {
		return apperrors.Validation("invalid category id")
	}
	p.categoryID = categoryID
	p.touch()
	return nil
}

// IncreaseStock adds stock. A product that was out of stock becomes
// active again as soon as stock is available.
func (p *Product) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return apperrors.Validation("quantity must be positive")
	}
	p.stockQuantity += quantity
	if p.status == ProductStatusOutOfStock && p.stockQuantity > 0 {
		p.status = ProductStatusActive
	}
	p.touch()
	return nil
}

// DecreaseStock removes stock, typically when an order is placed. Draining
// the last unit of an active product marks it out of stock.
func (p *Product) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return apperrors.Validation("quantity must be positive")
	}
	if p.stockQuantity < quantity {
		return apperrors.BusinessRule(fmt.Sprintf(
			"insufficient stock: available %d, requested %d", p.stockQuantity, quantity))
	}
	p.stockQuantity -= quantity
	if p.stockQuantity == 0 && p.status == ProductStatusActive {
		p.status = ProductStatusOutOfStock
	}
	p.touch()
	return nil
}

// SetStock sets the stock quantity directly, for inventory corrections.
// It performs the same status recompute at the zero boundary as the
// increase/decrease paths.
func (p *Product) SetStock(quantity int) error {
	if quantity < 0 {
		return apperrors.BusinessRule("stock quantity cannot be negative")
	}
	p.stockQuantity = quantity
	if p.stockQuantity == 0 && p.status == ProductStatusActive {
		p.status = ProductStatusOutOfStock
	} else if p.stockQuantity > 0 && p.status == ProductStatusOutOfStock {
		p.status = ProductStatusActive
	}
	p.touch()
	return nil
}

// ApplyDiscount sets the discount percentage (0-100).
func (p *Product) ApplyDiscount(percentage decimal.Decimal) error {
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return apperrors.BusinessRule("discount percentage must be between 0 and 100")
	}
	p.discountPercentage = percentage
	p.touch()
	return nil
}

// RemoveDiscount clears any discount.
func (p *Product) RemoveDiscount() {
	p.discountPercentage = decimal.Zero
	p.touch()
}

// Activate makes the product purchasable. Discontinued products cannot be
// reactivated. The resulting status depends on current stock.
func (p *Product) Activate() error {
	if p.status == ProductStatusDiscontinued {
		return apperrors.BusinessRule("cannot activate a discontinued product")
	}
	if p.stockQuantity > 0 {
		p.status = ProductStatusActive
	} else {
		p.status = ProductStatusOutOfStock
	}
	p.touch()
	return nil
}

// Discontinue permanently retires the product.
func (p *Product) Discontinue() {
	p.status = ProductStatusDiscontinued
	p.touch()
}

// SetFeatured toggles homepage featuring.
func (p *Product) SetFeatured(featured bool) {
	p.featured = featured
	p.touch()
}

// SetImageURL updates the optional image URL (max 500 characters).
func (p *Product) SetImageURL(imageURL string) error {
	if len(imageURL) > maxProductImageURLLen {
		return apperrors.Validation(fmt.Sprintf("image URL cannot exceed %d characters", maxProductImageURLLen))
	}
	p.imageURL = imageURL
	p.touch()
	return nil
}

// SetWeight updates the optional shipping weight in kilograms.
func (p *Product) SetWeight(weight *decimal.Decimal) error {
	if weight != nil && weight.IsNegative() {
		return apperrors.BusinessRule("weight cannot be negative")
	}
	p.weight = weight
	p.touch()
	return nil
}

// --- Persistence hydration ---

// ProductRecord is the flat persistence snapshot of a product. It is used
// by the storage adapter to save and restore aggregates without bypassing
// the mutation methods anywhere else.
type ProductRecord struct {
	ID                 int64
	Name               string
	SKU                string
	Description        string
	Price              decimal.Decimal
	StockQuantity      int
	CategoryID         int64
	Status             string
	ImageURL           string
	Weight             *decimal.Decimal
	IsFeatured         bool
	DiscountPercentage decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          *time.Time
	IsDeleted          bool
}

// Record returns the persistence snapshot of the product.
func (p *Product) Record() ProductRecord {
	return ProductRecord{
		ID:                 p.id,
		Name:               p.name,
		SKU:                p.sku,
		Description:        p.description,
		Price:              p.price,
		StockQuantity:      p.stockQuantity,
		CategoryID:         p.categoryID,
		Status:             p.status,
		ImageURL:           p.imageURL,
		Weight:             p.weight,
		IsFeatured:         p.featured,
		DiscountPercentage: p.discountPercentage,
		CreatedAt:          p.createdAt,
		UpdatedAt:          p.updatedAt,
		IsDeleted:          p.deleted,
	}
}

// RestoreProduct rebuilds a product from its stored state. Stored data is
// trusted; no validation runs.
func RestoreProduct(rec ProductRecord) *Product {
	return &Product{
		Entity: Entity{
			id:        rec.ID,
			createdAt: rec.CreatedAt,
			updatedAt: rec.UpdatedAt,
			deleted:   rec.IsDeleted,
		},
		name:               rec.Name,
		sku:                rec.SKU,
		description:        rec.Description,
		price:              rec.Price,
		stockQuantity:      rec.StockQuantity,
		categoryID:         rec.CategoryID,
		status:             rec.Status,
		imageURL:           rec.ImageURL,
		weight:             rec.Weight,
		featured:           rec.IsFeatured,
		discountPercentage: rec.DiscountPercentage,
	}
}
