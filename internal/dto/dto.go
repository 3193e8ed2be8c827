// Package dto defines the read models returned by queries and the pure
// mapping functions that build them from aggregates. Views are flat,
// JSON-ready and never expose credentials.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
)

// ProductView is the read model for a product, with its category name
// resolved by the caller.
type ProductView struct {
	ID                 int64            `json:"id"`
	Name               string           `json:"name"`
	SKU                string           `json:"sku"`
	Description        string           `json:"description,omitempty"`
	Price              decimal.Decimal  `json:"price"`
	FinalPrice         decimal.Decimal  `json:"finalPrice"`
	DiscountPercentage decimal.Decimal  `json:"discountPercentage"`
	StockQuantity      int              `json:"stockQuantity"`
	InStock            bool             `json:"inStock"`
	Available          bool             `json:"available"`
	CategoryID         int64            `json:"categoryId"`
	CategoryName       string           `json:"categoryName,omitempty"`
	Status             string           `json:"status"`
	ImageURL           string           `json:"imageUrl,omitempty"`
	Weight             *decimal.Decimal `json:"weight,omitempty"`
	Featured           bool             `json:"featured"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          *time.Time       `json:"updatedAt,omitempty"`
}

// CategoryView is the read model for a category. ParentCategoryName and
// ProductCount are resolved by the caller.
type CategoryView struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	Slug               string     `json:"slug"`
	ParentCategoryID   *int64     `json:"parentCategoryId,omitempty"`
	ParentCategoryName string     `json:"parentCategoryName,omitempty"`
	Active             bool       `json:"active"`
	DisplayOrder       int        `json:"displayOrder"`
	ProductCount       int        `json:"productCount"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// UserView is the read model for a user. It never carries the password hash.
type UserView struct {
	ID               int64      `json:"id"`
	Email            string     `json:"email"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	FullName         string     `json:"fullName"`
	PhoneNumber      string     `json:"phoneNumber,omitempty"`
	Role             string     `json:"role"`
	Active           bool       `json:"active"`
	EmailVerified    bool       `json:"emailVerified"`
	RegistrationDate time.Time  `json:"registrationDate"`
	LastLoginDate    *time.Time `json:"lastLoginDate,omitempty"`
	Locked           bool       `json:"locked"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

// NewProductView maps a product to its view. categoryName may be empty
// when the category could not be resolved.
func NewProductView(p *domain.Product, categoryName string) ProductView {
	return ProductView{
		ID:                 p.ID(),
		Name:               p.Name(),
		SKU:                p.SKU(),
		Description:        p.Description(),
		Price:              p.Price(),
		FinalPrice:         p.FinalPrice(),
		DiscountPercentage: p.Discount(),
		StockQuantity:      p.StockQuantity(),
		InStock:            p.IsInStock(),
		Available:          p.IsAvailable(),
		CategoryID:         p.CategoryID(),
		CategoryName:       categoryName,
		Status:             p.Status(),
		ImageURL:           p.ImageURL(),
		Weight:             p.Weight(),
		Featured:           p.IsFeatured(),
		CreatedAt:          p.CreatedAt(),
		UpdatedAt:          p.UpdatedAt(),
	}
}

// NewProductViews maps a slice of products, resolving category names
// through the given id-to-name index.
func NewProductViews(products []*domain.Product, categoryNames map[int64]string) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p, categoryNames[p.CategoryID()]))
	}
	return views
}

// NewCategoryView maps a category to its view. parentName may be empty;
// productCount is the number of products in the category.
func NewCategoryView(c *domain.Category, parentName string, productCount int) CategoryView {
	return CategoryView{
		ID:                 c.ID(),
		Name:               c.Name(),
		Description:        c.Description(),
		Slug:               c.Slug(),
		ParentCategoryID:   c.ParentCategoryID(),
		ParentCategoryName: parentName,
		Active:             c.IsActive(),
		DisplayOrder:       c.DisplayOrder(),
		ProductCount:       productCount,
		CreatedAt:          c.CreatedAt(),
		UpdatedAt:          c.UpdatedAt(),
	}
}

// NewUserView maps a user to its view.
func NewUserView(u *domain.User) UserView {
	return UserView{
		ID:               u.ID(),
		Email:            u.Email(),
		FirstName:        u.FirstName(),
		LastName:         u.LastName(),
		FullName:         u.FullName(),
		PhoneNumber:      u.PhoneNumber(),
		Role:             u.Role(),
		Active:           u.IsActive(),
		EmailVerified:    u.IsEmailVerified(),
		RegistrationDate: u.RegistrationDate(),
		LastLoginDate:    u.LastLoginDate(),
		Locked:           u.IsLocked(),
		CreatedAt:        u.CreatedAt(),
		UpdatedAt:        u.UpdatedAt(),
	}
}

// NewUserViews maps a slice of users.
func NewUserViews(users []*domain.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, NewUserView(u))
	}
	return views
}
