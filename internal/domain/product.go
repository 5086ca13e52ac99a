package domain

import (
	"time"

	"github.com/google/uuid"
)

// UncategorizedName labels products whose category is unset or no longer exists.
const UncategorizedName = "Uncategorized"

// Product represents a catalog product edited from the admin panel
type Product struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	NutritionFact string     `json:"nutrition_fact" db:"nutrition_fact"`
	HetPrice      string     `json:"het_price" db:"het_price"`
	Thumbnail     string     `json:"thumbnail" db:"thumbnail"`
	Images        []string   `json:"images" db:"images"`
	Videos        []string   `json:"videos" db:"videos"`
	CategoryID    *uuid.UUID `json:"category_id" db:"category_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// ProductPatch lists the product columns to change. Unset fields are left alone.
type ProductPatch struct {
	Title         Optional[string]     `json:"title"`
	Description   Optional[string]     `json:"description"`
	NutritionFact Optional[string]     `json:"nutrition_fact"`
	HetPrice      Optional[string]     `json:"het_price"`
	Thumbnail     Optional[string]     `json:"thumbnail"`
	Images        Optional[[]string]   `json:"images"`
	Videos        Optional[[]string]   `json:"videos"`
	CategoryID    Optional[*uuid.UUID] `json:"category_id"`
}

// IsEmpty reports whether no field is set.
func (p ProductPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Description.Set && !p.NutritionFact.Set && !p.HetPrice.Set &&
		!p.Thumbnail.Set && !p.Images.Set && !p.Videos.Set && !p.CategoryID.Set
}

// ProductFilter narrows a product listing. A nil CategoryID means all categories.
type ProductFilter struct {
	CategoryID *uuid.UUID
}

// ProductDetail is a product together with its resolved category.
// Category is nil when the product is uncategorized or its category was deleted.
type ProductDetail struct {
	Product
	Category     *Category `json:"category"`
	CategoryName string    `json:"category_name"`
}

// NewProductDetail resolves the category label of a product.
func NewProductDetail(p Product, c *Category) ProductDetail {
	name := UncategorizedName
	if c != nil {
		name = c.Name
	}
	return ProductDetail{Product: p, Category: c, CategoryName: name}
}

// Category represents a product category
type Category struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	ImageURL     string    `json:"image_url" db:"image_url"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryPatch lists the category columns to change.
type CategoryPatch struct {
	Name         Optional[string] `json:"name"`
	Description  Optional[string] `json:"description"`
	ImageURL     Optional[string] `json:"image_url"`
	DisplayOrder Optional[int]    `json:"display_order"`
	IsActive     Optional[bool]   `json:"is_active"`
}

// IsEmpty reports whether no field is set.
func (p CategoryPatch) IsEmpty() bool {
	return !p.Name.Set && !p.Description.Set && !p.ImageURL.Set && !p.DisplayOrder.Set && !p.IsActive.Set
}

// CategoryFilter narrows a category listing. Public pages only see active categories.
type CategoryFilter struct {
	ActiveOnly bool
}
