package domain

import (
	"time"

	"github.com/google/uuid"
)

// LocationCategory is the kind of point of interest shown on the map
type LocationCategory string

const (
	LocationFactory     LocationCategory = "Factory"
	LocationSupplier    LocationCategory = "Supplier"
	LocationDropshipper LocationCategory = "Dropshipper"
	LocationStore       LocationCategory = "Store"
)

// LocationCategories lists every accepted location category.
var LocationCategories = []LocationCategory{
	LocationFactory,
	LocationSupplier,
	LocationDropshipper,
	LocationStore,
}

// Valid reports whether c is one of LocationCategories.
func (c LocationCategory) Valid() bool {
	for _, known := range LocationCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Location represents a map marker
type Location struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Description string           `json:"description" db:"description"`
	Latitude    float64          `json:"latitude" db:"latitude"`
	Longitude   float64          `json:"longitude" db:"longitude"`
	Category    LocationCategory `json:"category" db:"category"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// LocationPatch lists the location columns to change.
type LocationPatch struct {
	Name        Optional[string]           `json:"name"`
	Description Optional[string]           `json:"description"`
	Latitude    Optional[float64]          `json:"latitude"`
	Longitude   Optional[float64]          `json:"longitude"`
	Category    Optional[LocationCategory] `json:"category"`
}

// IsEmpty reports whether no field is set.
func (p LocationPatch) IsEmpty() bool {
	return !p.Name.Set && !p.Description.Set && !p.Latitude.Set && !p.Longitude.Set && !p.Category.Set
}

// LocationFilter narrows a location listing. An empty Category means all.
type LocationFilter struct {
	Category LocationCategory
}
