package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is one of the fixed product groups shown in the storefront.
type Category string

const (
	CategoryFruits     Category = "fruits"
	CategoryVegetables Category = "vegetables"
	CategoryDairy      Category = "dairy"
	CategorySnacks     Category = "snacks"
	CategoryBeverages  Category = "beverages"
	CategoryMeat       Category = "meat"
)

// DefaultProductImage is stored when a product is created without an image.
const DefaultProductImage = "https://via.placeholder.com/300"

var categories = []Category{
	CategoryFruits,
	CategoryVegetables,
	CategoryDairy,
	CategorySnacks,
	CategoryBeverages,
	CategoryMeat,
}

// Categories returns the known categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product is a catalog entry. Only admins mutate it.
type Product struct {
	ID          string
	Name        string
	Category    Category
	Price       decimal.Decimal
	Stock       int
	Description string
	Image       string
	CreatedAt   time.Time
}

// Validate checks the fields required on every write.
func (p *Product) Validate() error {
	switch {
	case p.Name == "":
		return Invalid("name is required")
	case !p.Category.Valid():
		return Invalid("category must be one of: fruits, vegetables, dairy, snacks, beverages, meat")
	case p.Price.IsNegative():
		return Invalid("price must not be negative")
	case p.Stock < 0:
		return Invalid("stock must not be negative")
	}
	return nil
}
