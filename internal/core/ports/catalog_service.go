package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/freshcart/storefront/internal/core/domain"
)

// ProductInput carries the fields of a new product.
type ProductInput struct {
	Name        string
	Category    string
	Price       *decimal.Decimal
	Stock       *int
	Description string
	Image       string
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Stock       *int
	Description *string
	Image       *string
}

// CatalogService exposes product browsing and admin mutation.
type CatalogService interface {
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
