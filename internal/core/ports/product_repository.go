package ports

import (
	"context"

	"github.com/freshcart/storefront/internal/core/domain"
)

// ProductFilter carries the catalog query parameters.
type ProductFilter struct {
	Category domain.Category // empty = all categories
	Search   string          // case-insensitive substring of the name
	Limit    int             // 0 = no cap
}

// ProductRepository defines persistence for catalog entries.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByIDs returns the products that still exist, keyed by id.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error)
	// List returns matching products newest first.
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	// Update writes only the non-nil fields of patch and returns the stored
	// product. Fields the patch omits, stock included, keep their current value.
	Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	// DecrementStock subtracts qty only while stock >= qty; otherwise it
	// returns domain.ErrInsufficientStock and leaves the document unchanged.
	DecrementStock(ctx context.Context, id string, qty int) error
}
