package ports

import (
	"context"

	"github.com/freshcart/storefront/internal/core/domain"
)

// CartRepository defines persistence for per-user carts.
type CartRepository interface {
	// GetOrCreate returns the user's cart, creating an empty one if absent.
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	// ReplaceItems overwrites the cart lines and returns the stored cart.
	ReplaceItems(ctx context.Context, userID string, items []domain.CartItem) (*domain.Cart, error)
	// ClearIfUnchanged empties the line list only while it still equals
	// expected. Otherwise the cart was changed or consumed by another request
	// and domain.ErrCartEmpty is returned with nothing written.
	ClearIfUnchanged(ctx context.Context, userID string, expected []domain.CartItem) error
}

// CartService manages the signed-in user's cart. Every method returns the
// cart resolved against live catalog data.
type CartService interface {
	Get(ctx context.Context, userID string) (*domain.CartView, error)
	// AddItem sets the line to *quantity when given, otherwise adds one unit.
	AddItem(ctx context.Context, userID, productID string, quantity *int) (*domain.CartView, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.CartView, error)
}
