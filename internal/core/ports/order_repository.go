package ports

import (
	"context"
	"time"

	"github.com/freshcart/storefront/internal/core/domain"
)

// ListOrdersFilter carries the admin order listing parameters.
type ListOrdersFilter struct {
	Status domain.OrderStatus // empty = all
	Page   int                // 1-based
	Limit  int
}

// OrderRepository defines persistence for orders.
type OrderRepository interface {
	// Create inserts the order and sets its ID. A collision on the order
	// number yields domain.ErrDuplicateOrderNumber.
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// ListByUser returns the user's orders newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	// List returns a page of orders matching filter and the total count.
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
	// UpdateStatus sets the status, appends a history entry and returns the
	// updated order.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, ts time.Time) (*domain.Order, error)
}

// Transactor runs fn so that every repository call made with the context it
// receives commits or aborts together.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CheckoutIdempotency remembers which order a client's Idempotency-Key produced.
// A key is reserved before the checkout runs, so two requests carrying it can
// never both place an order.
type CheckoutIdempotency interface {
	// Reserve claims key for a new checkout. When key already names an order,
	// that id is returned with found set. A key held by a checkout that has
	// not finished yields domain.ErrCheckoutInProgress.
	Reserve(ctx context.Context, userID, key string) (orderID string, found bool, err error)
	// Complete points a reserved key at the order it produced.
	Complete(ctx context.Context, userID, key, orderID string) error
	// Release drops a reservation whose checkout failed so the client can retry.
	Release(ctx context.Context, userID, key string) error
}
