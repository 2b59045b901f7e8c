package ports

import (
	"context"

	"github.com/freshcart/storefront/internal/core/domain"
)

// CreateOrderInput carries the checkout form of the signed-in user.
type CreateOrderInput struct {
	UserID          string
	ShippingAddress string
	Phone           string
	PaymentMethod   string
	IdempotencyKey  string
}

// ListOrdersInput carries the admin listing query.
type ListOrdersInput struct {
	Status string
	Page   int
	Limit  int
}

// ListOrdersResult is returned by ListAll.
type ListOrdersResult struct {
	Items      []*domain.OrderView
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OrderService runs checkout and order retrieval.
type OrderService interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.OrderView, error)
	History(ctx context.Context, userID string) ([]*domain.OrderView, error)
	// Get returns domain.ErrAccessDenied when the order belongs to someone else.
	Get(ctx context.Context, userID, orderID string) (*domain.OrderView, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*domain.OrderView, error)
	ListAll(ctx context.Context, in ListOrdersInput) (*ListOrdersResult, error)
}
