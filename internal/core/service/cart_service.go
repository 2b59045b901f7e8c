package service

import (
	"context"
	"strings"

	"github.com/freshcart/storefront/internal/api/metrics"
	"github.com/freshcart/storefront/internal/core/domain"
	"github.com/freshcart/storefront/internal/core/ports"
)

// CartService implements the per-user cart.
//
// AddItem semantics: a supplied quantity is the absolute quantity of the line
// (new or existing); an omitted quantity adds one unit, so a new line starts
// at 1 and an existing line grows by 1.
type CartService struct {
	carts    ports.CartRepository
	products ports.ProductRepository
}

func NewCartService(carts ports.CartRepository, products ports.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) Get(ctx context.Context, userID string) (*domain.CartView, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resolveCart(ctx, s.products, cart)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity *int) (*domain.CartView, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.Invalid("Product ID is required")
	}
	if quantity != nil && *quantity < 1 {
		return nil, domain.Invalid("quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := append([]domain.CartItem(nil), cart.Items...)
	idx := cart.Find(productID)
	var want int
	switch {
	case quantity != nil:
		want = *quantity
	case idx >= 0:
		want = items[idx].Quantity + 1
	default:
		want = 1
	}
	if want > product.Stock {
		return nil, domain.ErrInsufficientStock
	}

	if idx >= 0 {
		items[idx].Quantity = want
	} else {
		items = append(items, domain.CartItem{ProductID: productID, Quantity: want})
	}

	updated, err := s.carts.ReplaceItems(ctx, userID, items)
	if err != nil {
		return nil, err
	}
	metrics.CartMutationsTotal.WithLabelValues("add").Inc()
	return resolveCart(ctx, s.products, updated)
}

// RemoveItem drops the line for productID; a missing line is not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.CartView, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.Invalid("Product ID is required")
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.Find(productID) < 0 {
		return resolveCart(ctx, s.products, cart)
	}

	updated, err := s.carts.ReplaceItems(ctx, userID, cart.Without(productID))
	if err != nil {
		return nil, err
	}
	metrics.CartMutationsTotal.WithLabelValues("remove").Inc()
	return resolveCart(ctx, s.products, updated)
}

// resolveCart joins cart lines with live catalog data. Lines whose product no
// longer exists are left out of the view.
func resolveCart(ctx context.Context, products ports.ProductRepository, cart *domain.Cart) (*domain.CartView, error) {
	view := &domain.CartView{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Lines:     make([]domain.CartLine, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}
	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	found, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, item := range cart.Items {
		p, ok := found[item.ProductID]
		if !ok {
			continue
		}
		view.Lines = append(view.Lines, domain.CartLine{Product: p, Quantity: item.Quantity})
	}
	return view, nil
}
