package domain

import "time"

// CartItem is a product reference and quantity; at most one per product.
type CartItem struct {
	ProductID string
	Quantity  int
}

// Cart belongs to exactly one user.
type Cart struct {
	ID        string
	UserID    string
	Items     []CartItem
	UpdatedAt time.Time
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Find returns the index of the line holding productID, or -1.
func (c *Cart) Find(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Without returns the cart lines minus the one for productID.
func (c *Cart) Without(productID string) []CartItem {
	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	return items
}

// CartLine is a cart item resolved against the live catalog.
type CartLine struct {
	Product  *Product
	Quantity int
}

// CartView is what callers get back from every cart operation.
type CartView struct {
	ID        string
	UserID    string
	Lines     []CartLine
	UpdatedAt time.Time
}
