package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// validTransitions is only enforced when strict status handling is enabled;
// by default admins may write any known status.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderProcessing, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderShipped, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethod is recorded on the order; no gateway is involved.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

// Valid reports whether m is an accepted payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentOnline
}

// OrderItem carries the price captured when the order was placed.
type OrderItem struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// LineTotal is the captured price times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// StatusHistoryEntry records a single status write on an order.
type StatusHistoryEntry struct {
	Status    OrderStatus
	Timestamp time.Time
}

// Order is an immutable snapshot of a checkout, apart from its status.
type Order struct {
	ID              string
	OrderNumber     string
	UserID          string
	Items           []OrderItem
	ShippingAddress string
	Phone           string
	PaymentMethod   PaymentMethod
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	Total           decimal.Decimal
	Status          OrderStatus
	StatusHistory   []StatusHistoryEntry
	CreatedAt       time.Time
}

// Subtotal sums the line totals of items.
func Subtotal(items []OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// OrderLine is an order item joined with the current catalog entry. Product is
// nil when the product has since been deleted; Price stays the captured one.
type OrderLine struct {
	Item    OrderItem
	Product *Product
}

// OrderView is an order with its lines resolved for display.
type OrderView struct {
	Order *Order
	Lines []OrderLine
}
