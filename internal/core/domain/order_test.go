package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderPending, OrderProcessing, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderDelivered, false},
		{OrderConfirmed, OrderShipped, true},
		{OrderProcessing, OrderShipped, true},
		{OrderProcessing, OrderPending, false},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if OrderStatus("refunded").Valid() {
		t.Error("refunded should not be valid")
	}
}

func TestSubtotal(t *testing.T) {
	items := []OrderItem{
		{ProductID: "a", Quantity: 2, Price: decimal.RequireFromString("100")},
		{ProductID: "b", Quantity: 3, Price: decimal.RequireFromString("0.10")},
	}
	if got := Subtotal(items); !got.Equal(decimal.RequireFromString("200.30")) {
		t.Errorf("Subtotal() = %s, want 200.30", got)
	}
	if got := Subtotal(nil); !got.IsZero() {
		t.Errorf("Subtotal(nil) = %s, want 0", got)
	}
}
