package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/freshcart/storefront/internal/core/domain"
)

func TestOrderDoc_KeepsDecimalPrecision(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := &domain.Order{
		OrderNumber: "ORD-1-ABCDEF12",
		UserID:      primitive.NewObjectID().Hex(),
		Items: []domain.OrderItem{
			{ProductID: primitive.NewObjectID().Hex(), Quantity: 3, Price: decimal.RequireFromString("0.10")},
		},
		PaymentMethod: domain.PaymentCard,
		Subtotal:      decimal.RequireFromString("0.30"),
		DeliveryFee:   decimal.RequireFromString("50"),
		Total:         decimal.RequireFromString("50.30"),
		Status:        domain.OrderPending,
		StatusHistory: []domain.StatusHistoryEntry{{Status: domain.OrderPending, Timestamp: ts}},
		CreatedAt:     ts,
	}

	doc, err := newOrderDoc(in)
	if err != nil {
		t.Fatalf("newOrderDoc: %v", err)
	}
	out, err := doc.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}

	if !out.Total.Equal(in.Total) || !out.Subtotal.Equal(in.Subtotal) {
		t.Errorf("totals changed: %s/%s", out.Subtotal, out.Total)
	}
	if !out.Items[0].Price.Equal(in.Items[0].Price) || out.Items[0].ProductID != in.Items[0].ProductID {
		t.Errorf("item changed: %+v", out.Items[0])
	}
	if len(out.StatusHistory) != 1 || !out.StatusHistory[0].Timestamp.Equal(ts) {
		t.Errorf("history changed: %+v", out.StatusHistory)
	}
}

func TestOrderDoc_RejectsMalformedIDs(t *testing.T) {
	_, err := newOrderDoc(&domain.Order{UserID: "not-an-id"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}

	_, err = newOrderDoc(&domain.Order{
		UserID: primitive.NewObjectID().Hex(),
		Items:  []domain.OrderItem{{ProductID: "nope", Quantity: 1}},
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("got %v, want ErrProductNotFound", err)
	}
}
