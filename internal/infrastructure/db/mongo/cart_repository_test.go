package mongo

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/freshcart/storefront/internal/core/domain"
)

func TestUnchangedCartFilter_MatchesExactItems(t *testing.T) {
	user := primitive.NewObjectID()
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	filter, err := unchangedCartFilter(user, []domain.CartItem{
		{ProductID: a.Hex(), Quantity: 2},
		{ProductID: b.Hex(), Quantity: 1},
	})
	if err != nil {
		t.Fatalf("unchangedCartFilter: %v", err)
	}

	if filter["user"] != user {
		t.Errorf("user = %v, want %v", filter["user"], user)
	}
	items, ok := filter["items"].([]cartItemDoc)
	if !ok {
		t.Fatalf("items stored as %T", filter["items"])
	}
	want := []cartItemDoc{{Product: a, Quantity: 2}, {Product: b, Quantity: 1}}
	if len(items) != len(want) {
		t.Fatalf("items = %v, want %v", items, want)
	}
	for i := range want {
		if items[i] != want[i] {
			t.Errorf("items[%d] = %v, want %v", i, items[i], want[i])
		}
	}
}

func TestUnchangedCartFilter_MalformedProductID(t *testing.T) {
	_, err := unchangedCartFilter(primitive.NewObjectID(), []domain.CartItem{{ProductID: "nope", Quantity: 1}})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}
