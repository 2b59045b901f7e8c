package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshcart/storefront/internal/core/domain"
	"github.com/freshcart/storefront/internal/core/ports"
)

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func strPtr(v string) *string { return &v }

func TestCatalogService_CreateAndGetRoundTrip(t *testing.T) {
	store := newMemStore()
	svc := NewCatalogService(store, discardLogger)

	created, err := svc.Create(context.Background(), ports.ProductInput{
		Name:        "Fresh Apples",
		Category:    "fruits",
		Price:       decPtr(150),
		Stock:       intPtr(100),
		Description: "Crisp red apples",
		Image:       "https://img.example.com/apple.png",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Apples", got.Name)
	assert.Equal(t, domain.CategoryFruits, got.Category)
	assert.True(t, decimal.NewFromInt(150).Equal(got.Price))
	assert.Equal(t, 100, got.Stock)
	assert.Equal(t, "Crisp red apples", got.Description)
	assert.Equal(t, "https://img.example.com/apple.png", got.Image)
}

func TestCatalogService_Create_Defaults(t *testing.T) {
	store := newMemStore()
	svc := NewCatalogService(store, discardLogger)

	created, err := svc.Create(context.Background(), ports.ProductInput{
		Name: "Tomatoes", Category: "vegetables", Price: decPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, created.Stock)
	assert.Equal(t, "", created.Description)
	assert.Equal(t, domain.DefaultProductImage, created.Image)
}

func TestCatalogService_Create_Validation(t *testing.T) {
	svc := NewCatalogService(newMemStore(), discardLogger)
	cases := map[string]ports.ProductInput{
		"missing name":     {Category: "fruits", Price: decPtr(1)},
		"missing price":    {Name: "x", Category: "fruits"},
		"unknown category": {Name: "x", Category: "toys", Price: decPtr(1)},
		"negative price":   {Name: "x", Category: "fruits", Price: decPtr(-1)},
		"negative stock":   {Name: "x", Category: "fruits", Price: decPtr(1), Stock: intPtr(-2)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCatalogService_Update_PartialMerge(t *testing.T) {
	store := newMemStore()
	svc := NewCatalogService(store, discardLogger)
	created, err := svc.Create(context.Background(), ports.ProductInput{
		Name: "Milk", Category: "dairy", Price: decPtr(60), Stock: intPtr(20), Description: "1L",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, ports.ProductPatch{Price: decPtr(65)})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(65).Equal(updated.Price))

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milk", got.Name)
	assert.Equal(t, domain.CategoryDairy, got.Category)
	assert.Equal(t, 20, got.Stock)
	assert.Equal(t, "1L", got.Description)

	_, err = svc.Update(context.Background(), created.ID, ports.ProductPatch{Category: strPtr("toys")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(context.Background(), "missing", ports.ProductPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

// checkoutAfterRead sells qty units of a product right after it is read, the
// way a checkout running alongside an admin edit would.
type checkoutAfterRead struct {
	*memStore
	qty int
}

func (r checkoutAfterRead) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := r.memStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.memStore.DecrementStock(ctx, id, r.qty); err != nil {
		return nil, err
	}
	return p, nil
}

func TestCatalogService_Update_KeepsConcurrentStockDecrement(t *testing.T) {
	store := newMemStore()
	p := store.addProduct("Milk", 100, 5)
	svc := NewCatalogService(checkoutAfterRead{memStore: store, qty: 3}, discardLogger)

	updated, err := svc.Update(context.Background(), p.ID, ports.ProductPatch{Price: decPtr(120)})
	require.NoError(t, err)

	assert.Equal(t, 2, store.stock(p.ID), "price edit must not restore sold stock")
	assert.Equal(t, 2, updated.Stock)
	assert.True(t, decimal.NewFromInt(120).Equal(updated.Price))
}

func TestCatalogService_Update_ExplicitStockIsWritten(t *testing.T) {
	store := newMemStore()
	p := store.addProduct("Milk", 100, 5)
	svc := NewCatalogService(store, discardLogger)

	updated, err := svc.Update(context.Background(), p.ID, ports.ProductPatch{Stock: intPtr(40), Name: strPtr("  Whole Milk ")})
	require.NoError(t, err)
	assert.Equal(t, 40, store.stock(p.ID))
	assert.Equal(t, "Whole Milk", updated.Name)

	_, err = svc.Update(context.Background(), p.ID, ports.ProductPatch{Stock: intPtr(-1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 40, store.stock(p.ID))
}

func TestCatalogService_Delete(t *testing.T) {
	store := newMemStore()
	p := store.addProduct("Chips", 40, 3)
	svc := NewCatalogService(store, discardLogger)

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	_, err := svc.Get(context.Background(), p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), p.ID), domain.ErrProductNotFound)
}

func TestCatalogService_List_FiltersAndOrder(t *testing.T) {
	store := newMemStore()
	apples := store.addProduct("Fresh Apples", 150, 1)
	store.addProduct("Bananas", 60, 1)
	pineapple := store.addProduct("Pineapple", 200, 1)
	svc := NewCatalogService(store, discardLogger)

	all, err := svc.List(context.Background(), ports.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, pineapple.ID, all[0].ID, "newest first")

	found, err := svc.List(context.Background(), ports.ProductFilter{Search: "  APPLE "})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, pineapple.ID, found[0].ID)
	assert.Equal(t, apples.ID, found[1].ID)

	limited, err := svc.List(context.Background(), ports.ProductFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := svc.List(context.Background(), ports.ProductFilter{Category: domain.CategoryMeat})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.List(context.Background(), ports.ProductFilter{Category: "toys"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
