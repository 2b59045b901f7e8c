package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freshcart/storefront/internal/core/domain"
)

// CartRepository implements ports.CartRepository using MongoDB. The unique
// index on user guarantees at most one cart per user.
type CartRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{coll: db.Collection(collectionCarts), now: time.Now}
}

type cartItemDoc struct {
	Product  primitive.ObjectID `bson:"product"`
	Quantity int                `bson:"quantity"`
}

type cartDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Items     []cartItemDoc      `bson:"items"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *cartDoc) toDomain() *domain.Cart {
	items := make([]domain.CartItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.CartItem{ProductID: it.Product.Hex(), Quantity: it.Quantity})
	}
	return &domain.Cart{
		ID:        d.ID.Hex(),
		UserID:    d.User.Hex(),
		Items:     items,
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// GetOrCreate upserts an empty cart for userID when none exists.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	user, ok := parseID(userID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	update := bson.M{"$setOnInsert": bson.M{
		"user":      user,
		"items":     bson.A{},
		"updatedAt": r.now().UTC(),
	}}
	return r.upsert(ctx, user, update)
}

func (r *CartRepository) ReplaceItems(ctx context.Context, userID string, items []domain.CartItem) (*domain.Cart, error) {
	user, ok := parseID(userID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	docs, err := newCartItemDocs(items)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set":         bson.M{"items": docs, "updatedAt": r.now().UTC()},
		"$setOnInsert": bson.M{"user": user},
	}
	return r.upsert(ctx, user, update)
}

func (r *CartRepository) upsert(ctx context.Context, user primitive.ObjectID, update bson.M) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc cartDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"user": user}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("upsert cart: %w", err)
	}
	return doc.toDomain(), nil
}

// ClearIfUnchanged empties the cart only while its items still equal
// expected. A cart changed or emptied by another request matches nothing and
// yields domain.ErrCartEmpty.
func (r *CartRepository) ClearIfUnchanged(ctx context.Context, userID string, expected []domain.CartItem) error {
	user, ok := parseID(userID)
	if !ok {
		return domain.ErrUserNotFound
	}
	filter, err := unchangedCartFilter(user, expected)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"items":     bson.A{},
		"updatedAt": r.now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCartEmpty
	}
	return nil
}

// unchangedCartFilter matches the user's cart only when its item array is
// exactly expected, in order.
func unchangedCartFilter(user primitive.ObjectID, expected []domain.CartItem) (bson.M, error) {
	docs, err := newCartItemDocs(expected)
	if err != nil {
		return nil, err
	}
	return bson.M{"user": user, "items": docs}, nil
}

func newCartItemDocs(items []domain.CartItem) ([]cartItemDoc, error) {
	docs := make([]cartItemDoc, 0, len(items))
	for _, it := range items {
		pid, ok := parseID(it.ProductID)
		if !ok {
			return nil, domain.ErrProductNotFound
		}
		docs = append(docs, cartItemDoc{Product: pid, Quantity: it.Quantity})
	}
	return docs, nil
}
