package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/freshcart/storefront/internal/core/domain"
	"github.com/freshcart/storefront/internal/core/ports"
)

// OrderRepository implements ports.OrderRepository using MongoDB.
type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(collectionOrders)}
}

type orderItemDoc struct {
	Product  primitive.ObjectID   `bson:"product"`
	Quantity int                  `bson:"quantity"`
	Price    primitive.Decimal128 `bson:"price"`
}

type statusEntryDoc struct {
	Status    string    `bson:"status"`
	Timestamp time.Time `bson:"timestamp"`
}

type orderDoc struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"`
	OrderNumber     string               `bson:"orderNumber"`
	User            primitive.ObjectID   `bson:"user"`
	Items           []orderItemDoc       `bson:"items"`
	ShippingAddress string               `bson:"shippingAddress"`
	Phone           string               `bson:"phone"`
	PaymentMethod   string               `bson:"paymentMethod"`
	Subtotal        primitive.Decimal128 `bson:"subtotal"`
	DeliveryFee     primitive.Decimal128 `bson:"deliveryFee"`
	Total           primitive.Decimal128 `bson:"total"`
	Status          string               `bson:"status"`
	StatusHistory   []statusEntryDoc     `bson:"statusHistory"`
	CreatedAt       time.Time            `bson:"createdAt"`
}

func newOrderDoc(o *domain.Order) (*orderDoc, error) {
	user, ok := parseID(o.UserID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	doc := &orderDoc{
		OrderNumber:     o.OrderNumber,
		User:            user,
		Items:           make([]orderItemDoc, 0, len(o.Items)),
		ShippingAddress: o.ShippingAddress,
		Phone:           o.Phone,
		PaymentMethod:   string(o.PaymentMethod),
		Status:          string(o.Status),
		StatusHistory:   make([]statusEntryDoc, 0, len(o.StatusHistory)),
		CreatedAt:       o.CreatedAt,
	}

	for _, it := range o.Items {
		pid, ok := parseID(it.ProductID)
		if !ok {
			return nil, domain.ErrProductNotFound
		}
		price, err := toDecimal128(it.Price)
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, orderItemDoc{Product: pid, Quantity: it.Quantity, Price: price})
	}
	for _, h := range o.StatusHistory {
		doc.StatusHistory = append(doc.StatusHistory, statusEntryDoc{Status: string(h.Status), Timestamp: h.Timestamp})
	}

	var err error
	if doc.Subtotal, err = toDecimal128(o.Subtotal); err != nil {
		return nil, err
	}
	if doc.DeliveryFee, err = toDecimal128(o.DeliveryFee); err != nil {
		return nil, err
	}
	if doc.Total, err = toDecimal128(o.Total); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *orderDoc) toDomain() (*domain.Order, error) {
	o := &domain.Order{
		ID:              d.ID.Hex(),
		OrderNumber:     d.OrderNumber,
		UserID:          d.User.Hex(),
		Items:           make([]domain.OrderItem, 0, len(d.Items)),
		ShippingAddress: d.ShippingAddress,
		Phone:           d.Phone,
		PaymentMethod:   domain.PaymentMethod(d.PaymentMethod),
		Status:          domain.OrderStatus(d.Status),
		StatusHistory:   make([]domain.StatusHistoryEntry, 0, len(d.StatusHistory)),
		CreatedAt:       d.CreatedAt.UTC(),
	}

	for _, it := range d.Items {
		price, err := fromDecimal128(it.Price)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, domain.OrderItem{ProductID: it.Product.Hex(), Quantity: it.Quantity, Price: price})
	}
	for _, h := range d.StatusHistory {
		o.StatusHistory = append(o.StatusHistory, domain.StatusHistoryEntry{
			Status:    domain.OrderStatus(h.Status),
			Timestamp: h.Timestamp.UTC(),
		})
	}

	var err error
	if o.Subtotal, err = fromDecimal128(d.Subtotal); err != nil {
		return nil, err
	}
	if o.DeliveryFee, err = fromDecimal128(d.DeliveryFee); err != nil {
		return nil, err
	}
	if o.Total, err = fromDecimal128(d.Total); err != nil {
		return nil, err
	}
	return o, nil
}

// Create inserts o. A clash on the unique orderNumber index is reported as
// domain.ErrDuplicateOrderNumber so the caller can retry with a new number.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	doc, err := newOrderDoc(o)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateOrderNumber
		}
		return fmt.Errorf("insert order: %w", err)
	}
	o.ID = doc.ID.Hex()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain()
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	user, ok := parseID(userID)
	if !ok {
		return []*domain.Order{}, nil
	}
	return r.find(ctx, bson.M{"user": user}, options.Find().SetSort(newestFirst()))
}

// List pages through all orders, newest first, and reports the total match count.
func (r *OrderRepository) List(ctx context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	countCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	total, err := r.coll.CountDocuments(countCtx, query)
	cancel()
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(newestFirst()).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))
	orders, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		o, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// UpdateStatus atomically sets the status and appends a history entry,
// returning the updated order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, ts time.Time) (*domain.Order, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set":  bson.M{"status": string(status)},
		"$push": bson.M{"statusHistory": statusEntryDoc{Status: string(status), Timestamp: ts.UTC()}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc orderDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return doc.toDomain()
}

func newestFirst() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
}
