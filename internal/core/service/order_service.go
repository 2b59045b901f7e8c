package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/freshcart/storefront/internal/api/metrics"
	"github.com/freshcart/storefront/internal/core/domain"
	"github.com/freshcart/storefront/internal/core/ports"
)

const (
	maxOrderNumberAttempts = 5
	defaultOrdersPageSize  = 20
	maxOrdersPageSize      = 100
)

// OrderOptions tunes checkout and status handling.
type OrderOptions struct {
	// DeliveryFee is added to every order subtotal.
	DeliveryFee decimal.Decimal
	// StrictStatus rejects status writes that skip the order state machine.
	StrictStatus bool
}

// OrderService runs the cart to order transition and order retrieval.
type OrderService struct {
	orders         ports.OrderRepository
	carts          ports.CartRepository
	products       ports.ProductRepository
	tx             ports.Transactor
	idempotency    ports.CheckoutIdempotency
	opts           OrderOptions
	newOrderNumber func() string
	now            func() time.Time
	log            zerolog.Logger
}

// NewOrderService wires the order workflow. idempotency may be nil, in which
// case Idempotency-Key headers are ignored.
func NewOrderService(
	orders ports.OrderRepository,
	carts ports.CartRepository,
	products ports.ProductRepository,
	tx ports.Transactor,
	idempotency ports.CheckoutIdempotency,
	opts OrderOptions,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:         orders,
		carts:          carts,
		products:       products,
		tx:             tx,
		idempotency:    idempotency,
		opts:           opts,
		newOrderNumber: generateOrderNumber,
		now:            func() time.Time { return time.Now().UTC() },
		log:            log,
	}
}

// generateOrderNumber returns a number in the format ORD-<unix ms>-XXXXXXXX.
// Uniqueness is enforced by the store; collisions are retried by Create.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

// Create converts the user's cart into a pending order. Reading the cart, the
// order insert, the stock decrements and the cart reset run in one
// transaction and commit together or not at all.
func (s *OrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*domain.OrderView, error) {
	form := checkoutForm{
		address: strings.TrimSpace(in.ShippingAddress),
		phone:   strings.TrimSpace(in.Phone),
		method:  domain.PaymentMethod(strings.ToLower(strings.TrimSpace(in.PaymentMethod))),
	}
	if form.address == "" || form.phone == "" {
		return nil, s.fail("invalid_input", domain.Invalid("Shipping address and phone are required"))
	}
	if form.method == "" {
		form.method = domain.PaymentCash
	}
	if !form.method.Valid() {
		return nil, s.fail("invalid_input", domain.Invalid("payment method must be one of: cash, card, online"))
	}

	replayed, reserved, err := s.reserve(ctx, in.UserID, in.IdempotencyKey)
	if err != nil {
		return nil, s.fail(failureReason(err), err)
	}
	if replayed != nil {
		return replayed, nil
	}

	order, err := s.checkout(ctx, in.UserID, form)
	if reserved {
		s.settle(ctx, in.UserID, in.IdempotencyKey, order, err)
	}
	if err != nil {
		return nil, s.fail(failureReason(err), err)
	}

	metrics.OrdersCreatedTotal.WithLabelValues(string(order.PaymentMethod)).Inc()
	metrics.OrderValue.Observe(order.Total.InexactFloat64())
	s.log.Info().
		Str("order_number", order.OrderNumber).
		Str("user_id", order.UserID).
		Str("total", order.Total.String()).
		Int("items", len(order.Items)).
		Msg("order created")

	return s.resolve(ctx, order)
}

type checkoutForm struct {
	address string
	phone   string
	method  domain.PaymentMethod
}

// checkout runs place in a transaction, regenerating the order number when it
// collides with an existing one.
func (s *OrderService) checkout(ctx context.Context, userID string, form checkoutForm) (*domain.Order, error) {
	var (
		order *domain.Order
		err   error
	)
	for attempt := 1; ; attempt++ {
		number := s.newOrderNumber()
		err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
			placed, err := s.place(txCtx, userID, number, form)
			if err != nil {
				return err
			}
			order = placed
			return nil
		})
		if errors.Is(err, domain.ErrDuplicateOrderNumber) && attempt < maxOrderNumberAttempts {
			metrics.OrderNumberRetriesTotal.Inc()
			s.log.Warn().Str("order_number", number).Int("attempt", attempt).Msg("order number collision, regenerating")
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// place performs one checkout attempt; ctx carries the transaction. The cart
// is claimed before any write, so a checkout that overlaps another one for the
// same cart aborts with domain.ErrCartEmpty.
func (s *OrderService) place(ctx context.Context, userID, number string, form checkoutForm) (*domain.Order, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrCartEmpty
	}

	items, names, err := s.priceCart(ctx, cart)
	if err != nil {
		return nil, err
	}
	if err := s.carts.ClearIfUnchanged(ctx, userID, cart.Items); err != nil {
		return nil, err
	}

	now := s.now()
	subtotal := domain.Subtotal(items)
	order := &domain.Order{
		OrderNumber:     number,
		UserID:          userID,
		Items:           items,
		ShippingAddress: form.address,
		Phone:           form.phone,
		PaymentMethod:   form.method,
		Subtotal:        subtotal,
		DeliveryFee:     s.opts.DeliveryFee,
		Total:           subtotal.Add(s.opts.DeliveryFee),
		Status:          domain.OrderPending,
		StatusHistory:   []domain.StatusHistoryEntry{{Status: domain.OrderPending, Timestamp: now}},
		CreatedAt:       now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	for _, item := range order.Items {
		if err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, fmt.Errorf("%w for %s", domain.ErrInsufficientStock, names[item.ProductID])
			}
			return nil, err
		}
	}
	return order, nil
}

// priceCart captures the current price of every cart line and checks stock.
// It returns the product names keyed by id for error messages.
func (s *OrderService) priceCart(ctx context.Context, cart *domain.Cart) ([]domain.OrderItem, map[string]string, error) {
	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	names := make(map[string]string, len(cart.Items))
	for _, line := range cart.Items {
		p, ok := found[line.ProductID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, line.ProductID)
		}
		if line.Quantity > p.Stock {
			return nil, nil, fmt.Errorf("%w for %s", domain.ErrInsufficientStock, p.Name)
		}
		names[p.ID] = p.Name
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Quantity:  line.Quantity,
			Price:     p.Price,
		})
	}
	return items, names, nil
}

// reserve claims the Idempotency-Key before any work is done. It returns the
// earlier order for a replayed key, and reports whether a reservation was
// taken. When the key store is unreachable the checkout goes ahead unguarded.
func (s *OrderService) reserve(ctx context.Context, userID, key string) (*domain.OrderView, bool, error) {
	if key == "" || s.idempotency == nil {
		return nil, false, nil
	}
	orderID, found, err := s.idempotency.Reserve(ctx, userID, key)
	switch {
	case errors.Is(err, domain.ErrCheckoutInProgress):
		return nil, false, err
	case err != nil:
		s.log.Warn().Err(err).Str("user_id", userID).Msg("idempotency store unavailable, placing order without a reservation")
		return nil, false, nil
	case !found:
		return nil, true, nil
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	view, err := s.resolve(ctx, order)
	if err != nil {
		return nil, false, err
	}
	s.log.Info().Str("order_number", order.OrderNumber).Msg("idempotent checkout replay")
	return view, false, nil
}

// settle completes the reservation with the new order id, or releases it when
// the checkout failed. It runs even if the client has gone away.
func (s *OrderService) settle(ctx context.Context, userID, key string, order *domain.Order, checkoutErr error) {
	ctx = context.WithoutCancel(ctx)
	if checkoutErr != nil {
		if err := s.idempotency.Release(ctx, userID, key); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to release idempotency key")
		}
		return
	}
	if err := s.idempotency.Complete(ctx, userID, key, order.ID); err != nil {
		s.log.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("failed to store idempotency key")
	}
}

func (s *OrderService) fail(reason string, err error) error {
	metrics.OrderFailuresTotal.WithLabelValues(reason).Inc()
	return err
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_missing"
	case errors.Is(err, domain.ErrCartEmpty):
		return "cart_empty"
	case errors.Is(err, domain.ErrCheckoutInProgress):
		return "in_progress"
	}
	return "store_error"
}

// History lists the user's orders newest first.
func (s *OrderService) History(ctx context.Context, userID string) ([]*domain.OrderView, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveAll(ctx, orders)
}

// Get returns the order only when it belongs to userID.
func (s *OrderService) Get(ctx context.Context, userID, orderID string) (*domain.OrderView, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrAccessDenied
	}
	return s.resolve(ctx, order)
}

// UpdateStatus writes a new status. Unless strict status handling is enabled,
// any known status is accepted regardless of the current one.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*domain.OrderView, error) {
	next := domain.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if next == "" {
		return nil, domain.Invalid("Status is required")
	}
	if !next.Valid() {
		return nil, domain.Invalid("status must be one of: pending, confirmed, processing, shipped, delivered, cancelled")
	}

	if s.opts.StrictStatus {
		current, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !current.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, next)
		}
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, next, s.now())
	if err != nil {
		return nil, err
	}

	metrics.OrderStatusUpdatesTotal.WithLabelValues(string(next)).Inc()
	s.log.Info().Str("order_number", order.OrderNumber).Str("status", string(next)).Msg("order status updated")
	return s.resolve(ctx, order)
}

// ListAll returns a page of every user's orders for the admin panel.
func (s *OrderService) ListAll(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	status := domain.OrderStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if status != "" && !status.Valid() {
		return nil, domain.Invalid("unknown status: " + string(status))
	}
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultOrdersPageSize
	}
	if limit > maxOrdersPageSize {
		limit = maxOrdersPageSize
	}

	orders, total, err := s.orders.List(ctx, ports.ListOrdersFilter{Status: status, Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	views, err := s.resolveAll(ctx, orders)
	if err != nil {
		return nil, err
	}

	return &ports.ListOrdersResult{
		Items:      views,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (s *OrderService) resolve(ctx context.Context, order *domain.Order) (*domain.OrderView, error) {
	views, err := s.resolveAll(ctx, []*domain.Order{order})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// resolveAll attaches current product data to every order line with a single
// catalog lookup. Captured prices are left as they are.
func (s *OrderService) resolveAll(ctx context.Context, orders []*domain.Order) ([]*domain.OrderView, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, o := range orders {
		for _, item := range o.Items {
			if _, ok := seen[item.ProductID]; !ok {
				seen[item.ProductID] = struct{}{}
				ids = append(ids, item.ProductID)
			}
		}
	}

	found := map[string]*domain.Product{}
	if len(ids) > 0 {
		var err error
		if found, err = s.products.FindByIDs(ctx, ids); err != nil {
			return nil, err
		}
	}

	views := make([]*domain.OrderView, 0, len(orders))
	for _, o := range orders {
		lines := make([]domain.OrderLine, 0, len(o.Items))
		for _, item := range o.Items {
			lines = append(lines, domain.OrderLine{Item: item, Product: found[item.ProductID]})
		}
		views = append(views, &domain.OrderView{Order: o, Lines: lines})
	}
	return views, nil
}
