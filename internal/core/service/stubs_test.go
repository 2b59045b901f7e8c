package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/freshcart/storefront/internal/core/domain"
	"github.com/freshcart/storefront/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory store backing products, carts and orders. Writes made with a
// transaction context record an undo step; WithinTransaction replays them in
// reverse when fn fails, so an aborted checkout leaves no trace while writes
// committed by an overlapping checkout survive.
// ---------------------------------------------------------------------------

type memStore struct {
	mu       sync.Mutex
	seq      int
	products map[string]domain.Product
	carts    map[string]domain.Cart
	orders   map[string]domain.Order

	decrementErr error // if set, DecrementStock returns it
	clearErr     error // if set, ClearIfUnchanged returns it
	orderErrs    []error
	txCalls      int
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]domain.Product),
		carts:    make(map[string]domain.Cart),
		orders:   make(map[string]domain.Order),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%04d", prefix, m.seq)
}

func (m *memStore) addProduct(name string, price int64, stock int) *domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := domain.Product{
		ID:        m.nextID("p"),
		Name:      name,
		Category:  domain.CategoryFruits,
		Price:     decimal.NewFromInt(price),
		Stock:     stock,
		Image:     domain.DefaultProductImage,
		CreatedAt: time.Now().Add(time.Duration(m.seq) * time.Second),
	}
	m.products[p.ID] = p
	return &p
}

func (m *memStore) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *memStore) setCart(userID string, items ...domain.CartItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = domain.Cart{ID: "c-" + userID, UserID: userID, Items: items}
}

func (m *memStore) cartItems(userID string) []domain.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartItem(nil), m.carts[userID].Items...)
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

// --- Transactor ---

type txLogKey struct{}

type txLog struct{ undo []func() }

// recordUndo registers fn to run if the transaction carried by ctx aborts.
// Callers hold m.mu.
func recordUndo(ctx context.Context, fn func()) {
	if log, ok := ctx.Value(txLogKey{}).(*txLog); ok {
		log.undo = append(log.undo, fn)
	}
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.txCalls++
	m.mu.Unlock()

	log := &txLog{}
	if err := fn(context.WithValue(ctx, txLogKey{}, log)); err != nil {
		m.mu.Lock()
		for i := len(log.undo) - 1; i >= 0; i-- {
			log.undo[i]()
		}
		m.mu.Unlock()
		return err
	}
	return nil
}

// --- ProductRepository ---

func (m *memStore) Create(_ context.Context, p *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID("p")
	m.products[p.ID] = *p
	return nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (m *memStore) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			clone := p
			out[id] = &clone
		}
	}
	return out, nil
}

func (m *memStore) List(_ context.Context, f ports.ProductFilter) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Product
	for _, p := range m.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
			continue
		}
		clone := p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, id string, patch ports.ProductPatch) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = domain.Category(*patch.Category)
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	m.products[id] = p
	return &p, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memStore) DecrementStock(ctx context.Context, id string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.decrementErr != nil {
		return m.decrementErr
	}
	p, ok := m.products[id]
	if !ok || p.Stock < qty {
		return domain.ErrInsufficientStock
	}
	p.Stock -= qty
	m.products[id] = p
	recordUndo(ctx, func() {
		if p, ok := m.products[id]; ok {
			p.Stock += qty
			m.products[id] = p
		}
	})
	return nil
}

// --- CartRepository (exposed through memCarts to avoid method clashes) ---

type memCarts struct{ *memStore }

func (c memCarts) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart, ok := c.carts[userID]
	if !ok {
		cart = domain.Cart{ID: "c-" + userID, UserID: userID, Items: []domain.CartItem{}}
		c.carts[userID] = cart
		recordUndo(ctx, func() { delete(c.carts, userID) })
	}
	cart.Items = append([]domain.CartItem(nil), cart.Items...)
	return &cart, nil
}

func (c memCarts) ReplaceItems(_ context.Context, userID string, items []domain.CartItem) (*domain.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart := c.carts[userID]
	cart.ID, cart.UserID = "c-"+userID, userID
	cart.Items = append([]domain.CartItem(nil), items...)
	c.carts[userID] = cart
	out := cart
	return &out, nil
}

func (c memCarts) ClearIfUnchanged(ctx context.Context, userID string, expected []domain.CartItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clearErr != nil {
		return c.clearErr
	}
	cart, ok := c.carts[userID]
	if !ok || !sameItems(cart.Items, expected) {
		return domain.ErrCartEmpty
	}
	previous := cart
	cart.Items = []domain.CartItem{}
	c.carts[userID] = cart
	recordUndo(ctx, func() { c.carts[userID] = previous })
	return nil
}

func sameItems(a, b []domain.CartItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- OrderRepository (exposed through memOrders) ---

type memOrders struct{ *memStore }

func (o memOrders) Create(ctx context.Context, order *domain.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.orderErrs) > 0 {
		err := o.orderErrs[0]
		o.orderErrs = o.orderErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range o.orders {
		if existing.OrderNumber == order.OrderNumber {
			return domain.ErrDuplicateOrderNumber
		}
	}
	order.ID = o.nextID("o")
	clone := *order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	o.orders[order.ID] = clone
	id := order.ID
	recordUndo(ctx, func() { delete(o.orders, id) })
	return nil
}

func (o memOrders) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	order, ok := o.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}

func (o memOrders) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []*domain.Order
	for _, order := range o.orders {
		if order.UserID == userID {
			clone := order
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (o memOrders) List(_ context.Context, f ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var matched []*domain.Order
	for _, order := range o.orders {
		if f.Status != "" && order.Status != f.Status {
			continue
		}
		clone := order
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip > len(matched) {
		return []*domain.Order{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (o memOrders) UpdateStatus(_ context.Context, id string, status domain.OrderStatus, ts time.Time) (*domain.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	order, ok := o.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	order.Status = status
	order.StatusHistory = append(order.StatusHistory, domain.StatusHistoryEntry{Status: status, Timestamp: ts})
	o.orders[id] = order
	out := order
	return &out, nil
}

// ---------------------------------------------------------------------------
// Account stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User // keyed by id
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", len(r.users)+1)
	r.users[created.ID] = created
	return cloneUser(created), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) EmailTakenByOther(_ context.Context, email, userID string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email && u.ID != userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

type stubAdminRepo struct {
	admins  map[string]*domain.Admin
	created int
	updated int
}

func newStubAdminRepo() *stubAdminRepo {
	return &stubAdminRepo{admins: make(map[string]*domain.Admin)}
}

func (r *stubAdminRepo) Create(_ context.Context, admin *domain.Admin) (*domain.Admin, error) {
	clone := *admin
	clone.ID = fmt.Sprintf("a%d", len(r.admins)+1)
	r.admins[clone.ID] = &clone
	r.created++
	out := clone
	return &out, nil
}

func (r *stubAdminRepo) FindByID(_ context.Context, id string) (*domain.Admin, error) {
	a, ok := r.admins[id]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAdminRepo) FindByEmail(_ context.Context, email string) (*domain.Admin, error) {
	for _, a := range r.admins {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAdminNotFound
}

func (r *stubAdminRepo) UpdateCredentials(_ context.Context, id, name, hash string) error {
	a, ok := r.admins[id]
	if !ok {
		return domain.ErrAdminNotFound
	}
	a.Name = name
	a.PasswordHash = hash
	r.updated++
	return nil
}
