package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/freshcart/storefront/internal/api/middleware"
	"github.com/freshcart/storefront/internal/core/domain"
	"github.com/freshcart/storefront/internal/core/ports"
)

type stubAuthService struct {
	signupFn     func(ctx context.Context, in ports.SignupInput) (string, *domain.User, error)
	loginFn      func(ctx context.Context, email, password string) (string, *domain.User, error)
	adminLoginFn func(ctx context.Context, email, password string) (string, *domain.Admin, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (string, *domain.User, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) AdminLogin(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	return s.adminLoginFn(ctx, email, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.Principal, error) {
	return nil, domain.ErrUnauthorized
}

type stubCartService struct {
	getFn    func(ctx context.Context, userID string) (*domain.CartView, error)
	addFn    func(ctx context.Context, userID, productID string, quantity *int) (*domain.CartView, error)
	removeFn func(ctx context.Context, userID, productID string) (*domain.CartView, error)
}

func (s *stubCartService) Get(ctx context.Context, userID string) (*domain.CartView, error) {
	return s.getFn(ctx, userID)
}

func (s *stubCartService) AddItem(ctx context.Context, userID, productID string, quantity *int) (*domain.CartView, error) {
	return s.addFn(ctx, userID, productID, quantity)
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.CartView, error) {
	return s.removeFn(ctx, userID, productID)
}

type stubOrderService struct {
	createFn       func(ctx context.Context, in ports.CreateOrderInput) (*domain.OrderView, error)
	historyFn      func(ctx context.Context, userID string) ([]*domain.OrderView, error)
	getFn          func(ctx context.Context, userID, orderID string) (*domain.OrderView, error)
	updateStatusFn func(ctx context.Context, orderID, status string) (*domain.OrderView, error)
	listAllFn      func(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error)
}

func (s *stubOrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*domain.OrderView, error) {
	return s.createFn(ctx, in)
}

func (s *stubOrderService) History(ctx context.Context, userID string) ([]*domain.OrderView, error) {
	return s.historyFn(ctx, userID)
}

func (s *stubOrderService) Get(ctx context.Context, userID, orderID string) (*domain.OrderView, error) {
	return s.getFn(ctx, userID, orderID)
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, orderID, status string) (*domain.OrderView, error) {
	return s.updateStatusFn(ctx, orderID, status)
}

func (s *stubOrderService) ListAll(ctx context.Context, in ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	return s.listAllFn(ctx, in)
}

type stubCatalogService struct {
	listFn   func(ctx context.Context, filter ports.ProductFilter) ([]*domain.Product, error)
	getFn    func(ctx context.Context, id string) (*domain.Product, error)
	createFn func(ctx context.Context, in ports.ProductInput) (*domain.Product, error)
	updateFn func(ctx context.Context, id string, patch ports.ProductPatch) (*domain.Product, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubCatalogService) List(ctx context.Context, filter ports.ProductFilter) ([]*domain.Product, error) {
	return s.listFn(ctx, filter)
}

func (s *stubCatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.getFn(ctx, id)
}

func (s *stubCatalogService) Create(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	return s.createFn(ctx, in)
}

func (s *stubCatalogService) Update(ctx context.Context, id string, patch ports.ProductPatch) (*domain.Product, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubCatalogService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

// newContext builds an echo context with a validator and, when userID is
// non-empty, a signed-in user principal.
func newContext(method, target, body, userID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		middleware.SetPrincipal(c, &domain.Principal{
			Kind: domain.PrincipalUser,
			User: &domain.User{ID: userID},
		})
	}
	return c, rec
}
