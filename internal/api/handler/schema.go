package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// --- Request types ---

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type productRequest struct {
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"       validate:"omitempty,min=0"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
}

type productPatchRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"       validate:"omitempty,min=0"`
	Description *string          `json:"description"`
	Image       *string          `json:"image"`
}

type productQuery struct {
	Category string `query:"category"`
	Search   string `query:"search"`
	Limit    int    `query:"limit"`
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity" validate:"omitempty,min=1"`
}

type createOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	Phone           string `json:"phone"`
	PaymentMethod   string `json:"paymentMethod" validate:"omitempty,oneof=cash card online"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type listOrdersQuery struct {
	Status string `query:"status"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

// --- Response types ---
// Field names follow the document layout the storefront frontend reads.

type userSummary struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type adminSummary struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	Success bool          `json:"success"`
	Token   string        `json:"token"`
	User    *userSummary  `json:"user,omitempty"`
	Admin   *adminSummary `json:"admin,omitempty"`
}

type userResponse struct {
	Success bool        `json:"success"`
	User    userSummary `json:"user"`
}

type productBody struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type productResponse struct {
	Success bool        `json:"success"`
	Product productBody `json:"product"`
}

type productsResponse struct {
	Success  bool          `json:"success"`
	Products []productBody `json:"products"`
}

type cartLineBody struct {
	Product  productBody `json:"product"`
	Quantity int         `json:"quantity"`
}

type cartBody struct {
	ID        string         `json:"_id"`
	User      string         `json:"user"`
	Items     []cartLineBody `json:"items"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type cartResponse struct {
	Success bool     `json:"success"`
	Cart    cartBody `json:"cart"`
}

type orderItemBody struct {
	// Product is null once the product has been deleted from the catalog.
	Product  *productBody    `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type statusEntryBody struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type orderBody struct {
	ID              string            `json:"_id"`
	OrderNumber     string            `json:"orderNumber"`
	User            string            `json:"user"`
	Items           []orderItemBody   `json:"items"`
	ShippingAddress string            `json:"shippingAddress"`
	Phone           string            `json:"phone"`
	PaymentMethod   string            `json:"paymentMethod"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	DeliveryFee     decimal.Decimal   `json:"deliveryFee"`
	Total           decimal.Decimal   `json:"total"`
	Status          string            `json:"status"`
	StatusHistory   []statusEntryBody `json:"statusHistory"`
	CreatedAt       time.Time         `json:"createdAt"`
}

type orderResponse struct {
	Success bool      `json:"success"`
	Order   orderBody `json:"order"`
}

type paginationBody struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type ordersResponse struct {
	Success    bool            `json:"success"`
	Orders     []orderBody     `json:"orders"`
	Pagination *paginationBody `json:"pagination,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorResponse documents the envelope api.NewHTTPErrorHandler renders.
type errorResponse struct {
	Message string `json:"message"`
}
