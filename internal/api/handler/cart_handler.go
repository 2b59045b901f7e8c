package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freshcart/storefront/internal/core/ports"
)

type CartHandler struct {
	carts ports.CartService
}

func NewCartHandler(carts ports.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// Get handles GET /cart, creating an empty cart on first use.
//
// @Summary      Get the current cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartResponse
// @Failure      401  {object}  errorResponse
// @Router       /cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	cart, err := h.carts.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Success: true, Cart: toCartBody(cart)})
}

// Add handles POST /cart/add. A quantity sets the line to that amount; without
// one the line grows by a single unit.
//
// @Summary      Add or update a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      cartItemRequest  true  "Product and optional quantity"
// @Success      200   {object}  cartResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /cart/add [post]
func (h *CartHandler) Add(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req cartItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cart, err := h.carts.AddItem(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Success: true, Cart: toCartBody(cart)})
}

// Remove handles POST /cart/remove.
//
// @Summary      Remove a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      cartItemRequest  true  "Product to remove"
// @Success      200   {object}  cartResponse
// @Failure      400   {object}  errorResponse
// @Router       /cart/remove [post]
func (h *CartHandler) Remove(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req cartItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	cart, err := h.carts.RemoveItem(c.Request().Context(), userID, req.ProductID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cartResponse{Success: true, Cart: toCartBody(cart)})
}
