package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freshcart/storefront/internal/core/domain"
	"github.com/freshcart/storefront/internal/core/ports"
)

// ProductHandler serves the public catalog and the admin product routes.
type ProductHandler struct {
	catalog ports.CatalogService
}

func NewProductHandler(catalog ports.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// List handles GET /products and GET /admin/products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        category  query     string  false  "fruits, vegetables, dairy, snacks, beverages or meat"
// @Param        search    query     string  false  "Case-insensitive name substring"
// @Param        limit     query     int     false  "Maximum number of products"
// @Success      200       {object}  productsResponse
// @Failure      400       {object}  errorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	var q productQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	products, err := h.catalog.List(c.Request().Context(), ports.ProductFilter{
		Category: domain.Category(q.Category),
		Search:   q.Search,
		Limit:    q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productsResponse{Success: true, Products: toProductBodies(products)})
}

// Get handles GET /products/:id and GET /admin/products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Success: true, Product: toProductBody(product)})
}

// Create handles POST /admin/products/add.
//
// @Summary      Create a product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /admin/products/add [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.catalog.Create(c.Request().Context(), toProductInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, productResponse{Success: true, Product: toProductBody(product)})
}

// Update handles PUT /admin/products/:id with a partial body.
//
// @Summary      Update a product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Product id"
// @Param        body  body      productPatchRequest  true  "Fields to change"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req productPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.catalog.Update(c.Request().Context(), c.Param("id"), toProductPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Success: true, Product: toProductBody(product)})
}

// Delete handles DELETE /admin/products/:id.
//
// @Summary      Delete a product
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.catalog.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Product deleted successfully"})
}
