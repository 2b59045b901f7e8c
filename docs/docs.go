// Package docs holds the OpenAPI document served at /swagger.
//
// The file is kept by hand in the layout that
// `swag init -g cmd/storefront/main.go` writes; running that command
// regenerates it from the handler annotations. Tests in internal/api fail when
// a routed endpoint is missing here.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/signup": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register a new user",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.authResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.signupRequest"
						}
					}
				]
			}
		},
		"/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Login",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.authResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.loginRequest"
						}
					}
				]
			}
		},
		"/admin/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Admin login",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.authResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.loginRequest"
						}
					}
				]
			}
		},
		"/products": {
			"get": {
				"tags": [
					"products"
				],
				"summary": "List products",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.productsResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "query",
						"name": "category",
						"type": "string",
						"description": "Product category"
					},
					{
						"in": "query",
						"name": "search",
						"type": "string",
						"description": "Case-insensitive name substring"
					},
					{
						"in": "query",
						"name": "limit",
						"type": "integer",
						"description": "Maximum number of products"
					}
				]
			}
		},
		"/products/{id}": {
			"get": {
				"tags": [
					"products"
				],
				"summary": "Get a product",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.productResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"type": "string",
						"required": true,
						"description": "Product id"
					}
				]
			}
		},
		"/user/profile": {
			"get": {
				"tags": [
					"user"
				],
				"summary": "Current user profile",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.userResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/user/update": {
			"put": {
				"tags": [
					"user"
				],
				"summary": "Update profile",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.userResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.updateProfileRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/cart": {
			"get": {
				"tags": [
					"cart"
				],
				"summary": "Get the current cart",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.cartResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/cart/add": {
			"post": {
				"tags": [
					"cart"
				],
				"summary": "Add or update a cart line",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.cartResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.cartItemRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/cart/remove": {
			"post": {
				"tags": [
					"cart"
				],
				"summary": "Remove a cart line",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.cartResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.cartItemRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/order/create": {
			"post": {
				"tags": [
					"orders"
				],
				"summary": "Place an order from the cart",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.orderResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "header",
						"name": "Idempotency-Key",
						"type": "string",
						"description": "Key to make checkout retries safe"
					},
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.createOrderRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/order/history": {
			"get": {
				"tags": [
					"orders"
				],
				"summary": "Order history of the current user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.ordersResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/order/{id}": {
			"get": {
				"tags": [
					"orders"
				],
				"summary": "Get one of the current user's orders",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.orderResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"type": "string",
						"required": true,
						"description": "Order id"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/order/{id}/status": {
			"put": {
				"tags": [
					"admin"
				],
				"summary": "Change an order's status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.orderResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"422": {
						"description": "Unprocessable Entity",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"type": "string",
						"required": true,
						"description": "Order id"
					},
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.updateStatusRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/orders": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "List all orders",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.ordersResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "query",
						"name": "status",
						"type": "string",
						"description": "Filter by status"
					},
					{
						"in": "query",
						"name": "page",
						"type": "integer",
						"description": "Page number (1-based)"
					},
					{
						"in": "query",
						"name": "limit",
						"type": "integer",
						"description": "Page size, at most 100"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/products": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "List products",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.productsResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "query",
						"name": "category",
						"type": "string",
						"description": "Product category"
					},
					{
						"in": "query",
						"name": "search",
						"type": "string",
						"description": "Case-insensitive name substring"
					},
					{
						"in": "query",
						"name": "limit",
						"type": "integer",
						"description": "Maximum number of products"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/products/add": {
			"post": {
				"tags": [
					"admin"
				],
				"summary": "Create a product",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.productResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.productRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/products/{id}": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "Get a product",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.productResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"type": "string",
						"required": true,
						"description": "Product id"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"admin"
				],
				"summary": "Update a product",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.productResponse"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"type": "string",
						"required": true,
						"description": "Product id"
					},
					{
						"in": "body",
						"name": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handler.productPatchRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"admin"
				],
				"summary": "Delete a product",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handler.messageResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handler.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"in": "path",
						"name": "id",
						"type": "string",
						"required": true,
						"description": "Product id"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		}
	},
	"definitions": {
		"handler.errorResponse": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				}
			}
		},
		"handler.signupRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"address": {
					"type": "string"
				}
			}
		},
		"handler.loginRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"handler.updateProfileRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"address": {
					"type": "string"
				}
			}
		},
		"handler.productRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"category": {
					"type": "string",
					"enum": [
						"fruits",
						"vegetables",
						"dairy",
						"snacks",
						"beverages",
						"meat"
					]
				},
				"price": {
					"type": "number"
				},
				"stock": {
					"type": "integer"
				},
				"description": {
					"type": "string"
				},
				"image": {
					"type": "string"
				}
			}
		},
		"handler.productPatchRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"category": {
					"type": "string",
					"enum": [
						"fruits",
						"vegetables",
						"dairy",
						"snacks",
						"beverages",
						"meat"
					]
				},
				"price": {
					"type": "number"
				},
				"stock": {
					"type": "integer"
				},
				"description": {
					"type": "string"
				},
				"image": {
					"type": "string"
				}
			}
		},
		"handler.cartItemRequest": {
			"type": "object",
			"properties": {
				"productId": {
					"type": "string"
				},
				"quantity": {
					"type": "integer",
					"minimum": 1
				}
			}
		},
		"handler.createOrderRequest": {
			"type": "object",
			"properties": {
				"shippingAddress": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"paymentMethod": {
					"type": "string",
					"enum": [
						"cash",
						"card",
						"online"
					]
				}
			}
		},
		"handler.updateStatusRequest": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string",
					"enum": [
						"pending",
						"confirmed",
						"processing",
						"shipped",
						"delivered",
						"cancelled"
					]
				}
			}
		},
		"handler.userSummary": {
			"type": "object",
			"properties": {
				"_id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"address": {
					"type": "string"
				}
			}
		},
		"handler.adminSummary": {
			"type": "object",
			"properties": {
				"_id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				}
			}
		},
		"handler.authResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"token": {
					"type": "string"
				},
				"user": {
					"$ref": "#/definitions/handler.userSummary"
				},
				"admin": {
					"$ref": "#/definitions/handler.adminSummary"
				}
			}
		},
		"handler.userResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"user": {
					"$ref": "#/definitions/handler.userSummary"
				}
			}
		},
		"handler.productBody": {
			"type": "object",
			"properties": {
				"_id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"category": {
					"type": "string",
					"enum": [
						"fruits",
						"vegetables",
						"dairy",
						"snacks",
						"beverages",
						"meat"
					]
				},
				"price": {
					"type": "number"
				},
				"stock": {
					"type": "integer"
				},
				"description": {
					"type": "string"
				},
				"image": {
					"type": "string"
				},
				"createdAt": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"handler.productResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"product": {
					"$ref": "#/definitions/handler.productBody"
				}
			}
		},
		"handler.productsResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"products": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handler.productBody"
					}
				}
			}
		},
		"handler.cartLineBody": {
			"type": "object",
			"properties": {
				"product": {
					"$ref": "#/definitions/handler.productBody"
				},
				"quantity": {
					"type": "integer"
				}
			}
		},
		"handler.cartBody": {
			"type": "object",
			"properties": {
				"_id": {
					"type": "string"
				},
				"user": {
					"type": "string"
				},
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handler.cartLineBody"
					}
				},
				"updatedAt": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"handler.cartResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"cart": {
					"$ref": "#/definitions/handler.cartBody"
				}
			}
		},
		"handler.orderItemBody": {
			"type": "object",
			"properties": {
				"product": {
					"$ref": "#/definitions/handler.productBody"
				},
				"quantity": {
					"type": "integer"
				},
				"price": {
					"type": "number"
				}
			}
		},
		"handler.statusEntryBody": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string"
				},
				"timestamp": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"handler.orderBody": {
			"type": "object",
			"properties": {
				"_id": {
					"type": "string"
				},
				"orderNumber": {
					"type": "string"
				},
				"user": {
					"type": "string"
				},
				"items": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handler.orderItemBody"
					}
				},
				"shippingAddress": {
					"type": "string"
				},
				"phone": {
					"type": "string"
				},
				"paymentMethod": {
					"type": "string"
				},
				"subtotal": {
					"type": "number"
				},
				"deliveryFee": {
					"type": "number"
				},
				"total": {
					"type": "number"
				},
				"status": {
					"type": "string"
				},
				"statusHistory": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handler.statusEntryBody"
					}
				},
				"createdAt": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"handler.orderResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"order": {
					"$ref": "#/definitions/handler.orderBody"
				}
			}
		},
		"handler.paginationBody": {
			"type": "object",
			"properties": {
				"page": {
					"type": "integer"
				},
				"limit": {
					"type": "integer"
				},
				"total": {
					"type": "integer"
				},
				"totalPages": {
					"type": "integer"
				}
			}
		},
		"handler.ordersResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"orders": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handler.orderBody"
					}
				},
				"pagination": {
					"$ref": "#/definitions/handler.paginationBody"
				}
			}
		},
		"handler.messageResponse": {
			"type": "object",
			"properties": {
				"success": {
					"type": "boolean"
				},
				"message": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Type \"Bearer\" followed by a space and the token.",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Grocery storefront: catalog, cart, checkout and order management.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
