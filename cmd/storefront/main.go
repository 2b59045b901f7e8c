package main

import "github.com/freshcart/storefront/internal/cmd"

// @title                      Storefront API
// @version                    1.0
// @description                Grocery storefront: catalog, cart, checkout and order management.
// @BasePath                   /api
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the token.
func main() {
	cmd.Execute()
}
