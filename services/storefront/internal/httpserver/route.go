package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/checkout"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/session"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/store"
)

type Deps struct {
	Catalog  *store.Catalog
	Sessions *session.Registry
	Checkout *checkout.Service
	// Warning is shown on every response when the backend is unconfigured.
	Warning string
	// SecureCookies marks device and CSRF cookies as HTTPS only.
	SecureCookies bool
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = errorHandler
	e.Use(warningHeader(d.Warning))

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Catalog.Loading() {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	catalog := &CatalogHTTP{Catalog: d.Catalog, Sessions: d.Sessions, Warning: d.Warning}
	cart := &CartHTTP{Catalog: d.Catalog}
	account := &AccountHTTP{}
	orders := &CheckoutHTTP{Svc: d.Checkout}
	admin := &AdminHTTP{Catalog: d.Catalog}

	api := e.Group("/api")
	api.GET("/status", catalog.Status)
	api.GET("/home", catalog.Home)
	api.GET("/products", catalog.ListProducts)
	api.GET("/offers", catalog.Offers)
	api.GET("/search", catalog.Search)
	api.GET("/facets", catalog.Facets)

	device := api.Group("", csrf(d.SecureCookies), deviceSession(d.Sessions, d.SecureCookies))
	device.GET("/products/:id", catalog.GetProduct)

	device.GET("/cart", cart.GetCart)
	device.POST("/cart/items", cart.AddItem)
	device.PUT("/cart/items/:id", cart.UpdateItem)
	device.DELETE("/cart/items/:id", cart.RemoveItem)

	device.GET("/wishlist", cart.GetWishlist)
	device.PUT("/wishlist/:id", cart.AddToWishlist)
	device.DELETE("/wishlist/:id", cart.RemoveFromWishlist)

	device.POST("/checkout", orders.Begin, optionalUser)
	device.POST("/checkout/capture", orders.Capture, optionalUser)

	device.POST("/account/signup", account.SignUp)
	device.POST("/account/signin", account.SignIn)
	device.POST("/account/signout", account.SignOut)

	profile := device.Group("/profile", requireUser)
	profile.GET("", account.Profile)
	profile.PUT("/details", account.UpdateDetails)
	profile.PUT("/password", account.UpdatePassword)
	profile.GET("/orders", orders.History)

	adm := device.Group("/admin", requireUser, requireAdmin)
	adm.POST("/products", admin.CreateProduct)
	adm.PUT("/products/:id", admin.UpdateProduct)
	adm.DELETE("/products/:id", admin.DeleteProduct)
	adm.GET("/home", admin.GetHome)
	adm.PUT("/home", admin.PutHome)
}
