package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/beauty_shop/pkg/middleware/auth"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	AuthHandler    *AuthHTTP
	OrderHandler   *OrderHTTP
	APIKey         string
	JWTSecret      []byte
	// Ready reports whether the database answers; nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	key := middleware.APIKey(d.APIKey)
	bearer := middleware.NewBearerMiddleware(d.JWTSecret)

	rest := e.Group("/rest/v1", key)

	products := rest.Group("/products")
	products.GET("", d.CatalogHandler.ListProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)

	admin := products.Group("", bearer.RequireAdmin)
	admin.POST("", d.CatalogHandler.CreateProduct)
	admin.PATCH("/:id", d.CatalogHandler.PatchProduct)
	admin.DELETE("/:id", d.CatalogHandler.DeleteProduct)

	rest.GET("/settings/home", d.CatalogHandler.GetHomeContent)
	rest.PUT("/settings/home", d.CatalogHandler.PutHomeContent, bearer.RequireAdmin)

	rest.GET("/orders", d.OrderHandler.ListOrders, bearer.RequireAuth)

	auth := e.Group("/auth/v1", key)
	auth.POST("/signup", d.AuthHandler.SignUp)
	auth.POST("/token", d.AuthHandler.Token)
	auth.POST("/logout", d.AuthHandler.Logout, bearer.RequireAuth)
	auth.GET("/user", d.AuthHandler.GetUser, bearer.RequireAuth)
	auth.PUT("/user", d.AuthHandler.UpdateUser, bearer.RequireAuth)

	functions := e.Group("/functions/v1", key)
	functions.POST("/create-order", d.OrderHandler.CreateOrder, bearer.Optional)
	functions.POST("/capture-order", d.OrderHandler.CaptureOrder)
}
