package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/store"
)

type AdminHTTP struct {
	Catalog *store.Catalog
}

func (h *AdminHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_product")

	var d domain.ProductDraft
	if err := c.Bind(&d); err != nil {
		return badRequest(l, "product_create_error", "invalid body", err)
	}

	p, err := h.Catalog.AddProduct(ctx, d)
	if err != nil {
		return fail(l, "product_create_failed", err)
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdateProduct applies the submitted draft onto the current product.
func (h *AdminHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_product", "product_id", c.Param("id"))

	current, ok := h.Catalog.Product(c.Param("id"))
	if !ok {
		l.Warn("product_update_error", "status", http.StatusNotFound, "reason", "unknown product")
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	var d domain.ProductDraft
	if err := c.Bind(&d); err != nil {
		return badRequest(l, "product_update_error", "invalid body", err)
	}
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return badRequest(l, "product_update_error", err.Error(), err)
	}

	p, err := h.Catalog.UpdateProduct(ctx, d.Apply(current))
	if err != nil {
		return fail(l, "product_update_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_product", "product_id", c.Param("id"))

	if err := h.Catalog.DeleteProduct(ctx, c.Param("id")); err != nil {
		return fail(l, "product_delete_failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) GetHome(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Catalog.HomePageContent())
}

func (h *AdminHTTP) PutHome(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.put_home")

	var content domain.HomePageContent
	if err := c.Bind(&content); err != nil {
		return badRequest(l, "home_content_error", "invalid body", err)
	}

	saved, err := h.Catalog.UpdateHomePageContent(ctx, content)
	if err != nil {
		return fail(l, "home_content_save_failed", err)
	}
	return c.JSON(http.StatusOK, saved)
}
