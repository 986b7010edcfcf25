package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/session"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/store"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/view"
)

type CatalogHTTP struct {
	Catalog  *store.Catalog
	Sessions *session.Registry
	Warning  string
}

type statusResponse struct {
	Configured     bool   `json:"configured"`
	Warning        string `json:"warning,omitempty"`
	CatalogLoading bool   `json:"catalog_loading"`
	Products       int    `json:"products"`
	Sessions       int    `json:"sessions"`
}

func (h *CatalogHTTP) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{
		Configured:     h.Warning == "",
		Warning:        h.Warning,
		CatalogLoading: h.Catalog.Loading(),
		Products:       len(h.Catalog.Products()),
		Sessions:       h.Sessions.Len(),
	})
}

type homeResponse struct {
	view.HomeSections
	Warning string `json:"warning,omitempty"`
}

func (h *CatalogHTTP) Home(c echo.Context) error {
	sections := view.BuildHomeSections(h.Catalog.Products(), h.Catalog.HomePageContent())
	return c.JSON(http.StatusOK, homeResponse{HomeSections: sections, Warning: h.Warning})
}

type listResponse struct {
	Data  []domain.Product `json:"data"`
	Total int              `json:"total"`
}

func list(products []domain.Product) listResponse {
	return listResponse{Data: products, Total: len(products)}
}

// narrow applies the listing query shared by every product list: audience,
// category, sort and repeated filter=<category>:<value> parameters.
func narrow(c echo.Context, products []domain.Product) ([]domain.Product, error) {
	if v := c.QueryParam("audience"); v != "" {
		a, ok := domain.ParseAudience(v)
		if !ok {
			return nil, errors.New("unknown audience")
		}
		products = view.ByAudience(products, a)
	}
	if v := c.QueryParam("category"); v != "" {
		cat, ok := domain.ParseCategory(v)
		if !ok {
			return nil, errors.New("unknown category")
		}
		products = view.ByCategory(products, cat)
	}

	sel := view.Selection{}
	for _, f := range c.QueryParams()["filter"] {
		key, value, ok := strings.Cut(f, ":")
		if !ok || strings.TrimSpace(key) == "" || value == "" {
			return nil, errors.New("filter must look like <category>:<value>")
		}
		key = strings.TrimSpace(key)
		sel[key] = append(sel[key], value)
	}
	return view.Listing(products, sel, view.SortKey(c.QueryParam("sort"))), nil
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "catalog.list_products")

	products, err := narrow(c, h.Catalog.Products())
	if err != nil {
		return badRequest(l, "list_products_error", err.Error(), nil)
	}
	return c.JSON(http.StatusOK, list(products))
}

func (h *CatalogHTTP) Offers(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "catalog.offers")

	products, err := narrow(c, view.Offers(h.Catalog.Products()))
	if err != nil {
		return badRequest(l, "offers_error", err.Error(), nil)
	}
	return c.JSON(http.StatusOK, list(products))
}

// Search uses the backend index when there is one and matches the local
// catalog otherwise. With the default sort, index hits keep relevance order.
func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	found := []domain.Product{}
	if q != "" {
		var err error
		found, err = h.Catalog.Search(ctx, q)
		if err != nil {
			if !errors.Is(err, store.ErrUnconfigured) {
				l.Warn("search_fallback", "reason", "backend search failed, matching locally", "error", err)
			}
			found = view.Search(h.Catalog.Products(), q)
		}
	}

	products, err := narrow(c, found)
	if err != nil {
		return badRequest(l, "search_error", err.Error(), nil)
	}
	return c.JSON(http.StatusOK, list(products))
}

func (h *CatalogHTTP) Facets(c echo.Context) error {
	return c.JSON(http.StatusOK, view.BuildFacets(h.Catalog.Products()))
}

type productResponse struct {
	Product    domain.Product   `json:"product"`
	Similar    []domain.Product `json:"similar"`
	InWishlist bool             `json:"in_wishlist"`
	InCart     bool             `json:"in_cart"`
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	p, ok := h.Catalog.Product(c.Param("id"))
	if !ok {
		l.Warn("get_product_error", "status", http.StatusNotFound, "reason", "unknown product", "product_id", c.Param("id"))
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	s := sessionOf(c)
	return c.JSON(http.StatusOK, productResponse{
		Product:    p,
		Similar:    view.Similar(h.Catalog.Products(), p, view.SimilarLimit),
		InWishlist: s.Wishlist.IsInWishlist(p.ID),
		InCart:     s.Cart.Has(p.ID),
	})
}
