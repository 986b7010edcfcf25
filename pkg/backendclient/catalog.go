package backendclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
)

type SearchPage struct {
	Data []domain.Product `json:"data"`
	Meta struct {
		Page       int   `json:"page"`
		Size       int   `json:"size"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	} `json:"meta"`
}

// ListProducts returns every product, newest first.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/rest/v1/products", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchProducts(ctx context.Context, q string, page, size int) (*SearchPage, error) {
	query := url.Values{}
	query.Set("q", q)
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var out SearchPage
	if err := c.do(ctx, http.MethodGet, "/rest/v1/products/search", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) InsertProduct(ctx context.Context, d domain.ProductDraft) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodPost, "/rest/v1/products", nil, d, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, d domain.ProductDraft) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodPatch, "/rest/v1/products/"+url.PathEscape(id), nil, d, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/rest/v1/products/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) HomeContent(ctx context.Context) (domain.HomePageContent, error) {
	var out domain.HomePageContent
	err := c.do(ctx, http.MethodGet, "/rest/v1/settings/home", nil, nil, &out)
	return out, err
}

func (c *Client) SaveHomeContent(ctx context.Context, content domain.HomePageContent) (domain.HomePageContent, error) {
	var out domain.HomePageContent
	err := c.do(ctx, http.MethodPut, "/rest/v1/settings/home", nil, content, &out)
	return out, err
}
