package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dukerupert/vortex/internal/domain"
)

// ListProducts returns the catalog, optionally filtered by category.
// An empty category lists everything.
func (c *Client) ListProducts(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	path := "/products"
	if category != "" {
		path += "?" + url.Values{"category": {string(category)}}.Encode()
	}

	var products []domain.Product
	if err := c.do(ctx, "products.list", http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// GetProduct returns one product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(ctx, "products.get", http.MethodGet, "/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
