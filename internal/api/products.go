package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Cloudsky01/storeadmin/pkg/models"
)

// ListProducts accepts the categoryId, title and status filters
func (c *Client) ListProducts(ctx context.Context, q Query) (models.Page[models.Product], error) {
	var page models.Page[models.Product]
	if err := c.do(ctx, http.MethodGet, "/api/v1/products", q.Values(), nil, &page); err != nil {
		return page, fmt.Errorf("failed to list products: %w", err)
	}
	return page, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (models.Product, error) {
	var p models.Product
	if err := c.do(ctx, http.MethodGet, idPath("/api/v1/products/%d", id), nil, nil, &p); err != nil {
		return p, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return p, nil
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var created models.Product
	if err := c.do(ctx, http.MethodPost, "/api/v1/products", nil, p, &created); err != nil {
		return created, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int, p models.Product) (models.Product, error) {
	var updated models.Product
	if err := c.do(ctx, http.MethodPut, idPath("/api/v1/products/%d", id), nil, p, &updated); err != nil {
		return updated, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, idPath("/api/v1/products/%d", id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

// ListCategories returns the first page of categories, large enough for
// option lists
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var page models.Page[models.Category]
	q := url.Values{"page": {"1"}, "size": {"100"}}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", q, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return page.Content, nil
}
