package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Cloudsky01/storeadmin/pkg/models"
)

// ListOrders accepts the status and searchTerm filters
func (c *Client) ListOrders(ctx context.Context, q Query) (models.Page[models.Order], error) {
	var page models.Page[models.Order]
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/orders", q.Values(), nil, &page); err != nil {
		return page, fmt.Errorf("failed to list orders: %w", err)
	}
	return page, nil
}

func (c *Client) GetOrder(ctx context.Context, id int) (models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, idPath("/api/v1/admin/orders/%d", id), nil, nil, &order); err != nil {
		return order, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return order, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int, status models.OrderStatus) (models.Order, error) {
	var order models.Order
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPut, idPath("/api/v1/admin/orders/%d/status", id), nil, body, &order); err != nil {
		return order, fmt.Errorf("failed to update order %d: %w", id, err)
	}
	return order, nil
}

func (c *Client) OrderStatistics(ctx context.Context) (models.OrderStatistics, error) {
	var stats models.OrderStatistics
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/orders/statistics", nil, nil, &stats); err != nil {
		return stats, fmt.Errorf("failed to load order statistics: %w", err)
	}
	return stats, nil
}
