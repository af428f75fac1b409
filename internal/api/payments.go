package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Cloudsky01/storeadmin/pkg/models"
)

// ListPayments accepts paymentMethod, status and orderId
func (c *Client) ListPayments(ctx context.Context, q Query) (models.Page[models.Payment], error) {
	var page models.Page[models.Payment]
	if err := c.do(ctx, http.MethodGet, "/api/v1/payments", q.Values(), nil, &page); err != nil {
		return page, fmt.Errorf("failed to list payments: %w", err)
	}
	return page, nil
}

func (c *Client) GetPayment(ctx context.Context, id int) (models.Payment, error) {
	var p models.Payment
	if err := c.do(ctx, http.MethodGet, idPath("/api/v1/payments/%d", id), nil, nil, &p); err != nil {
		return p, fmt.Errorf("failed to get payment %d: %w", id, err)
	}
	return p, nil
}

func (c *Client) DeletePayment(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, idPath("/api/v1/payments/%d", id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete payment %d: %w", id, err)
	}
	return nil
}
