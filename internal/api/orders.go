package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dukerupert/vortex/internal/domain"
)

// CreateOrder submits an order. The response carries an order ID, a hosted
// payment URL, or both.
func (c *Client) CreateOrder(ctx context.Context, payload domain.OrderPayload) (domain.OrderResponse, error) {
	var resp domain.OrderResponse
	err := c.do(ctx, "orders.create", http.MethodPost, "/orders/checkout", payload, &resp)
	return resp, err
}

// OrderStatus asks the order service for the authoritative payment status.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	var status domain.OrderStatus
	err := c.do(ctx, "orders.status", http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/status", nil, &status)
	if status.OrderID == "" {
		status.OrderID = orderID
	}
	return status, err
}
