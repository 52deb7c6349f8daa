package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vasiliy-maslov/ecommerce-admin/internal/order"
)

var statusPaths = map[order.Status]string{
	order.StatusDelivery:  "/order/delivery",
	order.StatusCompleted: "/order/completed",
}

func (c *Client) ListOrders(ctx context.Context) ([]order.Cart, error) {
	var carts []order.Cart
	if err := c.doJSON(ctx, http.MethodGet, "/users/order", nil, &carts); err != nil {
		return nil, err
	}
	return carts, nil
}

// UpdateItemStatus moves the listed items of one user to status to.
func (c *Client) UpdateItemStatus(ctx context.Context, to order.Status, update order.StatusUpdate) error {
	path, ok := statusPaths[to]
	if !ok {
		return fmt.Errorf("no endpoint moves items to %q: %w", to, order.ErrUnknownStatus)
	}
	return c.doJSON(ctx, http.MethodPatch, path, update, nil)
}
