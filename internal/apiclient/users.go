package apiclient

import (
	"context"
	"net/http"

	"github.com/vasiliy-maslov/ecommerce-admin/internal/user"
)

func (c *Client) ListUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	if err := c.doJSON(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
