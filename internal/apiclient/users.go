package apiclient

import (
	"context"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func (c *Client) AdminUsers(ctx context.Context) ([]domain.User, error) {
	return list[domain.User](ctx, c, "/admin/users/all", nil)
}

// Clients lists customer accounts for controllers.
func (c *Client) Clients(ctx context.Context) ([]domain.User, error) {
	return list[domain.User](ctx, c, "/users", nil)
}
