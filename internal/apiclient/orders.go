package apiclient

import (
	"context"
	"net/http"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func (c *Client) Orders(ctx context.Context) ([]domain.Order, error) {
	return list[domain.Order](ctx, c, "/orders", nil)
}

func (c *Client) Order(ctx context.Context, id int64) (domain.Order, error) {
	return get[domain.Order](ctx, c, idPath("/orders/%d", id), nil, "data", "order")
}

func (c *Client) AdminOrders(ctx context.Context) ([]domain.Order, error) {
	return list[domain.Order](ctx, c, "/admin/admin-orders", nil)
}

func (c *Client) AdminOrder(ctx context.Context, id int64) (domain.Order, error) {
	return get[domain.Order](ctx, c, idPath("/admin/admin-orders/%d", id), nil, "data", "order")
}

// SetOrderStatus sends a status change. Callers validate the transition first.
func (c *Client) SetOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, domain.ErrInvalidTransition
	}
	body := struct {
		Status domain.OrderStatus `json:"status"`
	}{status}
	return send[domain.Order](ctx, c, http.MethodPut, idPath("/admin/admin-orders/%d", id), body, "order", "data")
}

func (c *Client) AdminDeleteOrder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/admin/admin-orders/%d", id), nil, nil, nil)
}
