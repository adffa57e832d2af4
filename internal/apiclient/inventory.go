package apiclient

import (
	"context"
	"net/http"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func (c *Client) Inventory(ctx context.Context) ([]domain.InventoryItem, error) {
	return list[domain.InventoryItem](ctx, c, "/inventory", nil)
}

func (c *Client) InventoryItem(ctx context.Context, id int64) (domain.InventoryItem, error) {
	return get[domain.InventoryItem](ctx, c, idPath("/inventory/%d", id), nil, "data", "inventory")
}

func (c *Client) CreateInventory(ctx context.Context, in domain.InventoryInput) (domain.InventoryItem, error) {
	if err := in.Validate(); err != nil {
		return domain.InventoryItem{}, err
	}
	return send[domain.InventoryItem](ctx, c, http.MethodPost, "/admin/inventory", in, "inventory", "data")
}

func (c *Client) UpdateInventory(ctx context.Context, id int64, in domain.InventoryInput) (domain.InventoryItem, error) {
	if err := in.Validate(); err != nil {
		return domain.InventoryItem{}, err
	}
	return send[domain.InventoryItem](ctx, c, http.MethodPut, idPath("/admin/inventory/%d", id), in, "inventory", "data")
}

func (c *Client) DeleteInventory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/admin/inventory/%d", id), nil, nil, nil)
}
