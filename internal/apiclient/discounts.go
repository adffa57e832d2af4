package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

var errDiscountType = errors.New("discount type must be percentage or fixed")

func (c *Client) Discounts(ctx context.Context) ([]domain.Discount, error) {
	return list[domain.Discount](ctx, c, "/admin/discounts", nil)
}

func (c *Client) CreateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error) {
	if !d.Type.Valid() {
		return domain.Discount{}, errDiscountType
	}
	return send[domain.Discount](ctx, c, http.MethodPost, "/admin/discounts", d, "discount", "data")
}

func (c *Client) UpdateDiscount(ctx context.Context, id int64, d domain.Discount) (domain.Discount, error) {
	if !d.Type.Valid() {
		return domain.Discount{}, errDiscountType
	}
	return send[domain.Discount](ctx, c, http.MethodPatch, idPath("/admin/discounts/%d", id), d, "discount", "data")
}

func (c *Client) DeleteDiscount(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/admin/discounts/%d", id), nil, nil, nil)
}
