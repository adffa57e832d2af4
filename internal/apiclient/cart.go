package apiclient

import (
	"context"
	"net/http"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func (c *Client) Cart(ctx context.Context) (domain.Cart, error) {
	return get[domain.Cart](ctx, c, "/cart", nil, "cart", "data")
}

func (c *Client) AddToCart(ctx context.Context, in domain.CartItemInput) (domain.Cart, error) {
	if in.Quantity < 1 {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}
	return send[domain.Cart](ctx, c, http.MethodPost, "/cart", in, "cart", "data")
}

// UpdateCartItem changes only the quantity of a line; the fixed unit price is not sent.
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, qty int) (domain.Cart, error) {
	if qty < 1 {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}
	body := struct {
		Quantity int `json:"quantity"`
	}{qty}
	return send[domain.Cart](ctx, c, http.MethodPut, idPath("/cart/item/%d", itemID), body, "cart", "data")
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/cart/item/%d", itemID), nil, nil, nil)
}

// ConvertCartToQuote turns the current cart into a quote. The quote is zero when the
// backend answers with a message only.
func (c *Client) ConvertCartToQuote(ctx context.Context) (domain.Quote, error) {
	return send[domain.Quote](ctx, c, http.MethodPost, "/cart/convert-to-quote", struct{}{}, "quote", "data")
}
