package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func (c *Client) Quotes(ctx context.Context, sort domain.QuoteSort) ([]domain.Quote, error) {
	q := url.Values{}
	if sort != "" {
		q.Set("sort_by", string(sort))
	}
	return list[domain.Quote](ctx, c, "/quotes", q)
}

func (c *Client) Quote(ctx context.Context, id int64) (domain.Quote, error) {
	return get[domain.Quote](ctx, c, idPath("/quotes/%d", id), nil, "data", "quote")
}

func (c *Client) CreateQuote(ctx context.Context, in domain.QuoteInput) (domain.Quote, error) {
	if err := in.Validate(); err != nil {
		return domain.Quote{}, err
	}
	if in.FileIDs == nil {
		in.FileIDs = []int64{}
	}
	return send[domain.Quote](ctx, c, http.MethodPost, "/quotes", in, "quote", "data")
}

func (c *Client) UpdateQuote(ctx context.Context, id int64, in domain.QuoteInput) (domain.Quote, error) {
	if err := in.Validate(); err != nil {
		return domain.Quote{}, err
	}
	if in.FileIDs == nil {
		in.FileIDs = []int64{}
	}
	return send[domain.Quote](ctx, c, http.MethodPut, idPath("/quotes/%d", id), in, "quote", "data")
}

func (c *Client) DeleteQuote(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/quotes/%d", id), nil, nil, nil)
}

func (c *Client) Estimate(ctx context.Context, in domain.EstimateInput) (domain.QuoteEstimate, error) {
	if in.Quantity < 1 {
		return domain.QuoteEstimate{}, domain.ErrInvalidQuantity
	}
	return send[domain.QuoteEstimate](ctx, c, http.MethodPost, "/catalog/quotes/estimate", in, "estimate", "data")
}

// ConvertToOrder checks the conversion guard locally and only then calls the backend.
func (c *Client) ConvertToOrder(ctx context.Context, q domain.Quote, addr domain.Address) (domain.Order, error) {
	if err := domain.CheckConvertible(q); err != nil {
		return domain.Order{}, err
	}
	if err := addr.Validate(); err != nil {
		return domain.Order{}, err
	}
	return send[domain.Order](ctx, c, http.MethodPost, idPath("/orders/convert/%d", q.ID),
		domain.ConvertInput{ShippingAddress: addr}, "order", "data")
}

// Staff endpoints.

func (c *Client) AdminQuotes(ctx context.Context) ([]domain.Quote, error) {
	return list[domain.Quote](ctx, c, "/admin/quotes", nil)
}

func (c *Client) SetQuotePricing(ctx context.Context, id int64, p domain.QuotePricing) (domain.Quote, error) {
	return send[domain.Quote](ctx, c, http.MethodPut, idPath("/admin/quotes/%d", id), p, "quote", "data")
}

func (c *Client) AdminDeleteQuote(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/admin/quotes/%d", id), nil, nil, nil)
}
