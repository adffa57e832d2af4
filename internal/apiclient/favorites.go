package apiclient

import (
	"context"
	"net/http"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func (c *Client) Favorites(ctx context.Context) ([]domain.Favorite, error) {
	return list[domain.Favorite](ctx, c, "/favorites", nil)
}

func (c *Client) AddFavorite(ctx context.Context, quoteID int64) (domain.Favorite, error) {
	body := struct {
		QuoteID int64 `json:"quote_id"`
	}{quoteID}
	return send[domain.Favorite](ctx, c, http.MethodPost, "/favorites", body, "favorite", "data")
}

func (c *Client) RemoveFavorite(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/favorites/%d", id), nil, nil, nil)
}
