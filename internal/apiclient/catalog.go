package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	return list[domain.Category](ctx, c, "/catalog/categories", nil)
}

func (c *Client) Materials(ctx context.Context) ([]domain.Material, error) {
	return list[domain.Material](ctx, c, "/catalog/materials", nil)
}

func (c *Client) Shapes(ctx context.Context) ([]domain.Shape, error) {
	return list[domain.Shape](ctx, c, "/catalog/shapes", nil)
}

// DimensionFilter narrows the dimension list; zero fields are not sent.
type DimensionFilter struct {
	MaterialID int64
	ShapeID    int64
}

func (f DimensionFilter) query() url.Values {
	q := url.Values{}
	if f.MaterialID > 0 {
		q.Set("material_id", strconv.FormatInt(f.MaterialID, 10))
	}
	if f.ShapeID > 0 {
		q.Set("shape_id", strconv.FormatInt(f.ShapeID, 10))
	}
	return q
}

func (c *Client) Dimensions(ctx context.Context, f DimensionFilter) ([]domain.MaterialDimension, error) {
	return list[domain.MaterialDimension](ctx, c, "/catalog/dimensions", f.query())
}

func (c *Client) Carousel(ctx context.Context) ([]domain.CarouselSlide, error) {
	return list[domain.CarouselSlide](ctx, c, "/carousel", nil)
}
