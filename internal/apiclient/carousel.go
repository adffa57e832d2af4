package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

// SlideInput is the admin carousel form. Image is optional on update.
type SlideInput struct {
	Title        string
	Subtitle     string
	Link         string
	Order        int
	Height       int
	CategoryName string
	IsActive     bool
	Image        *File
}

func (in SlideInput) form(method string) Form {
	f := Form{
		Fields: map[string]string{
			"title":         in.Title,
			"subtitle":      in.Subtitle,
			"link":          in.Link,
			"order":         strconv.Itoa(in.Order),
			"height":        strconv.Itoa(in.Height),
			"category_name": in.CategoryName,
			"is_active":     boolField(in.IsActive),
		},
		MethodOverride: method,
	}
	if in.Image != nil {
		img := *in.Image
		img.Field = "image"
		f.Files = append(f.Files, img)
	}
	return f
}

func (c *Client) AdminSlides(ctx context.Context) ([]domain.CarouselSlide, error) {
	return list[domain.CarouselSlide](ctx, c, "/admin/carousel/all", nil)
}

func (c *Client) CreateSlide(ctx context.Context, in SlideInput) (domain.CarouselSlide, error) {
	var out domain.CarouselSlide
	err := c.doMultipart(ctx, "/admin/carousel", in.form(""), &out, "slide", "data")
	return out, err
}

func (c *Client) UpdateSlide(ctx context.Context, id int64, in SlideInput) (domain.CarouselSlide, error) {
	var out domain.CarouselSlide
	err := c.doMultipart(ctx, idPath("/admin/carousel/%d", id), in.form(http.MethodPut), &out, "slide", "data")
	return out, err
}

func (c *Client) DeleteSlide(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/admin/carousel/%d", id), nil, nil, nil)
}
