package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

// CatalogItemInput is the shared multipart form for materials and shapes.
type CatalogItemInput struct {
	Name        string
	Description string
	CategoryID  int64
	Color       string
	IsActive    bool
	Image       *File
}

func (in CatalogItemInput) form(method string) Form {
	f := Form{
		Fields: map[string]string{
			"name":        in.Name,
			"description": in.Description,
			"is_active":   boolField(in.IsActive),
		},
		MethodOverride: method,
	}
	if in.CategoryID > 0 {
		f.Fields["category_id"] = strconv.FormatInt(in.CategoryID, 10)
	}
	if in.Color != "" {
		f.Fields["color"] = in.Color
	}
	if in.Image != nil {
		img := *in.Image
		img.Field = "image"
		f.Files = append(f.Files, img)
	}
	return f
}

func (c *Client) SaveMaterial(ctx context.Context, id int64, in CatalogItemInput) (domain.Material, error) {
	var out domain.Material
	path, method := "/admin/materials", ""
	if id > 0 {
		path, method = idPath("/admin/materials/%d", id), http.MethodPut
	}
	err := c.doMultipart(ctx, path, in.form(method), &out, "material", "data")
	return out, err
}

func (c *Client) DeleteMaterial(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/admin/materials/%d", id), nil, nil, nil)
}

func (c *Client) SaveShape(ctx context.Context, id int64, in CatalogItemInput) (domain.Shape, error) {
	var out domain.Shape
	path, method := "/admin/shapes", ""
	if id > 0 {
		path, method = idPath("/admin/shapes/%d", id), http.MethodPut
	}
	err := c.doMultipart(ctx, path, in.form(method), &out, "shape", "data")
	return out, err
}

func (c *Client) DeleteShape(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/admin/shapes/%d", id), nil, nil, nil)
}

func (c *Client) SaveCategory(ctx context.Context, cat domain.Category) (domain.Category, error) {
	if cat.ID > 0 {
		return send[domain.Category](ctx, c, http.MethodPut, idPath("/admin/categories/%d", cat.ID), cat, "category", "data")
	}
	return send[domain.Category](ctx, c, http.MethodPost, "/admin/categories", cat, "category", "data")
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/admin/categories/%d", id), nil, nil, nil)
}

func (c *Client) AdminDimensions(ctx context.Context) ([]domain.MaterialDimension, error) {
	return list[domain.MaterialDimension](ctx, c, "/admin/material-dimensions", nil)
}

func (c *Client) SaveDimension(ctx context.Context, d domain.MaterialDimension) (domain.MaterialDimension, error) {
	if d.ID > 0 {
		return send[domain.MaterialDimension](ctx, c, http.MethodPatch, idPath("/admin/material-dimensions/%d", d.ID), d, "material_dimension", "data")
	}
	return send[domain.MaterialDimension](ctx, c, http.MethodPost, "/admin/material-dimensions", d, "material_dimension", "data")
}

func (c *Client) DeleteDimension(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/admin/material-dimensions/%d", id), nil, nil, nil)
}
