package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/silver1953366/gravure-frontend/internal/services"
	"github.com/silver1953366/gravure-frontend/internal/validate"
)

type PublicHandler struct {
	guard
	Catalog *services.CatalogService
}

func (h *PublicHandler) Home(c *fiber.Ctx) error {
	page, err := h.Catalog.Page(c.UserContext())
	msg, _ := h.banner(c, err)
	return render(c, "home", fiber.Map{"Groups": page.Groups, "Slides": page.Slides, "Error": msg})
}

func (h *PublicHandler) Browse(c *fiber.Ctx) error {
	page, err := h.Catalog.Page(c.UserContext())
	msg, _ := h.banner(c, err)
	return render(c, "catalog", fiber.Map{"Groups": page.Groups, "Shapes": page.Shapes, "Error": msg})
}

// Configurator shows one material with its shapes and dimensions. Query parameters pick
// the shape, the dimension, the quantity and the engraving for the local preview.
func (h *PublicHandler) Configurator(c *fiber.Ctx) error {
	ctx := c.UserContext()
	data := fiber.Map{"Qty": 1, "ShapeID": int64(0), "DimensionID": int64(0)}

	mats, err := h.Catalog.Materials(ctx)
	if err != nil {
		msg, _ := h.banner(c, err)
		data["Error"] = msg
		return render(c, "configurator", data)
	}
	data["Materials"] = mats
	materialID, ok := validate.ID(c.Params("materialId"))
	if !ok {
		return render(c, "configurator", data)
	}
	m, err := h.Catalog.Material(ctx, materialID)
	if err != nil {
		return h.page(c, err)
	}
	data["Material"] = m

	shapes, err := h.Catalog.Shapes(ctx)
	if err != nil {
		data["Error"], _ = h.banner(c, err)
		return render(c, "configurator", data)
	}
	data["Shapes"] = shapes
	shapeID, ok := validate.ID(c.Query("shape_id"))
	if !ok && len(shapes) > 0 {
		shapeID = shapes[0].ID
	}
	data["ShapeID"] = shapeID

	dims, err := h.Catalog.Dimensions(ctx, m.ID, shapeID)
	if err != nil {
		data["Error"], _ = h.banner(c, err)
	}
	data["Dimensions"] = dims

	qty, ok := validate.Qty(c.Query("qty", "1"))
	if !ok {
		qty = 1
	}
	engraving, _ := validate.Engraving(c.Query("engraving"))
	data["Qty"], data["Engraving"] = qty, engraving
	if dimID, ok := validate.ID(c.Query("dimension_id")); ok {
		for _, d := range dims {
			if d.ID == dimID {
				data["DimensionID"] = d.ID
				data["Preview"] = h.Catalog.Preview(d, qty, engraving)
			}
		}
	}
	return render(c, "configurator", data)
}

// NotFound is the catch-all page.
func NotFound(c *fiber.Ctx) error {
	if wantsJSON(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return render(c.Status(fiber.StatusNotFound), "notfound", fiber.Map{"Message": "Page introuvable."})
}
