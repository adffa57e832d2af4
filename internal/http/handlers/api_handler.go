package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/silver1953366/gravure-frontend/internal/domain"
	"github.com/silver1953366/gravure-frontend/internal/services"
	"github.com/silver1953366/gravure-frontend/internal/validate"
)

// APIHandler is the JSON surface used by the configurator and cart scripts.
type APIHandler struct {
	guard
	Catalog       *services.CatalogService
	Carts         *services.CartService
	Notifications *services.NotificationService
}

type catalogGroupJSON struct {
	Category  domain.Category   `json:"category"`
	Materials []domain.Material `json:"materials"`
}

func (h *APIHandler) Listing(c *fiber.Ctx) error {
	page, err := h.Catalog.Page(c.UserContext())
	if err != nil {
		return h.json(c, err)
	}
	groups := make([]catalogGroupJSON, 0, len(page.Groups))
	for _, g := range page.Groups {
		mats := g.Materials
		if mats == nil {
			mats = []domain.Material{}
		}
		groups = append(groups, catalogGroupJSON{Category: g.Category, Materials: mats})
	}
	return c.JSON(fiber.Map{"groups": groups, "shapes": page.Shapes})
}

func (h *APIHandler) Dimensions(c *fiber.Ctx) error {
	materialID, ok := validate.ID(c.Query("material_id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "material_id is required"})
	}
	shapeID, _ := validate.ID(c.Query("shape_id"))
	dims, err := h.Catalog.Dimensions(c.UserContext(), materialID, shapeID)
	if err != nil {
		return h.json(c, err)
	}
	return c.JSON(fiber.Map{"data": dims})
}

// Estimate prices a configuration through the backend.
func (h *APIHandler) Estimate(c *fiber.Ctx) error {
	var in domain.EstimateInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if _, ok := validate.Engraving(in.EngravingText); !ok {
		return h.json(c, services.ErrEngravingTooLong)
	}
	est, err := h.Catalog.Estimate(c.UserContext(), in)
	if err != nil {
		return h.json(c, err)
	}
	return c.JSON(fiber.Map{"estimate": est})
}

func cartJSON(cart domain.Cart) fiber.Map {
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return fiber.Map{"cart": cart, "count": cart.ItemCount(), "total": cart.Total()}
}

// Cart degrades to an empty cart when the backend cannot be read.
func (h *APIHandler) Cart(c *fiber.Ctx) error {
	cart, err := h.Carts.Load(c.UserContext(), sessionOf(c))
	if err != nil {
		if _, ok := h.banner(c, err); !ok {
			return h.json(c, err)
		}
	}
	return c.JSON(cartJSON(cart))
}

func (h *APIHandler) AddToCart(c *fiber.Ctx) error {
	var in domain.CartItemInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	cart, err := h.Carts.Add(c.UserContext(), sessionOf(c), in)
	if err != nil {
		return h.json(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cartJSON(cart))
}

func (h *APIHandler) UpdateCartItem(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	cart, err := h.Carts.UpdateQuantity(c.UserContext(), sessionOf(c), id, body.Quantity)
	if err != nil {
		return h.json(c, err)
	}
	return c.JSON(cartJSON(cart))
}

func (h *APIHandler) RemoveCartItem(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	cart, err := h.Carts.Remove(c.UserContext(), sessionOf(c), id)
	if err != nil {
		return h.json(c, err)
	}
	return c.JSON(cartJSON(cart))
}

func (h *APIHandler) Unread(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"count": h.Notifications.Unread(c.UserContext(), sessionOf(c))})
}
