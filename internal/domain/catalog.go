package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

// FallbackCategory groups materials that have no matching category. Display only, never persisted.
var FallbackCategory = Category{ID: 0, Name: "Divers", Slug: "divers", Description: "Matériaux variés"}

type Material struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	ThicknessOptions string    `json:"thickness_options,omitempty"`
	Color            string    `json:"color,omitempty"`
	IsActive         bool      `json:"is_active"`
	CategoryID       *int64    `json:"category_id"`
	Category         *Category `json:"category,omitempty"`
}

type Shape struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// MaterialDimension is the priced catalog entry that carts, quotes and orders reference.
type MaterialDimension struct {
	ID             int64           `json:"id"`
	MaterialID     int64           `json:"material_id"`
	ShapeID        int64           `json:"shape_id"`
	CategoryID     int64           `json:"category_id"`
	DimensionLabel string          `json:"dimension_label"`
	UnitPriceFCFA  decimal.Decimal `json:"unit_price_fcfa"`
	IsActive       bool            `json:"is_active"`
	Material       *Material       `json:"material,omitempty"`
	Shape          *Shape          `json:"shape,omitempty"`
	Category       *Category       `json:"category,omitempty"`
}

// CategoryGroup is one section of the catalog page.
type CategoryGroup struct {
	Category  Category
	Materials []Material
}

// CategoryOf resolves the display category of m, falling back to FallbackCategory when
// the material has no category id or the id is unknown. m is never modified.
func CategoryOf(m Material, byID map[int64]Category) Category {
	if m.CategoryID == nil {
		return FallbackCategory
	}
	if c, ok := byID[*m.CategoryID]; ok {
		return c
	}
	return FallbackCategory
}

// GroupMaterials buckets materials under their categories, keeping the categories' order
// and appending the fallback group last when it is needed. Empty categories are skipped.
func GroupMaterials(categories []Category, materials []Material) []CategoryGroup {
	byID := make(map[int64]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	buckets := make(map[int64][]Material, len(categories)+1)
	var fallback []Material
	for _, m := range materials {
		c := CategoryOf(m, byID)
		if c.ID == FallbackCategory.ID && c.Name == FallbackCategory.Name {
			fallback = append(fallback, m)
			continue
		}
		buckets[c.ID] = append(buckets[c.ID], m)
	}

	out := make([]CategoryGroup, 0, len(categories)+1)
	for _, c := range categories {
		if ms := buckets[c.ID]; len(ms) > 0 {
			out = append(out, CategoryGroup{Category: c, Materials: ms})
		}
	}
	if len(fallback) > 0 {
		out = append(out, CategoryGroup{Category: FallbackCategory, Materials: fallback})
	}
	return out
}

// ActiveDimensions filters out dimensions that are no longer sold.
func ActiveDimensions(dims []MaterialDimension) []MaterialDimension {
	out := make([]MaterialDimension, 0, len(dims))
	for _, d := range dims {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out
}
