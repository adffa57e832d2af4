package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryFormRejectsBadNumbers(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	b.login("admin@example.com")

	cases := []struct {
		name string
		form url.Values
		want string
	}{
		{"negative stock", url.Values{"material_dimension_id": {"7"}, "stock_quantity": {"-4"}}, "quantities cannot be negative"},
		{"text stock", url.Values{"material_dimension_id": {"7"}, "stock_quantity": {"douze"}}, "Nombre entier attendu."},
		{"bad price", url.Values{"material_dimension_id": {"7"}, "stock_quantity": {"3"}, "price_per_unit": {"4,5"}}, "Montant invalide."},
	}
	for _, tc := range cases {
		resp := b.post("/admin/inventory", tc.form)
		require.Equal(t, http.StatusFound, resp.StatusCode, tc.name)
		assert.Contains(t, readBody(t, b.get("/admin/inventory")), tc.want, tc.name)
	}
	assert.Equal(t, 0, h.backend.Hits("POST /admin/inventory"), "nothing invalid is written")
}

func TestDiscountFormRejectsMalformedLimits(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	b.login("admin@example.com")

	valid := func() url.Values {
		return url.Values{"name": {"Rentrée"}, "code": {"RENTREE10"}, "type": {"percentage"}, "value": {"10"}, "is_active": {"1"}}
	}

	form := valid()
	form.Set("min_order_amount", "abc")
	resp := b.post("/admin/discounts", form)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, readBody(t, b.get("/admin/discounts")), "Montant invalide.")

	form = valid()
	form.Set("expires_at", "31/12/2026")
	b.post("/admin/discounts", form)
	assert.Contains(t, readBody(t, b.get("/admin/discounts")), "Date invalide")

	form = valid()
	form.Set("min_order_amount", "-500")
	b.post("/admin/discounts", form)
	assert.Equal(t, 0, h.backend.Hits("POST /admin/discounts"), "a typo never widens a discount")

	form = valid()
	form.Set("min_order_amount", "20000")
	form.Set("expires_at", "2026-12-31")
	resp = b.post("/admin/discounts", form)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 1, h.backend.Hits("POST /admin/discounts"))
}

func TestCarouselAndDimensionFormsRejectBadNumbers(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	b.login("admin@example.com")

	b.post("/admin/carousel", url.Values{"title": {"Plaques"}, "order": {"deux"}})
	assert.Contains(t, readBody(t, b.get("/admin/carousel")), "Nombre entier attendu.")
	b.post("/admin/carousel", url.Values{"title": {"Plaques"}, "order": {"-1"}})
	assert.Equal(t, 0, h.backend.Hits("POST /admin/carousel"))

	b.post("/admin/dimensions", url.Values{
		"material_id":     {"1"},
		"shape_id":        {"1"},
		"dimension_label": {"40x30 cm"},
		"unit_price_fcfa": {"12 000 F"},
	})
	assert.Contains(t, readBody(t, b.get("/admin/catalog")), "Montant invalide.")
	assert.Equal(t, 0, h.backend.Hits("POST /admin/material-dimensions"))
}
