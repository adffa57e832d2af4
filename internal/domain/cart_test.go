package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func TestCartItem_WithQuantityKeepsFixedPrice(t *testing.T) {
	t.Parallel()

	it := domain.CartItem{ID: 1, Quantity: 2, FixedUnitPriceFCFA: dec(7000), EngravingText: ptr("Accueil")}
	updated, err := it.WithQuantity(5)
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Quantity)
	assert.True(t, dec(7000).Equal(updated.FixedUnitPriceFCFA))
	assert.True(t, dec(35000).Equal(updated.LineTotal()))
	assert.Equal(t, 2, it.Quantity, "original is a value copy")

	_, err = it.WithQuantity(0)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCart_TotalsAndToken(t *testing.T) {
	t.Parallel()

	raw := `{"id":3,"user_id":null,"session_token":"abc","status":"pending","discount":null,"subtotal_ht":0,
	  "items":[
	    {"id":1,"cart_id":3,"material_dimension_id":9,"quantity":2,"engraving_text":null,"fixed_unit_price_fcfa":5000},
	    {"id":2,"cart_id":3,"material_dimension_id":9,"quantity":1,"engraving_text":"Salle B","fixed_unit_price_fcfa":"7000.00"}
	  ]}`
	var c domain.Cart
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	tok, ok := c.Token()
	require.True(t, ok)
	assert.Equal(t, "abc", tok)
	assert.Equal(t, 3, c.ItemCount())
	assert.True(t, dec(17000).Equal(c.Total()))
	assert.Equal(t, "Salle B", c.Items[1].Engraving())

	it, ok := c.Item(2)
	require.True(t, ok)
	assert.EqualValues(t, 1, it.Quantity)

	empty := domain.EmptyCart()
	_, ok = empty.Token()
	assert.False(t, ok)
	assert.True(t, empty.Empty())
	assert.True(t, empty.Total().IsZero())
}
