package services_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver1953366/gravure-frontend/internal/domain"
	"github.com/silver1953366/gravure-frontend/internal/services"
)

func TestCartQuantityUpdateKeepsFixedPrice(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	sess := e.session(t, "sid-qty")

	text := "  Hello  "
	cart, err := e.carts.Add(ctx, sess, domain.CartItemInput{MaterialDimensionID: 7, Quantity: 1, EngravingText: &text})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	item := cart.Items[0]
	assert.Equal(t, "Hello", item.Engraving())
	assert.True(t, decimal.NewFromInt(7000).Equal(item.FixedUnitPriceFCFA))

	cart, err = e.carts.UpdateQuantity(ctx, sess, item.ID, 3)
	require.NoError(t, err)
	updated, ok := cart.Item(item.ID)
	require.True(t, ok)
	assert.True(t, item.FixedUnitPriceFCFA.Equal(updated.FixedUnitPriceFCFA))
	assert.True(t, decimal.NewFromInt(21000).Equal(updated.LineTotal()))

	_, err = e.carts.UpdateQuantity(ctx, sess, item.ID, 0)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCartRejectsLongEngraving(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	text := strings.Repeat("é", 121)
	_, err := e.carts.Add(context.Background(), e.session(t, "sid-long"), domain.CartItemInput{
		MaterialDimensionID: 7, Quantity: 1, EngravingText: &text,
	})
	require.ErrorIs(t, err, services.ErrEngravingTooLong)
	assert.Equal(t, 0, e.b.Hits("POST /cart"))
}

func TestCartLoadFailureDegradesToEmpty(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	sess := e.session(t, "sid-fail")
	e.b.Fail("GET /cart", http.StatusInternalServerError)

	cart, err := e.carts.Load(context.Background(), sess)
	require.Error(t, err)
	assert.True(t, cart.Empty())
	assert.Equal(t, 1, e.b.Hits("GET /cart"), "no retry")
}

func TestRemoveReloadsAndConvertClearsToken(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	sess := e.login(t, "sid-conv", "awa@example.com")

	cart, err := e.carts.Add(ctx, sess, domain.CartItemInput{MaterialDimensionID: 7, Quantity: 1})
	require.NoError(t, err)
	cart, err = e.carts.Add(ctx, sess, domain.CartItemInput{MaterialDimensionID: 8, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	cart, err = e.carts.Remove(ctx, sess, cart.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, e.b.Hits("GET /cart"))

	sess.CartToken = "leftover"
	q, err := e.carts.ConvertToQuote(ctx, sess)
	require.NoError(t, err)
	assert.NotZero(t, q.ID)
	assert.Empty(t, sess.CartToken)
}
