package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func TestDiscount_Boundaries(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	pct := domain.Discount{Type: domain.DiscountPercentage, Value: dec(10), IsActive: true}
	assert.True(t, dec(9000).Equal(pct.Apply(dec(10000), now)))

	fixed := domain.Discount{Type: domain.DiscountFixed, Value: dec(2000), IsActive: true}
	got := fixed.Apply(dec(1500), now)
	assert.True(t, got.IsZero(), "fixed discount must floor at zero, got %s", got)
	assert.True(t, dec(3000).Equal(fixed.Apply(dec(5000), now)))
}

func TestDiscount_Applicability(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	minAmount := dec(10000)
	past := domain.Timestamp{Time: now.Add(-time.Hour)}
	future := domain.Timestamp{Time: now.Add(24 * time.Hour)}

	base := domain.Discount{Type: domain.DiscountFixed, Value: dec(1000), IsActive: true}

	t.Run("minimum order amount", func(t *testing.T) {
		d := base
		d.MinOrderAmount = &minAmount
		assert.False(t, d.Applicable(dec(9999), now))
		assert.True(t, d.Applicable(dec(10000), now))
		assert.True(t, dec(9999).Equal(d.Apply(dec(9999), now)), "not applicable leaves subtotal unchanged")
	})

	t.Run("expiry", func(t *testing.T) {
		d := base
		d.ExpiresAt = &past
		assert.False(t, d.Applicable(dec(5000), now))
		d.ExpiresAt = &future
		assert.True(t, d.Applicable(dec(5000), now))
	})

	t.Run("inactive", func(t *testing.T) {
		d := base
		d.IsActive = false
		assert.False(t, d.Applicable(dec(5000), now))
	})
}

func TestDiscount_DecodesBackendShapes(t *testing.T) {
	t.Parallel()

	raw := `{"id":4,"name":"Rentrée","code":"RENTREE","type":"percentage","value":"15.00",
	         "min_order_amount":null,"expires_at":"2026-09-30","is_active":true}`
	var d domain.Discount
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	assert.True(t, decimal.NewFromInt(15).Equal(d.Value))
	assert.Nil(t, d.MinOrderAmount)
	require.NotNil(t, d.ExpiresAt)
	assert.Equal(t, 2026, d.ExpiresAt.Year())
	assert.True(t, d.Type.Valid())
}
