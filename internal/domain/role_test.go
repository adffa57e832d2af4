package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func TestRoleDashboardPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/admin/dashboard", domain.RoleAdmin.DashboardPath())
	assert.Equal(t, "/controller/dashboard", domain.RoleController.DashboardPath())
	assert.Equal(t, "/client/dashboard", domain.RoleClient.DashboardPath())
	assert.Equal(t, "/client/dashboard", domain.Role("").DashboardPath())
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, err := domain.ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, r)

	r, err = domain.ParseRole("superuser")
	require.ErrorIs(t, err, domain.ErrUnknownRole)
	assert.Equal(t, domain.RoleClient, r, "unknown roles get client access only")

	var u domain.User
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"Awa","email":"awa@example.ci","role":"controller"}`), &u))
	assert.Equal(t, domain.RoleController, u.Role)
	assert.True(t, u.Role.Staff())
	assert.True(t, u.Role.In(domain.RoleAdmin, domain.RoleController))
	assert.False(t, domain.RoleClient.Staff())
}

func TestResourceKind_JSONBoundary(t *testing.T) {
	t.Parallel()

	var n domain.Notification
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"type":"info","title":"t","message":"m",
		"resource_type":"App\\Models\\Quote","resource_id":12,"is_read":false}`), &n))
	ref, ok := n.Resource()
	require.True(t, ok)
	assert.Equal(t, domain.ResourceQuote, ref.Kind)
	assert.Equal(t, "/client/quotes/12", ref.Path(domain.RoleClient))
	assert.Equal(t, "/admin/quotes/12", ref.Path(domain.RoleAdmin))

	out, err := json.Marshal(domain.ManualNotification{ResourceType: domain.ResourceOrder})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"resource_type":"App\\Models\\Order"`)

	_, err = domain.ParseResourceKind(`App\Models\User`)
	require.Error(t, err)

	k, err := domain.ParseResourceKind("order")
	require.NoError(t, err)
	assert.Equal(t, domain.ResourceOrder, k)
}

func TestInventoryAvailability(t *testing.T) {
	t.Parallel()

	it := domain.InventoryItem{StockQuantity: 20, ReservedQuantity: 5, MinimumThreshold: 10}
	assert.Equal(t, 15, it.Available())
	assert.Equal(t, domain.InStock, it.Availability().Status)

	it.ReservedQuantity = 12
	assert.Equal(t, domain.LowStock, it.Availability().Status)
	assert.Equal(t, 20, it.StockQuantity, "stock is never rewritten")

	it.ReservedQuantity = 25
	a := it.Availability()
	assert.Equal(t, domain.OutOfStock, a.Status)
	assert.Equal(t, 0, a.Qty)

	assert.Equal(t, 2, domain.LowStockCount([]domain.InventoryItem{
		{StockQuantity: 1, MinimumThreshold: 5},
		{StockQuantity: 0},
		{StockQuantity: 50, MinimumThreshold: 5},
	}))
}
