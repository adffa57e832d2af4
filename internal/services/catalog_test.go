package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	"github.com/silver1953366/gravure-frontend/internal/services"
)

func TestCatalogPageGroupsAndCaches(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	page, err := e.catalog.Page(ctx)
	require.NoError(t, err)
	names := map[string][]string{}
	for _, g := range page.Groups {
		for _, m := range g.Materials {
			names[g.Category.Name] = append(names[g.Category.Name], m.Name)
		}
	}
	assert.Equal(t, []string{"Granit"}, names["Pierre"])
	assert.Equal(t, []string{"Plexiglas"}, names[domain.FallbackCategory.Name])
	assert.Len(t, page.Slides, 1)

	_, err = e.catalog.Page(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, e.b.Hits("GET /catalog/materials"))

	require.NoError(t, e.catalog.Invalidate(ctx))
	_, err = e.catalog.Page(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, e.b.Hits("GET /catalog/materials"))
}

func TestDimensionsHideInactive(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	dims, err := e.catalog.Dimensions(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, dims, 1)
	assert.Equal(t, int64(8), dims[0].ID)
}

func TestMaterialNotFound(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	_, err := e.catalog.Material(context.Background(), 99)
	require.ErrorIs(t, err, apiclient.ErrNotFound)
}

func TestAdminShapeChangeDropsCache(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	admin := e.login(t, "sid-admin", "admin@example.com")

	_, err := e.catalog.Shapes(ctx)
	require.NoError(t, err)
	sh, err := e.admin.SaveShape(ctx, admin, 0, apiclient.CatalogItemInput{Name: "Ovale", IsActive: true})
	require.NoError(t, err)

	shapes, err := e.catalog.Shapes(ctx)
	require.NoError(t, err)
	assert.Len(t, shapes, 2)
	assert.Equal(t, 2, e.b.Hits("GET /catalog/shapes"))

	err = e.admin.DeleteShape(ctx, admin, 1)
	require.ErrorIs(t, err, apiclient.ErrConflict)
	require.NoError(t, e.admin.DeleteShape(ctx, admin, sh.ID))
}

func TestRevenueDateRange(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	admin := e.login(t, "sid-admin", "admin@example.com")

	_, err := e.admin.Revenue(context.Background(), admin, "2026-03-01", "2026-01-01")
	require.ErrorIs(t, err, services.ErrInvalidDateRange)
	assert.Equal(t, 0, e.b.Hits("GET /admin/reports/revenue"))

	_, err = e.admin.Revenue(context.Background(), admin, "2026-01-01", "2026-03-01")
	require.NoError(t, err)
}
