package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/cache"
	"github.com/silver1953366/gravure-frontend/internal/domain"
)

const (
	keyCategories = "catalog:categories"
	keyMaterials  = "catalog:materials"
	keyShapes     = "catalog:shapes"
	keyCarousel   = "catalog:carousel"
)

// CatalogService serves the public catalog through a short cache-aside layer.
type CatalogService struct {
	API   *apiclient.Client
	Cache cache.Cache
	TTL   time.Duration
	Now   func() time.Time
}

func NewCatalogService(api *apiclient.Client, c cache.Cache, ttl time.Duration) *CatalogService {
	if c == nil {
		c = cache.Nop{}
	}
	return &CatalogService{API: api, Cache: c, TTL: ttl, Now: time.Now}
}

// CatalogPage is everything the catalog page shows.
type CatalogPage struct {
	Groups []domain.CategoryGroup
	Slides []domain.CarouselSlide
	Shapes []domain.Shape
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return cache.Fetch(ctx, s.Cache, keyCategories, s.TTL, s.API.Categories)
}

func (s *CatalogService) Materials(ctx context.Context) ([]domain.Material, error) {
	return cache.Fetch(ctx, s.Cache, keyMaterials, s.TTL, s.API.Materials)
}

func (s *CatalogService) Shapes(ctx context.Context) ([]domain.Shape, error) {
	return cache.Fetch(ctx, s.Cache, keyShapes, s.TTL, s.API.Shapes)
}

func (s *CatalogService) Slides(ctx context.Context) ([]domain.CarouselSlide, error) {
	return cache.Fetch(ctx, s.Cache, keyCarousel, s.TTL, s.API.Carousel)
}

// Page fetches categories, materials, shapes and slides concurrently and waits for all
// of them. Any failure returns an empty page with the first error.
func (s *CatalogService) Page(ctx context.Context) (CatalogPage, error) {
	var (
		cats   []domain.Category
		mats   []domain.Material
		shapes []domain.Shape
		slides []domain.CarouselSlide
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cats, err = s.Categories(gctx)
		return err
	})
	g.Go(func() (err error) {
		mats, err = s.Materials(gctx)
		return err
	})
	g.Go(func() (err error) {
		shapes, err = s.Shapes(gctx)
		return err
	})
	g.Go(func() (err error) {
		slides, err = s.Slides(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return CatalogPage{Groups: []domain.CategoryGroup{}, Slides: []domain.CarouselSlide{}, Shapes: []domain.Shape{}}, err
	}
	return CatalogPage{Groups: domain.GroupMaterials(cats, mats), Slides: slides, Shapes: shapes}, nil
}

// Material finds one active material by id.
func (s *CatalogService) Material(ctx context.Context, id int64) (domain.Material, error) {
	mats, err := s.Materials(ctx)
	if err != nil {
		return domain.Material{}, err
	}
	for _, m := range mats {
		if m.ID == id && m.IsActive {
			return m, nil
		}
	}
	return domain.Material{}, fmt.Errorf("material %d: %w", id, apiclient.ErrNotFound)
}

// Dimensions lists the active, priced dimensions for a material and shape.
func (s *CatalogService) Dimensions(ctx context.Context, materialID, shapeID int64) ([]domain.MaterialDimension, error) {
	dims, err := cache.Fetch(ctx, s.Cache, DimensionsKey(materialID, shapeID), s.TTL, func(ctx context.Context) ([]domain.MaterialDimension, error) {
		return s.API.Dimensions(ctx, apiclient.DimensionFilter{MaterialID: materialID, ShapeID: shapeID})
	})
	if err != nil {
		return []domain.MaterialDimension{}, err
	}
	return domain.ActiveDimensions(dims), nil
}

// DimensionsKey is the cache key of one dimension lookup.
func DimensionsKey(materialID, shapeID int64) string {
	return fmt.Sprintf("catalog:dimensions:%d:%d", materialID, shapeID)
}

// Estimate asks the backend for the authoritative estimate.
func (s *CatalogService) Estimate(ctx context.Context, in domain.EstimateInput) (domain.QuoteEstimate, error) {
	if in.Quantity < 1 {
		return domain.QuoteEstimate{}, domain.ErrInvalidQuantity
	}
	return s.API.Estimate(ctx, in)
}

// Preview computes the estimate locally from a catalog dimension, without discount.
// The configurator shows it while the backend estimate is in flight.
func (s *CatalogService) Preview(dim domain.MaterialDimension, qty int, engraving string) domain.QuoteEstimate {
	return domain.Estimate(dim, qty, engraving, nil, s.Now())
}

// Invalidate drops every cached catalog entry after an admin change.
func (s *CatalogService) Invalidate(ctx context.Context, extra ...string) error {
	keys := append([]string{keyCategories, keyMaterials, keyShapes, keyCarousel}, extra...)
	return s.Cache.Delete(ctx, keys...)
}
