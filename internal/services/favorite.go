package services

import (
	"context"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
)

type FavoriteService struct {
	API *apiclient.Client
}

func NewFavoriteService(api *apiclient.Client) *FavoriteService {
	return &FavoriteService{API: api}
}

func (s *FavoriteService) List(ctx context.Context, sess *Session) ([]domain.Favorite, error) {
	favs, err := s.API.Favorites(sess.Context(ctx))
	if err != nil {
		return []domain.Favorite{}, err
	}
	return favs, nil
}

func (s *FavoriteService) Add(ctx context.Context, sess *Session, quoteID int64) (domain.Favorite, error) {
	f, err := s.API.AddFavorite(sess.Context(ctx), quoteID)
	if err != nil {
		return domain.Favorite{}, err
	}
	applog.FromContext(ctx).Info("favorite.added", "quote_id", quoteID)
	return f, nil
}

func (s *FavoriteService) Remove(ctx context.Context, sess *Session, id int64) error {
	return s.API.RemoveFavorite(sess.Context(ctx), id)
}
