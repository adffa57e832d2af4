package services

import (
	"context"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/validate"
)

type CartService struct {
	API      *apiclient.Client
	Sessions *Sessions
}

func NewCartService(api *apiclient.Client, sessions *Sessions) *CartService {
	return &CartService{API: api, Sessions: sessions}
}

// sync stores the cart's anonymous token when it carries one and clears the stored
// token when it does not. A merged user cart has none.
func (s *CartService) sync(ctx context.Context, sess *Session, cart domain.Cart) error {
	tok, _ := cart.Token()
	return s.Sessions.SetCartToken(ctx, sess, tok)
}

// Load fetches the current cart. On failure it returns an empty cart with the error;
// there is no retry.
func (s *CartService) Load(ctx context.Context, sess *Session) (domain.Cart, error) {
	cart, err := s.API.Cart(sess.Context(ctx))
	if err != nil {
		return domain.EmptyCart(), err
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	if err := s.sync(ctx, sess, cart); err != nil {
		applog.FromContext(ctx).Error("cart.token_sync_failed", "err", err)
	}
	return cart, nil
}

// Add puts a line in the cart. The engraving text is trimmed; blank text is not sent.
func (s *CartService) Add(ctx context.Context, sess *Session, in domain.CartItemInput) (domain.Cart, error) {
	if in.Quantity < 1 || in.Quantity > validate.MaxQty {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}
	if in.EngravingText != nil {
		text, ok := validate.Engraving(*in.EngravingText)
		if !ok {
			return domain.Cart{}, ErrEngravingTooLong
		}
		if text == "" {
			in.EngravingText = nil
		} else {
			in.EngravingText = &text
		}
	}
	cart, err := s.API.AddToCart(sess.Context(ctx), in)
	if err != nil {
		return domain.Cart{}, err
	}
	if err := s.sync(ctx, sess, cart); err != nil {
		return cart, err
	}
	applog.FromContext(ctx).Info("cart.item_added", "dimension_id", in.MaterialDimensionID, "qty", in.Quantity)
	return cart, nil
}

// UpdateQuantity changes the quantity of one line; its fixed unit price is kept.
func (s *CartService) UpdateQuantity(ctx context.Context, sess *Session, itemID int64, qty int) (domain.Cart, error) {
	if qty < 1 || qty > validate.MaxQty {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}
	cart, err := s.API.UpdateCartItem(sess.Context(ctx), itemID, qty)
	if err != nil {
		return domain.Cart{}, err
	}
	return cart, s.sync(ctx, sess, cart)
}

// Remove deletes a line and reloads the cart.
func (s *CartService) Remove(ctx context.Context, sess *Session, itemID int64) (domain.Cart, error) {
	if err := s.API.RemoveCartItem(sess.Context(ctx), itemID); err != nil {
		return domain.Cart{}, err
	}
	return s.Load(ctx, sess)
}

// ConvertToQuote turns the cart into a quote and forgets the cart token.
func (s *CartService) ConvertToQuote(ctx context.Context, sess *Session) (domain.Quote, error) {
	if !sess.LoggedIn() {
		return domain.Quote{}, apiclient.ErrUnauthorized
	}
	q, err := s.API.ConvertCartToQuote(sess.Context(ctx))
	if err != nil {
		return domain.Quote{}, err
	}
	if err := s.Sessions.SetCartToken(ctx, sess, ""); err != nil {
		return q, err
	}
	applog.FromContext(ctx).Info("cart.converted", "quote_id", q.ID)
	return q, nil
}
