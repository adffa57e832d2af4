package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	"github.com/silver1953366/gravure-frontend/internal/events"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
)

const defaultPrefillTimeout = 2 * time.Second

type QuoteService struct {
	API            *apiclient.Client
	Carts          *CartService
	Audit          *Auditor
	PrefillTimeout time.Duration
}

func NewQuoteService(api *apiclient.Client, carts *CartService, audit *Auditor) *QuoteService {
	return &QuoteService{API: api, Carts: carts, Audit: audit, PrefillTimeout: defaultPrefillTimeout}
}

// List returns the client's quotes; on failure an empty list with the error.
func (s *QuoteService) List(ctx context.Context, sess *Session, sort domain.QuoteSort) ([]domain.Quote, error) {
	if sort != domain.SortOldest {
		sort = domain.SortNewest
	}
	qs, err := s.API.Quotes(sess.Context(ctx), sort)
	if err != nil {
		return []domain.Quote{}, err
	}
	return qs, nil
}

func (s *QuoteService) Get(ctx context.Context, sess *Session, id int64) (domain.Quote, error) {
	return s.API.Quote(sess.Context(ctx), id)
}

func (s *QuoteService) Create(ctx context.Context, sess *Session, in domain.QuoteInput) (domain.Quote, error) {
	if err := in.Validate(); err != nil {
		return domain.Quote{}, err
	}
	q, err := s.API.CreateQuote(sess.Context(ctx), in)
	if err != nil {
		return domain.Quote{}, err
	}
	applog.FromContext(ctx).Info("quote.created", "quote_id", q.ID, "status", q.Status)
	return q, nil
}

// Update edits a quote that is still draft or sent. The current state is read first so a
// locked quote is refused without a write.
func (s *QuoteService) Update(ctx context.Context, sess *Session, id int64, in domain.QuoteInput) (domain.Quote, error) {
	cur, err := s.Get(ctx, sess, id)
	if err != nil {
		return domain.Quote{}, err
	}
	if !cur.Editable() {
		return cur, fmt.Errorf("quote %d is %s: %w", id, cur.Status, domain.ErrQuoteLocked)
	}
	if in.Status != "" && in.Status != cur.Status {
		if err := domain.CheckQuoteTransition(cur.Status, in.Status); err != nil {
			return cur, err
		}
	}
	return s.API.UpdateQuote(sess.Context(ctx), id, in)
}

func (s *QuoteService) Delete(ctx context.Context, sess *Session, id int64) error {
	return s.API.DeleteQuote(sess.Context(ctx), id)
}

// Prefill builds a quote form from the first cart line and the user's contact details.
// It waits at most PrefillTimeout for the cart and falls back to contact details only.
func (s *QuoteService) Prefill(ctx context.Context, sess *Session) domain.QuoteInput {
	in := domain.QuoteInput{Quantity: 1, Status: domain.QuoteSent}
	if sess.User != nil {
		in.ClientDetails = sess.User.Contact()
	}
	timeout := s.PrefillTimeout
	if timeout <= 0 {
		timeout = defaultPrefillTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cart, err := s.Carts.Load(cctx, sess)
	if err != nil {
		applog.FromContext(ctx).Debug("quote.prefill_skipped", "err", err)
		return in
	}
	if cart.Empty() {
		return in
	}
	first := cart.Items[0]
	in.MaterialDimensionID = first.MaterialDimensionID
	in.Quantity = first.Quantity
	if d := first.MaterialDimension; d != nil {
		in.MaterialID, in.ShapeID = d.MaterialID, d.ShapeID
	}
	if text := first.Engraving(); text != "" {
		in.CustomizationDetails = map[string]any{"engraving_text": text}
	}
	return in
}

// ConvertToOrder re-reads the quote and converts it. The conversion guard runs before
// any write is sent.
func (s *QuoteService) ConvertToOrder(ctx context.Context, sess *Session, id int64, addr domain.Address) (domain.Order, error) {
	q, err := s.Get(ctx, sess, id)
	if err != nil {
		return domain.Order{}, err
	}
	o, err := s.API.ConvertToOrder(sess.Context(ctx), q, addr)
	if err != nil {
		return domain.Order{}, err
	}
	applog.FromContext(ctx).Info("quote.converted", "quote_id", q.ID, "order_id", o.ID)
	return o, nil
}

// Staff side.

func (s *QuoteService) StaffList(ctx context.Context, sess *Session) ([]domain.Quote, error) {
	if err := requireStaff(sess); err != nil {
		return []domain.Quote{}, err
	}
	qs, err := s.API.AdminQuotes(sess.Context(ctx))
	if err != nil {
		return []domain.Quote{}, err
	}
	return qs, nil
}

// Price sets the final price and moves the quote to calculated.
func (s *QuoteService) Price(ctx context.Context, sess *Session, id int64, final decimal.Decimal, note string) (domain.Quote, error) {
	return s.applyPricing(ctx, sess, id, events.QuotePriced, func(q domain.Quote) (domain.QuotePricing, error) {
		return domain.PriceQuote(q, final, note)
	})
}

func (s *QuoteService) Reject(ctx context.Context, sess *Session, id int64, note string) (domain.Quote, error) {
	return s.applyPricing(ctx, sess, id, events.QuoteRejected, func(q domain.Quote) (domain.QuotePricing, error) {
		return domain.RejectQuote(q, note)
	})
}

func (s *QuoteService) Archive(ctx context.Context, sess *Session, id int64) (domain.Quote, error) {
	return s.applyPricing(ctx, sess, id, events.QuoteArchived, domain.ArchiveQuote)
}

func (s *QuoteService) applyPricing(ctx context.Context, sess *Session, id int64, typ string,
	build func(domain.Quote) (domain.QuotePricing, error)) (domain.Quote, error) {
	if err := requireStaff(sess); err != nil {
		return domain.Quote{}, err
	}
	cur, err := s.Get(ctx, sess, id)
	if err != nil {
		return domain.Quote{}, err
	}
	p, err := build(cur)
	if err != nil {
		return cur, err
	}
	q, err := s.API.SetQuotePricing(sess.Context(ctx), id, p)
	if err != nil {
		return cur, err
	}
	s.Audit.Record(ctx, sess.UserID(), typ, domain.Ref{Kind: domain.ResourceQuote, ID: id}, cur.Reference,
		string(cur.Status), string(p.Status))
	return q, nil
}

func (s *QuoteService) StaffDelete(ctx context.Context, sess *Session, id int64) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if err := s.API.AdminDeleteQuote(sess.Context(ctx), id); err != nil {
		return err
	}
	s.Audit.Record(ctx, sess.UserID(), events.ResourceDeleted, domain.Ref{Kind: domain.ResourceQuote, ID: id}, "", "", "")
	return nil
}
