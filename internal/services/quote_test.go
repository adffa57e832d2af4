package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	"github.com/silver1953366/gravure-frontend/internal/events"
	"github.com/silver1953366/gravure-frontend/internal/services"
)

func clientQuote(e *env, status domain.QuoteStatus, final int64) domain.Quote {
	uid := int64(3)
	dim := int64(7)
	return e.b.PutQuote(domain.Quote{
		UserID:              &uid,
		Status:              status,
		MaterialID:          1,
		ShapeID:             1,
		MaterialDimensionID: &dim,
		Quantity:            1,
		ClientDetails:       domain.ClientDetails{Name: "Awa", Email: "awa@example.com"},
		FinalPriceFCFA:      decimal.NewFromInt(final),
	})
}

var abidjan = domain.Address{Street: "12 rue des Jardins", City: "Abidjan", PostalCode: "01000"}

func TestConvertRejectedBeforeAnyWrite(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	sess := e.login(t, "sid-conv", "awa@example.com")

	for _, q := range []domain.Quote{
		clientQuote(e, domain.QuoteSent, 15000),
		clientQuote(e, domain.QuoteCalculated, 0),
	} {
		_, err := e.quotes.ConvertToOrder(context.Background(), sess, q.ID, abidjan)
		require.Error(t, err)
		assert.Equal(t, 0, e.b.Hits(route(http.MethodPost, "/orders/convert/", q.ID)))
	}

	q := clientQuote(e, domain.QuoteSent, 15000)
	_, err := e.quotes.ConvertToOrder(context.Background(), sess, q.ID, abidjan)
	require.ErrorIs(t, err, domain.ErrQuoteNotCalculated)
}

func TestPriceThenConvert(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	staff := e.login(t, "sid-staff", "ctrl@example.com")
	client := e.login(t, "sid-client", "awa@example.com")
	q := clientQuote(e, domain.QuoteSent, 0)

	priced, err := e.quotes.Price(ctx, staff, q.ID, decimal.NewFromInt(18000), "Gravure profonde")
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteCalculated, priced.Status)

	_, err = e.quotes.Price(ctx, staff, q.ID, decimal.NewFromInt(18000), "")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	order, err := e.quotes.ConvertToOrder(ctx, client, q.ID, abidjan)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPendingPayment, order.Status)
	assert.True(t, decimal.NewFromInt(18000).Equal(order.FinalPriceFCFA))

	got := e.events.Events()
	require.Len(t, got, 1)
	assert.Equal(t, events.QuotePriced, got[0].Type)
	assert.Equal(t, "sent", got[0].Before)
	assert.Equal(t, "calculated", got[0].After)
	assert.Equal(t, int64(2), got[0].ActorID)
}

func TestClientCannotPrice(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	client := e.login(t, "sid-client", "awa@example.com")
	q := clientQuote(e, domain.QuoteSent, 0)

	_, err := e.quotes.Price(context.Background(), client, q.ID, decimal.NewFromInt(1000), "")
	require.ErrorIs(t, err, services.ErrStaffOnly)
	assert.Empty(t, e.events.Events())
}

func TestRejectAndArchive(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	staff := e.login(t, "sid-staff", "admin@example.com")

	q := clientQuote(e, domain.QuoteSent, 0)
	rejected, err := e.quotes.Reject(ctx, staff, q.ID, "Matériau épuisé")
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteRejected, rejected.Status)

	_, err = e.quotes.Archive(ctx, staff, q.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	other := clientQuote(e, domain.QuoteCalculated, 9000)
	archived, err := e.quotes.Archive(ctx, staff, other.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteArchived, archived.Status)
}

func TestUpdateLockedQuote(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	sess := e.login(t, "sid-upd", "awa@example.com")
	q := clientQuote(e, domain.QuoteCalculated, 12000)

	in := domain.QuoteInput{
		MaterialID: 1, ShapeID: 1, MaterialDimensionID: 7, Quantity: 2,
		ClientDetails: domain.ClientDetails{Name: "Awa", Email: "awa@example.com"},
	}
	_, err := e.quotes.Update(context.Background(), sess, q.ID, in)
	require.ErrorIs(t, err, domain.ErrQuoteLocked)
	assert.Equal(t, 0, e.b.Hits(route(http.MethodPut, "/quotes/", q.ID)))

	open := clientQuote(e, domain.QuoteSent, 0)
	updated, err := e.quotes.Update(context.Background(), sess, open.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)
}

func TestPrefillFromFirstCartLine(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	sess := e.login(t, "sid-pre", "awa@example.com")
	text := "Famille Koné"
	_, err := e.carts.Add(context.Background(), sess, domain.CartItemInput{MaterialDimensionID: 7, Quantity: 4, EngravingText: &text})
	require.NoError(t, err)

	in := e.quotes.Prefill(context.Background(), sess)
	assert.Equal(t, int64(7), in.MaterialDimensionID)
	assert.Equal(t, int64(1), in.MaterialID)
	assert.Equal(t, 4, in.Quantity)
	assert.Equal(t, "Famille Koné", in.CustomizationDetails["engraving_text"])
	assert.Equal(t, "awa@example.com", in.ClientDetails.Email)
}

func TestPrefillFallsBackToContact(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	sess := e.login(t, "sid-pre", "awa@example.com")
	e.b.Fail("GET /cart", http.StatusServiceUnavailable)
	e.quotes.PrefillTimeout = 200 * time.Millisecond

	in := e.quotes.Prefill(context.Background(), sess)
	assert.Zero(t, in.MaterialDimensionID)
	assert.Equal(t, 1, in.Quantity)
	assert.Equal(t, "Awa", in.ClientDetails.Name)
}

func TestQuoteListDegradesToEmpty(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	sess := e.login(t, "sid-list", "awa@example.com")
	e.b.Fail("GET /quotes", http.StatusInternalServerError)

	qs, err := e.quotes.List(context.Background(), sess, "bogus")
	require.ErrorIs(t, err, apiclient.ErrUnavailable)
	assert.NotNil(t, qs)
	assert.Empty(t, qs)
}
