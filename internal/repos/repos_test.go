package repos

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()
	r := NewSessionRepo(openTestDB(t))
	ctx := context.Background()

	s, err := r.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, SessionRow{ID: "missing"}, s)

	require.NoError(t, r.Ensure(ctx, "sid-1"))
	require.NoError(t, r.SetCartToken(ctx, "sid-1", "sess-abc"))
	require.NoError(t, r.SetAuth(ctx, "sid-1", `{"id":3}`, "client", "sealed"))

	s, err = r.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "client", s.Role)
	assert.Equal(t, "sealed", s.AccessTokenSealed)
	assert.Equal(t, "sess-abc", s.CartSessionToken, "login keeps the cart token until the merge")

	require.NoError(t, r.SetCartToken(ctx, "sid-1", ""))
	s, err = r.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, s.CartSessionToken)

	require.NoError(t, r.SetCartToken(ctx, "sid-1", "sess-def"))
	require.NoError(t, r.Clear(ctx, "sid-1"))
	s, err = r.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, s.UserJSON)
	assert.Empty(t, s.Role)
	assert.Empty(t, s.AccessTokenSealed)
	assert.Empty(t, s.CartSessionToken)
}

func TestSessionDeleteIdle(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	r := NewSessionRepo(db)
	ctx := context.Background()

	require.NoError(t, r.Ensure(ctx, "fresh"))
	_, err := db.Exec(`INSERT INTO sessions(id,last_seen) VALUES('old','2001-01-01 00:00:00')`)
	require.NoError(t, err)

	n, err := r.DeleteIdle(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestJournal(t *testing.T) {
	t.Parallel()
	r := NewJournalRepo(openTestDB(t))
	ctx := context.Background()

	_, err := r.Record(ctx, JournalEntry{ResourceType: "order", ResourceID: 5, Reference: "CMD-5",
		Action: "order.status_changed", Before: "paid", After: "processing", ActorID: 1})
	require.NoError(t, err)
	_, err = r.Record(ctx, JournalEntry{ResourceType: "order", ResourceID: 5, Reference: "CMD-5",
		Action: "order.status_changed", Before: "processing", After: "shipped", ActorID: 2})
	require.NoError(t, err)
	_, err = r.Record(ctx, JournalEntry{ResourceType: "quote", ResourceID: 9, Action: "quote.priced", ActorID: 1})
	require.NoError(t, err)

	hist, err := r.ListFor(ctx, "order", 5)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "paid", hist[0].Before)
	assert.Equal(t, "shipped", hist[1].After)

	latest, err := r.ListLatest(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "quote", latest[0].ResourceType)

	_, err = r.Record(ctx, JournalEntry{ResourceType: "invoice", ResourceID: 1, Action: "x", ActorID: 1})
	assert.Error(t, err, "resource type is constrained")
}

func TestCacheRepoTTL(t *testing.T) {
	t.Parallel()
	r := NewCacheRepo(openTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	require.NoError(t, r.Set(ctx, "catalog:shapes", []byte(`[1]`), time.Minute))
	v, ok, err := r.Get(ctx, "catalog:shapes")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[1]`, string(v))

	now = now.Add(2 * time.Minute)
	_, ok, err = r.Get(ctx, "catalog:shapes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Purge(ctx))
	require.NoError(t, r.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, r.Delete(ctx, "a", "b"))
	_, ok, err = r.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
