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

func TestLoginMergesAnonymousCartOnce(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()
	sess := e.session(t, "sid-merge")

	cart, err := e.carts.Add(ctx, sess, domain.CartItemInput{MaterialDimensionID: 7, Quantity: 2})
	require.NoError(t, err)
	tok, ok := cart.Token()
	require.True(t, ok)
	require.Equal(t, tok, sess.CartToken)

	require.NoError(t, e.auth.Login(ctx, sess, "awa@example.com", "secret123"))

	assert.Equal(t, 1, e.b.Hits("GET /cart"), "cart must be fetched exactly once after login")
	seen := e.b.Headers("GET /cart")
	require.Len(t, seen, 1)
	assert.Equal(t, tok, seen[0].SessionToken)
	assert.NotEmpty(t, seen[0].Authorization)

	assert.Empty(t, sess.CartToken, "merged cart carries no token")
	merged, ok := e.b.UserCart(3)
	require.True(t, ok)
	require.Len(t, merged.Items, 1)
	assert.Equal(t, 2, merged.Items[0].Quantity)

	reloaded := e.session(t, "sid-merge")
	assert.True(t, reloaded.LoggedIn())
	assert.Equal(t, domain.RoleClient, reloaded.Role)
	assert.Empty(t, reloaded.CartToken)
}

func TestLoginWithoutCartSkipsFetch(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.login(t, "sid-plain", "awa@example.com")
	assert.Equal(t, 0, e.b.Hits("GET /cart"))
}

func TestLoginBadCredentials(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	sess := e.session(t, "sid-bad")

	err := e.auth.Login(context.Background(), sess, "awa@example.com", "nope")
	require.ErrorIs(t, err, services.ErrBadCreds)
	assert.False(t, sess.LoggedIn())

	err = e.auth.Login(context.Background(), sess, "not-an-email", "secret123")
	require.ErrorIs(t, err, services.ErrBadCreds)
	assert.Equal(t, 1, e.b.Hits("POST /login"))
}

func TestLogoutClearsEvenWhenBackendFails(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	sess := e.login(t, "sid-out", "awa@example.com")
	sess.CartToken = "stale"
	require.NoError(t, e.store.SetCartToken(context.Background(), sess.ID, "stale"))

	e.b.Lock()
	e.b.LogoutFails = true
	e.b.Unlock()

	require.NoError(t, e.auth.Logout(context.Background(), sess))
	assert.Equal(t, 1, e.b.Hits("POST /logout"))
	assert.False(t, sess.LoggedIn())
	assert.Empty(t, sess.CartToken)

	reloaded := e.session(t, "sid-out")
	assert.False(t, reloaded.LoggedIn())
	assert.Empty(t, reloaded.CartToken)
	assert.Empty(t, reloaded.AccessToken)
}

func TestRegisterValidatesLocally(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	sess := e.session(t, "sid-reg")

	err := e.auth.Register(context.Background(), sess, apiclient.RegisterInput{
		Name: "Koffi", Email: "koffi@example.com", Password: "longenough", PasswordConfirmation: "different",
	})
	require.ErrorIs(t, err, services.ErrPasswordMismatch)
	assert.Equal(t, map[string]string{"password_confirmation": "La confirmation ne correspond pas."}, services.Fields(err))
	assert.Equal(t, 0, e.b.Hits("POST /register"))

	err = e.auth.Register(context.Background(), sess, apiclient.RegisterInput{
		Name: "Koffi", Email: "koffi@example.com", Password: "longenough", PasswordConfirmation: "longenough",
	})
	require.NoError(t, err)
	assert.True(t, sess.LoggedIn())
}

func TestRegisterDuplicateEmailKeepsFieldErrors(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	sess := e.session(t, "sid-dup")

	err := e.auth.Register(context.Background(), sess, apiclient.RegisterInput{
		Name: "Awa", Email: "awa@example.com", Password: "longenough", PasswordConfirmation: "longenough",
	})
	require.ErrorIs(t, err, apiclient.ErrValidation)
	assert.Contains(t, apiclient.FieldErrors(err), "email")
	assert.False(t, sess.LoggedIn())
}

func TestUnreadableTokenResetsSession(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.login(t, "sid-tamper", "awa@example.com")

	row, err := e.store.Get(context.Background(), "sid-tamper")
	require.NoError(t, err)
	require.NoError(t, e.store.SetAuth(context.Background(), "sid-tamper", row.UserJSON, row.Role, "garbage"))

	sess := e.session(t, "sid-tamper")
	assert.False(t, sess.LoggedIn())
}
