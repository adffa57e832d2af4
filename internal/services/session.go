package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/repos"
	"github.com/silver1953366/gravure-frontend/internal/secure"
)

// Session is the decoded client state of one visitor. Handlers load it once per request
// and pass a pointer to services, which keep it in sync with what they persist.
type Session struct {
	ID          string
	User        *domain.User
	Role        domain.Role
	AccessToken string
	CartToken   string
}

func (s *Session) LoggedIn() bool {
	return s != nil && s.AccessToken != "" && s.User != nil
}

// UserID is 0 for guests.
func (s *Session) UserID() int64 {
	if s == nil || s.User == nil {
		return 0
	}
	return s.User.ID
}

// Context attaches the session's backend credentials to ctx.
func (s *Session) Context(ctx context.Context) context.Context {
	return apiclient.WithCredentials(ctx, apiclient.Credentials{
		AccessToken:  s.AccessToken,
		SessionToken: s.CartToken,
	})
}

// SessionStore is the persistence contract for visitor state.
type SessionStore interface {
	Ensure(ctx context.Context, sid string) error
	Get(ctx context.Context, sid string) (repos.SessionRow, error)
	SetAuth(ctx context.Context, sid, userJSON, role, sealedToken string) error
	SetUser(ctx context.Context, sid, userJSON string) error
	SetCartToken(ctx context.Context, sid, token string) error
	Clear(ctx context.Context, sid string) error
}

type Sessions struct {
	Store  SessionStore
	Sealer *secure.Sealer
}

func NewSessions(store SessionStore, sealer *secure.Sealer) *Sessions {
	return &Sessions{Store: store, Sealer: sealer}
}

// Load reads and decodes the session. A token that no longer opens (rotated secret,
// tampering) or an undecodable user logs the visitor out instead of failing the request.
func (m *Sessions) Load(ctx context.Context, sid string) (*Session, error) {
	if err := m.Store.Ensure(ctx, sid); err != nil {
		return nil, fmt.Errorf("ensure session: %w", err)
	}
	row, err := m.Store.Get(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s := &Session{ID: sid, CartToken: row.CartSessionToken}
	if row.AccessTokenSealed == "" || row.UserJSON == "" {
		return s, nil
	}

	tok, err := m.Sealer.Open(row.AccessTokenSealed)
	if err != nil {
		applog.FromContext(ctx).Warn("session.token_unreadable", "sid_prefix", prefix(sid), "err", err)
		return m.reset(ctx, s)
	}
	var u domain.User
	if err := json.Unmarshal([]byte(row.UserJSON), &u); err != nil {
		applog.FromContext(ctx).Warn("session.user_unreadable", "sid_prefix", prefix(sid), "err", err)
		return m.reset(ctx, s)
	}
	role, err := domain.ParseRole(row.Role)
	if errors.Is(err, domain.ErrUnknownRole) {
		applog.FromContext(ctx).Warn("session.unknown_role", "role", row.Role, "user_id", u.ID)
	}
	u.Role = role
	s.User, s.Role, s.AccessToken = &u, role, tok
	return s, nil
}

func (m *Sessions) reset(ctx context.Context, s *Session) (*Session, error) {
	if err := m.Store.Clear(ctx, s.ID); err != nil {
		return nil, fmt.Errorf("clear session: %w", err)
	}
	return &Session{ID: s.ID}, nil
}

// SaveAuth stores user, role and token together and updates s.
func (m *Sessions) SaveAuth(ctx context.Context, s *Session, u domain.User, token string) error {
	sealed, err := m.Sealer.Seal(token)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := m.Store.SetAuth(ctx, s.ID, string(raw), string(u.Role), sealed); err != nil {
		return fmt.Errorf("save session auth: %w", err)
	}
	s.User, s.Role, s.AccessToken = &u, u.Role, token
	return nil
}

// SaveUser refreshes the cached user; the role is not changed by a profile update.
func (m *Sessions) SaveUser(ctx context.Context, s *Session, u domain.User) error {
	u.Role = s.Role
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := m.Store.SetUser(ctx, s.ID, string(raw)); err != nil {
		return fmt.Errorf("save session user: %w", err)
	}
	s.User = &u
	return nil
}

// SetCartToken stores the anonymous cart token ("" clears it) when it changed.
func (m *Sessions) SetCartToken(ctx context.Context, s *Session, token string) error {
	if s.CartToken == token {
		return nil
	}
	if err := m.Store.SetCartToken(ctx, s.ID, token); err != nil {
		return fmt.Errorf("save cart token: %w", err)
	}
	s.CartToken = token
	return nil
}

// Clear drops user, role, access token and cart token together.
func (m *Sessions) Clear(ctx context.Context, s *Session) error {
	err := m.Store.Clear(ctx, s.ID)
	*s = Session{ID: s.ID}
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func prefix(sid string) string {
	if len(sid) > 8 {
		return sid[:8]
	}
	return sid
}
