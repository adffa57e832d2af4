package apiclient

import (
	"context"
	"net/http"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// AuthResponse is returned by login and register. A non-empty SessionToken means the
// backend holds an anonymous cart for this visitor that the next cart fetch will merge.
type AuthResponse struct {
	User         domain.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	SessionToken *string     `json:"session_token"`
	Message      string      `json:"message,omitempty"`
}

func (r AuthResponse) MergeToken() (string, bool) {
	if r.SessionToken == nil || *r.SessionToken == "" {
		return "", false
	}
	return *r.SessionToken, true
}

type ProfileInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func (c *Client) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	return send[AuthResponse](ctx, c, http.MethodPost, "/login", in)
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	return send[AuthResponse](ctx, c, http.MethodPost, "/register", in)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, struct{}{}, nil)
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	return get[domain.User](ctx, c, "/user", nil, "data", "user")
}

func (c *Client) UpdateProfile(ctx context.Context, in ProfileInput) (domain.User, error) {
	return send[domain.User](ctx, c, http.MethodPut, "/profile", in, "user", "data")
}
