package services

import (
	"context"
	"errors"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/validate"
)

type AuthService struct {
	API      *apiclient.Client
	Sessions *Sessions
	Carts    *CartService
}

func NewAuthService(api *apiclient.Client, sessions *Sessions, carts *CartService) *AuthService {
	return &AuthService{API: api, Sessions: sessions, Carts: carts}
}

func (s *AuthService) Login(ctx context.Context, sess *Session, email, password string) error {
	email, ok := validate.Email(email)
	if !ok || password == "" {
		return ErrBadCreds
	}
	res, err := s.API.Login(sess.Context(ctx), apiclient.LoginInput{Email: email, Password: password})
	if errors.Is(err, apiclient.ErrUnauthorized) {
		return ErrBadCreds
	}
	if err != nil {
		return err
	}
	return s.establish(ctx, sess, res)
}

func (s *AuthService) Register(ctx context.Context, sess *Session, in apiclient.RegisterInput) error {
	name, ok := validate.Name(in.Name)
	if !ok {
		return &FieldError{Field: "name", Message: "Le nom est obligatoire (100 caractères maximum)."}
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return &FieldError{Field: "email", Message: "L'adresse email est invalide.", Err: ErrInvalidEmail}
	}
	if !validate.Password(in.Password) {
		return &FieldError{Field: "password", Message: "Le mot de passe doit contenir entre 8 et 72 caractères.", Err: ErrWeakPassword}
	}
	if in.Password != in.PasswordConfirmation {
		return &FieldError{Field: "password_confirmation", Message: "La confirmation ne correspond pas.", Err: ErrPasswordMismatch}
	}
	in.Name, in.Email = name, email
	res, err := s.API.Register(sess.Context(ctx), in)
	if err != nil {
		return err
	}
	return s.establish(ctx, sess, res)
}

// establish stores the new identity. When the backend reports an anonymous cart for this
// visitor, its token is kept and the cart fetched once so the backend merges it.
func (s *AuthService) establish(ctx context.Context, sess *Session, res apiclient.AuthResponse) error {
	if res.AccessToken == "" {
		return apiclient.ErrUnavailable
	}
	if _, err := domain.ParseRole(string(res.User.Role)); err != nil {
		applog.FromContext(ctx).Warn("auth.unknown_role", "user_id", res.User.ID)
	}
	if err := s.Sessions.SaveAuth(ctx, sess, res.User, res.AccessToken); err != nil {
		return err
	}
	applog.FromContext(ctx).Log(ctx, applog.LevelAudit, "auth.login_success", "user_id", res.User.ID, "role", res.User.Role)

	tok, ok := res.MergeToken()
	if !ok {
		return nil
	}
	if err := s.Sessions.SetCartToken(ctx, sess, tok); err != nil {
		return err
	}
	if _, err := s.Carts.Load(ctx, sess); err != nil {
		applog.FromContext(ctx).Warn("auth.cart_merge_failed", "user_id", res.User.ID, "err", err)
	}
	return nil
}

// Logout asks the backend to revoke the token but clears local state whatever it answers.
func (s *AuthService) Logout(ctx context.Context, sess *Session) error {
	if sess.AccessToken != "" {
		if err := s.API.Logout(sess.Context(ctx)); err != nil {
			applog.FromContext(ctx).Warn("auth.logout_backend_failed", "err", err)
		}
	}
	if err := s.Sessions.Clear(ctx, sess); err != nil {
		return err
	}
	applog.FromContext(ctx).Log(ctx, applog.LevelAudit, "auth.logout")
	return nil
}

// Expire drops the local identity after the backend rejected the token.
func (s *AuthService) Expire(ctx context.Context, sess *Session) error {
	applog.FromContext(ctx).Warn("auth.token_rejected")
	return s.Sessions.Clear(ctx, sess)
}

// Refresh reloads the user from the backend and updates the stored copy.
func (s *AuthService) Refresh(ctx context.Context, sess *Session) (domain.User, error) {
	u, err := s.API.Me(sess.Context(ctx))
	if err != nil {
		return domain.User{}, err
	}
	return u, s.Sessions.SaveUser(ctx, sess, u)
}

func (s *AuthService) UpdateProfile(ctx context.Context, sess *Session, in apiclient.ProfileInput) (domain.User, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return domain.User{}, &FieldError{Field: "name", Message: "Le nom est obligatoire (100 caractères maximum)."}
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return domain.User{}, &FieldError{Field: "email", Message: "L'adresse email est invalide.", Err: ErrInvalidEmail}
	}
	phone, ok := validate.Phone(in.Phone)
	if !ok {
		return domain.User{}, &FieldError{Field: "phone", Message: "Le numéro de téléphone est invalide."}
	}
	in.Name, in.Email, in.Phone = name, email, phone
	u, err := s.API.UpdateProfile(sess.Context(ctx), in)
	if err != nil {
		return domain.User{}, err
	}
	return u, s.Sessions.SaveUser(ctx, sess, u)
}
