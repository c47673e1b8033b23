package supabase

import (
	"context"
	"net/http"

	"campus_life/internal/domain"
)

type gotrueUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata domain.Profile `json:"user_metadata"`
}

func (u gotrueUser) toDomain() domain.User {
	return domain.User{ID: u.ID, Email: u.Email, Profile: u.UserMetadata}
}

type gotrueSession struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
	TokenType    string      `json:"token_type"`
	User         *gotrueUser `json:"user"`

	// signup with email confirmation enabled answers with the bare user
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (s gotrueSession) toDomain() domain.AuthSession {
	out := domain.AuthSession{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		TokenType:    s.TokenType,
	}
	if s.User != nil {
		out.User = s.User.toDomain()
	} else {
		out.User = domain.User{ID: s.ID, Email: s.Email}
	}
	return out
}

func (c *Client) SignIn(ctx context.Context, email, password string) (domain.AuthSession, error) {
	var s gotrueSession
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/v1/token?grant_type=password",
		endpoint: "auth:token",
		body:     map[string]string{"email": email, "password": password},
	}, &s)
	if err != nil {
		return domain.AuthSession{}, err
	}
	return s.toDomain(), nil
}

func (c *Client) SignUp(ctx context.Context, email, password string, p domain.Profile) (domain.AuthSession, error) {
	var s gotrueSession
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/v1/signup",
		endpoint: "auth:signup",
		body: map[string]any{
			"email":    email,
			"password": password,
			"data":     p,
		},
	}, &s)
	if err != nil {
		return domain.AuthSession{}, err
	}
	return s.toDomain(), nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/v1/logout",
		endpoint: "auth:logout",
		bearer:   accessToken,
	}, nil)
}

func (c *Client) RecoverPassword(ctx context.Context, email string) error {
	return c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/v1/recover",
		endpoint: "auth:recover",
		body:     map[string]string{"email": email},
	}, nil)
}
