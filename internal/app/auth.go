package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"campus_life/internal/domain"
)

var emailRe = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)

const minPasswordLen = 6

// AuthService validates credentials before handing them to the auth backend.
type AuthService struct {
	auth     domain.Authenticator
	sessions *Sessions
}

func NewAuthService(a domain.Authenticator, s *Sessions) *AuthService {
	return &AuthService{auth: a, sessions: s}
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (domain.AuthSession, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return domain.AuthSession{}, err
	}
	if password == "" {
		return domain.AuthSession{}, fmt.Errorf("%w: Password is required", domain.ErrInvalidInput)
	}
	return s.auth.SignIn(ctx, email, password)
}

func (s *AuthService) SignUp(ctx context.Context, email, password string, p domain.Profile) (domain.AuthSession, error) {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return domain.AuthSession{}, err
	}
	if len(password) < minPasswordLen {
		return domain.AuthSession{}, fmt.Errorf("%w: Password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	return s.auth.SignUp(ctx, email, password, p)
}

// SignOut revokes the token and forgets the caller's session state.
func (s *AuthService) SignOut(ctx context.Context, accessToken, session string) error {
	if err := s.auth.SignOut(ctx, accessToken); err != nil {
		return err
	}
	if s.sessions != nil {
		if err := s.sessions.Drop(ctx, session); err != nil {
			log.Warn().Err(err).Str("session", session).Msg("session cleanup failed")
		}
	}
	return nil
}

func (s *AuthService) RecoverPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	return s.auth.RecoverPassword(ctx, email)
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: Email is required", domain.ErrInvalidInput)
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("%w: Invalid email address", domain.ErrInvalidInput)
	}
	return nil
}
