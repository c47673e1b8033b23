package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus_life/internal/app"
	"campus_life/internal/domain"
)

func TestAuth_ValidatesEmail(t *testing.T) {
	a := app.NewAuthService(&fakeAuth{}, nil)
	for _, email := range []string{"", "not-an-email", "a@b"} {
		if _, err := a.SignIn(context.Background(), email, "secret1"); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%q: expected ErrInvalidInput, got %v", email, err)
		}
	}
}

func TestAuth_SignUpPasswordLength(t *testing.T) {
	a := app.NewAuthService(&fakeAuth{}, nil)
	if _, err := a.SignUp(context.Background(), "student@binus.ac.id", "123", domain.Profile{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	s, err := a.SignUp(context.Background(), "student@binus.ac.id", "123456", domain.Profile{FirstName: " Ana "})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if s.User.FirstName != "Ana" {
		t.Fatalf("profile not trimmed: %+v", s.User)
	}
}

func TestAuth_SignOutDropsSession(t *testing.T) {
	store := newFakeStore()
	_ = store.Save(context.Background(), "user-1", domain.Campus{ID: 1})
	sessions := app.NewSessions(newFakeGateway(), store, time.Hour)
	sessions.Get(context.Background(), "user-1")
	fa := &fakeAuth{}
	a := app.NewAuthService(fa, sessions)

	if err := a.SignOut(context.Background(), "tok", "user-1"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if fa.signedOut != "tok" {
		t.Fatalf("token not revoked")
	}
	if sessions.Len() != 0 {
		t.Fatalf("session not dropped")
	}
	if _, ok, _ := store.Load(context.Background(), "user-1"); ok {
		t.Fatalf("stored campus not cleared")
	}
}

func TestAuth_RecoverTrimsEmail(t *testing.T) {
	fa := &fakeAuth{}
	a := app.NewAuthService(fa, nil)
	if err := a.RecoverPassword(context.Background(), "  student@binus.ac.id "); err != nil {
		t.Fatalf("err: %v", err)
	}
	if fa.recovered != "student@binus.ac.id" {
		t.Fatalf("unexpected email %q", fa.recovered)
	}
}
