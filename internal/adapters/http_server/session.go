package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is who a request acts for. Signed-in users are keyed by their user id,
// guests by the id they were issued.
type Identity struct {
	Session string
	UserID  string
	Email   string
	Token   string
}

func (i Identity) SignedIn() bool { return i.UserID != "" }

type identityKey struct{}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// Claims is the subset of a Supabase access token we rely on.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken verifies an HS256 access token against the project's JWT secret.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("subject is not a user id: %w", err)
	}
	return claims, nil
}

// Session resolves the caller from a bearer token or, for guests, the X-Session-ID header.
func Session(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok, ok := bearerToken(r); ok {
				if secret == "" {
					writeProblem(w, http.StatusUnauthorized, "Unauthorized", "token verification is not configured")
					return
				}
				claims, err := ParseToken(tok, secret)
				if err != nil {
					writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
					return
				}
				id := Identity{Session: "user:" + claims.Subject, UserID: claims.Subject, Email: claims.Email, Token: tok}
				next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
				return
			}

			sid := strings.TrimSpace(r.Header.Get("X-Session-ID"))
			if sid == "" {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "send a bearer token or an X-Session-ID header")
				return
			}
			u, err := uuid.Parse(sid)
			if err != nil {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "X-Session-ID must be a UUID")
				return
			}
			id := Identity{Session: "guest:" + u.String()}
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}
