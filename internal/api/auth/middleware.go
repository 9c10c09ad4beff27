package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/hsm-gustavo/job-board/internal/api/httpx"
	"github.com/hsm-gustavo/job-board/internal/apperr"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// Verifier is the token check the middleware depends on.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
// A missing or malformed header is Unauthorized.
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", apperr.Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", apperr.Unauthorized("Invalid authorization header format")
	}

	token := strings.TrimSpace(parts[1])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", apperr.Unauthorized("Invalid authorization header format")
	}
	return token, nil
}

// Authenticate verifies the bearer token and stores the claims in the
// request context. Missing credentials answer 401, rejected tokens 403.
func Authenticate(v Verifier, rs httpx.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				rs.Error(w, r, err)
				return
			}

			claims, err := v.Verify(token)
			if err != nil {
				rs.Error(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// Require runs Authorize with the given checks against the claims placed by
// Authenticate.
func Require(rs httpx.Responder, checks ...Check) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := ClaimsFromContext(r.Context())
			if err := Authorize(claims, checks...); err != nil {
				rs.Error(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, c)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
