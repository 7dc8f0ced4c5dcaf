// Package auth carries the agent's backend credential through request
// contexts. Tokens are issued by the order-management backend; this package
// only forwards them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ctxKey string

const (
	sessionCtxKey = ctxKey("session")
	// UserHeader optionally names the signed-in agent for logging.
	UserHeader = "X-Agent-User"
)

// ErrNoToken is returned when a backend call is attempted without a credential.
var ErrNoToken = errors.New("auth: no bearer token in context")

// Session is the authenticated agent.
type Session struct {
	Token string
	User  string
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, s)
}

// SessionFromContext extracts the session, if any.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionCtxKey).(Session)
	return s, ok
}

// TokenFromContext returns the bearer token or ErrNoToken.
func TokenFromContext(ctx context.Context) (string, error) {
	s, ok := SessionFromContext(ctx)
	if !ok || strings.TrimSpace(s.Token) == "" {
		return "", ErrNoToken
	}
	return s.Token, nil
}

// ParseBearer returns the token of an "Authorization: Bearer <token>" header.
func ParseBearer(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}

// Middleware attaches the session to the request context if a bearer token is present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok, ok := ParseBearer(r); ok {
			s := Session{Token: tok, User: r.Header.Get(UserHeader)}
			r = r.WithContext(WithSession(r.Context(), s))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth returns 401 JSON when no session is attached.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := TokenFromContext(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"unauthorized"}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}
