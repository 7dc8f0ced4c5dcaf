package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseBearer(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		got, ok := ParseBearer(r)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseBearer(%q) = %q,%v want %q,%v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTokenFromContext(t *testing.T) {
	if _, err := TokenFromContext(context.Background()); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	ctx := WithSession(context.Background(), Session{Token: " "})
	if _, err := TokenFromContext(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("blank token accepted: %v", err)
	}
	ctx = WithSession(context.Background(), Session{Token: "t0k", User: "ana"})
	tok, err := TokenFromContext(ctx)
	if err != nil || tok != "t0k" {
		t.Fatalf("got %q err=%v", tok, err)
	}
}

func TestMiddlewareAndRequireAuth(t *testing.T) {
	var seen Session
	h := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/cart", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set(UserHeader, "ana")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}
	if seen.Token != "secret" || seen.User != "ana" {
		t.Fatalf("session = %+v", seen)
	}
}
