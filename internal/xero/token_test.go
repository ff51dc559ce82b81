package xero

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerlens/internal/domain"
)

type memoryTokenStore struct {
	mu    sync.Mutex
	token Token
}

func (s *memoryTokenStore) Load(ctx context.Context) (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *memoryTokenStore) Save(ctx context.Context, token Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func TestTokenValid(t *testing.T) {
	if (Token{}).Valid() {
		t.Fatal("zero token must not be valid")
	}
	if (Token{AccessToken: "a", Expiry: time.Now().Add(10 * time.Second)}).Valid() {
		t.Fatal("token inside the expiry margin must not be valid")
	}
	if !(Token{AccessToken: "a", Expiry: time.Now().Add(time.Hour)}).Valid() {
		t.Fatal("fresh token must be valid")
	}
}

func TestTokenManagerReturnsStoredToken(t *testing.T) {
	store := &memoryTokenStore{token: Token{
		AccessToken:  "stored",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}}
	m := NewTokenManager("id", "secret", store, zerolog.Nop())

	got, err := m.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "stored" {
		t.Fatalf("expected stored token, got %q", got)
	}
}

func TestTokenManagerRefreshesExpired(t *testing.T) {
	var gotGrant, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		gotGrant = r.PostForm.Get("grant_type")
		gotAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "fresh", "refresh_token": "next-refresh", "expires_in": 1800}`))
	}))
	defer server.Close()

	store := &memoryTokenStore{token: Token{
		AccessToken:  "stale",
		RefreshToken: "old-refresh",
		Expiry:       time.Now().Add(-time.Minute),
	}}
	m := NewTokenManager("id", "secret", store, zerolog.Nop(), WithTokenURL(server.URL))

	got, err := m.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "fresh" {
		t.Fatalf("expected refreshed token, got %q", got)
	}
	if gotGrant != "refresh_token" {
		t.Fatalf("expected refresh_token grant, got %q", gotGrant)
	}

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("id:secret"))
	if gotAuth != wantAuth {
		t.Fatalf("expected basic auth header, got %q", gotAuth)
	}

	// Refresh tokens are single use; the new pair must be persisted.
	if store.token.RefreshToken != "next-refresh" {
		t.Fatalf("expected rotated refresh token to be saved, got %q", store.token.RefreshToken)
	}
}

func TestTokenManagerNoStoredToken(t *testing.T) {
	m := NewTokenManager("id", "secret", &memoryTokenStore{}, zerolog.Nop())

	_, err := m.Token(context.Background())
	if !errors.Is(err, domain.ErrNoStoredToken) {
		t.Fatalf("expected ErrNoStoredToken, got %v", err)
	}
}

func TestTokenManagerRefreshFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid_grant"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	store := &memoryTokenStore{token: Token{RefreshToken: "revoked"}}
	m := NewTokenManager("id", "secret", store, zerolog.Nop(), WithTokenURL(server.URL))

	err := m.Authenticate(context.Background())
	if !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestTokenManagerConnect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "authorization_code" {
			t.Fatalf("expected authorization_code grant, got %q", got)
		}
		if got := r.PostForm.Get("code"); got != "auth-code" {
			t.Fatalf("unexpected code %q", got)
		}
		if got := r.PostForm.Get("redirect_uri"); !strings.HasPrefix(got, "http://localhost") {
			t.Fatalf("unexpected redirect uri %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "first", "refresh_token": "first-refresh", "expires_in": 1800}`))
	}))
	defer server.Close()

	store := &memoryTokenStore{}
	m := NewTokenManager("id", "secret", store, zerolog.Nop(), WithTokenURL(server.URL))

	if err := m.Connect(context.Background(), "auth-code", "http://localhost/callback"); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if store.token.AccessToken != "first" || store.token.RefreshToken != "first-refresh" {
		t.Fatalf("expected token pair to be saved, got %+v", store.token)
	}
}
