package xero

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerlens/internal/domain"
)

const defaultTokenURL = "https://identity.xero.com/connect/token"

// Token is an OAuth2 access/refresh token pair for the accounting API.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
}

// Valid reports whether the access token can still be used, with a safety
// margin against clock skew.
func (t Token) Valid() bool {
	return t.AccessToken != "" && time.Until(t.Expiry) > 30*time.Second
}

// TokenSource yields a usable access token for API requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenStore persists the token pair between invocations. Refresh tokens are
// single use, so every refresh must be written back.
type TokenStore interface {
	Load(ctx context.Context) (Token, error)
	Save(ctx context.Context, token Token) error
}

// TokenManager implements TokenSource over a TokenStore, refreshing through
// the platform token endpoint whenever the stored access token has expired.
type TokenManager struct {
	mu           sync.Mutex
	httpClient   *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
	store        TokenStore
	logger       zerolog.Logger
}

// TokenManagerOption customizes a TokenManager.
type TokenManagerOption func(*TokenManager)

// WithTokenURL overrides the token endpoint. Used by tests.
func WithTokenURL(u string) TokenManagerOption {
	return func(m *TokenManager) { m.tokenURL = u }
}

// NewTokenManager creates a TokenManager for the given client credentials.
func NewTokenManager(clientID, clientSecret string, store TokenStore, logger zerolog.Logger, opts ...TokenManagerOption) *TokenManager {
	m := &TokenManager{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		tokenURL:     defaultTokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		store:        store,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Token returns a valid access token, refreshing and persisting it first if
// the stored one has expired.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if token.Valid() {
		return token.AccessToken, nil
	}
	if token.RefreshToken == "" {
		return "", domain.ErrNoStoredToken
	}

	refreshed, err := m.exchange(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {token.RefreshToken},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}
	if err := m.store.Save(ctx, refreshed); err != nil {
		return "", fmt.Errorf("persisting refreshed token: %w", err)
	}
	m.logger.Info().Time("expiry", refreshed.Expiry).Msg("access token refreshed")
	return refreshed.AccessToken, nil
}

// Authenticate refreshes the stored token if needed and fails fast when the
// tenant is not connected. The aggregation runs it once per invocation before
// any endpoint is queried.
func (m *TokenManager) Authenticate(ctx context.Context) error {
	_, err := m.Token(ctx)
	return err
}

// Connect performs the one-time exchange of an authorization code for a token
// pair and persists it. Used by the connect CLI command.
func (m *TokenManager) Connect(ctx context.Context, code, redirectURI string) error {
	token, err := m.exchange(ctx, url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {redirectURI},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
	}
	return m.store.Save(ctx, token)
}

func (m *TokenManager) exchange(ctx context.Context, form url.Values) (Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(m.clientID + ":" + m.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return Token{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Token{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Token{}, fmt.Errorf("token endpoint status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Token{}, fmt.Errorf("decoding token response: %w", err)
	}
	return Token{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		Expiry:       time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}, nil
}
