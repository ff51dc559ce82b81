package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iho/ledgerlens/internal/xero"
)

const tokenKey = "ledgerlens:oauth-token"

// TokenStore implements xero.TokenStore using Redis, so the refreshed token
// pair survives restarts and is shared between the server and the CLI.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Load returns the stored token pair. A missing key yields a zero Token, not
// an error: the caller distinguishes "not connected" from transport failure.
func (s *TokenStore) Load(ctx context.Context) (xero.Token, error) {
	raw, err := s.client.Get(ctx, tokenKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return xero.Token{}, nil
		}
		return xero.Token{}, fmt.Errorf("loading token: %w", err)
	}

	var token xero.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return xero.Token{}, fmt.Errorf("decoding stored token: %w", err)
	}
	return token, nil
}

// Save persists the token pair. No TTL: the refresh token outlives the
// access token and is invalidated only by the platform.
func (s *TokenStore) Save(ctx context.Context, token xero.Token) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := s.client.Set(ctx, tokenKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}
