// Package session keeps refresh tokens and one-time OAuth state in
// Redis with TTL expiry. Entries are disposable: losing one forces a
// re-login, nothing more.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session entry not found")

const (
	refreshTokenPrefix = "refresh_token:"
	oauthStatePrefix   = "oauth_state:"
)

type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) StoreRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, refreshTokenPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("storing refresh token: %w", err)
	}

	return nil
}

// Subject resolves a refresh token to the user id it was issued for.
func (s *Store) Subject(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, refreshTokenPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}

	if err != nil {
		return "", fmt.Errorf("resolving refresh token: %w", err)
	}

	return userID, nil
}

func (s *Store) Revoke(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, refreshTokenPrefix+token).Err(); err != nil {
		return fmt.Errorf("revoking refresh token: %w", err)
	}

	return nil
}

func (s *Store) StoreOAuthState(ctx context.Context, state, provider string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, oauthStatePrefix+state, provider, ttl).Err(); err != nil {
		return fmt.Errorf("storing oauth state: %w", err)
	}

	return nil
}

// ConsumeOAuthState returns the provider a state was issued for and
// deletes it atomically, so the state cannot be replayed.
func (s *Store) ConsumeOAuthState(ctx context.Context, state string) (string, error) {
	provider, err := s.rdb.GetDel(ctx, oauthStatePrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}

	if err != nil {
		return "", fmt.Errorf("consuming oauth state: %w", err)
	}

	return provider, nil
}
