package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

const keyPrefix = "mealportal:session:"

// TokenStore persists session entries in Redis.
// Key format: mealportal:session:<sid>:auth_user and
// mealportal:session:<sid>:access_token
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.TokenStore = (*TokenStore)(nil)

// NewTokenStore creates a TokenStore whose entries expire after ttl.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

func (s *TokenStore) SaveProfile(ctx context.Context, sessionID string, profile domain.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.client.Set(ctx, profileKey(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *TokenStore) SaveToken(ctx context.Context, sessionID, token string) error {
	if err := s.client.Set(ctx, tokenKey(sessionID), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Load reads both entries in one round trip.
func (s *TokenStore) Load(ctx context.Context, sessionID string) (domain.Profile, string, bool, error) {
	vals, err := s.client.MGet(ctx, profileKey(sessionID), tokenKey(sessionID)).Result()
	if err != nil {
		return domain.Profile{}, "", false, fmt.Errorf("load session: %w", err)
	}

	rawProfile, okP := vals[0].(string)
	token, okT := vals[1].(string)
	if !okP || !okT {
		return domain.Profile{}, "", false, nil
	}

	var profile domain.Profile
	if err := json.Unmarshal([]byte(rawProfile), &profile); err != nil {
		return domain.Profile{}, "", false, fmt.Errorf("decode profile: %w", err)
	}
	return profile, token, true, nil
}

func (s *TokenStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, profileKey(sessionID), tokenKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func profileKey(sessionID string) string {
	return keyPrefix + sessionID + ":auth_user"
}

func tokenKey(sessionID string) string {
	return keyPrefix + sessionID + ":access_token"
}
