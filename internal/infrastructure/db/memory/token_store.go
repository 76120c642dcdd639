// Package memory keeps session entries in process memory. It backs local
// development and tests where Redis is not available.
package memory

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// TokenStore implements ports.TokenStore on top of go-cache.
type TokenStore struct {
	entries *cache.Cache
	ttl     time.Duration
}

var _ ports.TokenStore = (*TokenStore)(nil)

// NewTokenStore creates a TokenStore whose entries expire after ttl.
func NewTokenStore(ttl time.Duration) *TokenStore {
	return &TokenStore{entries: cache.New(ttl, ttl), ttl: ttl}
}

func (s *TokenStore) SaveProfile(_ context.Context, sessionID string, profile domain.Profile) error {
	s.entries.Set(sessionID+":auth_user", profile, s.ttl)
	return nil
}

func (s *TokenStore) SaveToken(_ context.Context, sessionID, token string) error {
	s.entries.Set(sessionID+":access_token", token, s.ttl)
	return nil
}

func (s *TokenStore) Load(_ context.Context, sessionID string) (domain.Profile, string, bool, error) {
	p, okP := s.entries.Get(sessionID + ":auth_user")
	t, okT := s.entries.Get(sessionID + ":access_token")
	if !okP || !okT {
		return domain.Profile{}, "", false, nil
	}
	profile, okP := p.(domain.Profile)
	token, okT := t.(string)
	if !okP || !okT {
		return domain.Profile{}, "", false, nil
	}
	return profile, token, true, nil
}

func (s *TokenStore) Clear(_ context.Context, sessionID string) error {
	s.entries.Delete(sessionID + ":auth_user")
	s.entries.Delete(sessionID + ":access_token")
	return nil
}

// DedupChecker remembers processed billing events for an hour.
type DedupChecker struct {
	seen *cache.Cache
}

func NewDedupChecker() *DedupChecker {
	return &DedupChecker{seen: cache.New(time.Hour, 10*time.Minute)}
}

func (d *DedupChecker) IsDuplicate(_ context.Context, userID int64, stamp string) (bool, error) {
	_, found := d.seen.Get(dedupKey(userID, stamp))
	return found, nil
}

func (d *DedupChecker) Mark(_ context.Context, userID int64, stamp string) error {
	d.seen.SetDefault(dedupKey(userID, stamp), struct{}{})
	return nil
}

func dedupKey(userID int64, stamp string) string {
	return strconv.FormatInt(userID, 10) + ":" + stamp
}
