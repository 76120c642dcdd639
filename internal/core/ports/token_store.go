package ports

import (
	"context"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
)

// TokenStore persists the two per-session entries: the serialized profile and
// the raw bearer token. It performs no validation of its own.
type TokenStore interface {
	SaveProfile(ctx context.Context, sessionID string, profile domain.Profile) error
	SaveToken(ctx context.Context, sessionID, token string) error
	// Load returns found=false unless both entries are present.
	Load(ctx context.Context, sessionID string) (profile domain.Profile, token string, found bool, err error)
	// Clear removes both entries. Removing absent entries is not an error.
	Clear(ctx context.Context, sessionID string) error
}
