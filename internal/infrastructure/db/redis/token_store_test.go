package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestTokenStore_RoundTrip(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewTokenStore(client, time.Hour)
	ctx := context.Background()

	profile := domain.Profile{ID: 7, Username: "alice", Role: domain.RoleAdmin}
	if err := store.SaveToken(ctx, "sid-1", "tok"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	if _, _, found, err := store.Load(ctx, "sid-1"); err != nil || found {
		t.Fatalf("a lone token must not count as a session: found=%v err=%v", found, err)
	}

	if err := store.SaveProfile(ctx, "sid-1", profile); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, token, found, err := store.Load(ctx, "sid-1")
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if got.ID != 7 || got.Role != domain.RoleAdmin || token != "tok" {
		t.Fatalf("unexpected entries: %+v %q", got, token)
	}

	if !mr.Exists("mealportal:session:sid-1:auth_user") || !mr.Exists("mealportal:session:sid-1:access_token") {
		t.Fatalf("expected both keys under the session prefix, got %v", mr.Keys())
	}
	if ttl := mr.TTL("mealportal:session:sid-1:access_token"); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", ttl)
	}
}

func TestTokenStore_Clear(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewTokenStore(client, time.Hour)
	ctx := context.Background()

	_ = store.SaveToken(ctx, "sid-1", "tok")
	_ = store.SaveProfile(ctx, "sid-1", domain.Profile{ID: 1})
	_ = store.SaveToken(ctx, "sid-2", "other")

	if err := store.Clear(ctx, "sid-1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(mr.Keys()) != 1 {
		t.Fatalf("expected only sid-2 to remain, got %v", mr.Keys())
	}
	if err := store.Clear(ctx, "missing"); err != nil {
		t.Fatalf("clearing an absent session must not fail: %v", err)
	}
}

func TestTokenStore_Expiry(t *testing.T) {
	mr, client := newTestClient(t)
	store := NewTokenStore(client, time.Minute)
	ctx := context.Background()

	_ = store.SaveToken(ctx, "sid-1", "tok")
	_ = store.SaveProfile(ctx, "sid-1", domain.Profile{ID: 1})
	mr.FastForward(2 * time.Minute)

	if _, _, found, _ := store.Load(ctx, "sid-1"); found {
		t.Fatalf("expired entries must not load")
	}
}

func TestDedupChecker(t *testing.T) {
	_, client := newTestClient(t)
	dedup := NewDedupChecker(client)
	ctx := context.Background()

	dup, err := dedup.IsDuplicate(ctx, 2, "2025-05-01T12:00:00")
	if err != nil || dup {
		t.Fatalf("fresh event reported as duplicate: %v %v", dup, err)
	}
	if err := dedup.Mark(ctx, 2, "2025-05-01T12:00:00"); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if dup, _ := dedup.IsDuplicate(ctx, 2, "2025-05-01T12:00:00"); !dup {
		t.Fatalf("marked event not reported as duplicate")
	}
	if dup, _ := dedup.IsDuplicate(ctx, 3, "2025-05-01T12:00:00"); dup {
		t.Fatalf("other user's event reported as duplicate")
	}
}
