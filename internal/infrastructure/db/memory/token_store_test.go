package memory

import (
	"context"
	"testing"
	"time"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
)

func TestTokenStore_RequiresBothEntries(t *testing.T) {
	store := NewTokenStore(time.Hour)
	ctx := context.Background()

	_ = store.SaveProfile(ctx, "sid-1", domain.Profile{ID: 3, Username: "carol"})
	if _, _, found, _ := store.Load(ctx, "sid-1"); found {
		t.Fatalf("a lone profile must not count as a session")
	}

	_ = store.SaveToken(ctx, "sid-1", "tok")
	p, tok, found, err := store.Load(ctx, "sid-1")
	if err != nil || !found || p.Username != "carol" || tok != "tok" {
		t.Fatalf("unexpected load: %+v %q %v %v", p, tok, found, err)
	}

	_ = store.Clear(ctx, "sid-1")
	if _, _, found, _ := store.Load(ctx, "sid-1"); found {
		t.Fatalf("cleared session still loads")
	}
}

func TestDedupChecker(t *testing.T) {
	d := NewDedupChecker()
	ctx := context.Background()

	if dup, _ := d.IsDuplicate(ctx, 1, "t"); dup {
		t.Fatalf("fresh event reported as duplicate")
	}
	_ = d.Mark(ctx, 1, "t")
	if dup, _ := d.IsDuplicate(ctx, 1, "t"); !dup {
		t.Fatalf("marked event not reported as duplicate")
	}
}
