package repository

import (
	"context"
	"testing"

	"pipeline_portal_backend/internal/dashboard/transport"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb)
}

func TestSetAndAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Set(ctx, "3", transport.StatusEntry{Status: "sent", TS: 1756700000000}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Set(ctx, "7", transport.StatusEntry{Status: "dismissed", TS: 1756700001000}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all["3"].Status != "sent" {
		t.Errorf("status = %q, want sent", all["3"].Status)
	}
	if all["7"].TS != 1756700001000 {
		t.Errorf("ts = %d", all["7"].TS)
	}
}

func TestAll_EmptyBoard(t *testing.T) {
	repo := newTestRepo(t)

	all, err := repo.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("len = %d, want 0", len(all))
	}
}

func TestMergeAndReset(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.Merge(ctx, map[string]transport.StatusEntry{
		"1": {Status: "sent", TS: 1},
		"2": {Status: "moved", TS: 2},
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	all, err = repo.All(ctx)
	if err != nil {
		t.Fatalf("All after reset: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("len after reset = %d, want 0", len(all))
	}
}
