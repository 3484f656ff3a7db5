// Package repository persists per-action handling status (sent, moved,
// noted, dismissed) in Redis so the board survives API restarts and is
// shared across replicas. Each enrichment run resets it.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"pipeline_portal_backend/internal/dashboard/transport"

	"github.com/redis/go-redis/v9"
)

const statusKey = "dashboard:sent_status"

type Repository struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Repository {
	return &Repository{rdb: rdb}
}

// Set records the handling status for one action ID.
func (r *Repository) Set(ctx context.Context, actionID string, entry transport.StatusEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode status entry: %w", err)
	}
	return r.rdb.HSet(ctx, statusKey, actionID, data).Err()
}

// All returns the full status map. An empty board is an empty map.
func (r *Repository) All(ctx context.Context) (map[string]transport.StatusEntry, error) {
	raw, err := r.rdb.HGetAll(ctx, statusKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read status map: %w", err)
	}
	out := make(map[string]transport.StatusEntry, len(raw))
	for id, data := range raw {
		var entry transport.StatusEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			continue
		}
		out[id] = entry
	}
	return out, nil
}

// Merge applies a batch of status updates.
func (r *Repository) Merge(ctx context.Context, entries map[string]transport.StatusEntry) error {
	for id, entry := range entries {
		if err := r.Set(ctx, id, entry); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears all statuses, done at the end of each enrichment run.
func (r *Repository) Reset(ctx context.Context) error {
	return r.rdb.Del(ctx, statusKey).Err()
}
