package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"

	"notehub/internal/domain"
)

const noteListKeyPrefix = "notes:"

// Freshness is driven by explicit invalidation; the TTL only bounds entries
// orphaned by a crash between a mutation and its invalidation.
const noteListTTL = 30 * time.Minute

// NoteListCache is the Redis-backed cache of per-user visible note lists.
type NoteListCache struct {
	redis *redis.Client
	log   *log.Helper
}

// NewNoteListCache creates a note list cache.
func NewNoteListCache(client *redis.Client, logger log.Logger) domain.NoteListCache {
	return &NoteListCache{
		redis: client,
		log:   log.NewHelper(log.With(logger, "module", "note-cache")),
	}
}

func (c *NoteListCache) key(userID string) string {
	return noteListKeyPrefix + userID
}

// Get implements domain.NoteListCache.
func (c *NoteListCache) Get(ctx context.Context, userID string) ([]*domain.Note, error) {
	data, err := c.redis.Get(ctx, c.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	var notes []*domain.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached notes: %w", err)
	}
	return notes, nil
}

// Set implements domain.NoteListCache.
func (c *NoteListCache) Set(ctx context.Context, userID string, notes []*domain.Note) error {
	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("failed to marshal notes: %w", err)
	}

	if err := c.redis.Set(ctx, c.key(userID), data, noteListTTL).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}

	c.log.WithContext(ctx).Debugf("cached note list for %s", userID)
	return nil
}

// Delete implements domain.NoteListCache.
func (c *NoteListCache) Delete(ctx context.Context, userID string) error {
	if err := c.redis.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}

	c.log.WithContext(ctx).Debugf("invalidated note list for %s", userID)
	return nil
}
