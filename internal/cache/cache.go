package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boring-ventures/ubigroup-sub000/internal/monitoring"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache is a JSON-over-Redis cache for listing collections and dashboard
// counts. Moderation transitions invalidate the affected keys so dependent
// views re-fetch fresh data.
type Cache struct {
	c   *redis.Client
	ttl time.Duration
}

// New creates a cache from a redis URL (redis://host:port/db).
func New(redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return &Cache{c: redis.NewClient(opts), ttl: ttl}, nil
}

// Get reads key into dst, reporting whether the key was present.
func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		monitoring.RecordCacheMiss("listings")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	monitoring.RecordCacheHit("listings")
	return true, json.Unmarshal(v, dst)
}

// Set stores v under key for the configured TTL.
func (r *Cache) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.c.Set(ctx, key, b, r.ttl).Err()
}

// Del removes keys.
func (r *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.c.Del(ctx, keys...).Err()
}

// Ping checks connectivity.
func (r *Cache) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

// Key builders. Collections are scoped either to an owning agent or to the
// admin moderation view; stats keys mirror that scoping.

// AgentListingsKey is the owner-scoped listing collection key.
func AgentListingsKey(agentID uuid.UUID) string {
	return fmt.Sprintf("listings:agent:%s", agentID)
}

// AdminListingsKey is the moderation view collection key.
func AdminListingsKey() string {
	return "listings:admin"
}

// PublicListingsKey is the approved-only public collection key.
func PublicListingsKey() string {
	return "listings:public"
}

// AgentStatsKey is the owner-scoped count-by-status key.
func AgentStatsKey(agentID uuid.UUID) string {
	return fmt.Sprintf("stats:agent:%s", agentID)
}

// AdminStatsKey is the global count-by-status key.
func AdminStatsKey() string {
	return "stats:admin"
}

// ListingScopeKeys returns every collection and stats key a listing owned
// by agentID can appear in.
func ListingScopeKeys(agentID uuid.UUID) []string {
	return []string{
		AgentListingsKey(agentID),
		AgentStatsKey(agentID),
		AdminListingsKey(),
		AdminStatsKey(),
		PublicListingsKey(),
	}
}

// InvalidateListingScopes drops every key in the listing's scope set.
// Called after each successful mutation.
func (r *Cache) InvalidateListingScopes(ctx context.Context, agentID uuid.UUID) error {
	return r.Del(ctx, ListingScopeKeys(agentID)...)
}
