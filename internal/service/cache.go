package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/mealplanner-v2/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

const favoritesCacheTTL = 5 * time.Minute

// FavoritesCache is an advisory read cache for favorite lists. It is never a
// source of truth: every write path invalidates before returning, and a nil
// redis client turns every method into a pass-through so correctness does not
// depend on the cache being up.
type FavoritesCache struct {
	redis *redis.Client
}

// NewFavoritesCache creates a cache backed by the given client, which may be nil.
func NewFavoritesCache(client *redis.Client) *FavoritesCache {
	return &FavoritesCache{redis: client}
}

func favoritesKey(userID uuid.UUID) string {
	return fmt.Sprintf("favorites:user:%s", userID)
}

// Get returns the cached favorite list for a user, if present.
func (c *FavoritesCache) Get(ctx context.Context, userID uuid.UUID) ([]models.Favorite, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}

	data, err := c.redis.Get(ctx, favoritesKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}

	var favorites []models.Favorite
	if err := json.Unmarshal(data, &favorites); err != nil {
		// Stale or corrupt entry; drop it.
		c.Invalidate(ctx, userID)
		return nil, false
	}
	return favorites, true
}

// Set stores a favorite list with a TTL. Failures are logged, not returned:
// a missed cache write must never fail the read it decorates.
func (c *FavoritesCache) Set(ctx context.Context, userID uuid.UUID, favorites []models.Favorite) {
	if c == nil || c.redis == nil {
		return
	}

	data, err := json.Marshal(favorites)
	if err != nil {
		log.Printf("favorites cache marshal failed for user %s: %v", userID, err)
		return
	}
	if err := c.redis.Set(ctx, favoritesKey(userID), data, favoritesCacheTTL).Err(); err != nil {
		log.Printf("favorites cache set failed for user %s: %v", userID, err)
	}
}

// Invalidate drops the cached list for a user.
func (c *FavoritesCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, favoritesKey(userID)).Err(); err != nil {
		log.Printf("favorites cache invalidate failed for user %s: %v", userID, err)
	}
}
