package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MajedBannouri/Taski/models"
)

const userCacheTTL = 5 * time.Minute

// Cache is an optional Redis read-through cache for user records. Cache
// failures are logged and treated as misses; the store of record stays
// authoritative. A nil *Cache disables caching.
//
// Cached values go through the JSON form, which drops the password hash, so
// they serve identity and display lookups only. Credential checks read the
// store directly via UserByEmail.
type Cache struct {
	rdb *redis.Client
}

// NewCache wraps a connected Redis client.
func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func userCacheKey(id string) string {
	return fmt.Sprintf("User: %s", id)
}

func (c *Cache) getUser(ctx context.Context, id string) (models.User, bool) {
	if c == nil {
		return models.User{}, false
	}
	val, err := c.rdb.Get(ctx, userCacheKey(id)).Result()
	if err != nil {
		return models.User{}, false
	}
	var u models.User
	if err := json.Unmarshal([]byte(val), &u); err != nil {
		return models.User{}, false
	}
	return u, true
}

func (c *Cache) setUser(ctx context.Context, id string, u models.User) {
	if c == nil {
		return
	}
	data, err := json.Marshal(u)
	if err != nil {
		log.Printf("WARN: could not marshal user %s for cache: %v", id, err)
		return
	}
	if err := c.rdb.Set(ctx, userCacheKey(id), data, userCacheTTL).Err(); err != nil {
		log.Printf("WARN: failed to set cache key %s: %v", userCacheKey(id), err)
	}
}
