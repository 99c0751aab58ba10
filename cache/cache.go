package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs per key class. Entries are advisory: nothing invalidates them on
// write, they simply age out. Counters (like_count, rating) are never
// cached and must always be read from the database.
const (
	SearchTTL       = 5 * time.Minute
	SuggestionTTL   = 3 * time.Minute
	NearbyPlacesTTL = 5 * time.Minute
)

const (
	searchKeyPrefix  = "search:"
	suggestKeyPrefix = "suggest:"
	nearbyKeyPrefix  = "nearby:"
)

// Cache is a thin TTL memoization layer over redis. A nil *Cache is
// valid and behaves as always-miss, so callers don't need to branch on
// whether redis is configured.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb}
}

// GetJSON loads the value at key into dest. The second return value is
// false on a miss; redis transport errors are returned so the caller
// can log them, but callers treat any error as a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value at key with the given TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

// SearchKey is keyed by the exact query string, so "tokyo" and "Tokyo "
// are distinct entries even though the search itself is case-insensitive.
func SearchKey(query string) string {
	return searchKeyPrefix + query
}

func SuggestionKey(query string) string {
	return suggestKeyPrefix + query
}

func NearbyKey(lat, lon, radiusKm float64) string {
	return fmt.Sprintf("%s%v:%v:%v", nearbyKeyPrefix, lat, lon, radiusKm)
}
