package stationcache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/rs/zerolog/log"
	"github.com/zugreise/zugreise/pkg/redis_client"
	"github.com/zugreise/zugreise/pkg/transit"
)

const keyPrefix = "zugreise/stations/"

// Cache shares station search responses between sessions. Entries expire
// after 90 minutes; a cache failure is treated as a miss.
type Cache struct {
	Cache *cache.Cache[string]
}

func (c *Cache) Setup() {
	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(90*time.Minute))

	c.Cache = cache.New[string](redisStore)
}

func (c *Cache) Get(ctx context.Context, term string) ([]transit.Station, bool) {
	value, err := c.Cache.Get(ctx, cacheKey(term))
	if err != nil {
		return nil, false
	}

	var stations []transit.Station
	if err := json.Unmarshal([]byte(value), &stations); err != nil {
		log.Debug().Err(err).Str("term", term).Msg("Discarding undecodable station cache entry")
		return nil, false
	}

	return stations, true
}

func (c *Cache) Set(ctx context.Context, term string, stations []transit.Station) {
	value, err := json.Marshal(stations)
	if err != nil {
		return
	}

	if err := c.Cache.Set(ctx, cacheKey(term), string(value)); err != nil {
		log.Debug().Err(err).Str("term", term).Msg("Failed to cache station search")
	}
}

func cacheKey(term string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(term))
}
