package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yourtrip/intermodal/internal/config"
	"github.com/yourtrip/intermodal/internal/models"
)

// StationListCache holds station listings in memory, keyed by the listing
// query, and expires them after the configured TTL.
type StationListCache struct {
	lru    *expirable.LRU[string, []models.Station]
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewStationListCache(cfg *config.CacheConfig) *StationListCache {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}
	return newStationListCache(cfg.StationLRUSize, cfg.GetStationLRUTTL())
}

func newStationListCache(size int, ttl time.Duration) *StationListCache {
	if size <= 0 {
		size = 1
	}
	return &StationListCache{
		lru: expirable.NewLRU[string, []models.Station](size, nil, ttl),
	}
}

func (c *StationListCache) Get(key string) ([]models.Station, bool) {
	stations, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return stations, ok
}

func (c *StationListCache) Set(key string, stations []models.Station) {
	c.lru.Add(key, stations)
}

func (c *StationListCache) Purge() {
	c.lru.Purge()
}

// Stats returns hit and miss counters.
func (c *StationListCache) Stats() map[string]uint64 {
	return map[string]uint64{
		"hits":   c.hits.Load(),
		"misses": c.misses.Load(),
	}
}
