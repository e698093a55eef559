// Package station lists MRT stations for the dashboard's station picker.
package station

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/yourtrip/intermodal/internal/cache"
	"github.com/yourtrip/intermodal/internal/models"
)

const allStationsKey = "*"

// Lister reads the full station list from the backing store.
type Lister interface {
	ListStations(ctx context.Context) ([]models.Station, error)
}

// Catalog serves the station list through a memory cache and an optional S3
// snapshot in front of the store.
type Catalog struct {
	store    Lister
	memCache *cache.StationListCache
	snapshot cache.StationListCacheProvider
	pending  sync.WaitGroup
}

// NewCatalog builds a catalog. memCache and snapshot may be nil.
func NewCatalog(store Lister, memCache *cache.StationListCache, snapshot cache.StationListCacheProvider) *Catalog {
	return &Catalog{
		store:    store,
		memCache: memCache,
		snapshot: snapshot,
	}
}

// List returns stations ordered by name with duplicate names collapsed. A
// non-empty query keeps only names containing it, ignoring case.
func (c *Catalog) List(ctx context.Context, query string) ([]models.Station, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	key := "q:" + query

	if c.memCache != nil {
		if stations, ok := c.memCache.Get(key); ok {
			log.Debug().Str("query", query).Msg("Memory cache HIT for station list")
			return stations, nil
		}
	}

	all, err := c.allStations(ctx)
	if err != nil {
		return nil, err
	}

	result := all
	if query != "" {
		result = make([]models.Station, 0)
		for _, s := range all {
			if strings.Contains(strings.ToLower(s.Name), query) {
				result = append(result, s)
			}
		}
	}

	if c.memCache != nil {
		c.memCache.Set(key, result)
	}
	return result, nil
}

// Wait blocks until background snapshot writes have finished.
func (c *Catalog) Wait() {
	c.pending.Wait()
}

func (c *Catalog) allStations(ctx context.Context) ([]models.Station, error) {
	if c.memCache != nil {
		if stations, ok := c.memCache.Get(allStationsKey); ok {
			return stations, nil
		}
	}

	if c.snapshot != nil {
		stations, err := c.snapshot.GetStations(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Error getting stations from S3 snapshot")
		} else if stations != nil {
			log.Debug().Msg("S3 snapshot HIT for station list")
			c.remember(stations)
			return stations, nil
		}
	}

	log.Debug().Msg("Cache MISS for station list, querying store")
	raw, err := c.store.ListStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	stations := normalize(raw)

	if c.snapshot != nil {
		c.pending.Add(1)
		go func() {
			defer c.pending.Done()
			if err := c.snapshot.SaveStations(context.Background(), stations); err != nil {
				log.Error().Err(err).Msg("Failed to save stations to S3 snapshot")
			}
		}()
	}

	c.remember(stations)
	return stations, nil
}

func (c *Catalog) remember(stations []models.Station) {
	if c.memCache != nil {
		c.memCache.Set(allStationsKey, stations)
	}
}

// normalize sorts by name then id and keeps the first station of each name.
func normalize(raw []models.Station) []models.Station {
	sorted := make([]models.Station, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	stations := make([]models.Station, 0, len(sorted))
	seen := make(map[string]struct{}, len(sorted))
	for _, s := range sorted {
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		stations = append(stations, s)
	}
	return stations
}
