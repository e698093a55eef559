package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// In-memory station list cache
	StationLRUSize       int
	StationLRUTTLMinutes int

	// S3 station list snapshot
	StationSnapshotTTLHours int

	EnableLRUCache bool
	EnableS3Cache  bool
}

const (
	defaultStationLRUSize          = 256
	defaultStationLRUTTLMinutes    = 60
	defaultStationSnapshotTTLHours = 24
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		StationLRUSize:          getEnvInt("CACHE_STATION_LRU_SIZE", defaultStationLRUSize),
		StationLRUTTLMinutes:    getEnvInt("CACHE_STATION_LRU_TTL_MINUTES", defaultStationLRUTTLMinutes),
		StationSnapshotTTLHours: getEnvInt("CACHE_STATION_SNAPSHOT_TTL_HOURS", defaultStationSnapshotTTLHours),
		EnableLRUCache:          getEnvBool("CACHE_ENABLE_LRU", true),
		EnableS3Cache:           getEnvBool("CACHE_ENABLE_S3", true),
	}

	log.Debug().
		Int("StationLRUSize", config.StationLRUSize).
		Int("StationLRUTTLMinutes", config.StationLRUTTLMinutes).
		Int("StationSnapshotTTLHours", config.StationSnapshotTTLHours).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Bool("EnableS3Cache", config.EnableS3Cache).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetStationLRUTTL() time.Duration {
	return time.Duration(c.StationLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetStationSnapshotTTL() time.Duration {
	return time.Duration(c.StationSnapshotTTLHours) * time.Hour
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
