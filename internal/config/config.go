package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	MaxRetries  int
	Port        string

	StoreBackend string
	DBHost       string
	DBPort       string
	DBName       string
	DBUser       string
	DBPass       string
	DBMaxConns   int
	QueryTimeout time.Duration

	StationsTable string
	StopsTable    string
	ServicesTable string

	DefaultRadius int
	MinRadius     int
	MaxRadius     int
	KmPerDegree   float64

	StationSnapshotBucket string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithPort(port string) Option {
	return func(c *Config) {
		c.Port = port
	}
}

// WithStoreBackend selects "mysql" or "dynamodb"
func WithStoreBackend(backend string) Option {
	return func(c *Config) {
		c.StoreBackend = backend
	}
}

func WithDatabase(host, port, name, user, pass string) Option {
	return func(c *Config) {
		c.DBHost = host
		c.DBPort = port
		c.DBName = name
		c.DBUser = user
		c.DBPass = pass
	}
}

func WithQueryTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.QueryTimeout = timeout
	}
}

func WithTables(stations, stops, services string) Option {
	return func(c *Config) {
		c.StationsTable = stations
		c.StopsTable = stops
		c.ServicesTable = services
	}
}

// WithRadiusLimits sets the default radius and the clamp applied at the
// HTTP boundary
func WithRadiusLimits(defaultRadius, minRadius, maxRadius int) Option {
	return func(c *Config) {
		c.DefaultRadius = defaultRadius
		c.MinRadius = minRadius
		c.MaxRadius = maxRadius
	}
}

func WithKmPerDegree(km float64) Option {
	return func(c *Config) {
		c.KmPerDegree = km
	}
}

func WithStationSnapshotBucket(bucket string) Option {
	return func(c *Config) {
		c.StationSnapshotBucket = bucket
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:   "production",
		LogLevel:      zerolog.InfoLevel,
		HTTPTimeout:   10 * time.Second,
		MaxRetries:    3,
		Port:          "8080",
		StoreBackend:  "mysql",
		DBHost:        "127.0.0.1",
		DBPort:        "3306",
		DBName:        "yourtrip_db",
		DBMaxConns:    10,
		QueryTimeout:  5 * time.Second,
		StationsTable: "mrt-stations",
		StopsTable:    "bus-stops",
		ServicesTable: "bus-stop-services",
		DefaultRadius: 500,
		MinRadius:     200,
		MaxRadius:     1000,
		KmPerDegree:   111,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Validate checks the values that would otherwise fail deep inside a request
func (c *Config) Validate() error {
	if c.StoreBackend != "mysql" && c.StoreBackend != "dynamodb" {
		return fmt.Errorf("unknown store backend: %q", c.StoreBackend)
	}
	if c.MinRadius <= 0 || c.MaxRadius < c.MinRadius {
		return fmt.Errorf("invalid radius limits: min %d, max %d", c.MinRadius, c.MaxRadius)
	}
	if c.DefaultRadius < c.MinRadius || c.DefaultRadius > c.MaxRadius {
		return fmt.Errorf("default radius %d outside [%d, %d]", c.DefaultRadius, c.MinRadius, c.MaxRadius)
	}
	if c.KmPerDegree <= 0 {
		return fmt.Errorf("invalid km per degree: %f", c.KmPerDegree)
	}
	return nil
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	c.InitializeLoggingTo(os.Stdout)
}

// InitializeLoggingTo is InitializeLogging with an explicit destination.
func (c *Config) InitializeLoggingTo(w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
		return
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// LoadFromEnv loads configuration from environment variables, reading a .env
// file first when one exists
func LoadFromEnv() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Could not read .env file")
	}

	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithPort(getEnvOrDefault("PORT", "8080")),
		WithStoreBackend(getEnvOrDefault("STORE_BACKEND", "mysql")),
		WithDatabase(
			getEnvOrDefault("DB_HOST", "127.0.0.1"),
			getEnvOrDefault("DB_PORT", "3306"),
			getEnvOrDefault("DB_NAME", "yourtrip_db"),
			getEnvOrDefault("DB_USER", ""),
			getEnvOrDefault("DB_PASS", ""),
		),
		func(c *Config) { c.DBMaxConns = getIntEnvOrDefault("DB_MAX_OPEN_CONNS", 10) },
		WithQueryTimeout(getDurationEnvOrDefault("QUERY_TIMEOUT", 5*time.Second)),
		WithTables(
			getEnvOrDefault("DYNAMODB_STATIONS_TABLE", "mrt-stations"),
			getEnvOrDefault("DYNAMODB_STOPS_TABLE", "bus-stops"),
			getEnvOrDefault("DYNAMODB_SERVICES_TABLE", "bus-stop-services"),
		),
		WithRadiusLimits(
			getIntEnvOrDefault("DEFAULT_RADIUS", 500),
			getIntEnvOrDefault("MIN_RADIUS", 200),
			getIntEnvOrDefault("MAX_RADIUS", 1000),
		),
		WithKmPerDegree(getFloatEnvOrDefault("KM_PER_DEGREE", 111)),
		WithStationSnapshotBucket(os.Getenv("STATION_SNAPSHOT_BUCKET")),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultValue
}

func getFloatEnvOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
