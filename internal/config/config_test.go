package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigWithDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "mysql", cfg.StoreBackend)
	assert.Equal(t, "yourtrip_db", cfg.DBName)
	assert.Equal(t, 500, cfg.DefaultRadius)
	assert.Equal(t, 200, cfg.MinRadius)
	assert.Equal(t, 1000, cfg.MaxRadius)
	assert.Equal(t, 111.0, cfg.KmPerDegree)
	assert.NoError(t, cfg.Validate())
}

func TestOptions(t *testing.T) {
	cfg := New(
		WithEnvironment("development"),
		WithLogLevel("debug"),
		WithHTTPTimeout(30*time.Second),
		WithStoreBackend("dynamodb"),
		WithTables("s", "b", "r"),
		WithRadiusLimits(300, 100, 2000),
		WithKmPerDegree(111.32),
		WithStationSnapshotBucket("snapshots"),
	)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "dynamodb", cfg.StoreBackend)
	assert.Equal(t, "b", cfg.StopsTable)
	assert.Equal(t, 300, cfg.DefaultRadius)
	assert.Equal(t, 111.32, cfg.KmPerDegree)
	assert.Equal(t, "snapshots", cfg.StationSnapshotBucket)
}

func TestWithLogLevelInvalidFallsBackToInfo(t *testing.T) {
	cfg := New(WithLogLevel("loud"))

	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{name: "defaults", opts: nil},
		{name: "unknown backend", opts: []Option{WithStoreBackend("postgres")}, wantErr: true},
		{name: "inverted limits", opts: []Option{WithRadiusLimits(500, 1000, 200)}, wantErr: true},
		{name: "default outside limits", opts: []Option{WithRadiusLimits(1500, 200, 1000)}, wantErr: true},
		{name: "zero km per degree", opts: []Option{WithKmPerDegree(0)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.opts...).Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestInitializeLogging(t *testing.T) {
	cfg := New(WithEnvironment("local"), WithLogLevel("debug"))
	cfg.InitializeLogging()

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInitializeLoggingToWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := New(WithEnvironment("production"), WithLogLevel("info"))
	cfg.InitializeLoggingTo(&buf)
	t.Cleanup(func() { log.Logger = zerolog.New(os.Stderr) })

	log.Info().Str("station_id", "NS24").Msg("hello")

	assert.Contains(t, buf.String(), `"station_id":"NS24"`)
	assert.Contains(t, buf.String(), `"time":`)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("STORE_BACKEND", "dynamodb")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("QUERY_TIMEOUT", "2s")
	t.Setenv("DEFAULT_RADIUS", "400")
	t.Setenv("MAX_RADIUS", "800")
	t.Setenv("KM_PER_DEGREE", "111.32")
	t.Setenv("STATION_SNAPSHOT_BUCKET", "yourtrip-cache")

	cfg := LoadFromEnv()

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "dynamodb", cfg.StoreBackend)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 2*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 400, cfg.DefaultRadius)
	assert.Equal(t, 200, cfg.MinRadius)
	assert.Equal(t, 800, cfg.MaxRadius)
	assert.Equal(t, 111.32, cfg.KmPerDegree)
	assert.Equal(t, "yourtrip-cache", cfg.StationSnapshotBucket)
}

func TestLoadFromEnvReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_NAME=from_dotenv\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv("DB_NAME")
	})

	cfg := LoadFromEnv()
	assert.Equal(t, "from_dotenv", cfg.DBName)
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_VAR", "value")

	assert.Equal(t, "value", getEnvOrDefault("TEST_ENV_VAR", "default"))
	assert.Equal(t, "default", getEnvOrDefault("NON_EXISTENT_ENV_VAR", "default"))
}

func TestGetDurationEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_DURATION_ENV_VAR", "2s")
	t.Setenv("TEST_BAD_DURATION_ENV_VAR", "soon")

	assert.Equal(t, 2*time.Second, getDurationEnvOrDefault("TEST_DURATION_ENV_VAR", 1*time.Second))
	assert.Equal(t, 1*time.Second, getDurationEnvOrDefault("TEST_BAD_DURATION_ENV_VAR", 1*time.Second))
	assert.Equal(t, 1*time.Second, getDurationEnvOrDefault("NON_EXISTENT_DURATION_ENV_VAR", 1*time.Second))
}
