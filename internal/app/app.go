// Package app wires configuration, stores, caches and handlers together for
// the Lambda entry points and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/yourtrip/intermodal/internal/api"
	"github.com/yourtrip/intermodal/internal/cache"
	"github.com/yourtrip/intermodal/internal/config"
	"github.com/yourtrip/intermodal/internal/handler"
	"github.com/yourtrip/intermodal/internal/metrics"
	"github.com/yourtrip/intermodal/internal/server"
	"github.com/yourtrip/intermodal/internal/station"
	"github.com/yourtrip/intermodal/internal/store"
	"github.com/yourtrip/intermodal/internal/transfer"
)

type App struct {
	Config   *config.Config
	Store    store.Store
	Analyzer *transfer.Analyzer
	Catalog  *station.Catalog
	Metrics  *metrics.Metrics

	Intermodal *handler.IntermodalHandler
	Stations   *handler.StationsHandler
	Health     *handler.HealthHandler

	gatherer prometheus.Gatherer
}

type Option func(*options)

type options struct {
	store      store.Store
	s3Client   cache.S3Client
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	cacheCfg   *config.CacheConfig
}

// WithStore skips opening a backend from configuration.
func WithStore(s store.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithS3Client supplies the client used for the station snapshot.
func WithS3Client(c cache.S3Client) Option {
	return func(o *options) {
		o.s3Client = c
	}
}

// WithRegistry registers collectors on reg and serves /metrics from it.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registerer = reg
		o.gatherer = reg
	}
}

func WithCacheConfig(c *config.CacheConfig) Option {
	return func(o *options) {
		o.cacheCfg = c
	}
}

// New builds the application graph from cfg.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cacheCfg == nil {
		o.cacheCfg = config.GetCacheConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	st := o.store
	if st == nil {
		var err error
		st, err = OpenStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	var memCache *cache.StationListCache
	if o.cacheCfg.EnableLRUCache {
		memCache = cache.NewStationListCache(o.cacheCfg)
	}

	var snapshot cache.StationListCacheProvider
	if o.cacheCfg.EnableS3Cache && cfg.StationSnapshotBucket != "" {
		client := o.s3Client
		if client == nil {
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				_ = st.Close()
				return nil, fmt.Errorf("loading aws config: %w", err)
			}
			client = s3.NewFromConfig(awsCfg)
		}
		snapshot = cache.NewS3StationCache(client, cfg.StationSnapshotBucket, o.cacheCfg.GetStationSnapshotTTL())
	}

	m := metrics.New(o.registerer)
	analyzer := transfer.NewAnalyzer(st, transfer.WithKmPerDegree(cfg.KmPerDegree))
	catalog := station.NewCatalog(st, memCache, snapshot)
	limits := api.RadiusLimits{Default: cfg.DefaultRadius, Min: cfg.MinRadius, Max: cfg.MaxRadius}

	log.Debug().
		Str("backend", cfg.StoreBackend).
		Bool("lru", memCache != nil).
		Bool("snapshot", snapshot != nil).
		Msg("Application wired")

	return &App{
		Config:     cfg,
		Store:      st,
		Analyzer:   analyzer,
		Catalog:    catalog,
		Metrics:    m,
		Intermodal: handler.NewIntermodalHandler(analyzer, limits, m),
		Stations:   handler.NewStationsHandler(catalog, m),
		Health:     handler.NewHealthHandler(st),
		gatherer:   o.gatherer,
	}, nil
}

// OpenStore opens the backend named by cfg.StoreBackend.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case store.BackendMySQL:
		st, err := store.OpenMySQL(store.MySQLOptions{
			Host:         cfg.DBHost,
			Port:         cfg.DBPort,
			Database:     cfg.DBName,
			User:         cfg.DBUser,
			Password:     cfg.DBPass,
			MaxOpenConns: cfg.DBMaxConns,
			QueryTimeout: cfg.QueryTimeout,
		})
		if err != nil {
			return nil, err
		}
		return st, nil
	case store.BackendDynamoDB:
		client, err := store.NewDynamoClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating dynamodb client: %w", err)
		}
		return store.NewDynamoStore(client, store.DynamoTables{
			Stations: cfg.StationsTable,
			Stops:    cfg.StopsTable,
			Services: cfg.ServicesTable,
		}, cfg.MaxRetries), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.StoreBackend)
	}
}

// Router mounts every handler on a net/http router.
func (a *App) Router() http.Handler {
	return server.NewRouter(server.Routes{
		Intermodal: a.Intermodal.HandleRequest,
		Stations:   a.Stations.HandleRequest,
		Health:     a.Health.HandleRequest,
	}, a.Metrics, a.gatherer, a.Config.HTTPTimeout)
}

// Close waits for pending snapshot writes and releases the store.
func (a *App) Close() error {
	a.Catalog.Wait()
	return a.Store.Close()
}
