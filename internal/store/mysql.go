package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/yourtrip/intermodal/internal/geo"
	"github.com/yourtrip/intermodal/internal/models"
)

// MySQLOptions configures the connection pool.
type MySQLOptions struct {
	Host         string
	Port         string
	Database     string
	User         string
	Password     string
	MaxOpenConns int
	QueryTimeout time.Duration
}

// MySQLStore reads the dashboard schema: MRTStations, BusStops and Routes.
type MySQLStore struct {
	db           *sql.DB
	queryTimeout time.Duration
}

var _ Store = (*MySQLStore)(nil)

// OpenMySQL opens a pool. It does not dial; call Ping to verify.
func OpenMySQL(opts MySQLOptions) (*MySQLStore, error) {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(opts.Host, opts.Port)
	cfg.DBName = opts.Database
	cfg.User = opts.User
	cfg.Passwd = opts.Password
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("opening mysql: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxOpenConns)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Debug().Str("addr", cfg.Addr).Str("database", cfg.DBName).Msg("Opened MySQL pool")
	return NewMySQLStore(db, opts.QueryTimeout), nil
}

func NewMySQLStore(db *sql.DB, queryTimeout time.Duration) *MySQLStore {
	return &MySQLStore{db: db, queryTimeout: queryTimeout}
}

func (s *MySQLStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *MySQLStore) StationByID(ctx context.Context, stationID string) (*models.Station, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		station  models.Station
		lat, lng sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT stop_id, name, lat, lng
		FROM MRTStations
		WHERE stop_id = ?
		LIMIT 1`, stationID).Scan(&station.ID, &station.Name, &lat, &lng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying station %s: %w", stationID, err)
	}
	if !lat.Valid || !lng.Valid {
		return nil, fmt.Errorf("station %s has no coordinates", stationID)
	}
	station.Latitude = lat.Float64
	station.Longitude = lng.Float64
	return &station, nil
}

func (s *MySQLStore) StopsInBounds(ctx context.Context, bounds geo.Bounds) ([]models.Stop, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT BUS_STOP, LOC_DESC, Latitude, Longitude
		FROM BusStops
		WHERE LOC_DESC IS NOT NULL
			AND LOC_DESC <> ''
			AND Latitude IS NOT NULL
			AND Longitude IS NOT NULL
			AND Latitude BETWEEN ? AND ?
			AND Longitude BETWEEN ? AND ?
		ORDER BY BUS_STOP`,
		bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon)
	if err != nil {
		return nil, fmt.Errorf("querying stops in bounds: %w", err)
	}
	defer rows.Close()

	var stops []models.Stop
	for rows.Next() {
		var stop models.Stop
		if err := rows.Scan(&stop.Code, &stop.Name, &stop.Latitude, &stop.Longitude); err != nil {
			return nil, fmt.Errorf("scanning stop: %w", err)
		}
		stops = append(stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stops: %w", err)
	}

	log.Debug().Int("stops", len(stops)).Msg("Loaded candidate stops")
	return stops, nil
}

// ServicesForStops issues one IN (...) query regardless of how many codes
// are passed.
func (s *MySQLStore) ServicesForStops(ctx context.Context, stopCodes []string) ([]models.ServiceMembership, error) {
	if len(stopCodes) == 0 {
		return nil, nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(stopCodes)), ",")
	args := make([]any, len(stopCodes))
	for i, code := range stopCodes {
		args[i] = code
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT BusStopCode, ServiceNo
		FROM Routes
		WHERE BusStopCode IN (`+placeholders+`)
		ORDER BY BusStopCode, ServiceNo`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying services for %d stops: %w", len(stopCodes), err)
	}
	defer rows.Close()

	var memberships []models.ServiceMembership
	for rows.Next() {
		var m models.ServiceMembership
		if err := rows.Scan(&m.StopCode, &m.ServiceNo); err != nil {
			return nil, fmt.Errorf("scanning service membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating service memberships: %w", err)
	}
	return memberships, nil
}

func (s *MySQLStore) ListStations(ctx context.Context) ([]models.Station, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT stop_id, name, lat, lng
		FROM MRTStations
		WHERE lat IS NOT NULL AND lng IS NOT NULL
		ORDER BY name ASC, stop_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying stations: %w", err)
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var st models.Station
		if err := rows.Scan(&st.ID, &st.Name, &st.Latitude, &st.Longitude); err != nil {
			return nil, fmt.Errorf("scanning station: %w", err)
		}
		stations = append(stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stations: %w", err)
	}
	return stations, nil
}

func (s *MySQLStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}
