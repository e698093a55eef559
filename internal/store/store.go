// Package store holds the persistence adapters behind the transfer analyzer
// and the station catalog.
package store

import (
	"context"

	"github.com/yourtrip/intermodal/internal/models"
	"github.com/yourtrip/intermodal/internal/transfer"
)

// Store is what the rest of the service needs from a backend.
type Store interface {
	transfer.Store
	ListStations(ctx context.Context) ([]models.Station, error)
	Ping(ctx context.Context) error
	Close() error
}

const (
	BackendMySQL    = "mysql"
	BackendDynamoDB = "dynamodb"
)
