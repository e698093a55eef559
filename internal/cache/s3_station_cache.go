package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"github.com/yourtrip/intermodal/internal/models"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

const snapshotKey = "mrt-stations.json"

// StationListCacheProvider persists the station list between cold starts.
type StationListCacheProvider interface {
	GetStations(ctx context.Context) ([]models.Station, error)
	SaveStations(ctx context.Context, stations []models.Station) error
}

// StationListCacheRecord is the snapshot document stored in S3.
type StationListCacheRecord struct {
	Stations    []models.Station `json:"stations"`
	LastUpdated int64            `json:"lastUpdated"`
	TTL         int64            `json:"ttl"`
}

// S3StationCache keeps a JSON snapshot of the station list in a bucket.
type S3StationCache struct {
	client     S3Client
	bucketName string
	ttl        time.Duration
	clock      clock
}

var _ StationListCacheProvider = (*S3StationCache)(nil)

func NewS3StationCache(client S3Client, bucketName string, ttl time.Duration) *S3StationCache {
	return &S3StationCache{
		client:     client,
		bucketName: bucketName,
		ttl:        ttl,
		clock:      systemClock{},
	}
}

// GetStations returns the snapshot, or nil when it is missing or expired.
func (c *S3StationCache) GetStations(ctx context.Context) ([]models.Station, error) {
	if c.bucketName == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(snapshotKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting station snapshot: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var record StationListCacheRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding station snapshot: %w", err)
	}

	if c.clock.Now().Unix() > record.TTL {
		log.Debug().Msg("Station snapshot expired")
		return nil, nil
	}

	return record.Stations, nil
}

func (c *S3StationCache) SaveStations(ctx context.Context, stations []models.Station) error {
	if c.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	now := c.clock.Now().Unix()
	record := StationListCacheRecord{
		Stations:    stations,
		LastUpdated: now,
		TTL:         now + int64(c.ttl.Seconds()),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding station snapshot: %w", err)
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(snapshotKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("saving station snapshot: %w", err)
	}

	log.Debug().Int("station_count", len(stations)).Msg("Saved station list to S3")
	return nil
}
