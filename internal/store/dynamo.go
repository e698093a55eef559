package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/yourtrip/intermodal/internal/geo"
	"github.com/yourtrip/intermodal/internal/models"
)

// maxBatchGetKeys is the BatchGetItem per-request key limit.
const maxBatchGetKeys = 100

// DynamoDBAPI is the subset of the DynamoDB client the store uses.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoTables names the three tables backing the store.
type DynamoTables struct {
	Stations string
	Stops    string
	Services string
}

type stationItem struct {
	StopID string   `dynamodbav:"stopId"`
	Name   string   `dynamodbav:"name"`
	Lat    *float64 `dynamodbav:"lat"`
	Lng    *float64 `dynamodbav:"lng"`
}

type stopItem struct {
	BusStopCode string   `dynamodbav:"busStopCode"`
	Description string   `dynamodbav:"description"`
	Latitude    *float64 `dynamodbav:"latitude"`
	Longitude   *float64 `dynamodbav:"longitude"`
}

// stopServicesItem keeps every service of a stop on one item so a batch of
// stops resolves with BatchGetItem instead of one Query per stop.
type stopServicesItem struct {
	BusStopCode string   `dynamodbav:"busStopCode"`
	Services    []string `dynamodbav:"services,stringset"`
}

// DynamoStore serves the same reads as MySQLStore from DynamoDB.
type DynamoStore struct {
	client          DynamoDBAPI
	tables          DynamoTables
	maxBatchRetries int
	backoff         time.Duration
}

var _ Store = (*DynamoStore)(nil)

func NewDynamoStore(client DynamoDBAPI, tables DynamoTables, maxBatchRetries int) *DynamoStore {
	if maxBatchRetries <= 0 {
		maxBatchRetries = 3
	}
	return &DynamoStore{
		client:          client,
		tables:          tables,
		maxBatchRetries: maxBatchRetries,
		backoff:         100 * time.Millisecond,
	}
}

func (s *DynamoStore) StationByID(ctx context.Context, stationID string) (*models.Station, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tables.Stations),
		Key: map[string]types.AttributeValue{
			"stopId": &types.AttributeValueMemberS{Value: stationID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting station %s from DynamoDB: %w", stationID, err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item stationItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshaling station: %w", err)
	}
	if item.Lat == nil || item.Lng == nil {
		return nil, fmt.Errorf("station %s has no coordinates", stationID)
	}

	return &models.Station{
		ID:        item.StopID,
		Name:      item.Name,
		Latitude:  *item.Lat,
		Longitude: *item.Lng,
	}, nil
}

// StopsInBounds scans the stops table with the bounding box as a filter
// expression.
func (s *DynamoStore) StopsInBounds(ctx context.Context, bounds geo.Bounds) ([]models.Stop, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.tables.Stops),
		FilterExpression: aws.String("#lat BETWEEN :minLat AND :maxLat AND #lon BETWEEN :minLon AND :maxLon " +
			"AND attribute_exists(#desc) AND #desc <> :empty"),
		ExpressionAttributeNames: map[string]string{
			"#lat":  "latitude",
			"#lon":  "longitude",
			"#desc": "description",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":minLat": numberValue(bounds.MinLat),
			":maxLat": numberValue(bounds.MaxLat),
			":minLon": numberValue(bounds.MinLon),
			":maxLon": numberValue(bounds.MaxLon),
			":empty":  &types.AttributeValueMemberS{Value: ""},
		},
	}

	var stops []models.Stop
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scanning stops: %w", err)
		}

		var items []stopItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshaling stops: %w", err)
		}
		for _, item := range items {
			if item.Latitude == nil || item.Longitude == nil {
				continue
			}
			stops = append(stops, models.Stop{
				Code:      item.BusStopCode,
				Name:      item.Description,
				Latitude:  *item.Latitude,
				Longitude: *item.Longitude,
			})
		}
	}

	log.Debug().Int("stops", len(stops)).Msg("Scanned candidate stops")
	return stops, nil
}

// ServicesForStops batches stop codes into BatchGetItem requests of at most
// 100 keys and retries unprocessed keys with exponential backoff.
func (s *DynamoStore) ServicesForStops(ctx context.Context, stopCodes []string) ([]models.ServiceMembership, error) {
	var memberships []models.ServiceMembership

	for i := 0; i < len(stopCodes); i += maxBatchGetKeys {
		end := i + maxBatchGetKeys
		if end > len(stopCodes) {
			end = len(stopCodes)
		}

		keys := make([]map[string]types.AttributeValue, 0, end-i)
		for _, code := range stopCodes[i:end] {
			keys = append(keys, map[string]types.AttributeValue{
				"busStopCode": &types.AttributeValueMemberS{Value: code},
			})
		}

		items, err := s.batchGet(ctx, keys)
		if err != nil {
			return nil, err
		}

		for _, raw := range items {
			var item stopServicesItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("unmarshaling stop services: %w", err)
			}
			for _, service := range item.Services {
				memberships = append(memberships, models.ServiceMembership{
					StopCode:  item.BusStopCode,
					ServiceNo: service,
				})
			}
		}
	}

	return memberships, nil
}

func (s *DynamoStore) batchGet(ctx context.Context, keys []map[string]types.AttributeValue) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	request := map[string]types.KeysAndAttributes{
		s.tables.Services: {Keys: keys},
	}

	for retry := 0; ; retry++ {
		out, err := s.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
		if err != nil {
			return nil, fmt.Errorf("batch getting stop services: %w", err)
		}
		items = append(items, out.Responses[s.tables.Services]...)

		unprocessed, ok := out.UnprocessedKeys[s.tables.Services]
		if !ok || len(unprocessed.Keys) == 0 {
			return items, nil
		}
		if retry >= s.maxBatchRetries {
			return nil, fmt.Errorf("batch getting stop services: %d keys unprocessed after %d retries",
				len(unprocessed.Keys), s.maxBatchRetries)
		}

		log.Debug().Int("unprocessed", len(unprocessed.Keys)).Int("retry", retry+1).Msg("Retrying unprocessed keys")
		request = map[string]types.KeysAndAttributes{s.tables.Services: unprocessed}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(1<<retry) * s.backoff):
		}
	}
}

func (s *DynamoStore) ListStations(ctx context.Context) ([]models.Station, error) {
	var stations []models.Station
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.tables.Stations),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scanning stations: %w", err)
		}

		var items []stationItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshaling stations: %w", err)
		}
		for _, item := range items {
			if item.Lat == nil || item.Lng == nil {
				continue
			}
			stations = append(stations, models.Station{
				ID:        item.StopID,
				Name:      item.Name,
				Latitude:  *item.Lat,
				Longitude: *item.Lng,
			})
		}
	}
	return stations, nil
}

func (s *DynamoStore) Ping(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tables.Stations),
	})
	return err
}

func (s *DynamoStore) Close() error {
	return nil
}

func numberValue(f float64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(f, 'f', -1, 64)}
}
