package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/yourtrip/intermodal/internal/app"
	"github.com/yourtrip/intermodal/internal/config"
	"github.com/yourtrip/intermodal/internal/handler"
)

var (
	stationsHandler *handler.StationsHandler
	setupOnce       sync.Once
)

func setup() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	log.Info().Str("env", cfg.Environment).Str("backend", cfg.StoreBackend).Msg("Environment")

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise application")
	}
	stationsHandler = a.Stations
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log.Info().Msg("Handling Lambda request")
	return stationsHandler.HandleRequest(ctx, request)
}

func main() {
	setupOnce.Do(setup)
	lambda.Start(handleRequest)
}
