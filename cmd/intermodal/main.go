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
	intermodalHandler *handler.IntermodalHandler
	setupOnce         sync.Once
)

func setup() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	log.Info().Str("env", cfg.Environment).Str("backend", cfg.StoreBackend).Msg("Environment")

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise application")
	}
	intermodalHandler = a.Intermodal
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log.Debug().Interface("params", request.QueryStringParameters).Msg("Handling Lambda request")
	return intermodalHandler.HandleRequest(ctx, request)
}

func main() {
	setupOnce.Do(setup)
	lambda.Start(handleRequest)
}
