package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/yourtrip/intermodal/internal/api"
	"github.com/yourtrip/intermodal/internal/models"
)

type HealthHandler struct {
	store models.HealthChecker
}

func NewHealthHandler(store models.HealthChecker) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) HandleRequest(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := h.store.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		return api.JSON(http.StatusServiceUnavailable, api.HealthResponse{Status: "degraded", Store: "unreachable"})
	}
	return api.Success(api.HealthResponse{Status: "ok", Store: "ok"})
}
