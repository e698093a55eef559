package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/yourtrip/intermodal/internal/api"
	"github.com/yourtrip/intermodal/internal/metrics"
	"github.com/yourtrip/intermodal/internal/models"
)

type StationsHandler struct {
	catalog models.StationCatalog
	metrics *metrics.Metrics
}

func NewStationsHandler(catalog models.StationCatalog, m *metrics.Metrics) *StationsHandler {
	return &StationsHandler{
		catalog: catalog,
		metrics: m,
	}
}

func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	query := strings.TrimSpace(request.QueryStringParameters["q"])

	stations, err := h.catalog.List(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Error listing stations")
		h.metrics.ObserveStationList(metrics.OutcomeInternal)
		return api.Error("Error listing stations", http.StatusInternalServerError)
	}
	if stations == nil {
		stations = []models.Station{}
	}

	h.metrics.ObserveStationList(metrics.OutcomeOK)
	return api.Success(api.StationsResponse{Stations: stations, Count: len(stations)})
}
