package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/yourtrip/intermodal/internal/api"
	"github.com/yourtrip/intermodal/internal/metrics"
	"github.com/yourtrip/intermodal/internal/models"
	"github.com/yourtrip/intermodal/internal/transfer"
)

type IntermodalHandler struct {
	analyzer models.TransferAnalyzer
	limits   api.RadiusLimits
	metrics  *metrics.Metrics
}

func NewIntermodalHandler(analyzer models.TransferAnalyzer, limits api.RadiusLimits, m *metrics.Metrics) *IntermodalHandler {
	return &IntermodalHandler{
		analyzer: analyzer,
		limits:   limits,
		metrics:  m,
	}
}

func (h *IntermodalHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	stationID, ok := api.StationID(params)
	if !ok {
		h.metrics.ObserveAnalysis(metrics.OutcomeBadRequest, 0)
		return api.Error("Missing station_id parameter", http.StatusBadRequest)
	}
	radius := api.ParseRadius(params, h.limits)

	result, err := h.analyzer.Analyze(ctx, stationID, radius)
	if err != nil {
		return h.failure(stationID, radius, err)
	}

	h.metrics.ObserveAnalysis(metrics.OutcomeOK, result.TotalBusStops)
	return api.Success(result)
}

func (h *IntermodalHandler) failure(stationID string, radius int, err error) (events.APIGatewayProxyResponse, error) {
	var (
		notFound      *transfer.NotFoundError
		invalidRadius *transfer.InvalidRadiusError
		invalidCenter *transfer.InvalidCenterError
		downstream    *transfer.DownstreamError
	)

	switch {
	case errors.As(err, &notFound):
		h.metrics.ObserveAnalysis(metrics.OutcomeNotFound, 0)
		return api.Error("station not found", http.StatusNotFound)

	case errors.As(err, &invalidRadius):
		h.metrics.ObserveAnalysis(metrics.OutcomeInvalid, 0)
		return api.Error("radius must be a positive number of meters", http.StatusBadRequest)

	case errors.As(err, &invalidCenter):
		log.Warn().Err(err).Str("station_id", stationID).Msg("Station has invalid coordinates")
		h.metrics.ObserveAnalysis(metrics.OutcomeInvalid, 0)
		return api.Error("station has invalid coordinates", http.StatusBadRequest)

	case errors.Is(err, context.DeadlineExceeded):
		log.Warn().Err(err).Str("station_id", stationID).Int("radius", radius).Msg("Analysis timed out")
		h.metrics.ObserveAnalysis(metrics.OutcomeTimeout, 0)
		return api.Error("request timed out", http.StatusGatewayTimeout)

	case errors.As(err, &downstream):
		log.Error().Err(downstream.Err).
			Str("stage", string(downstream.Stage)).
			Str("station_id", stationID).
			Int("radius", radius).
			Msg("Store unavailable during analysis")
		h.metrics.ObserveAnalysis(metrics.OutcomeDownstream, 0)
		return api.Error("Error analysing station", http.StatusInternalServerError)

	default:
		log.Error().Err(err).Str("station_id", stationID).Int("radius", radius).Msg("Analysis failed")
		h.metrics.ObserveAnalysis(metrics.OutcomeInternal, 0)
		return api.Error("Error analysing station", http.StatusInternalServerError)
	}
}
