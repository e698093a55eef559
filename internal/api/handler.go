package api

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type StationsResponse struct {
	Stations any `json:"stations"`
	Count    int `json:"count"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	return JSON(http.StatusOK, body)
}

// JSON encodes body with the given status code.
func JSON(statusCode int, body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders(),
		Body:       string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(ErrorResponse{Error: message})

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders(),
		Body:       string(body),
	}, nil
}

// RadiusLimits bounds the radius accepted at the HTTP boundary.
type RadiusLimits struct {
	Default int
	Min     int
	Max     int
}

// Parameter parsing helpers

// ParseRadius reads the "radius" parameter. Missing or unparseable values
// fall back to the default. Non-positive values are returned unchanged so
// the analyzer can reject them; anything else is clamped to [Min, Max].
func ParseRadius(params map[string]string, limits RadiusLimits) int {
	raw, ok := params["radius"]
	if !ok || strings.TrimSpace(raw) == "" {
		return limits.Default
	}

	radius, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return limits.Default
		}
		radius = int(f)
		if f > 0 && radius == 0 {
			radius = 1
		}
	}

	if radius <= 0 {
		return radius
	}
	if limits.Min > 0 && radius < limits.Min {
		return limits.Min
	}
	if limits.Max > 0 && radius > limits.Max {
		return limits.Max
	}
	return radius
}

// StationID returns the trimmed "station_id" parameter.
func StationID(params map[string]string) (string, bool) {
	id := strings.TrimSpace(params["station_id"])
	return id, id != ""
}
