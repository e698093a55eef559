package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
)

// LambdaHandler is the API Gateway handler shape shared with the Lambda
// entry points.
type LambdaHandler func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Adapt serves an API Gateway style handler over net/http.
func Adapt(h LambdaHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h(r.Context(), toProxyRequest(r))
		if err != nil {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("Handler returned an error")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
			return
		}
		writeProxyResponse(w, resp)
	}
}

func toProxyRequest(r *http.Request) events.APIGatewayProxyRequest {
	query := r.URL.Query()
	single := make(map[string]string, len(query))
	for k, v := range query {
		if len(v) > 0 {
			single[k] = v[0]
		}
	}

	headers := make(map[string]string, len(r.Header))
	for k, v := range r.Header {
		headers[k] = strings.Join(v, ",")
	}

	return events.APIGatewayProxyRequest{
		HTTPMethod:                      r.Method,
		Path:                            r.URL.Path,
		Headers:                         headers,
		MultiValueHeaders:               r.Header,
		QueryStringParameters:           single,
		MultiValueQueryStringParameters: query,
	}
}

func writeProxyResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	for k, values := range resp.MultiValueHeaders {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			log.Error().Err(err).Msg("Invalid base64 response body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = decoded
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
