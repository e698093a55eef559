package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yourtrip/intermodal/internal/api"
	"github.com/yourtrip/intermodal/pkg/http/client"
)

func newFetchCmd() *cobra.Command {
	var (
		baseURL string
		radius  int
	)

	cmd := &cobra.Command{
		Use:   "fetch <station_id>",
		Short: "Query a deployed instance for a station's transfer analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			params := url.Values{}
			params.Set("station_id", args[0])
			if radius != 0 {
				params.Set("radius", strconv.Itoa(radius))
			}

			c := client.New(client.Options{
				BaseURL:    baseURL,
				Timeout:    cfg.HTTPTimeout,
				MaxRetries: cfg.MaxRetries,
			})
			resp, err := c.Get(cmd.Context(), "/api/intermodal?"+params.Encode())
			if err != nil {
				return fmt.Errorf("fetching analysis: %w", err)
			}

			if resp.StatusCode != http.StatusOK {
				var apiErr api.ErrorResponse
				if json.Unmarshal(resp.Body, &apiErr) == nil && apiErr.Error != "" {
					return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
				}
				return fmt.Errorf("server returned %d", resp.StatusCode)
			}

			var out bytes.Buffer
			if err := json.Indent(&out, resp.Body, "", "  "); err != nil {
				return fmt.Errorf("decoding response: %w", err)
			}
			out.WriteByte('\n')
			_, err = out.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "Base URL of the deployed API")
	cmd.Flags().IntVarP(&radius, "radius", "r", 0, "Search radius in meters (server default when omitted)")
	return cmd
}
