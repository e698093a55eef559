package main

import (
	"github.com/spf13/cobra"

	"github.com/yourtrip/intermodal/internal/api"
)

func newAnalyzeCmd() *cobra.Command {
	var radius int

	cmd := &cobra.Command{
		Use:   "analyze <station_id>",
		Short: "Print the transfer analysis for a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if !cmd.Flags().Changed("radius") {
				radius = cfg.DefaultRadius
			}

			a, err := openApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Analyzer.Analyze(cmd.Context(), args[0], radius)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().IntVarP(&radius, "radius", "r", 0, "Search radius in meters (defaults to DEFAULT_RADIUS)")
	return cmd
}

func newStationsCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "stations",
		Short: "List MRT stations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), loadConfig())
			if err != nil {
				return err
			}
			defer a.Close()

			stations, err := a.Catalog.List(cmd.Context(), query)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), api.StationsResponse{Stations: stations, Count: len(stations)})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Only stations whose name contains this text")
	return cmd
}
