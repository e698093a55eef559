package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yourtrip/intermodal/internal/app"
	"github.com/yourtrip/intermodal/internal/config"
)

// openApp builds the application for commands that talk to the store.
var openApp = func(ctx context.Context, cfg *config.Config) (*app.App, error) {
	return app.New(ctx, cfg)
}

func newRootCmd() *cobra.Command {
	var debugFlag bool

	rootCmd := &cobra.Command{
		Use:           "transitctl",
		Short:         "Intermodal transfer analysis for MRT stations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "v", false, "Enable debug logs")

	rootCmd.AddCommand(
		newServeCmd(),
		newAnalyzeCmd(),
		newStationsCmd(),
		newFetchCmd(),
	)
	return rootCmd
}

// loadConfig reads the environment and sets up logging. The CLI always logs
// to stderr so command output stays machine readable.
func loadConfig() *config.Config {
	cfg := config.LoadFromEnv()
	cfg.InitializeLoggingTo(os.Stderr)
	return cfg
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
