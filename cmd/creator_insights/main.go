// Package main provides the creator_insights CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/creator-analytics/internal/logger"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "creator_insights",
		Short:         "Creator analytics: live post metrics, trends and AI reports",
		Long:          "creator_insights scrapes creator posts, normalizes platform metrics, aggregates posting insights and writes an AI performance report, from the command line or over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			env := os.Getenv("APP_ENV")
			if logLevel == "" {
				logLevel = os.Getenv("LOG_LEVEL")
			}
			return logger.Init(logLevel, env)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL")

	root.AddCommand(
		newServeCmd(),
		newNormalizeCmd(),
		newAnalyzeCmd(),
		newReportCmd(),
		newTrendsCmd(),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := newRootCmd().Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
