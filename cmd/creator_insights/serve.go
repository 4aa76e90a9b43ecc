package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/creator-analytics/internal/config"
	"github.com/jonathan/creator-analytics/internal/logger"
	"github.com/jonathan/creator-analytics/internal/server"
	"github.com/jonathan/creator-analytics/internal/server/ratelimit"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  `Start an HTTP server exposing live posts, trends, insight aggregation and AI report endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.App.Port = port
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			log := logger.Get()
			svc := newServices(cmd.Context(), cfg, log)
			defer svc.Close()

			srv := server.New(server.Config{
				Port:        cfg.App.Port,
				CORSOrigin:  cfg.App.CORSOrigin,
				ResultLimit: cfg.Scraper.ResultLimit,
				Location:    loc,
				RateLimit:   ratelimit.NewConfig(cfg.RateLimit.Enabled, cfg.RateLimit.DefaultLimit, cfg.RateLimit.DefaultWindow, cfg.RateLimit.Whitelist),
			}, server.Deps{
				Posts:   svc.scraper,
				Trends:  svc.trends,
				Reports: svc.reports,
				Logger:  log.With("component", "server"),
			})

			if err := srv.Start(cmd.Context()); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides PORT)")
	return cmd
}
