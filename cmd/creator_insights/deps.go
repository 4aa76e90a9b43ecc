package main

import (
	"context"

	"github.com/jonathan/creator-analytics/internal/config"
	"github.com/jonathan/creator-analytics/internal/llm"
	"github.com/jonathan/creator-analytics/internal/logger"
	"github.com/jonathan/creator-analytics/internal/report"
	"github.com/jonathan/creator-analytics/internal/scraper"
	"github.com/jonathan/creator-analytics/internal/trends"
)

// services are the clients shared by serve, report and trends.
type services struct {
	scraper *scraper.Client
	trends  *trends.Service
	reports *report.Generator
	llm     llm.Client
}

// newServices wires clients from cfg. A missing LLM key is not fatal here:
// the generator reports a configuration error when it is used.
func newServices(ctx context.Context, cfg *config.Config, log *logger.Logger) *services {
	sc := scraper.NewClient(cfg.Scraper.BaseURL, cfg.Scraper.APIToken, nil)
	if !sc.Configured() {
		log.Warn("APIFY_API_TOKEN is not set; live posts fail and trends fall back to demo data")
	}

	svc := &services{
		scraper: sc,
		trends: trends.NewService(sc, trends.NewRedditClient(cfg.Reddit.BaseURL, nil), trends.Options{
			Subreddits: cfg.Reddit.Subreddits,
			Country:    cfg.Scraper.Country,
			Limit:      cfg.Scraper.ResultLimit,
			Logger:     log.With("component", "trends"),
		}),
	}

	llmCfg, key := cfg.LLMClientConfig()
	client, err := llm.NewClient(ctx, llmCfg, key)
	if err != nil {
		log.Warnw("LLM client unavailable; reports will use the static fallback", "provider", llmCfg.Provider, "error", err)
		svc.reports = report.NewGenerator(nil)
		return svc
	}
	svc.llm = client
	svc.reports = report.NewGenerator(client).WithTier(cfg.LLMTier())
	return svc
}

func (s *services) Close() {
	if s.llm != nil {
		_ = s.llm.Close()
	}
}
