package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/creator-analytics/internal/config"
	"github.com/jonathan/creator-analytics/internal/logger"
	"github.com/jonathan/creator-analytics/internal/observability"
	"github.com/jonathan/creator-analytics/internal/trends"
)

func newTrendsCmd() *cobra.Command {
	var (
		source     string
		hashtag    string
		niche      string
		subreddits []string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Fetch trend sources with per-source demo fallback",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources, err := trends.ParseSources(source)
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			svc := newServices(cmd.Context(), cfg, logger.Get())
			defer svc.Close()

			result := svc.trends.Fetch(cmd.Context(), trends.Request{
				Sources:    sources,
				Hashtag:    hashtag,
				Subreddits: subreddits,
				Niche:      niche,
			})
			if asJSON {
				return writeJSON(cmd, "", result)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintTrends(result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "all", "instagram, reddit, tiktok, a comma list, or all")
	cmd.Flags().StringVar(&hashtag, "hashtag", "", "Instagram hashtag (defaults from --niche)")
	cmd.Flags().StringVar(&niche, "niche", "", "Niche used to derive the hashtag and subreddit")
	cmd.Flags().StringSliceVar(&subreddits, "subreddit", nil, "Subreddits to read")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of formatted boxes")
	return cmd
}
