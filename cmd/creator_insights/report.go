package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/creator-analytics/internal/config"
	"github.com/jonathan/creator-analytics/internal/logger"
	"github.com/jonathan/creator-analytics/internal/metrics"
	"github.com/jonathan/creator-analytics/internal/observability"
	"github.com/jonathan/creator-analytics/internal/report"
	"github.com/jonathan/creator-analytics/internal/trends"
	"github.com/jonathan/creator-analytics/internal/types"
)

func newReportCmd() *cobra.Command {
	var (
		opts       config.FileConfig
		input      string
		output     string
		demo       bool
		asJSON     bool
		withTrends bool
		promptOnly bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the six-section AI performance report",
		Long:  "Build the report prompt from posts, insights and optional trend context, ask the configured LLM, and print the report. When generation fails the static report is printed instead.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			defaults, err := fileDefaults(cmd)
			if err != nil {
				return err
			}
			opts = opts.MergeWithDefaults(defaults)

			posts, demoFollowers, err := loadPosts(cmd, input, demo)
			if err != nil {
				return err
			}
			if opts.Followers == 0 {
				opts.Followers = demoFollowers
			}
			if opts.Platform == "" && demo {
				opts.Platform = string(types.PlatformInstagram)
			}
			platform, err := types.ParsePlatform(opts.Platform)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.Timezone != "" {
				cfg.Insights.Timezone = opts.Timezone
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			in := report.Input{
				Platform:  platform,
				Username:  opts.Username,
				Niche:     opts.Niche,
				Followers: opts.Followers,
				Posts:     posts,
				Location:  loc,
			}

			if promptOnly {
				prompt, err := report.BuildPrompt(in)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", prompt.System, prompt.User)
				return err
			}

			log := logger.Get()
			svc := newServices(cmd.Context(), cfg, log)
			defer svc.Close()

			if withTrends {
				in.Trends = svc.trends.Fetch(cmd.Context(), trends.Request{
					Sources:    trends.AllSources,
					Hashtag:    opts.Hashtag,
					Subreddits: opts.Subreddits,
					Niche:      opts.Niche,
				})
			}

			rep, err := svc.reports.Generate(cmd.Context(), in)
			if err != nil {
				log.Warnw("Report generation failed; using static report", "error", err)
				metrics.RecordReportFallback()
				if rep, err = report.Fallback(time.Now()); err != nil {
					return err
				}
			}

			if asJSON || output != "" {
				return writeJSON(cmd, output, rep)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintReport(rep)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to posts JSON, or - for stdin")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Write report JSON to this path")
	cmd.Flags().BoolVar(&demo, "demo", false, "Use the embedded demo account")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of formatted boxes")
	cmd.Flags().BoolVar(&withTrends, "trends", false, "Fetch trend context before generating")
	cmd.Flags().BoolVar(&promptOnly, "prompt-only", false, "Print the prompt without calling the LLM")
	cmd.Flags().StringVarP(&opts.Platform, "platform", "p", "", "Platform of the posts")
	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "Account handle")
	cmd.Flags().StringVar(&opts.Niche, "niche", "", "Account niche, e.g. \"Austin food\"")
	cmd.Flags().Int64Var(&opts.Followers, "followers", 0, "Follower count")
	cmd.Flags().StringVar(&opts.Hashtag, "hashtag", "", "Hashtag for trend context")
	cmd.Flags().StringSliceVar(&opts.Subreddits, "subreddit", nil, "Subreddits for trend context")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "IANA time zone for posting-time buckets")
	cmd.Flags().String("config", "", "Path to JSON defaults file")
	return cmd
}
