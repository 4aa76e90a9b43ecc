package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/creator-analytics/internal/config"
	"github.com/jonathan/creator-analytics/internal/insights"
	"github.com/jonathan/creator-analytics/internal/normalize"
	"github.com/jonathan/creator-analytics/internal/observability"
	"github.com/jonathan/creator-analytics/internal/types"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		opts      config.FileConfig
		input     string
		output    string
		demo      bool
		asJSON    bool
		threshold int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Aggregate posting insights from normalized posts",
		Long:  "Compute best posting times, format and caption performance, content signals, hashtag and mention tables, collaborations and audio performance.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			defaults, err := fileDefaults(cmd)
			if err != nil {
				return err
			}
			opts = opts.MergeWithDefaults(defaults)

			posts, _, err := loadPosts(cmd, input, demo)
			if err != nil {
				return err
			}
			if opts.Followers > 0 {
				posts = withFollowers(posts, opts.Followers)
			}

			loc := time.UTC
			if opts.Timezone != "" {
				if loc, err = time.LoadLocation(opts.Timezone); err != nil {
					return fmt.Errorf("invalid --timezone: %w", err)
				}
			}

			result := insights.Aggregate(posts, insights.Options{Location: loc, CaptionThreshold: threshold})
			if asJSON || output != "" {
				return writeJSON(cmd, output, result)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintInsights(&result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to posts JSON, or - for stdin")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Write insights JSON to this path")
	cmd.Flags().BoolVar(&demo, "demo", false, "Analyze the embedded demo account")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of formatted boxes")
	cmd.Flags().Int64Var(&opts.Followers, "followers", 0, "Recompute engagement rates against this follower count")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "IANA time zone for posting-time buckets (default UTC)")
	cmd.Flags().IntVar(&threshold, "caption-threshold", 0, "Characters separating short and long captions")
	cmd.Flags().String("config", "", "Path to JSON defaults file")
	return cmd
}

// withFollowers returns a copy of posts with engagement rates recomputed for followers.
func withFollowers(posts []types.Post, followers int64) []types.Post {
	out := make([]types.Post, len(posts))
	for i, p := range posts {
		p.EngagementRate = normalize.EngagementRate(p.Metrics.Likes, p.Metrics.Comments, p.Metrics.SharesOrZero(), followers)
		out[i] = p
	}
	return out
}
