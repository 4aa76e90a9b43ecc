package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/creator-analytics/internal/normalize"
	"github.com/jonathan/creator-analytics/internal/types"
)

func newNormalizeCmd() *cobra.Command {
	var (
		platform  string
		input     string
		output    string
		followers int64
	)

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize raw scraper items into canonical posts",
		Long:  "Read a JSON array of raw scraper dataset items and write the canonical posts with coerced metrics and engagement rates.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := types.ParsePlatform(platform)
			if err != nil {
				return err
			}

			data, err := readInput(cmd, input)
			if err != nil {
				return err
			}
			items, err := normalize.DecodeItems(data)
			if err != nil {
				return fmt.Errorf("input is not a JSON array of items: %w", err)
			}

			posts := normalize.New(followers).NormalizeBatch(p, items)
			if posts == nil {
				posts = []types.Post{}
			}
			return writeJSON(cmd, output, posts)
		},
	}
	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Platform the items came from (tiktok, instagram, youtube, twitter, linkedin)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to raw items JSON, or - for stdin")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output path (default stdout)")
	cmd.Flags().Int64Var(&followers, "followers", 0, "Follower count for engagement rates")
	_ = cmd.MarkFlagRequired("platform")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
