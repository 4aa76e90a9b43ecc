package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/creator-analytics/internal/config"
	"github.com/jonathan/creator-analytics/internal/fixtures"
	"github.com/jonathan/creator-analytics/internal/types"
)

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

// writeJSON writes v indented to path, or to the command's stdout when path is empty.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// loadPosts reads a JSON array of posts, or the embedded demo account when demo is set.
// The second return value is the demo follower count, zero otherwise.
func loadPosts(cmd *cobra.Command, path string, demo bool) ([]types.Post, int64, error) {
	if demo {
		account, err := fixtures.Account()
		if err != nil {
			return nil, 0, err
		}
		return account.Posts, account.Followers, nil
	}
	if path == "" {
		return nil, 0, fmt.Errorf("--input is required (or use --demo)")
	}

	data, err := readInput(cmd, path)
	if err != nil {
		return nil, 0, err
	}
	var posts []types.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, 0, fmt.Errorf("input is not a JSON array of posts: %w", err)
	}
	return posts, 0, nil
}

// fileDefaults loads the --config file and validates it. No flag means no defaults.
func fileDefaults(cmd *cobra.Command) (config.FileConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.FileConfig{}, nil
	}
	fc, err := config.LoadFile(path)
	if err != nil {
		return config.FileConfig{}, err
	}
	if err := fc.Validate(); err != nil {
		return config.FileConfig{}, err
	}
	return *fc, nil
}
