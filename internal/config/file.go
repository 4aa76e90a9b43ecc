package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/creator-analytics/internal/types"
)

// FileConfig holds CLI defaults that can be loaded from a JSON file.
// All fields are optional; CLI flags override whatever is set here.
type FileConfig struct {
	// Account
	Platform  string `json:"platform,omitempty"`  // tiktok, instagram, youtube, twitter or linkedin
	Username  string `json:"username,omitempty"`  // Handle or profile URL
	Followers int64  `json:"followers,omitempty"` // Follower count used for engagement rates
	Niche     string `json:"niche,omitempty"`     // Free-text niche, e.g. "Austin food"

	// Trends
	Hashtag    string   `json:"hashtag,omitempty"`
	Subreddits []string `json:"subreddits,omitempty"`

	// Behavior
	Limit    int    `json:"limit,omitempty"`    // Maximum posts to fetch
	Timezone string `json:"timezone,omitempty"` // IANA zone for posting-time buckets
	Verbose  bool   `json:"verbose,omitempty"`  // Print detailed debug information
}

// LoadFile loads configuration from a JSON file.
func LoadFile(path string) (*FileConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configured values are usable.
func (c *FileConfig) Validate() error {
	if c.Platform != "" {
		if _, err := types.ParsePlatform(c.Platform); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if c.Followers < 0 {
		return fmt.Errorf("config error: 'followers' must be non-negative")
	}
	if c.Limit < 0 {
		return fmt.Errorf("config error: 'limit' must be non-negative")
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("config error: invalid timezone %q", c.Timezone)
		}
	}
	return nil
}

// MergeWithDefaults returns a new FileConfig with empty fields filled from defaults.
func (c *FileConfig) MergeWithDefaults(defaults FileConfig) FileConfig {
	result := *c

	if result.Platform == "" {
		result.Platform = defaults.Platform
	}
	if result.Username == "" {
		result.Username = defaults.Username
	}
	if result.Niche == "" {
		result.Niche = defaults.Niche
	}
	if result.Hashtag == "" {
		result.Hashtag = defaults.Hashtag
	}
	if result.Timezone == "" {
		result.Timezone = defaults.Timezone
	}
	if len(result.Subreddits) == 0 {
		result.Subreddits = defaults.Subreddits
	}
	if result.Followers == 0 {
		result.Followers = defaults.Followers
	}
	if result.Limit == 0 {
		result.Limit = defaults.Limit
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
