package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonathan/creator-analytics/internal/fetch"
	"github.com/jonathan/creator-analytics/internal/metrics"
	"github.com/jonathan/creator-analytics/internal/normalize"
	"github.com/jonathan/creator-analytics/internal/types"
)

// DefaultBaseURL is the scraping provider's API root.
const DefaultBaseURL = "https://api.apify.com"

// Client runs scraper actors synchronously against the provider.
type Client struct {
	baseURL string
	token   string
	options *fetch.Options
}

// NewClient creates a scraper client. An empty baseURL uses DefaultBaseURL.
// An empty token is allowed here and reported as a *ConfigError on first use.
func NewClient(baseURL, token string, opts *fetch.Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		options: opts,
	}
}

// Configured reports whether the client has an API token.
func (c *Client) Configured() bool {
	return c != nil && c.token != ""
}

// Run invokes an actor and returns its dataset items.
// There is no retry and no pagination; callers cap the result themselves.
func (c *Client) Run(ctx context.Context, req Request) ([]normalize.Item, error) {
	if !c.Configured() {
		return nil, &ConfigError{Message: "APIFY_API_TOKEN is not set"}
	}
	if req.ActorID == "" {
		return nil, &ConfigError{Message: "actor id is required"}
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, url.PathEscape(req.ActorID), url.QueryEscape(c.token))

	result, err := fetch.JSON(ctx, http.MethodPost, endpoint, req.Input, c.options)
	if err != nil {
		metrics.RecordUpstream("scraper", err)
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) && fetchErr.StatusCode > 0 {
			return nil, &ProviderError{
				ActorID:    req.ActorID,
				StatusCode: fetchErr.StatusCode,
				Body:       fetchErr.Body,
			}
		}
		return nil, &ProviderError{ActorID: req.ActorID, Cause: err}
	}

	items, err := normalize.DecodeItems(result.Body)
	if err != nil {
		parseErr := &ParseError{ActorID: req.ActorID, Cause: err}
		metrics.RecordUpstream("scraper", parseErr)
		return nil, parseErr
	}

	metrics.RecordUpstream("scraper", nil)
	return items, nil
}

// FetchPosts runs the platform's profile actor for target and returns at most limit raw items.
func (c *Client) FetchPosts(ctx context.Context, platform types.Platform, target string, limit int) ([]normalize.Item, error) {
	if !c.Configured() {
		return nil, &ConfigError{Message: "APIFY_API_TOKEN is not set"}
	}

	req, err := BuildRequest(platform, target, limit)
	if err != nil {
		return nil, err
	}

	items, err := c.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultResultLimit
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
