package trends

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/jonathan/creator-analytics/internal/fetch"
	"github.com/jonathan/creator-analytics/internal/fixtures"
	"github.com/jonathan/creator-analytics/internal/logger"
	"github.com/jonathan/creator-analytics/internal/metrics"
	"github.com/jonathan/creator-analytics/internal/normalize"
	"github.com/jonathan/creator-analytics/internal/scraper"
	"github.com/jonathan/creator-analytics/internal/types"
	"golang.org/x/sync/errgroup"
)

// Source names a trend feed.
type Source string

// Trend sources
const (
	SourceInstagram Source = "instagram"
	SourceReddit    Source = "reddit"
	SourceTikTok    Source = "tiktok"
)

// AllSources lists every trend source in response order.
var AllSources = []Source{SourceInstagram, SourceReddit, SourceTikTok}

// DefaultSubreddit is used when neither the request, the service nor the niche names one.
const DefaultSubreddit = "socialmedia"

const redditTopLimit = 10

// ParseSources parses "all" or a comma-separated list of source names.
// Duplicates are dropped and the result keeps AllSources order.
func ParseSources(s string) ([]Source, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return append([]Source(nil), AllSources...), nil
	}

	want := make(map[Source]bool)
	for _, part := range strings.Split(s, ",") {
		src := Source(strings.TrimSpace(part))
		switch src {
		case SourceInstagram, SourceReddit, SourceTikTok:
			want[src] = true
		case "all":
			return append([]Source(nil), AllSources...), nil
		default:
			return nil, fmt.Errorf("unknown trend source %q", part)
		}
	}

	var out []Source
	for _, src := range AllSources {
		if want[src] {
			out = append(out, src)
		}
	}
	return out, nil
}

// Request selects the sources and topics to fetch.
type Request struct {
	Sources    []Source
	Hashtag    string
	Subreddits []string
	Niche      string
}

// Status marks whether a source's data is live or demo fallback.
type Status struct {
	Fallback bool   `json:"fallback"`
	Error    string `json:"error,omitempty"`
}

// InstagramResult holds hashtag statistics and top posts.
type InstagramResult struct {
	Status
	Stats types.HashtagStats  `json:"stats"`
	Posts []types.HashtagPost `json:"posts"`
}

// RedditResult holds top subreddit posts.
type RedditResult struct {
	Status
	Posts []types.RedditTrend `json:"posts"`
}

// TikTokResult holds trending products.
type TikTokResult struct {
	Status
	Products []types.TikTokTrend `json:"products"`
}

// Result is the combined trend response. Unrequested sources are nil.
type Result struct {
	Instagram *InstagramResult `json:"instagram,omitempty"`
	Reddit    *RedditResult    `json:"reddit,omitempty"`
	TikTok    *TikTokResult    `json:"tiktok,omitempty"`
}

// ActorRunner runs a scraper actor. *scraper.Client satisfies it.
type ActorRunner interface {
	Run(ctx context.Context, req scraper.Request) ([]normalize.Item, error)
}

// Options configures a Service.
type Options struct {
	// Subreddits are used when a request names none.
	Subreddits []string
	// Country is the TikTok commerce market.
	Country string
	// Limit caps hashtag posts and products per source.
	Limit  int
	Logger *logger.Logger
}

// Service fetches trend sources concurrently with per-source fallback.
type Service struct {
	runner ActorRunner
	reddit *RedditClient
	opts   Options
}

// NewService creates a trend service.
func NewService(runner ActorRunner, reddit *RedditClient, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logger.Get()
	}
	if opts.Limit <= 0 {
		opts.Limit = scraper.DefaultResultLimit
	}
	if reddit == nil {
		reddit = NewRedditClient("", nil)
	}
	return &Service{runner: runner, reddit: reddit, opts: opts}
}

// Fetch retrieves every requested source. A failing source is replaced by its
// demo data with Fallback set; it never fails or cancels the other sources.
func (s *Service) Fetch(ctx context.Context, req Request) *Result {
	sources := req.Sources
	if len(sources) == 0 {
		sources = AllSources
	}

	result := &Result{}
	var g errgroup.Group
	for _, src := range sources {
		switch src {
		case SourceInstagram:
			g.Go(func() error {
				result.Instagram = s.instagram(ctx, req)
				return nil
			})
		case SourceReddit:
			g.Go(func() error {
				result.Reddit = s.redditTrends(ctx, req)
				return nil
			})
		case SourceTikTok:
			g.Go(func() error {
				result.TikTok = s.tiktok(ctx)
				return nil
			})
		}
	}
	_ = g.Wait()
	return result
}

func (s *Service) instagram(ctx context.Context, req Request) *InstagramResult {
	hashtag := scraper.CleanHashtag(req.Hashtag)
	if hashtag == "" {
		hashtag = nicheTag(req.Niche)
	}

	out, err := func() (*InstagramResult, error) {
		if s.runner == nil {
			return nil, errors.New("scraper is not configured")
		}
		if hashtag == "" {
			return nil, errors.New("hashtag or niche is required")
		}
		statsItems, err := s.runner.Run(ctx, scraper.HashtagStatsRequest(hashtag))
		if err != nil {
			return nil, err
		}
		postItems, err := s.runner.Run(ctx, scraper.HashtagPostsRequest(hashtag, s.opts.Limit))
		if err != nil {
			return nil, err
		}

		stats := types.HashtagStats{Hashtag: hashtag, Trend: types.TrendStable, RelatedHashtags: []string{}}
		if len(statsItems) > 0 {
			stats = NormalizeHashtagStats(statsItems[0])
			if stats.Hashtag == "" {
				stats.Hashtag = hashtag
			}
		}
		posts := NormalizeHashtagPosts(hashtag, postItems)
		if len(posts) > s.opts.Limit {
			posts = posts[:s.opts.Limit]
		}
		return &InstagramResult{Stats: stats, Posts: posts}, nil
	}()
	if err == nil {
		return out
	}

	s.fallback(SourceInstagram, err)
	demo := &InstagramResult{Status: Status{Fallback: true, Error: err.Error()}, Posts: []types.HashtagPost{}}
	if data, ferr := fixtures.Trends(); ferr == nil {
		demo.Stats = data.HashtagStats
		demo.Posts = append(demo.Posts, data.HashtagPosts...)
	}
	return demo
}

func (s *Service) redditTrends(ctx context.Context, req Request) *RedditResult {
	subs := req.Subreddits
	if len(subs) == 0 {
		subs = s.opts.Subreddits
	}
	if len(subs) == 0 {
		if tag := nicheTag(req.Niche); tag != "" {
			subs = []string{tag}
		} else {
			subs = []string{DefaultSubreddit}
		}
	}

	var (
		posts   []types.RedditTrend
		lastErr error
	)
	for _, sub := range subs {
		top, err := s.reddit.Top(ctx, sub, redditTopLimit)
		if err != nil {
			lastErr = err
			continue
		}
		posts = append(posts, top...)
	}
	if lastErr == nil || len(posts) > 0 {
		sort.SliceStable(posts, func(i, j int) bool { return posts[i].Upvotes > posts[j].Upvotes })
		if len(posts) > redditTopLimit {
			posts = posts[:redditTopLimit]
		}
		if posts == nil {
			posts = []types.RedditTrend{}
		}
		return &RedditResult{Posts: posts}
	}

	s.fallback(SourceReddit, lastErr)
	demo := &RedditResult{Status: Status{Fallback: true, Error: lastErr.Error()}, Posts: []types.RedditTrend{}}
	if data, ferr := fixtures.Trends(); ferr == nil {
		demo.Posts = append(demo.Posts, data.Reddit...)
	}
	return demo
}

func (s *Service) tiktok(ctx context.Context) *TikTokResult {
	var (
		items []normalize.Item
		err   error
	)
	if s.runner == nil {
		err = errors.New("scraper is not configured")
	} else {
		items, err = s.runner.Run(ctx, scraper.TikTokProductsRequest(s.opts.Country, s.opts.Limit))
	}
	if err == nil {
		products := NormalizeTikTokTrends(items)
		if len(products) > s.opts.Limit {
			products = products[:s.opts.Limit]
		}
		return &TikTokResult{Products: products}
	}

	s.fallback(SourceTikTok, err)
	demo := &TikTokResult{Status: Status{Fallback: true, Error: err.Error()}, Products: []types.TikTokTrend{}}
	if data, ferr := fixtures.Trends(); ferr == nil {
		demo.Products = append(demo.Products, data.TikTok...)
	}
	return demo
}

func (s *Service) fallback(src Source, err error) {
	metrics.RecordTrendFallback(string(src))
	s.opts.Logger.Warnw("trend source failed, serving demo data", "source", src, "error", err)
}

// nicheTag turns a free-text niche such as "Austin Food" into "austinfood".
func nicheTag(niche string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(niche) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RedditClient reads Reddit's public JSON listings.
type RedditClient struct {
	baseURL string
	options *fetch.Options
}

// NewRedditClient creates a client. An empty baseURL uses www.reddit.com.
func NewRedditClient(baseURL string, opts *fetch.Options) *RedditClient {
	if baseURL == "" {
		baseURL = redditBaseURL
	}
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &RedditClient{baseURL: strings.TrimRight(baseURL, "/"), options: opts}
}

// Top returns the week's top posts in subreddit.
func (c *RedditClient) Top(ctx context.Context, subreddit string, limit int) ([]types.RedditTrend, error) {
	sub := strings.TrimPrefix(strings.TrimSpace(subreddit), "r/")
	if sub == "" {
		return nil, errors.New("subreddit is required")
	}
	endpoint := fmt.Sprintf("%s/r/%s/top.json?t=week&limit=%d", c.baseURL, url.PathEscape(sub), limit)

	result, err := fetch.JSON(ctx, http.MethodGet, endpoint, nil, c.options)
	if err != nil {
		metrics.RecordUpstream("reddit", err)
		return nil, fmt.Errorf("reddit r/%s: %w", sub, err)
	}

	listing, err := normalize.DecodeItem(result.Body)
	if err != nil {
		err = fmt.Errorf("reddit r/%s: invalid listing: %w", sub, err)
		metrics.RecordUpstream("reddit", err)
		return nil, err
	}
	metrics.RecordUpstream("reddit", nil)
	return NormalizeRedditListing(listing), nil
}
